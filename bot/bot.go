/* bot.go
 * Contains the Bot struct, command routing and the helpers shared between
 * handlers. The bot is the view layer: it parses commands, calls the API
 * facade and relays the resulting text. While a bid submission for a match
 * is in flight, further submissions for the same (user, match) pair are
 * refused so one user cannot race duplicate bids on one match.
 */

package bot

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cricket-bids-bot/api/api"
	"cricket-bids-bot/api/shared"

	"github.com/go-andiamo/splitter"
)

type Bot struct {
	BotToken string
	APIPtr   *api.API

	// AnnounceChannelID, when set, receives "bidding closed" notices as
	// match countdowns expire.
	AnnounceChannelID string

	mu       sync.Mutex
	inFlight map[string]struct{}

	// announce is the Discord session captured once Run has opened it, so
	// out-of-band events (result webhooks) can be relayed to the channel.
	announce DiscordSession
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		inFlight: make(map[string]struct{}),
	}, nil
}

// AnnounceResult posts a confirmed match result to the announcement channel
// Preconditions: Receives the match and the winning team id (nil for no-result)
// Postconditions: Sends a message to AnnounceChannelID, or does nothing if no
// channel is configured, the bot is not connected yet, or the event carried
// no match fixture to name
func (b *Bot) AnnounceResult(m shared.Match, winnerTeamID *int) {
	if b.announce == nil || b.AnnounceChannelID == "" {
		return
	}
	if m.ID == 0 {
		// Without the fixture there is nothing readable to announce
		return
	}

	var text string
	if winnerTeamID == nil {
		text = fmt.Sprintf("%s finished with no result, bid amounts have been refunded", m.Label())
	} else if team, ok := m.TeamByID(*winnerTeamID); ok {
		text = fmt.Sprintf("Result confirmed: %s won %s", team.Name, m.Label())
	} else {
		text = fmt.Sprintf("Result confirmed for %s", m.Label())
	}
	b.announce.ChannelMessageSend(b.AnnounceChannelID, text)
}

// beginSubmit marks a (user, match) submission as in flight. Returns false
// when one is already running, in which case the caller must not submit.
func (b *Bot) beginSubmit(userID string, matchID int) bool {
	key := fmt.Sprintf("%s:%d", userID, matchID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, busy := b.inFlight[key]; busy {
		return false
	}
	b.inFlight[key] = struct{}{}
	return true
}

func (b *Bot) endSubmit(userID string, matchID int) {
	key := fmt.Sprintf("%s:%d", userID, matchID)
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, key)
}

// parseArgs splits a command message into arguments, honouring quoted team
// names so "New Zealand" arrives as one argument, and drops the command
// word itself.
func parseArgs(content string) []string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	parts, err := spaceSplitter.Split(content)
	if err != nil || len(parts) == 0 {
		return nil
	}

	args := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		part = strings.Trim(part, "\"")
		part = strings.Trim(part, "“”")
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}

// parseMatchID reads a match id argument
func parseMatchID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a match id, use the number shown by $matches", arg)
	}
	return id, nil
}

// Helper function to check if a string starts with a given substring
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
