/* handlers.go
 * Contains the command handlers. Handlers accept the DiscordSession
 * interface rather than *discordgo.Session so they can be exercised in
 * tests with a mock; bot_runtime.go adapts the real session onto them.
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cricket-bids-bot/api/api"
	"cricket-bids-bot/api/gateway"

	"github.com/bwmarrin/discordgo"
)

// newMessageHandler routes messages to the appropriate handler.
// botUserID is the bot's own user id, to prevent self-responses.
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	if message.Author.ID == botUserID {
		return
	}

	ctx := context.Background()

	switch {
	case startsWith(message.Content, "$help"):
		b.helpHandler(session, message)

	case startsWith(message.Content, "$register"):
		b.registerHandler(ctx, session, message)

	case startsWith(message.Content, "$login"):
		b.loginHandler(ctx, session, message)

	case startsWith(message.Content, "$logout"):
		b.logoutHandler(session, message)

	case startsWith(message.Content, "$whoami"):
		b.whoamiHandler(ctx, session, message)

	case startsWith(message.Content, "$matches"):
		b.matchesHandler(ctx, session, message, false)

	case startsWith(message.Content, "$today"):
		b.matchesHandler(ctx, session, message, true)

	// $mybid must be routed before $bid shares its prefix
	case startsWith(message.Content, "$mybid"):
		b.myBidHandler(ctx, session, message)

	case startsWith(message.Content, "$bid"):
		b.bidHandler(ctx, session, message)

	case startsWith(message.Content, "$breakdown"):
		b.breakdownHandler(ctx, session, message)

	case startsWith(message.Content, "$quota"):
		b.quotaHandler(ctx, session, message)

	case startsWith(message.Content, "$stats"):
		b.statsHandler(ctx, session, message)

	case startsWith(message.Content, "$leaderboard"):
		b.leaderboardHandler(ctx, session, message)

	case startsWith(message.Content, "$teams"):
		b.teamsHandler(ctx, session, message)

	case startsWith(message.Content, "$users"):
		b.usersHandler(ctx, session, message)

	case startsWith(message.Content, "$deactivate"):
		b.setActiveHandler(ctx, session, message, false)

	case startsWith(message.Content, "$activate"):
		b.setActiveHandler(ctx, session, message, true)

	case startsWith(message.Content, "$results"):
		b.resultsHandler(ctx, session, message)

	case startsWith(message.Content, "$confirm"):
		b.confirmHandler(ctx, session, message)
	}
}

// reply sends text back to the channel the command came from, collapsing
// errors into their user-facing message
func (b *Bot) reply(session DiscordSession, message *discordgo.MessageCreate, text string, err error) {
	if err != nil {
		text = err.Error()
		if !errors.Is(err, api.ErrNotLoggedIn) && !errors.Is(err, api.ErrAdminOnly) &&
			!errors.Is(err, gateway.ErrUnreachable) && !errors.Is(err, gateway.ErrUnauthenticated) {
			log.Println(err)
		}
	}
	session.ChannelMessageSend(message.ChannelID, text)
}

// helpHandler handles the $help command
func (b *Bot) helpHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Cricket Bids Bot\n")
	res.WriteString("`$register <username> <password> [mobile]`: create an account and log in\n")
	res.WriteString("`$login <username> <password>`: log in (prefer a DM for this one)\n")
	res.WriteString("`$logout`: log out\n")
	res.WriteString("`$matches`: all matches with lock state and countdowns. `$today` shows only today's\n")
	res.WriteString("`$bid <match> <team>`: bid on a match, e.g. `$bid 12 \"New Zealand\"`. One bid per match; you can change it until the match starts\n")
	res.WriteString("`$mybid <match>`: the status of your bid on a match\n")
	res.WriteString("`$breakdown <match>`: who bid on each side\n")
	res.WriteString("`$quota`: your remaining bids per round (league/semi/final)\n")
	res.WriteString("`$stats`: your wins, losses and pending bids\n")
	res.WriteString("`$leaderboard`: the standings\n")
	res.WriteString("`$teams`: the teams in the tournament\n")
	res.WriteString("Admins also get `$users`, `$deactivate <username>`, `$activate <username>`, `$results` and `$confirm <match> <team|none>`\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// registerHandler handles the $register command
func (b *Bot) registerHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args := parseArgs(message.Content)
	if len(args) < 2 {
		b.reply(session, message, "Usage: $register <username> <password> [mobile]", nil)
		return
	}
	mobile := ""
	if len(args) > 2 {
		mobile = args[2]
	}

	sess, err := b.APIPtr.Register(ctx, message.Author.ID, args[0], args[1], mobile)
	if err != nil {
		b.reply(session, message, "", err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Welcome %s, your account is ready and you are logged in", sess.User.Username), nil)
}

// loginHandler handles the $login command
func (b *Bot) loginHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args := parseArgs(message.Content)
	if len(args) != 2 {
		b.reply(session, message, "Usage: $login <username> <password>", nil)
		return
	}

	sess, err := b.APIPtr.Login(ctx, message.Author.ID, args[0], args[1])
	if err != nil {
		b.reply(session, message, "", err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Logged in as %s", sess.User.Username), nil)
}

// logoutHandler handles the $logout command
func (b *Bot) logoutHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if err := b.APIPtr.Logout(message.Author.ID); err != nil {
		b.reply(session, message, "", err)
		return
	}
	b.reply(session, message, "You are logged out", nil)
}

// whoamiHandler handles the $whoami command
func (b *Bot) whoamiHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	user, err := b.APIPtr.CurrentUser(ctx, message.Author.ID)
	if err != nil {
		b.reply(session, message, "", err)
		return
	}
	role := ""
	if user.IsAdmin {
		role = " (admin)"
	}
	b.reply(session, message, fmt.Sprintf("You are logged in as %s%s", user.Username, role), nil)
}

// matchesHandler handles the $matches and $today commands
func (b *Bot) matchesHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, todayOnly bool) {
	args := parseArgs(message.Content)
	series := ""
	if !todayOnly && len(args) > 0 {
		series = args[0]
	}

	res, err := b.APIPtr.MatchOverview(ctx, message.Author.ID, series, todayOnly)
	b.reply(session, message, res, err)
}

// bidHandler handles the $bid command
func (b *Bot) bidHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args := parseArgs(message.Content)
	if len(args) < 2 {
		b.reply(session, message, "Usage: $bid <match> <team>, e.g. $bid 12 \"New Zealand\"", nil)
		return
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		b.reply(session, message, "", err)
		return
	}
	teamInput := strings.Join(args[1:], " ")

	// One submission per match per user at a time
	if !b.beginSubmit(message.Author.ID, matchID) {
		b.reply(session, message, "Your previous bid on this match is still being submitted, hold on", nil)
		return
	}
	defer b.endSubmit(message.Author.ID, matchID)

	res, err := b.APIPtr.PlaceBid(ctx, message.Author.ID, matchID, teamInput)
	b.reply(session, message, res, err)
}

// myBidHandler handles the $mybid command
func (b *Bot) myBidHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args := parseArgs(message.Content)
	if len(args) != 1 {
		b.reply(session, message, "Usage: $mybid <match>", nil)
		return
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		b.reply(session, message, "", err)
		return
	}

	res, err := b.APIPtr.BidReport(ctx, message.Author.ID, matchID)
	b.reply(session, message, res, err)
}

// breakdownHandler handles the $breakdown command
func (b *Bot) breakdownHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args := parseArgs(message.Content)
	if len(args) != 1 {
		b.reply(session, message, "Usage: $breakdown <match>", nil)
		return
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		b.reply(session, message, "", err)
		return
	}

	res, err := b.APIPtr.BreakdownReport(ctx, message.Author.ID, matchID)
	b.reply(session, message, res, err)
}

// quotaHandler handles the $quota command
func (b *Bot) quotaHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.QuotaReport(ctx, message.Author.ID)
	b.reply(session, message, res, err)
}

// statsHandler handles the $stats command
func (b *Bot) statsHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.DashboardReport(ctx, message.Author.ID)
	b.reply(session, message, res, err)
}

// leaderboardHandler handles the $leaderboard command
func (b *Bot) leaderboardHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.LeaderboardReport(ctx, message.Author.ID)
	b.reply(session, message, res, err)
}

// teamsHandler handles the $teams command
func (b *Bot) teamsHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.TeamsReport(ctx, message.Author.ID)
	b.reply(session, message, res, err)
}

// usersHandler handles the admin $users command
func (b *Bot) usersHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.UsersReport(ctx, message.Author.ID)
	b.reply(session, message, res, err)
}

// setActiveHandler handles the admin $activate and $deactivate commands
func (b *Bot) setActiveHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, active bool) {
	args := parseArgs(message.Content)
	if len(args) != 1 {
		usage := "Usage: $deactivate <username>"
		if active {
			usage = "Usage: $activate <username>"
		}
		b.reply(session, message, usage, nil)
		return
	}

	res, err := b.APIPtr.SetUserActive(ctx, message.Author.ID, args[0], active)
	b.reply(session, message, res, err)
}

// resultsHandler handles the admin $results command
func (b *Bot) resultsHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.ResultsReport(ctx, message.Author.ID)
	b.reply(session, message, res, err)
}

// confirmHandler handles the admin $confirm command
func (b *Bot) confirmHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args := parseArgs(message.Content)
	if len(args) < 2 {
		b.reply(session, message, "Usage: $confirm <match> <team|none>", nil)
		return
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		b.reply(session, message, "", err)
		return
	}
	winner := strings.Join(args[1:], " ")

	if !b.beginSubmit(message.Author.ID, matchID) {
		b.reply(session, message, "A confirmation for this match is already in flight", nil)
		return
	}
	defer b.endSubmit(message.Author.ID, matchID)

	res, err := b.APIPtr.ConfirmResult(ctx, message.Author.ID, matchID, winner)
	b.reply(session, message, res, err)
}
