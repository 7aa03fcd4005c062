//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session
 * directly. Delegates to the testable handlers in handlers.go.
 */

package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"cricket-bids-bot/api/shared"

	"github.com/bwmarrin/discordgo"
)

// Run starts the Discord bot and listens for messages until interrupted
func (b *Bot) Run() error {
	// create a session
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}

	// add an event handler
	discord.AddHandler(b.newMessage)

	// open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer discord.Close() // close session, after function termination
	b.announce = discord

	// lock transitions observed by the countdown arena get announced once
	if b.AnnounceChannelID != "" {
		b.APIPtr.LockNotify = func(m shared.Match) {
			discord.ChannelMessageSend(b.AnnounceChannelID, fmt.Sprintf("Bidding closed for %s, the match has started", m.Label()))
		}
	}

	// keep bot running until there is an os interruption (ctrl + C)
	log.Println("Cricket Bids Bot started")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	b.APIPtr.Countdown.Stop()
	return nil
}

// newMessage delegates to the testable newMessageHandler.
// *discordgo.Session implements the DiscordSession interface.
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
