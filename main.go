/* main.go
 * The "main" method for running the bot. For details about the bot see `readme.md`
 * Usage: go run main.go -base-url="<url>" [-addr=":8080"] [-announce-channel="<id>"] [-test=false]
 */

package main

import (
	"context"
	"flag"
	"log"
	"os"

	api "cricket-bids-bot/api/api"
	"cricket-bids-bot/api/countdown"
	"cricket-bids-bot/api/gateway"
	"cricket-bids-bot/api/store"
	"cricket-bids-bot/bot"
	"cricket-bids-bot/web"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	//Flags
	baseURLPtr := flag.String("base-url", os.Getenv("BIDS_API_BASE_URL"), "Base URL of the bidding backend, e.g. https://bids.example.com/api")
	dbNamePtr := flag.String("db", "cricket_bids", "Mongo database name used for sessions and locally held bids")
	addrPtr := flag.String("addr", ":8080", "Listen address for the result webhook server")
	announcePtr := flag.String("announce-channel", os.Getenv("ANNOUNCE_CHANNEL_ID"), "Discord channel id for lock and result announcements")
	testPtr := flag.String("test", "false", "Use main or test bot: takes true or false as argument")

	flag.Parse()

	useTestBot, err := convertStrToBool(*testPtr)
	if err != nil {
		log.Fatal("Invalid \"test\" flag. Should be true or false")
	}

	var discordToken string
	if useTestBot {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	} else { //Load production bot token
		discordToken = os.Getenv("DISCORD_PROD_TOKEN")
	}

	gw, err := gateway.NewClient(*baseURLPtr)
	if err != nil {
		log.Fatalf("failed to initialize gateway: %v", err)
	}

	st, err := store.NewStore(*dbNamePtr, os.Getenv("MONGO_PROD_URI"))
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer func() {
		if err = st.Client.Disconnect(context.TODO()); err != nil {
			panic(err)
		}
	}()

	apiPtr, err := api.NewAPI(gw, st, countdown.New())
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}

	b, err := bot.NewBot(discordToken, apiPtr)
	if err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}
	b.AnnounceChannelID = *announcePtr

	// The result webhook listener runs alongside the bot. Its callback hands
	// confirmed results to the bot for announcement.
	go func() {
		cfg := web.Config{
			Addr: *addrPtr,
			API:  apiPtr,
			OnResult: func(event web.ResultEvent) {
				b.AnnounceResult(event.Match, event.WinnerTeamID)
			},
		}
		if err := web.Start(cfg); err != nil {
			log.Println("webhook server stopped:", err)
		}
	}()

	if err := b.Run(); err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
