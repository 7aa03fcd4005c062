package web

import (
	"cricket-bids-bot/api/api"
	"cricket-bids-bot/api/shared"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *api.API

	// OnResult, when set, is invoked after a result event has been
	// applied, so the bot can announce the outcome.
	OnResult func(event ResultEvent)
}

// Server is the HTTP server that handles webhook requests
type Server struct {
	api      *api.API
	onResult func(event ResultEvent)
}

// ResultEvent is the payload the backend posts when a match result has
// been confirmed. A nil winner means the match was confirmed as no-result.
type ResultEvent struct {
	MatchID      int          `json:"match_id"`
	WinnerTeamID *int         `json:"winner_team_id"`
	Match        shared.Match `json:"match,omitempty"`
}
