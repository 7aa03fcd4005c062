/* results.go
 * Contains the HTTP endpoint that receives result-confirmation events from
 * the bidding backend. A confirmed result means the match countdown (if
 * any) is stale; the handler cancels it and hands the event to the bot for
 * announcement.
 */

package web

import (
	"encoding/json"
	"log"
	"net/http"
)

// ResultWebhookHandler receives a confirmed match result from the backend
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Request
// Postconditions: Cancels the match's countdown and notifies the configured callback
func (s *Server) ResultWebhookHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var event ResultEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Println("failed to decode result webhook:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if event.MatchID <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	log.Printf("result webhook match=%d winner=%v\n", event.MatchID, event.WinnerTeamID)

	// A resolved match has no countdown left to run
	s.api.Countdown.Cancel(event.MatchID)

	if s.onResult != nil {
		// Kick async so a slow announcement cannot stall the webhook
		go s.onResult(event)
	}

	w.WriteHeader(http.StatusOK)
}
