/* models.go
 * This file contains the structs that relate to DB objects
 */

package store

import (
	"time"

	"cricket-bids-bot/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionRecord is the persisted session for one Discord user: the bearer
// token and the last profile the server returned. The cached user is what
// restore surfaces before any network refresh completes.
type SessionRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	DiscordID string             `bson:"discord_id"`
	Token     string             `bson:"token"`
	User      shared.User        `bson:"user"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// LocalBidRecord is an optimistic selection held client-side because the
// server could not confirm it (connectivity failure at submit time). It is
// preferred for display over "no confirmed bid known" and deleted as soon
// as the server acknowledges a bid for the same match.
type LocalBidRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	DiscordID      string             `bson:"discord_id"`
	MatchID        int                `bson:"match_id"`
	SelectedTeamID int                `bson:"selected_team_id"`
	RecordedAt     time.Time          `bson:"recorded_at"`
}
