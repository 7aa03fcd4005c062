/* local_bids.go
 * Contains the methods for interacting with the local_bids collection.
 * Local bids are the optimistic fallback path: when a submission cannot
 * reach the server the selection is held here so the user still sees what
 * they picked.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveLocalBid stores or replaces the locally-held selection for a (user, match) pair
// Preconditions: Receives the Discord user id, match id and selected team id
// Postconditions: Upserts the local bid document, or returns an error if the operation was unsuccessful
func (s *Store) SaveLocalBid(discordID string, matchID int, selectedTeamID int) error {
	record := LocalBidRecord{
		DiscordID:      discordID,
		MatchID:        matchID,
		SelectedTeamID: selectedTeamID,
		RecordedAt:     time.Now(),
	}

	filter := bson.M{"discord_id": discordID, "match_id": matchID}
	update := bson.M{"$set": record}
	opts := options.Update().SetUpsert(true)

	if _, err := s.Collections.LocalBids.UpdateOne(context.TODO(), filter, update, opts); err != nil {
		return fmt.Errorf("failed to save local bid: %w", err)
	}
	return nil
}

// GetLocalBid does a DB lookup for the locally-held selection on a match
// Preconditions: Receives the Discord user id and match id
// Postconditions: Returns the local bid record if it exists, mongo.ErrNoDocuments
// if there is none, or a wrapped error for anything else
func (s *Store) GetLocalBid(discordID string, matchID int) (LocalBidRecord, error) {
	var record LocalBidRecord
	err := s.Collections.LocalBids.FindOne(context.TODO(), bson.M{"discord_id": discordID, "match_id": matchID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return LocalBidRecord{}, err
		}
		return LocalBidRecord{}, fmt.Errorf("error fetching local bid from db: %w", err)
	}
	return record, nil
}

// DeleteLocalBid removes the locally-held selection once the server has
// acknowledged a bid for the match. Deleting a missing record is not an error.
func (s *Store) DeleteLocalBid(discordID string, matchID int) error {
	if _, err := s.Collections.LocalBids.DeleteOne(context.TODO(), bson.M{"discord_id": discordID, "match_id": matchID}); err != nil {
		return fmt.Errorf("failed to delete local bid: %w", err)
	}
	return nil
}
