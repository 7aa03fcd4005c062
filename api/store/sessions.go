/* sessions.go
 * Contains the methods for interacting with the sessions collection
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cricket-bids-bot/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveSession stores or replaces the session record for a Discord user
// Preconditions: Receives the Discord user id, the bearer token and the user profile
// Postconditions: Upserts the session document, or returns an error if the operation was unsuccessful
func (s *Store) SaveSession(discordID string, token string, user shared.User) error {
	record := SessionRecord{
		DiscordID: discordID,
		Token:     token,
		User:      user,
		UpdatedAt: time.Now(),
	}

	filter := bson.M{"discord_id": discordID}
	update := bson.M{"$set": record}
	opts := options.Update().SetUpsert(true)

	if _, err := s.Collections.Sessions.UpdateOne(context.TODO(), filter, update, opts); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession does a DB lookup for a Discord user's session
// Preconditions: Receives the Discord user id
// Postconditions: Returns the session record if it exists, mongo.ErrNoDocuments
// if the user has never logged in, or a wrapped error for anything else
func (s *Store) GetSession(discordID string) (SessionRecord, error) {
	var record SessionRecord
	err := s.Collections.Sessions.FindOne(context.TODO(), bson.M{"discord_id": discordID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SessionRecord{}, err
		}
		return SessionRecord{}, fmt.Errorf("error fetching session from db: %w", err)
	}
	return record, nil
}

// UpdateSessionUser overwrites only the cached profile of an existing session.
// Used by the async refresh after restore; the token is left untouched.
func (s *Store) UpdateSessionUser(discordID string, user shared.User) error {
	filter := bson.M{"discord_id": discordID}
	update := bson.M{"$set": bson.M{"user": user, "updated_at": time.Now()}}

	if _, err := s.Collections.Sessions.UpdateOne(context.TODO(), filter, update); err != nil {
		return fmt.Errorf("failed to update cached user: %w", err)
	}
	return nil
}

// DeleteSession removes a Discord user's session on logout or token expiry.
// Deleting a session that does not exist is not an error.
func (s *Store) DeleteSession(discordID string) error {
	if _, err := s.Collections.Sessions.DeleteOne(context.TODO(), bson.M{"discord_id": discordID}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
