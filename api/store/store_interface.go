/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"

	"cricket-bids-bot/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	SaveSession(discordID string, token string, user shared.User) error
	GetSession(discordID string) (SessionRecord, error)
	UpdateSessionUser(discordID string, user shared.User) error
	DeleteSession(discordID string) error

	SaveLocalBid(discordID string, matchID int, selectedTeamID int) error
	GetLocalBid(discordID string, matchID int) (LocalBidRecord, error)
	DeleteLocalBid(discordID string, matchID int) error

	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
