/* session.go
 * Contains the session manager, the single source of truth for "who is
 * logged in" per Discord user. Sessions persist across restarts in the
 * store; restore surfaces the cached profile immediately and refreshes it
 * from the server in the background so users never see a loading gap.
 */

package session

import (
	"context"
	"errors"
	"fmt"

	"cricket-bids-bot/api/gateway"
	"cricket-bids-bot/api/shared"
	"cricket-bids-bot/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileFetcher is the slice of the gateway the manager needs
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (shared.User, error)
}

// Session is an authenticated user as observed by the rest of the client.
// It is always fully populated; there is no partially-initialized session.
type Session struct {
	DiscordID string
	Token     string
	User      shared.User
}

type Manager struct {
	store store.Interface
	gw    ProfileFetcher
}

func NewManager(st store.Interface, gw ProfileFetcher) (*Manager, error) {
	if st == nil || gw == nil {
		return nil, fmt.Errorf("store and gateway are required")
	}
	return &Manager{store: st, gw: gw}, nil
}

// Restore loads the persisted session for a Discord user. The cached user
// is returned immediately; a background refresh then overwrites the cache
// on success and silently keeps the cached value on failure (offline), so
// the caller is never blocked on the network.
// Postconditions: Returns the session and true if one exists, false if the
// user has never logged in, or an error for store failures
func (m *Manager) Restore(ctx context.Context, discordID string) (Session, bool, error) {
	record, err := m.store.GetSession(discordID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}

	go func() {
		// The refresh outlives the triggering command on purpose
		_ = m.Refresh(context.WithoutCancel(ctx), discordID)
	}()

	return Session{DiscordID: discordID, Token: record.Token, User: record.User}, true, nil
}

// Refresh re-fetches the user profile and overwrites the cached copy. A
// dead token destroys the session; any other failure keeps the cache.
func (m *Manager) Refresh(ctx context.Context, discordID string) error {
	record, err := m.store.GetSession(discordID)
	if err != nil {
		return err
	}

	user, err := m.gw.Me(ctx, record.Token)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthenticated) {
			return m.store.DeleteSession(discordID)
		}
		return nil
	}
	return m.store.UpdateSessionUser(discordID, user)
}

// Current returns the persisted session without touching the network
func (m *Manager) Current(discordID string) (Session, bool, error) {
	record, err := m.store.GetSession(discordID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	return Session{DiscordID: discordID, Token: record.Token, User: record.User}, true, nil
}

// Login persists the token and user returned by the auth endpoints
func (m *Manager) Login(discordID string, auth shared.LoginResponse) (Session, error) {
	if auth.AccessToken == "" {
		return Session{}, fmt.Errorf("login response carried no access token")
	}
	if err := m.store.SaveSession(discordID, auth.AccessToken, auth.User); err != nil {
		return Session{}, err
	}
	return Session{DiscordID: discordID, Token: auth.AccessToken, User: auth.User}, nil
}

// Logout destroys the persisted session. Also used when any authenticated
// call reports the token invalid or expired.
func (m *Manager) Logout(discordID string) error {
	return m.store.DeleteSession(discordID)
}
