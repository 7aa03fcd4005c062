/* api.go
 * This file contains the public entry points for interacting with this
 * package. The API struct ties the gateway, the persisted client state and
 * the session manager together; bot handlers should only ever call methods
 * from this package, not the sub packages directly.
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cricket-bids-bot/api/countdown"
	"cricket-bids-bot/api/gateway"
	"cricket-bids-bot/api/session"
	"cricket-bids-bot/api/shared"
	"cricket-bids-bot/api/store"
)

// ErrNotLoggedIn is returned by every operation that needs a session when
// the Discord user has none
var ErrNotLoggedIn = errors.New("you are not logged in. Use $login <username> <password> first")

// ErrAdminOnly is returned when a non-admin invokes an admin operation
var ErrAdminOnly = errors.New("this command is only available to admins")

// Gateway defines the remote operations the API consumes. *gateway.Client
// implements it; tests substitute a mock.
type Gateway interface {
	Login(ctx context.Context, username, password string) (shared.LoginResponse, error)
	Register(ctx context.Context, username, password, mobileNumber string) (shared.LoginResponse, error)
	Matches(ctx context.Context, token, series string) ([]shared.Match, error)
	TodayMatches(ctx context.Context, token string) ([]shared.Match, error)
	Teams(ctx context.Context, token string) ([]shared.Team, error)
	BidStats(ctx context.Context, token string) (shared.BidStats, error)
	Me(ctx context.Context, token string) (shared.User, error)
	DashboardStats(ctx context.Context, token string) (shared.DashboardStats, error)
	PlaceBid(ctx context.Context, token string, matchID, selectedTeamID int) (shared.Bid, error)
	BidForMatch(ctx context.Context, token string, matchID int) (shared.BidLookup, error)
	BidBreakdown(ctx context.Context, token string, matchID int) (shared.BidBreakdown, error)
	Leaderboard(ctx context.Context, token string) ([]shared.LeaderboardEntry, error)
	AdminUsers(ctx context.Context, token string) ([]shared.User, error)
	AdminSetUserActive(ctx context.Context, token string, userID int, active bool) (shared.User, error)
	AdminMatchResults(ctx context.Context, token string) (shared.MatchResults, error)
	AdminConfirmResult(ctx context.Context, token string, matchID int, winnerTeamID *int) error
}

// Ensure the real gateway satisfies the interface
var _ Gateway = (*gateway.Client)(nil)

// API provides the operations the bot handlers call
type API struct {
	Gateway   Gateway
	Store     store.Interface
	Sessions  *session.Manager
	Countdown *countdown.Arena

	// Location interprets the civil date/time on matches when lock state
	// has to be derived client-side. Defaults to the local zone.
	Location *time.Location

	// LockNotify, when set, is invoked once per match whose countdown
	// reaches zero while on display. The bot uses it to announce that
	// bidding has closed.
	LockNotify func(m shared.Match)
}

// NewAPI creates a new API instance from its collaborators
func NewAPI(gw Gateway, st store.Interface, arena *countdown.Arena) (*API, error) {
	if gw == nil || st == nil {
		return nil, fmt.Errorf("gateway and store are required")
	}
	sessions, err := session.NewManager(st, gw)
	if err != nil {
		return nil, err
	}
	if arena == nil {
		arena = countdown.New()
	}
	return &API{
		Gateway:   gw,
		Store:     st,
		Sessions:  sessions,
		Countdown: arena,
		Location:  time.Local,
	}, nil
}

// Register creates an account on the server and opens a session for the
// Discord user. Returns the logged-in session.
func (a *API) Register(ctx context.Context, discordID, username, password, mobileNumber string) (session.Session, error) {
	auth, err := a.Gateway.Register(ctx, username, password, mobileNumber)
	if err != nil {
		return session.Session{}, err
	}
	return a.Sessions.Login(discordID, auth)
}

// Login authenticates against the server and persists the session
func (a *API) Login(ctx context.Context, discordID, username, password string) (session.Session, error) {
	auth, err := a.Gateway.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, err
	}
	return a.Sessions.Login(discordID, auth)
}

// Logout destroys the Discord user's session
func (a *API) Logout(discordID string) error {
	return a.Sessions.Logout(discordID)
}

// CurrentUser returns the session's user, restored from the persisted
// cache with a background profile refresh.
func (a *API) CurrentUser(ctx context.Context, discordID string) (shared.User, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return shared.User{}, err
	}
	return sess.User, nil
}

// requireSession restores the session for a Discord user or fails with
// ErrNotLoggedIn
func (a *API) requireSession(ctx context.Context, discordID string) (session.Session, error) {
	sess, ok, err := a.Sessions.Restore(ctx, discordID)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to restore session: %w", err)
	}
	if !ok {
		return session.Session{}, ErrNotLoggedIn
	}
	return sess, nil
}

// requireAdmin restores the session and checks the admin flag client-side.
// The server enforces the real boundary; this only keeps the interface
// honest about what it offers.
func (a *API) requireAdmin(ctx context.Context, discordID string) (session.Session, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return session.Session{}, err
	}
	if !sess.User.IsAdmin {
		return session.Session{}, ErrAdminOnly
	}
	return sess, nil
}

// authFailed destroys the session when a call reports the token dead, so
// the next command tells the user to log in rather than failing again
func (a *API) authFailed(discordID string, err error) error {
	if errors.Is(err, gateway.ErrUnauthenticated) {
		_ = a.Sessions.Logout(discordID)
	}
	return err
}

func (a *API) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}
