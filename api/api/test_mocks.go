/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 */

package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cricket-bids-bot/api/shared"
	"cricket-bids-bot/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockGateway implements the Gateway interface for testing. Every remote
// operation returns the scripted value or injected error, and counts its
// calls so tests can assert which requests were (not) made.
type MockGateway struct {
	// Scripted data
	LoginResult     shared.LoginResponse
	MatchList       []shared.Match
	TodayList       []shared.Match
	TeamList        []shared.Team
	Stats           shared.BidStats
	Profile         shared.User
	Dashboard       shared.DashboardStats
	PlacedBid       shared.Bid
	Lookup          shared.BidLookup
	Breakdown       shared.BidBreakdown
	LeaderboardList []shared.LeaderboardEntry
	Users           []shared.User
	UpdatedUser     shared.User
	Results         shared.MatchResults

	// Error injection for testing error paths
	LoginError         error
	RegisterError      error
	MatchesError       error
	TodayMatchesError  error
	TeamsError         error
	BidStatsError      error
	MeError            error
	DashboardError     error
	PlaceBidError      error
	BidForMatchError   error
	BidBreakdownError  error
	LeaderboardError   error
	AdminUsersError    error
	SetUserActiveError error
	MatchResultsError  error
	ConfirmError       error

	// Call counters
	PlaceBidCalls      int
	ConfirmCalls       int
	SetUserActiveCalls int

	// Arguments captured from the last relevant call
	LastPlacedTeamID int
	LastConfirmedID  int
	LastWinnerTeamID *int
	LastSetActive    bool
	LastSetUserID    int
}

func (g *MockGateway) Login(ctx context.Context, username, password string) (shared.LoginResponse, error) {
	if g.LoginError != nil {
		return shared.LoginResponse{}, g.LoginError
	}
	return g.LoginResult, nil
}

func (g *MockGateway) Register(ctx context.Context, username, password, mobileNumber string) (shared.LoginResponse, error) {
	if g.RegisterError != nil {
		return shared.LoginResponse{}, g.RegisterError
	}
	return g.LoginResult, nil
}

func (g *MockGateway) Matches(ctx context.Context, token, series string) ([]shared.Match, error) {
	if g.MatchesError != nil {
		return nil, g.MatchesError
	}
	return g.MatchList, nil
}

func (g *MockGateway) TodayMatches(ctx context.Context, token string) ([]shared.Match, error) {
	if g.TodayMatchesError != nil {
		return nil, g.TodayMatchesError
	}
	return g.TodayList, nil
}

func (g *MockGateway) Teams(ctx context.Context, token string) ([]shared.Team, error) {
	if g.TeamsError != nil {
		return nil, g.TeamsError
	}
	return g.TeamList, nil
}

func (g *MockGateway) BidStats(ctx context.Context, token string) (shared.BidStats, error) {
	if g.BidStatsError != nil {
		return shared.BidStats{}, g.BidStatsError
	}
	return g.Stats, nil
}

func (g *MockGateway) Me(ctx context.Context, token string) (shared.User, error) {
	if g.MeError != nil {
		return shared.User{}, g.MeError
	}
	return g.Profile, nil
}

func (g *MockGateway) DashboardStats(ctx context.Context, token string) (shared.DashboardStats, error) {
	if g.DashboardError != nil {
		return shared.DashboardStats{}, g.DashboardError
	}
	return g.Dashboard, nil
}

func (g *MockGateway) PlaceBid(ctx context.Context, token string, matchID, selectedTeamID int) (shared.Bid, error) {
	g.PlaceBidCalls++
	g.LastPlacedTeamID = selectedTeamID
	if g.PlaceBidError != nil {
		return shared.Bid{}, g.PlaceBidError
	}
	return g.PlacedBid, nil
}

func (g *MockGateway) BidForMatch(ctx context.Context, token string, matchID int) (shared.BidLookup, error) {
	if g.BidForMatchError != nil {
		return shared.BidLookup{}, g.BidForMatchError
	}
	return g.Lookup, nil
}

func (g *MockGateway) BidBreakdown(ctx context.Context, token string, matchID int) (shared.BidBreakdown, error) {
	if g.BidBreakdownError != nil {
		return shared.BidBreakdown{}, g.BidBreakdownError
	}
	return g.Breakdown, nil
}

func (g *MockGateway) Leaderboard(ctx context.Context, token string) ([]shared.LeaderboardEntry, error) {
	if g.LeaderboardError != nil {
		return nil, g.LeaderboardError
	}
	return g.LeaderboardList, nil
}

func (g *MockGateway) AdminUsers(ctx context.Context, token string) ([]shared.User, error) {
	if g.AdminUsersError != nil {
		return nil, g.AdminUsersError
	}
	return g.Users, nil
}

func (g *MockGateway) AdminSetUserActive(ctx context.Context, token string, userID int, active bool) (shared.User, error) {
	g.SetUserActiveCalls++
	g.LastSetUserID = userID
	g.LastSetActive = active
	if g.SetUserActiveError != nil {
		return shared.User{}, g.SetUserActiveError
	}
	return g.UpdatedUser, nil
}

func (g *MockGateway) AdminMatchResults(ctx context.Context, token string) (shared.MatchResults, error) {
	if g.MatchResultsError != nil {
		return shared.MatchResults{}, g.MatchResultsError
	}
	return g.Results, nil
}

func (g *MockGateway) AdminConfirmResult(ctx context.Context, token string, matchID int, winnerTeamID *int) error {
	g.ConfirmCalls++
	g.LastConfirmedID = matchID
	g.LastWinnerTeamID = winnerTeamID
	return g.ConfirmError
}

// Ensure the mock satisfies the interface
var _ Gateway = (*MockGateway)(nil)

// MockStore implements store.Interface in memory for testing. Guarded by a
// mutex because session restore refreshes the cache from a goroutine.
type MockStore struct {
	mu        sync.Mutex
	Sessions  map[string]store.SessionRecord
	LocalBids map[string]store.LocalBidRecord

	// Error injection for testing error paths
	SaveSessionError  error
	GetSessionError   error
	SaveLocalBidError error
}

// NewMockStore creates a new MockStore with empty state
func NewMockStore() *MockStore {
	return &MockStore{
		Sessions:  make(map[string]store.SessionRecord),
		LocalBids: make(map[string]store.LocalBidRecord),
	}
}

func (m *MockStore) SaveSession(discordID string, token string, user shared.User) error {
	if m.SaveSessionError != nil {
		return m.SaveSessionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions[discordID] = store.SessionRecord{DiscordID: discordID, Token: token, User: user, UpdatedAt: time.Now()}
	return nil
}

func (m *MockStore) GetSession(discordID string) (store.SessionRecord, error) {
	if m.GetSessionError != nil {
		return store.SessionRecord{}, m.GetSessionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.Sessions[discordID]
	if !ok {
		return store.SessionRecord{}, mongo.ErrNoDocuments
	}
	return record, nil
}

func (m *MockStore) UpdateSessionUser(discordID string, user shared.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.Sessions[discordID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	record.User = user
	m.Sessions[discordID] = record
	return nil
}

func (m *MockStore) DeleteSession(discordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, discordID)
	return nil
}

// HasSession reports whether a session is currently persisted
func (m *MockStore) HasSession(discordID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Sessions[discordID]
	return ok
}

func (m *MockStore) SaveLocalBid(discordID string, matchID int, selectedTeamID int) error {
	if m.SaveLocalBidError != nil {
		return m.SaveLocalBidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := localBidKey(discordID, matchID)
	m.LocalBids[key] = store.LocalBidRecord{DiscordID: discordID, MatchID: matchID, SelectedTeamID: selectedTeamID, RecordedAt: time.Now()}
	return nil
}

func (m *MockStore) GetLocalBid(discordID string, matchID int) (store.LocalBidRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.LocalBids[localBidKey(discordID, matchID)]
	if !ok {
		return store.LocalBidRecord{}, mongo.ErrNoDocuments
	}
	return record, nil
}

func (m *MockStore) DeleteLocalBid(discordID string, matchID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.LocalBids, localBidKey(discordID, matchID))
	return nil
}

func localBidKey(discordID string, matchID int) string {
	return fmt.Sprintf("%s:%d", discordID, matchID)
}

// mockClient implements minimal client interface
type mockClient struct{}

func (mc *mockClient) Disconnect(ctx context.Context) error {
	return nil
}

func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}

// Ensure the mock satisfies the interface
var _ store.Interface = (*MockStore)(nil)
