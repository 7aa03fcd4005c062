/* session_test.go
 * Contains unit tests for the session manager using an in-memory store and
 * a scripted profile fetcher
 */

package session

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"cricket-bids-bot/api/gateway"
	"cricket-bids-bot/api/shared"
	"cricket-bids-bot/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// memStore is an in-memory store.Interface for testing
type memStore struct {
	mu        sync.Mutex
	sessions  map[string]store.SessionRecord
	localBids map[string]store.LocalBidRecord
}

func newMemStore() *memStore {
	return &memStore{
		sessions:  make(map[string]store.SessionRecord),
		localBids: make(map[string]store.LocalBidRecord),
	}
}

func (s *memStore) SaveSession(discordID string, token string, user shared.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[discordID] = store.SessionRecord{DiscordID: discordID, Token: token, User: user, UpdatedAt: time.Now()}
	return nil
}

func (s *memStore) GetSession(discordID string) (store.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.sessions[discordID]
	if !ok {
		return store.SessionRecord{}, mongo.ErrNoDocuments
	}
	return record, nil
}

func (s *memStore) UpdateSessionUser(discordID string, user shared.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.sessions[discordID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	record.User = user
	s.sessions[discordID] = record
	return nil
}

func (s *memStore) DeleteSession(discordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, discordID)
	return nil
}

func (s *memStore) SaveLocalBid(discordID string, matchID int, selectedTeamID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := localBidKey(discordID, matchID)
	s.localBids[key] = store.LocalBidRecord{DiscordID: discordID, MatchID: matchID, SelectedTeamID: selectedTeamID, RecordedAt: time.Now()}
	return nil
}

func (s *memStore) GetLocalBid(discordID string, matchID int) (store.LocalBidRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.localBids[localBidKey(discordID, matchID)]
	if !ok {
		return store.LocalBidRecord{}, mongo.ErrNoDocuments
	}
	return record, nil
}

func (s *memStore) DeleteLocalBid(discordID string, matchID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.localBids, localBidKey(discordID, matchID))
	return nil
}

func (s *memStore) GetClient() interface{ Disconnect(context.Context) error } {
	return nil
}

func localBidKey(discordID string, matchID int) string {
	return discordID + ":" + strconv.Itoa(matchID)
}

var _ store.Interface = (*memStore)(nil)

// mockFetcher is a scripted ProfileFetcher. done is signalled after every
// call so tests can wait for the background refresh.
type mockFetcher struct {
	user shared.User
	err  error
	done chan struct{}
}

func (f *mockFetcher) Me(ctx context.Context, token string) (shared.User, error) {
	if f.done != nil {
		defer func() { f.done <- struct{}{} }()
	}
	if f.err != nil {
		return shared.User{}, f.err
	}
	return f.user, nil
}

// TestRestore_NeverLoggedIn tests that an unknown user restores to nothing
func TestRestore_NeverLoggedIn(t *testing.T) {
	m, err := NewManager(newMemStore(), &mockFetcher{})
	require.NoError(t, err)

	_, ok, err := m.Restore(context.Background(), "discord-1")

	require.NoError(t, err)
	assert.False(t, ok)
}

// TestRestore_CachedUserReturnedImmediately tests that restore serves the
// cached profile without waiting for the background refresh
func TestRestore_CachedUserReturnedImmediately(t *testing.T) {
	st := newMemStore()
	require.NoError(t, st.SaveSession("discord-1", "token-1", shared.User{ID: 7, Username: "cached"}))

	fetcher := &mockFetcher{user: shared.User{ID: 7, Username: "fresh"}, done: make(chan struct{}, 1)}
	m, err := NewManager(st, fetcher)
	require.NoError(t, err)

	sess, ok, err := m.Restore(context.Background(), "discord-1")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cached", sess.User.Username)
	assert.Equal(t, "token-1", sess.Token)

	// Once the refresh lands, the cache holds the fresh profile
	<-fetcher.done
	waitForUsername(t, m, "discord-1", "fresh")
}

// TestRefresh_DeadTokenDestroysSession tests that an expired token removes
// the persisted session
func TestRefresh_DeadTokenDestroysSession(t *testing.T) {
	st := newMemStore()
	require.NoError(t, st.SaveSession("discord-1", "stale", shared.User{Username: "cached"}))

	m, err := NewManager(st, &mockFetcher{err: gateway.ErrUnauthenticated})
	require.NoError(t, err)

	require.NoError(t, m.Refresh(context.Background(), "discord-1"))

	_, ok, err := m.Current("discord-1")
	require.NoError(t, err)
	assert.False(t, ok, "session must be destroyed after a dead-token refresh")
}

// TestRefresh_OfflineKeepsCache tests that a connectivity failure keeps the
// cached session untouched
func TestRefresh_OfflineKeepsCache(t *testing.T) {
	st := newMemStore()
	require.NoError(t, st.SaveSession("discord-1", "token-1", shared.User{Username: "cached"}))

	m, err := NewManager(st, &mockFetcher{err: gateway.ErrUnreachable})
	require.NoError(t, err)

	require.NoError(t, m.Refresh(context.Background(), "discord-1"))

	sess, ok, err := m.Current("discord-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cached", sess.User.Username)
}

// TestLogin_PersistsSession tests the login round trip through the store
func TestLogin_PersistsSession(t *testing.T) {
	m, err := NewManager(newMemStore(), &mockFetcher{})
	require.NoError(t, err)

	auth := shared.LoginResponse{AccessToken: "token-9", User: shared.User{ID: 9, Username: "ishan"}}
	sess, err := m.Login("discord-9", auth)

	require.NoError(t, err)
	assert.Equal(t, "token-9", sess.Token)

	current, ok, err := m.Current("discord-9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ishan", current.User.Username)
}

// TestLogin_RefusesEmptyToken tests that a tokenless auth response is refused
func TestLogin_RefusesEmptyToken(t *testing.T) {
	m, err := NewManager(newMemStore(), &mockFetcher{})
	require.NoError(t, err)

	_, err = m.Login("discord-1", shared.LoginResponse{})

	assert.Error(t, err)
}

// TestLogout tests that logout removes the persisted session
func TestLogout(t *testing.T) {
	st := newMemStore()
	require.NoError(t, st.SaveSession("discord-1", "token-1", shared.User{}))
	m, err := NewManager(st, &mockFetcher{})
	require.NoError(t, err)

	require.NoError(t, m.Logout("discord-1"))

	_, ok, err := m.Current("discord-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func waitForUsername(t *testing.T, m *Manager, discordID, want string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		sess, ok, err := m.Current(discordID)
		require.NoError(t, err)
		if ok && sess.User.Username == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("cached username never became %q", want)
}
