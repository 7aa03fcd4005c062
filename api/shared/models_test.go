/* models_test.go
 * Contains unit tests for the shared match and quota helpers
 */

package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatch() Match {
	return Match{
		ID:        7,
		Team1:     Team{ID: 1, Name: "India", ShortName: "IND"},
		Team2:     Team{ID: 2, Name: "Australia", ShortName: "AUS"},
		MatchDate: "2026-03-15",
		MatchTime: "19:30",
		MatchType: RoundLeague,
		Status:    "scheduled",
	}
}

// TestStartTime tests parsing the civil date and time in a fixed location
func TestStartTime(t *testing.T) {
	m := testMatch()

	start, err := m.StartTime(time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC), start)
}

// TestStartTime_Unparseable tests that a malformed schedule returns an error
func TestStartTime_Unparseable(t *testing.T) {
	m := testMatch()
	m.MatchTime = "7:30 pm"

	_, err := m.StartTime(time.UTC)

	assert.Error(t, err)
}

// TestLockedAt_BeforeStart tests that a match one second before start is open
func TestLockedAt_BeforeStart(t *testing.T) {
	m := testMatch()
	now := time.Date(2026, 3, 15, 19, 29, 59, 0, time.UTC)

	assert.False(t, m.LockedAt(now, time.UTC))
}

// TestLockedAt_AtStart tests that a match locks exactly at its start instant
func TestLockedAt_AtStart(t *testing.T) {
	m := testMatch()
	now := time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)

	assert.True(t, m.LockedAt(now, time.UTC))
}

// TestLockedAt_Unparseable tests that a malformed schedule is treated as open
func TestLockedAt_Unparseable(t *testing.T) {
	m := testMatch()
	m.MatchDate = "soon"

	assert.False(t, m.LockedAt(time.Now(), time.UTC))
}

// TestCountdownAt tests the whole-seconds countdown before start
func TestCountdownAt(t *testing.T) {
	m := testMatch()
	now := time.Date(2026, 3, 15, 19, 28, 0, 0, time.UTC)

	secs := m.CountdownAt(now, time.UTC)

	require.NotNil(t, secs)
	assert.Equal(t, 120, *secs)
}

// TestCountdownAt_Started tests that a started match has no countdown
func TestCountdownAt_Started(t *testing.T) {
	m := testMatch()
	now := time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)

	assert.Nil(t, m.CountdownAt(now, time.UTC))
}

// TestLockBoundary tests the final second before the start instant: one
// second out the match is open with a one-second countdown, at the instant
// itself it is locked with none
func TestLockBoundary(t *testing.T) {
	m := testMatch()

	now := time.Date(2026, 3, 15, 19, 29, 59, 0, time.UTC)
	assert.False(t, m.LockedAt(now, time.UTC))
	secs := m.CountdownAt(now, time.UTC)
	require.NotNil(t, secs)
	assert.Equal(t, 1, *secs)

	now = now.Add(time.Second)
	assert.True(t, m.LockedAt(now, time.UTC))
	assert.Nil(t, m.CountdownAt(now, time.UTC))
}

// TestDeriveLockState_Unpopulated tests deriving lock fields the server left unset
func TestDeriveLockState_Unpopulated(t *testing.T) {
	m := testMatch()
	now := time.Date(2026, 3, 15, 19, 0, 0, 0, time.UTC)

	m.DeriveLockState(now, time.UTC)

	assert.False(t, m.IsLocked)
	require.NotNil(t, m.SecondsUntilStart)
	assert.Equal(t, 1800, *m.SecondsUntilStart)
}

// TestDeriveLockState_PastStart tests deriving a locked state after start
func TestDeriveLockState_PastStart(t *testing.T) {
	m := testMatch()
	now := time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC)

	m.DeriveLockState(now, time.UTC)

	assert.True(t, m.IsLocked)
	assert.Nil(t, m.SecondsUntilStart)
}

// TestDeriveLockState_ServerValuesKept tests that server-populated fields are never recomputed
func TestDeriveLockState_ServerValuesKept(t *testing.T) {
	m := testMatch()
	secs := 5
	m.SecondsUntilStart = &secs
	// Local clock says the match started long ago; the server says 5s left
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

	m.DeriveLockState(now, time.UTC)

	assert.False(t, m.IsLocked)
	require.NotNil(t, m.SecondsUntilStart)
	assert.Equal(t, 5, *m.SecondsUntilStart)
}

// TestLabel tests the short fixture label
func TestLabel(t *testing.T) {
	assert.Equal(t, "IND vs AUS", testMatch().Label())
}

// TestTeamByID tests resolving each participant and an outsider id
func TestTeamByID(t *testing.T) {
	m := testMatch()

	team, ok := m.TeamByID(2)
	require.True(t, ok)
	assert.Equal(t, "Australia", team.Name)

	_, ok = m.TeamByID(99)
	assert.False(t, ok)
}

// TestBidStatsRemaining tests the per-category quota lookup
func TestBidStatsRemaining(t *testing.T) {
	stats := BidStats{
		LeagueRemaining: 3, LeagueLimit: 10,
		SemiRemaining: 0, SemiLimit: 2,
		FinalRemaining: 1, FinalLimit: 1,
	}

	remaining, limit := stats.Remaining(RoundLeague)
	assert.Equal(t, 3, remaining)
	assert.Equal(t, 10, limit)

	remaining, _ = stats.Remaining(RoundSemi)
	assert.Equal(t, 0, remaining)

	remaining, limit = stats.Remaining("warmup")
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 0, limit)
}
