/* bidstate_test.go
 * Contains unit tests for the match state and eligibility logic
 */

package bidstate

import (
	"testing"
	"time"

	"cricket-bids-bot/api/shared"

	"github.com/stretchr/testify/assert"
)

var (
	openNow   = time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	lockedNow = time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)
)

func openMatch() shared.Match {
	return shared.Match{
		ID:        7,
		Team1:     shared.Team{ID: 1, Name: "India", ShortName: "IND"},
		Team2:     shared.Team{ID: 2, Name: "Australia", ShortName: "AUS"},
		MatchDate: "2026-03-15",
		MatchTime: "19:30",
		MatchType: shared.RoundLeague,
	}
}

// TestLocked_ServerFlagTrusted tests that is_locked from the server wins
func TestLocked_ServerFlagTrusted(t *testing.T) {
	m := openMatch()
	m.IsLocked = true

	assert.True(t, Locked(m, openNow, time.UTC))
}

// TestLocked_SnapshotAges tests that an open snapshot flips once the start passes
func TestLocked_SnapshotAges(t *testing.T) {
	m := openMatch()

	assert.False(t, Locked(m, openNow, time.UTC))
	assert.True(t, Locked(m, lockedNow, time.UTC))
}

// TestResolve_OpenNoBid tests a confirmed-empty bid on an open match
func TestResolve_OpenNoBid(t *testing.T) {
	v := Resolve(openMatch(), NoBid(), openNow, time.UTC)

	assert.Equal(t, StateOpenNoBid, v.State)
	assert.Equal(t, 0, v.SelectedTeamID)
}

// TestResolve_OpenWithBid tests a confirmed bid on an open match
func TestResolve_OpenWithBid(t *testing.T) {
	k := Confirmed(shared.Bid{MatchID: 7, SelectedTeamID: 2, BidStatus: shared.BidPlaced})

	v := Resolve(openMatch(), k, openNow, time.UTC)

	assert.Equal(t, StateOpenWithBid, v.State)
	assert.Equal(t, 2, v.SelectedTeamID)
}

// TestResolve_LockedNoSelection tests a locked match without a bid
func TestResolve_LockedNoSelection(t *testing.T) {
	v := Resolve(openMatch(), NoBid(), lockedNow, time.UTC)

	assert.Equal(t, StateLockedNoSelection, v.State)
}

// TestResolve_LockedPending tests a locked match whose outcome is not confirmed yet
func TestResolve_LockedPending(t *testing.T) {
	k := Confirmed(shared.Bid{MatchID: 7, SelectedTeamID: 1, BidStatus: shared.BidPlaced})

	v := Resolve(openMatch(), k, lockedNow, time.UTC)

	assert.Equal(t, StateLockedWithSelection, v.State)
	assert.Equal(t, 1, v.SelectedTeamID)
}

// TestResolve_Resolved tests won and lost outcomes from a confirmed bid
func TestResolve_Resolved(t *testing.T) {
	for _, outcome := range []string{shared.BidWon, shared.BidLost} {
		k := Confirmed(shared.Bid{MatchID: 7, SelectedTeamID: 1, BidStatus: outcome})

		v := Resolve(openMatch(), k, lockedNow, time.UTC)

		assert.Equal(t, StateResolved, v.State)
		assert.Equal(t, outcome, v.Outcome)
	}
}

// TestResolve_LocalSelection tests that a locally held selection renders as a bid
func TestResolve_LocalSelection(t *testing.T) {
	v := Resolve(openMatch(), Local(2), openNow, time.UTC)
	assert.Equal(t, StateOpenWithBid, v.State)
	assert.Equal(t, 2, v.SelectedTeamID)

	v = Resolve(openMatch(), Local(2), lockedNow, time.UTC)
	assert.Equal(t, StateLockedWithSelection, v.State)
}

// TestResolve_LocalNeverResolves tests that won/lost only comes from the server
func TestResolve_LocalNeverResolves(t *testing.T) {
	v := Resolve(openMatch(), Local(2), lockedNow, time.UTC)

	assert.NotEqual(t, StateResolved, v.State)
	assert.Empty(t, v.Outcome)
}

// TestResolve_UnknownIsNotNoBid tests that unconfirmed knowledge stays unknown
func TestResolve_UnknownIsNotNoBid(t *testing.T) {
	v := Resolve(openMatch(), Unknown(), openNow, time.UTC)

	assert.Equal(t, StateUnknown, v.State)
	assert.NotEqual(t, StateOpenNoBid, v.State)
}

// TestEligible_LockedAlwaysRefused tests that a locked match refuses everything
func TestEligible_LockedAlwaysRefused(t *testing.T) {
	m := openMatch()
	m.IsLocked = true
	stats := &shared.BidStats{LeagueRemaining: 5, LeagueLimit: 10}
	k := Confirmed(shared.Bid{MatchID: 7, SelectedTeamID: 1, BidStatus: shared.BidPlaced})

	assert.False(t, Eligible(m, k, stats, openNow, time.UTC))
}

// TestEligible_QuotaExhausted tests that zero remaining quota blocks a fresh bid
func TestEligible_QuotaExhausted(t *testing.T) {
	stats := &shared.BidStats{LeagueRemaining: 0, LeagueLimit: 10}

	assert.False(t, Eligible(openMatch(), NoBid(), stats, openNow, time.UTC))
}

// TestEligible_ChangeIsQuotaFree tests that changing an existing bid ignores quota
func TestEligible_ChangeIsQuotaFree(t *testing.T) {
	stats := &shared.BidStats{LeagueRemaining: 0, LeagueLimit: 10}
	k := Confirmed(shared.Bid{MatchID: 7, SelectedTeamID: 1, BidStatus: shared.BidPlaced})

	assert.True(t, Eligible(openMatch(), k, stats, openNow, time.UTC))
}

// TestEligible_LocalSelectionCountsAsExisting tests a locally held selection is a change
func TestEligible_LocalSelectionCountsAsExisting(t *testing.T) {
	stats := &shared.BidStats{LeagueRemaining: 0, LeagueLimit: 10}

	assert.True(t, Eligible(openMatch(), Local(1), stats, openNow, time.UTC))
}

// TestEligible_StatsFailureFailsOpen tests that a missing quota snapshot allows bidding
func TestEligible_StatsFailureFailsOpen(t *testing.T) {
	assert.True(t, Eligible(openMatch(), NoBid(), nil, openNow, time.UTC))
}

// TestEligible_QuotaRemaining tests the plain open-with-quota case
func TestEligible_QuotaRemaining(t *testing.T) {
	stats := &shared.BidStats{LeagueRemaining: 1, LeagueLimit: 10}

	assert.True(t, Eligible(openMatch(), NoBid(), stats, openNow, time.UTC))
}

// TestKnowledgeSelectedTeamID tests the selection accessor across kinds
func TestKnowledgeSelectedTeamID(t *testing.T) {
	assert.Equal(t, 0, Unknown().SelectedTeamID())
	assert.Equal(t, 0, NoBid().SelectedTeamID())
	assert.Equal(t, 2, Local(2).SelectedTeamID())
	assert.Equal(t, 1, Confirmed(shared.Bid{SelectedTeamID: 1}).SelectedTeamID())
}

// TestStateString tests the display names of each state
func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "open", StateOpenNoBid.String())
	assert.Equal(t, "bid placed", StateOpenWithBid.String())
	assert.Equal(t, "locked, no bid", StateLockedNoSelection.String())
	assert.Equal(t, "locked, result pending", StateLockedWithSelection.String())
	assert.Equal(t, "resolved", StateResolved.String())
}
