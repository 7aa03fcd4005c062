/* bidstate.go
 * Contains the pure logic for resolving what a match looks like from one
 * user's point of view and whether they may act on it. Nothing in this
 * package performs IO; callers feed it the match, what is known about the
 * user's bid, the quota stats and the current time.
 */

package bidstate

import (
	"time"

	"cricket-bids-bot/api/shared"
)

// State is the presentable state of a match for one user
type State int

const (
	// StateUnknown means bid existence has not been confirmed by the
	// server yet (fetch pending, or the fetch failed and no local
	// selection exists). It must never be collapsed to "no bid".
	StateUnknown State = iota
	StateOpenNoBid
	StateOpenWithBid
	StateLockedNoSelection
	StateLockedWithSelection
	// StateResolved means the server has confirmed the outcome; the
	// View's Outcome field carries won or lost.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateOpenNoBid:
		return "open"
	case StateOpenWithBid:
		return "bid placed"
	case StateLockedNoSelection:
		return "locked, no bid"
	case StateLockedWithSelection:
		return "locked, result pending"
	case StateResolved:
		return "resolved"
	}
	return "unknown"
}

// KnowledgeKind tags what the client knows about the user's bid on a match
type KnowledgeKind int

const (
	KnowledgeUnknown   KnowledgeKind = iota // existence not confirmed either way
	KnowledgeNone                           // server confirmed there is no bid
	KnowledgeConfirmed                      // server returned the bid
	KnowledgeLocal                          // optimistic selection held locally, unconfirmed
)

// Knowledge is the tagged union of bid knowledge. A confirmed server bid
// and a locally-held selection are deliberately distinct; the local kind
// exists so a connectivity failure at submit time degrades to showing the
// user's own selection instead of an error.
type Knowledge struct {
	Kind        KnowledgeKind
	Bid         shared.Bid // set when Kind == KnowledgeConfirmed
	LocalTeamID int        // set when Kind == KnowledgeLocal
}

func Unknown() Knowledge { return Knowledge{Kind: KnowledgeUnknown} }
func NoBid() Knowledge { return Knowledge{Kind: KnowledgeNone} }
func Confirmed(b shared.Bid) Knowledge {
	return Knowledge{Kind: KnowledgeConfirmed, Bid: b}
}
func Local(teamID int) Knowledge { return Knowledge{Kind: KnowledgeLocal, LocalTeamID: teamID} }

// HasSelection reports whether any selection, confirmed or local, exists
func (k Knowledge) HasSelection() bool {
	return k.Kind == KnowledgeConfirmed || k.Kind == KnowledgeLocal
}

// SelectedTeamID returns the selected team, or 0 when there is none
func (k Knowledge) SelectedTeamID() int {
	switch k.Kind {
	case KnowledgeConfirmed:
		return k.Bid.SelectedTeamID
	case KnowledgeLocal:
		return k.LocalTeamID
	}
	return 0
}

// View is what the interface should display for a match
type View struct {
	State          State
	SelectedTeamID int    // 0 when no selection is known
	Outcome        string // won or lost, set only when State is StateResolved
}

// Locked reports whether the match accepts no further bids at `now`. The
// server's is_locked is trusted when set; an open match still flips once
// the clock reaches its scheduled start, since the fetched snapshot ages.
func Locked(m shared.Match, now time.Time, loc *time.Location) bool {
	if m.IsLocked {
		return true
	}
	return m.LockedAt(now, loc)
}

// Resolve computes the presentable state for one match
// Preconditions: Receives the match, the bid knowledge for it, and the current time
// Postconditions: Returns the View per the match lifecycle; resolution to
// won/lost is only ever reported from a confirmed server bid
func Resolve(m shared.Match, k Knowledge, now time.Time, loc *time.Location) View {
	locked := Locked(m, now, loc)

	switch k.Kind {
	case KnowledgeNone:
		if locked {
			return View{State: StateLockedNoSelection}
		}
		return View{State: StateOpenNoBid}

	case KnowledgeLocal:
		if locked {
			return View{State: StateLockedWithSelection, SelectedTeamID: k.LocalTeamID}
		}
		return View{State: StateOpenWithBid, SelectedTeamID: k.LocalTeamID}

	case KnowledgeConfirmed:
		sel := k.Bid.SelectedTeamID
		if locked {
			switch k.Bid.BidStatus {
			case shared.BidWon, shared.BidLost:
				return View{State: StateResolved, SelectedTeamID: sel, Outcome: k.Bid.BidStatus}
			default:
				// Locked but the server has not confirmed an outcome yet
				return View{State: StateLockedWithSelection, SelectedTeamID: sel}
			}
		}
		return View{State: StateOpenWithBid, SelectedTeamID: sel}
	}

	// Bid existence unconfirmed. Not "no bid": the caller re-fetches.
	return View{State: StateUnknown}
}

// Eligible reports whether the user may submit or change a selection on
// the match. The rule: the match is not locked AND (a selection already
// exists, so this is a quota-free change, OR the category still has quota).
// A nil stats means the quota fetch failed; that fails open so a transient
// stats failure does not block all bidding. The server re-validates quota
// on every submission regardless.
func Eligible(m shared.Match, k Knowledge, stats *shared.BidStats, now time.Time, loc *time.Location) bool {
	if Locked(m, now, loc) {
		return false
	}
	if k.HasSelection() {
		return true
	}
	if stats == nil {
		return true
	}
	remaining, _ := stats.Remaining(m.MatchType)
	return remaining > 0
}
