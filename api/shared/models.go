/* models.go
 * Contains the structs and helper functions that are shared between sub packages.
 * These mirror the JSON bodies served by the remote bidding API.
 */

package shared

import (
	"fmt"
	"time"
)

// Round categories. Each category has its own bid quota bucket.
const (
	RoundLeague = "league"
	RoundSemi   = "semi"
	RoundFinal  = "final"
)

// Bid statuses as reported by the server. The client never sets won/lost
// itself, it only observes them.
const (
	BidPlaced = "placed"
	BidWon    = "won"
	BidLost   = "lost"
)

type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// Match is a scheduled contest between two teams. MatchDate and MatchTime
// are civil date/time strings with no timezone; the server derives IsLocked
// and SecondsUntilStart, and the client only recomputes them when the
// server left them unset (see DeriveLockState).
type Match struct {
	ID                int    `json:"id"`
	Team1             Team   `json:"team1"`
	Team2             Team   `json:"team2"`
	MatchDate         string `json:"match_date"` // YYYY-MM-DD
	MatchTime         string `json:"match_time"` // HH:MM
	Venue             string `json:"venue,omitempty"`
	MatchType         string `json:"match_type"` // league, semi, final
	Status            string `json:"status"`
	IsLocked          bool   `json:"is_locked"`
	SecondsUntilStart *int   `json:"seconds_until_start"`
}

// StartTime parses the match's civil date and time in the given location
func (m Match) StartTime(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", m.MatchDate, m.MatchTime), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("match %d has unparseable start time %q %q: %w", m.ID, m.MatchDate, m.MatchTime, err)
	}
	return t, nil
}

// LockedAt reports whether the match start instant has passed at `now`.
// A match with an unparseable start time is treated as not locked, matching
// the server's behaviour for malformed rows.
func (m Match) LockedAt(now time.Time, loc *time.Location) bool {
	start, err := m.StartTime(loc)
	if err != nil {
		return false
	}
	return !now.Before(start)
}

// CountdownAt returns the whole seconds until the match starts, or nil if
// the match has already started (locked matches have no countdown).
func (m Match) CountdownAt(now time.Time, loc *time.Location) *int {
	start, err := m.StartTime(loc)
	if err != nil {
		return nil
	}
	delta := start.Sub(now)
	if delta <= 0 {
		return nil
	}
	secs := int(delta.Seconds())
	return &secs
}

// DeriveLockState fills IsLocked and SecondsUntilStart from the schedule
// when the server did not supply them. The server invariant is that
// SecondsUntilStart is nil exactly when IsLocked; an unlocked match with a
// nil countdown therefore means the fields were never populated.
func (m *Match) DeriveLockState(now time.Time, loc *time.Location) {
	if m.IsLocked || m.SecondsUntilStart != nil {
		return
	}
	m.IsLocked = m.LockedAt(now, loc)
	if !m.IsLocked {
		m.SecondsUntilStart = m.CountdownAt(now, loc)
	}
}

// Label renders the fixture in short form, e.g. "IND vs AUS"
func (m Match) Label() string {
	return fmt.Sprintf("%s vs %s", m.Team1.ShortName, m.Team2.ShortName)
}

// TeamByID returns the participant with the given id, if it is one of the
// match's two teams.
func (m Match) TeamByID(id int) (Team, bool) {
	switch id {
	case m.Team1.ID:
		return m.Team1, true
	case m.Team2.ID:
		return m.Team2, true
	}
	return Team{}, false
}

// Bid is a user's single prediction for a match. At most one exists per
// (user, match) pair; resubmitting before lock overwrites the selection.
type Bid struct {
	ID             int    `json:"id"`
	MatchID        int    `json:"match_id"`
	SelectedTeamID int    `json:"selected_team_id"`
	BidStatus      string `json:"bid_status"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// BidLookup is the response shape of GET /bids/for-match/{id}
type BidLookup struct {
	HasBid bool `json:"has_bid"`
	Bid    *Bid `json:"bid"`
}

// BidStats holds the per-round-category bid quotas for the current user
type BidStats struct {
	LeagueUsed      int `json:"league_used"`
	LeagueRemaining int `json:"league_remaining"`
	LeagueLimit     int `json:"league_limit"`
	SemiUsed        int `json:"semi_used"`
	SemiRemaining   int `json:"semi_remaining"`
	SemiLimit       int `json:"semi_limit"`
	FinalUsed       int `json:"final_used"`
	FinalRemaining  int `json:"final_remaining"`
	FinalLimit      int `json:"final_limit"`
}

// Remaining returns the remaining quota for a round category. Unknown
// categories report zero remaining.
func (s BidStats) Remaining(matchType string) (remaining, limit int) {
	switch matchType {
	case RoundLeague:
		return s.LeagueRemaining, s.LeagueLimit
	case RoundSemi:
		return s.SemiRemaining, s.SemiLimit
	case RoundFinal:
		return s.FinalRemaining, s.FinalLimit
	}
	return 0, 0
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	MobileNumber string `json:"mobile_number,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// LoginResponse is returned by the auth endpoints
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type DashboardStats struct {
	TotalMatches int `json:"total_matches"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	Pending      int `json:"pending"`
}

type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Username  string  `json:"username"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Total     int     `json:"total"`
	AmountWon float64 `json:"amount_won"`
}

// BidBreakdown lists who bid on each side of a match
type BidBreakdown struct {
	Team1Bidders []string `json:"team1_bidders"`
	Team2Bidders []string `json:"team2_bidders"`
	WinnerTeamID *int     `json:"winner_team_id"`
}

// MatchResults is the admin view of confirmed results: match id (as a
// string key, JSON objects cannot key on ints) to winning team id, nil
// meaning confirmed as no-result. BidAmounts carries the payout per round
// category.
type MatchResults struct {
	Results    map[string]*int `json:"results"`
	BidAmounts map[string]int  `json:"bid_amounts"`
}
