/* endpoints.go
 * One typed method per remote operation. Paths and payload shapes follow
 * the bidding API; see the table in the project docs for the full surface.
 */

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cricket-bids-bot/api/shared"
)

// Login authenticates a user. Uses the long auth timeout budget.
func (c *Client) Login(ctx context.Context, username, password string) (shared.LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out shared.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &out, c.authTimeout); err != nil {
		return shared.LoginResponse{}, err
	}
	return out, nil
}

// Register creates an account and returns a live session for it
func (c *Client) Register(ctx context.Context, username, password, mobileNumber string) (shared.LoginResponse, error) {
	body := map[string]string{
		"username":      username,
		"password":      password,
		"mobile_number": mobileNumber,
	}
	var out shared.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &out, c.authTimeout); err != nil {
		return shared.LoginResponse{}, err
	}
	return out, nil
}

// Matches lists all matches, optionally filtered by series
func (c *Client) Matches(ctx context.Context, token, series string) ([]shared.Match, error) {
	path := "/matches/"
	if series != "" {
		path = fmt.Sprintf("/matches/?series=%s", url.QueryEscape(series))
	}
	var out []shared.Match
	if err := c.getList(ctx, path, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TodayMatches lists only matches scheduled for the current day
func (c *Client) TodayMatches(ctx context.Context, token string) ([]shared.Match, error) {
	var out []shared.Match
	if err := c.getList(ctx, "/matches/today", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Teams lists all teams in the tournament
func (c *Client) Teams(ctx context.Context, token string) ([]shared.Team, error) {
	var out []shared.Team
	if err := c.getList(ctx, "/matches/teams", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BidStats fetches the caller's per-category bid quotas
func (c *Client) BidStats(ctx context.Context, token string) (shared.BidStats, error) {
	var out shared.BidStats
	if err := c.do(ctx, http.MethodGet, "/users/bid-stats", token, nil, &out, c.timeout); err != nil {
		return shared.BidStats{}, err
	}
	return out, nil
}

// Me fetches the profile of the authenticated user
func (c *Client) Me(ctx context.Context, token string) (shared.User, error) {
	var out shared.User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &out, c.timeout); err != nil {
		return shared.User{}, err
	}
	return out, nil
}

// DashboardStats fetches the caller's win/loss/pending totals
func (c *Client) DashboardStats(ctx context.Context, token string) (shared.DashboardStats, error) {
	var out shared.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/users/dashboard-stats", token, nil, &out, c.timeout); err != nil {
		return shared.DashboardStats{}, err
	}
	return out, nil
}

// PlaceBid places or changes the caller's bid on a match. The server
// treats a resubmission for an already-bid match as a change of selection.
func (c *Client) PlaceBid(ctx context.Context, token string, matchID, selectedTeamID int) (shared.Bid, error) {
	body := map[string]int{"match_id": matchID, "selected_team_id": selectedTeamID}
	var out shared.Bid
	if err := c.do(ctx, http.MethodPost, "/bids/", token, body, &out, c.timeout); err != nil {
		return shared.Bid{}, err
	}
	return out, nil
}

// BidForMatch fetches the caller's bid on a match, if any
func (c *Client) BidForMatch(ctx context.Context, token string, matchID int) (shared.BidLookup, error) {
	var out shared.BidLookup
	path := fmt.Sprintf("/bids/for-match/%d", matchID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out, c.timeout); err != nil {
		return shared.BidLookup{}, err
	}
	return out, nil
}

// BidBreakdown fetches who bid on each side of a match
func (c *Client) BidBreakdown(ctx context.Context, token string, matchID int) (shared.BidBreakdown, error) {
	var out shared.BidBreakdown
	path := fmt.Sprintf("/matches/%d/bid-breakdown", matchID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out, c.timeout); err != nil {
		return shared.BidBreakdown{}, err
	}
	return out, nil
}

// Leaderboard fetches the ranked standings
func (c *Client) Leaderboard(ctx context.Context, token string) ([]shared.LeaderboardEntry, error) {
	var out []shared.LeaderboardEntry
	if err := c.getList(ctx, "/users/leaderboard", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminUsers lists every registered user. Admin only.
func (c *Client) AdminUsers(ctx context.Context, token string) ([]shared.User, error) {
	var out []shared.User
	if err := c.getList(ctx, "/users/admin/users", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminSetUserActive activates or deactivates an account. Admin only.
func (c *Client) AdminSetUserActive(ctx context.Context, token string, userID int, active bool) (shared.User, error) {
	body := map[string]bool{"is_active": active}
	var out shared.User
	path := fmt.Sprintf("/users/admin/users/%d", userID)
	if err := c.do(ctx, http.MethodPatch, path, token, body, &out, c.timeout); err != nil {
		return shared.User{}, err
	}
	return out, nil
}

// AdminMatchResults fetches the confirmed-results set. Admin only.
func (c *Client) AdminMatchResults(ctx context.Context, token string) (shared.MatchResults, error) {
	var out shared.MatchResults
	if err := c.do(ctx, http.MethodGet, "/users/admin/match-results", token, nil, &out, c.timeout); err != nil {
		return shared.MatchResults{}, err
	}
	return out, nil
}

// AdminConfirmResult confirms a match outcome. A nil winnerTeamID confirms
// the match as having no result. Admin only.
func (c *Client) AdminConfirmResult(ctx context.Context, token string, matchID int, winnerTeamID *int) error {
	body := map[string]*int{"winner_team_id": winnerTeamID}
	path := fmt.Sprintf("/users/admin/match-results/%d/confirm", matchID)
	return c.do(ctx, http.MethodPost, path, token, body, nil, c.timeout)
}
