/* reports.go
 * Contains the read-only summary views: dashboard totals, quota status and
 * the leaderboard.
 */

package api

import (
	"context"
	"fmt"
	"strings"
)

// DashboardReport renders the user's win/loss/pending totals
func (a *API) DashboardReport(ctx context.Context, discordID string) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	stats, err := a.Gateway.DashboardStats(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("%s's record:\n", sess.User.Username))
	res.WriteString(fmt.Sprintf("Matches bid on: %d\n", stats.TotalMatches))
	res.WriteString(fmt.Sprintf("Wins: %d, Losses: %d, Pending: %d\n", stats.Wins, stats.Losses, stats.Pending))
	return res.String(), nil
}

// QuotaReport renders the user's remaining bid quotas per round category
func (a *API) QuotaReport(ctx context.Context, discordID string) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	stats, err := a.Gateway.BidStats(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}

	var res strings.Builder
	res.WriteString("Your bid quotas:\n")
	res.WriteString(fmt.Sprintf("- League: %d used, %d of %d remaining\n", stats.LeagueUsed, stats.LeagueRemaining, stats.LeagueLimit))
	res.WriteString(fmt.Sprintf("- Semi: %d used, %d of %d remaining\n", stats.SemiUsed, stats.SemiRemaining, stats.SemiLimit))
	res.WriteString(fmt.Sprintf("- Final: %d used, %d of %d remaining\n", stats.FinalUsed, stats.FinalRemaining, stats.FinalLimit))
	return res.String(), nil
}

// LeaderboardReport renders the ranked standings. Ranks come from the
// server; the client does not re-sort or tie-break.
func (a *API) LeaderboardReport(ctx context.Context, discordID string) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	entries, err := a.Gateway.Leaderboard(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}
	if len(entries) == 0 {
		return "The leaderboard is empty, no bids have been resolved yet", nil
	}

	var res strings.Builder
	res.WriteString("The users with the best bids are:\n")
	for _, entry := range entries {
		res.WriteString(fmt.Sprintf("%d. %s: %d wins, %d losses of %d bids (₹%.0f won)\n",
			entry.Rank, entry.Username, entry.Wins, entry.Losses, entry.Total, entry.AmountWon))
	}
	return res.String(), nil
}
