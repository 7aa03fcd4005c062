/* admin.go
 * Contains the admin-only operations: user activation and match result
 * confirmation. The admin flag is checked client-side before any request so
 * the interface never offers actions it knows will be refused; the server
 * still enforces the real boundary.
 */

package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NoResultMarker is what an admin types to confirm a match as having
// produced no result (washout, abandoned).
const NoResultMarker = "none"

// UsersReport renders the registered users table for admins
func (a *API) UsersReport(ctx context.Context, discordID string) (string, error) {
	sess, err := a.requireAdmin(ctx, discordID)
	if err != nil {
		return "", err
	}

	users, err := a.Gateway.AdminUsers(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}
	if len(users) == 0 {
		return "No registered users", nil
	}

	var res strings.Builder
	res.WriteString("Registered users:\n")
	for _, u := range users {
		status := "active"
		if !u.IsActive {
			status = "deactivated"
		}
		mobile := u.MobileNumber
		if mobile == "" {
			mobile = "-"
		}
		res.WriteString(fmt.Sprintf("- #%d %s (%s): %s\n", u.ID, u.Username, mobile, status))
	}
	return res.String(), nil
}

// SetUserActive activates or deactivates an account by username
// Postconditions: Returns a confirmation string; on failure the displayed
// user list is left as it was, no partial mutation is reported
func (a *API) SetUserActive(ctx context.Context, discordID, username string, active bool) (string, error) {
	sess, err := a.requireAdmin(ctx, discordID)
	if err != nil {
		return "", err
	}

	users, err := a.Gateway.AdminUsers(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}

	var target *int
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			id := u.ID
			target = &id
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("no user named %q was found", username)
	}

	updated, err := a.Gateway.AdminSetUserActive(ctx, sess.Token, *target, active)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}

	if updated.IsActive {
		return fmt.Sprintf("%s has been activated", updated.Username), nil
	}
	return fmt.Sprintf("%s has been deactivated and can no longer log in", updated.Username), nil
}

// ResultsReport renders the confirmed-results set for admins
func (a *API) ResultsReport(ctx context.Context, discordID string) (string, error) {
	sess, err := a.requireAdmin(ctx, discordID)
	if err != nil {
		return "", err
	}

	results, err := a.Gateway.AdminMatchResults(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}
	if len(results.Results) == 0 {
		return "No match results have been confirmed yet", nil
	}

	var res strings.Builder
	res.WriteString("Confirmed match results:\n")
	for matchID, winner := range results.Results {
		if winner == nil {
			res.WriteString(fmt.Sprintf("- match %s: no result\n", matchID))
			continue
		}
		res.WriteString(fmt.Sprintf("- match %s: team %d won\n", matchID, *winner))
	}
	return res.String(), nil
}

// ConfirmResult confirms the outcome of a locked match exactly once.
// winnerInput is the winning team's name, or NoResultMarker for a washout.
// A match already present in the confirmed set is refused client-side;
// re-confirmation is not offered through this interface.
func (a *API) ConfirmResult(ctx context.Context, discordID string, matchID int, winnerInput string) (string, error) {
	sess, err := a.requireAdmin(ctx, discordID)
	if err != nil {
		return "", err
	}

	// An explicit selection is required before any request is made
	winnerInput = strings.TrimSpace(winnerInput)
	if winnerInput == "" {
		return "", fmt.Errorf("select a winning team or %q before confirming", NoResultMarker)
	}

	match, err := a.findMatch(ctx, sess.Token, matchID)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}
	if !match.IsLocked && !match.LockedAt(time.Now(), a.location()) {
		return "", fmt.Errorf("%s has not started yet, there is no result to confirm", match.Label())
	}

	confirmed, err := a.Gateway.AdminMatchResults(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}
	if _, exists := confirmed.Results[strconv.Itoa(matchID)]; exists {
		return "", fmt.Errorf("the result for %s is already confirmed", match.Label())
	}

	var winnerTeamID *int
	resultText := "no result"
	if !strings.EqualFold(winnerInput, NoResultMarker) {
		team, err := resolveMatchTeam(match, winnerInput)
		if err != nil {
			return "", err
		}
		winnerTeamID = &team.ID
		resultText = fmt.Sprintf("%s won", team.Name)
	}

	// One confirmation, one request
	if err := a.Gateway.AdminConfirmResult(ctx, sess.Token, matchID, winnerTeamID); err != nil {
		return "", a.authFailed(discordID, err)
	}

	a.Countdown.Cancel(matchID)
	return fmt.Sprintf("Result confirmed for %s: %s", match.Label(), resultText), nil
}
