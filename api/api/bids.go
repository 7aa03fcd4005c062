/* bids.go
 * Contains the logic to place, change and inspect bids. This is where the
 * resolver's eligibility verdict gates the network: an ineligible action
 * never produces a request, and a submission the server could not receive
 * degrades to a locally-held selection instead of blocking the user.
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cricket-bids-bot/api/bidstate"
	"cricket-bids-bot/api/gateway"
	"cricket-bids-bot/api/session"
	"cricket-bids-bot/api/shared"
)

// PlaceBid places or changes the user's bid on a match, resolving the
// typed team name against the fixture.
// Preconditions: Receives the Discord user id, the match id and the team
// name as typed by the user
// Postconditions: Returns a confirmation string, or an error carrying the
// exact message the user should see
func (a *API) PlaceBid(ctx context.Context, discordID string, matchID int, teamInput string) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	match, err := a.findMatch(ctx, sess.Token, matchID)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}

	knowledge := a.bidKnowledge(ctx, sess, matchID)
	stats := a.quotaSnapshot(ctx, sess.Token)

	now := time.Now()
	if !bidstate.Eligible(match, knowledge, stats, now, a.location()) {
		// Rejected before any network submission happens
		if bidstate.Locked(match, now, a.location()) {
			return "", fmt.Errorf("bidding for %s is closed, the match has started", match.Label())
		}
		remaining, limit := stats.Remaining(match.MatchType)
		return "", fmt.Errorf("you have used all %d of your %s bids (%d remaining)", limit, match.MatchType, remaining)
	}

	team, err := resolveMatchTeam(match, teamInput)
	if err != nil {
		return "", err
	}

	changing := knowledge.HasSelection()

	_, err = a.Gateway.PlaceBid(ctx, sess.Token, matchID, team.ID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnreachable) {
			// Optimistic path: keep the selection locally so the user is
			// not blocked while the backend is unreachable. The server
			// remains the authority once it comes back.
			if saveErr := a.Store.SaveLocalBid(discordID, matchID, team.ID); saveErr != nil {
				return "", saveErr
			}
			return fmt.Sprintf("The bidding server is unreachable, so your pick of %s for %s is saved locally and will show as your bid", team.Name, match.Label()), nil
		}
		return "", a.authFailed(discordID, err)
	}

	// Server confirmed, any locally-held fallback is now stale
	_ = a.Store.DeleteLocalBid(discordID, matchID)

	if changing {
		return fmt.Sprintf("Your bid on %s has been changed to %s", match.Label(), team.Name), nil
	}
	return fmt.Sprintf("Your bid on %s is placed: %s to win", match.Label(), team.Name), nil
}

// BidReport renders the state of the user's bid on one match
func (a *API) BidReport(ctx context.Context, discordID string, matchID int) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	match, err := a.findMatch(ctx, sess.Token, matchID)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}

	knowledge := a.bidKnowledge(ctx, sess, matchID)
	view := bidstate.Resolve(match, knowledge, time.Now(), a.location())

	selection := ""
	if view.SelectedTeamID != 0 {
		if team, ok := match.TeamByID(view.SelectedTeamID); ok {
			selection = team.Name
		}
	}

	switch view.State {
	case bidstate.StateOpenNoBid:
		return fmt.Sprintf("%s: no bid yet, bidding is open", match.Label()), nil
	case bidstate.StateOpenWithBid:
		if knowledge.Kind == bidstate.KnowledgeLocal {
			return fmt.Sprintf("%s: your pick of %s is held locally, awaiting server confirmation", match.Label(), selection), nil
		}
		return fmt.Sprintf("%s: your bid is on %s. You can change it until the match starts", match.Label(), selection), nil
	case bidstate.StateLockedNoSelection:
		return fmt.Sprintf("%s: bidding closed, you did not bid on this match", match.Label()), nil
	case bidstate.StateLockedWithSelection:
		return fmt.Sprintf("%s: your bid is on %s, waiting for the result", match.Label(), selection), nil
	case bidstate.StateResolved:
		if view.Outcome == shared.BidWon {
			return fmt.Sprintf("%s: you WON, %s took the match", match.Label(), selection), nil
		}
		return fmt.Sprintf("%s: you lost, %s did not win", match.Label(), selection), nil
	}
	return fmt.Sprintf("%s: your bid status could not be confirmed, try again shortly", match.Label()), nil
}

// BreakdownReport renders who bid on each side of a match. Breakdown is
// optional detail: failures degrade to a placeholder, never an error.
func (a *API) BreakdownReport(ctx context.Context, discordID string, matchID int) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	match, err := a.findMatch(ctx, sess.Token, matchID)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}

	breakdown, err := a.Gateway.BidBreakdown(ctx, sess.Token, matchID)
	if err != nil {
		return fmt.Sprintf("Bid breakdown for %s is not available yet", match.Label()), nil
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("Bid breakdown for %s:\n", match.Label()))
	res.WriteString(formatBidders(match.Team1, breakdown.Team1Bidders, breakdown.WinnerTeamID))
	res.WriteString(formatBidders(match.Team2, breakdown.Team2Bidders, breakdown.WinnerTeamID))
	return res.String(), nil
}

func formatBidders(team shared.Team, bidders []string, winner *int) string {
	marker := ""
	if winner != nil && *winner == team.ID {
		marker = " (winner)"
	}
	if len(bidders) == 0 {
		return fmt.Sprintf("%s%s: no bids\n", team.Name, marker)
	}
	return fmt.Sprintf("%s%s: %s\n", team.Name, marker, strings.Join(bidders, ", "))
}

// bidKnowledge establishes what is known about the user's bid on a match.
// Server truth wins; when the server cannot be reached the locally-held
// selection (if any) is preferred for display over the fetch error, and
// otherwise the bid stays unknown rather than being treated as absent.
func (a *API) bidKnowledge(ctx context.Context, sess session.Session, matchID int) bidstate.Knowledge {
	lookup, err := a.Gateway.BidForMatch(ctx, sess.Token, matchID)
	if err == nil {
		if !lookup.HasBid || lookup.Bid == nil {
			// Confirmed no server bid; a local fallback still outranks it
			if local, lerr := a.Store.GetLocalBid(sess.DiscordID, matchID); lerr == nil {
				return bidstate.Local(local.SelectedTeamID)
			}
			return bidstate.NoBid()
		}
		return bidstate.Confirmed(*lookup.Bid)
	}

	if local, lerr := a.Store.GetLocalBid(sess.DiscordID, matchID); lerr == nil {
		return bidstate.Local(local.SelectedTeamID)
	}
	return bidstate.Unknown()
}

// quotaSnapshot fetches the quota stats, degrading to nil (fail-open) on
// any failure
func (a *API) quotaSnapshot(ctx context.Context, token string) *shared.BidStats {
	stats, err := a.Gateway.BidStats(ctx, token)
	if err != nil {
		return nil
	}
	return &stats
}
