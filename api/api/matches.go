/* matches.go
 * Contains the match listing and team resolution logic. The overview is
 * the bot's equivalent of the matches page: matches and quota stats are
 * fetched in parallel, lock state is derived for any match the server left
 * unannotated, and open matches are handed to the countdown arena.
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cricket-bids-bot/api/countdown"
	"cricket-bids-bot/api/shared"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"
)

// MatchOverview renders the match list with lock/countdown state and the
// user's remaining quotas. A failed quota fetch does not fail the overview;
// quotas degrade to "unavailable" and bidding stays fail-open.
func (a *API) MatchOverview(ctx context.Context, discordID, series string, todayOnly bool) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	var matches []shared.Match
	var stats *shared.BidStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if todayOnly {
			matches, err = a.Gateway.TodayMatches(gctx, sess.Token)
		} else {
			matches, err = a.Gateway.Matches(gctx, sess.Token, series)
		}
		return err
	})
	g.Go(func() error {
		s, err := a.Gateway.BidStats(gctx, sess.Token)
		if err != nil {
			// Quota is a usability hint here, never a gate. Unknown quota
			// fails open and the server re-validates every submission.
			return nil
		}
		stats = &s
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", a.authFailed(discordID, err)
	}

	if len(matches) == 0 {
		return "No matches found", nil
	}

	now := time.Now()
	var res strings.Builder
	res.WriteString("Matches:\n")
	for i := range matches {
		m := &matches[i]
		m.DeriveLockState(now, a.location())
		res.WriteString(a.formatMatchLine(*m))
		a.watchCountdown(*m)
	}
	res.WriteString(formatQuota(stats))
	return res.String(), nil
}

// formatMatchLine renders one match entry for the overview
func (a *API) formatMatchLine(m shared.Match) string {
	var state string
	switch {
	case m.IsLocked:
		state = "bidding closed"
	case m.SecondsUntilStart != nil:
		state = fmt.Sprintf("starts in %s", countdown.Format(*m.SecondsUntilStart))
	default:
		state = "open"
	}
	line := fmt.Sprintf("- #%d [%s] %s (%s vs %s): %s at %s", m.ID, m.MatchType, m.Label(), m.Team1.Name, m.Team2.Name, m.MatchDate, m.MatchTime)
	if m.Venue != "" {
		line += fmt.Sprintf(", %s", m.Venue)
	}
	return fmt.Sprintf("%s [%s]\n", line, state)
}

// watchCountdown registers an open match with the countdown arena so the
// lock transition is announced exactly once. Locked matches get any stale
// timer cancelled instead.
func (a *API) watchCountdown(m shared.Match) {
	if m.IsLocked {
		a.Countdown.Cancel(m.ID)
		return
	}
	if m.SecondsUntilStart == nil {
		return
	}
	match := m
	a.Countdown.Set(m.ID, *m.SecondsUntilStart, func(int) {
		if a.LockNotify != nil {
			match.IsLocked = true
			match.SecondsUntilStart = nil
			a.LockNotify(match)
		}
	})
}

func formatQuota(stats *shared.BidStats) string {
	if stats == nil {
		return "Bid quotas are unavailable right now; bidding stays open until the server says otherwise\n"
	}
	return fmt.Sprintf("Bids remaining: league %d/%d, semi %d/%d, final %d/%d\n",
		stats.LeagueRemaining, stats.LeagueLimit,
		stats.SemiRemaining, stats.SemiLimit,
		stats.FinalRemaining, stats.FinalLimit)
}

// TeamsReport renders the list of all teams in the tournament
func (a *API) TeamsReport(ctx context.Context, discordID string) (string, error) {
	sess, err := a.requireSession(ctx, discordID)
	if err != nil {
		return "", err
	}

	teams, err := a.Gateway.Teams(ctx, sess.Token)
	if err != nil {
		return "", a.authFailed(discordID, err)
	}
	if len(teams) == 0 {
		return "No teams found", nil
	}

	var res strings.Builder
	res.WriteString("Teams in the tournament:\n")
	for _, team := range teams {
		res.WriteString(fmt.Sprintf("- %s (%s)\n", team.Name, team.ShortName))
	}
	return res.String(), nil
}

// findMatch fetches the match list and locates one match by id, deriving
// lock state when the server left it unset
func (a *API) findMatch(ctx context.Context, token string, matchID int) (shared.Match, error) {
	matches, err := a.Gateway.Matches(ctx, token, "")
	if err != nil {
		return shared.Match{}, err
	}
	for _, m := range matches {
		if m.ID == matchID {
			m.DeriveLockState(time.Now(), a.location())
			return m, nil
		}
	}
	return shared.Match{}, fmt.Errorf("match %d was not found", matchID)
}

// errNoTeamMatch distinguishes a failed name lookup from transport errors
var errNoTeamMatch = errors.New("no team matched the input")

// resolveMatchTeam maps user input onto one of a match's two teams. Full
// names and short codes both match, with fuzzy ranking so a partial entry
// like "austral" still lands on Australia; ties go to an exact match when
// one exists.
func resolveMatchTeam(m shared.Match, input string) (shared.Team, error) {
	type candidate struct {
		label string
		team  shared.Team
	}
	candidates := []candidate{
		{strings.ToLower(m.Team1.Name), m.Team1},
		{strings.ToLower(m.Team1.ShortName), m.Team1},
		{strings.ToLower(m.Team2.Name), m.Team2},
		{strings.ToLower(m.Team2.ShortName), m.Team2},
	}

	labels := make([]string, len(candidates))
	lookup := make(map[string]shared.Team, len(candidates))
	for i, c := range candidates {
		labels[i] = c.label
		lookup[c.label] = c.team
	}

	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return shared.Team{}, fmt.Errorf("%w: team name is required, pick %s or %s", errNoTeamMatch, m.Team1.Name, m.Team2.Name)
	}

	results := fuzzy.RankFind(lower, labels)
	if len(results) == 0 {
		return shared.Team{}, fmt.Errorf("%w: %q is not playing in this match, pick %s or %s", errNoTeamMatch, input, m.Team1.Name, m.Team2.Name)
	}

	best := results[0]
	for _, r := range results {
		if r.Target == lower {
			best = r
			break
		}
		if r.Distance < best.Distance {
			best = r
		}
	}
	return lookup[best.Target], nil
}
