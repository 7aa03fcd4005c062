/* countdown.go
 * Contains the arena of per-match countdown timers. Each displayed match
 * gets one handle keyed by match id; the handle ticks a remaining-seconds
 * value down on wall-clock seconds, clamps at zero, fires its expiry
 * callback exactly once and is cancelled explicitly when the match leaves
 * display or a fresh authoritative value supersedes it.
 */

package countdown

import (
	"fmt"
	"sync"
	"time"
)

type entry struct {
	remaining int
	cancel    chan struct{}
}

// Arena owns every live countdown, keyed by match id
type Arena struct {
	mu       sync.Mutex
	interval time.Duration
	entries  map[int]*entry
}

// New creates an arena ticking on real wall-clock seconds
func New() *Arena {
	return NewWithInterval(time.Second)
}

// NewWithInterval creates an arena with a custom tick interval. Tests use
// this to run countdowns at millisecond speed.
func NewWithInterval(interval time.Duration) *Arena {
	return &Arena{
		interval: interval,
		entries:  make(map[int]*entry),
	}
}

// Set starts a countdown for a match, replacing any countdown already
// running for it. A refreshed authoritative value therefore resets the
// timer rather than letting the old one run on. A non-positive seconds
// value expires immediately.
func (a *Arena) Set(matchID int, seconds int, onExpire func(matchID int)) {
	if seconds < 0 {
		seconds = 0
	}

	a.mu.Lock()
	if old, ok := a.entries[matchID]; ok {
		close(old.cancel)
	}
	e := &entry{remaining: seconds, cancel: make(chan struct{})}
	a.entries[matchID] = e
	a.mu.Unlock()

	go a.run(matchID, e, onExpire)
}

func (a *Arena) run(matchID int, e *entry, onExpire func(matchID int)) {
	a.mu.Lock()
	done := e.remaining == 0
	a.mu.Unlock()
	if done {
		a.expire(matchID, e, onExpire)
		return
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.cancel:
			return
		case <-ticker.C:
			// A cancel racing a tick must win, otherwise a superseded
			// timer could still fire its callback.
			select {
			case <-e.cancel:
				return
			default:
			}

			a.mu.Lock()
			if e.remaining > 0 {
				e.remaining--
			}
			done := e.remaining == 0
			a.mu.Unlock()

			if done {
				a.expire(matchID, e, onExpire)
				return
			}
		}
	}
}

// expire removes the entry and fires the callback. Each entry's goroutine
// reaches here at most once, which is what makes expiry exactly-once. The
// callback only fires while the entry is still the live one for its match:
// a Set or Cancel racing the final tick wins, and the stale goroutine
// reaching here must stay silent.
func (a *Arena) expire(matchID int, e *entry, onExpire func(matchID int)) {
	a.mu.Lock()
	live := a.entries[matchID] == e
	if live {
		delete(a.entries, matchID)
	}
	a.mu.Unlock()

	if live && onExpire != nil {
		onExpire(matchID)
	}
}

// Remaining returns the seconds left on a match's countdown, and whether
// one is running
func (a *Arena) Remaining(matchID int) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[matchID]
	if !ok {
		return 0, false
	}
	return e.remaining, true
}

// Cancel stops and removes a match's countdown without firing its callback
func (a *Arena) Cancel(matchID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.entries[matchID]; ok {
		close(e.cancel)
		delete(a.entries, matchID)
	}
}

// Stop cancels every live countdown. Used at shutdown so no timer
// goroutines outlive the bot.
func (a *Arena) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, e := range a.entries {
		close(e.cancel)
		delete(a.entries, id)
	}
}

// Format renders a seconds value as mm:ss, or hh:mm:ss past the hour
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
