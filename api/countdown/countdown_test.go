/* countdown_test.go
 * Contains unit tests for the countdown arena. The arena under test runs at
 * millisecond tick speed so expiry can be observed without real waiting.
 */

package countdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expiryRecorder collects expiry callbacks so tests can count them
type expiryRecorder struct {
	mu    sync.Mutex
	fired []int
}

func (r *expiryRecorder) callback(matchID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, matchID)
}

func (r *expiryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, cond(), "condition not met within %v", timeout)
}

// TestSetAndExpire tests that a countdown reaches zero and fires exactly once
func TestSetAndExpire(t *testing.T) {
	a := NewWithInterval(time.Millisecond)
	rec := &expiryRecorder{}

	a.Set(7, 3, rec.callback)

	waitFor(t, time.Second, func() bool { return rec.count() > 0 })
	// Allow any stray extra ticks to surface before asserting exactly-once
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, []int{7}, rec.fired)

	_, running := a.Remaining(7)
	assert.False(t, running)
}

// TestSetZeroExpiresImmediately tests that a non-positive value fires straight away
func TestSetZeroExpiresImmediately(t *testing.T) {
	a := NewWithInterval(time.Hour) // ticks must not be needed
	rec := &expiryRecorder{}

	a.Set(3, 0, rec.callback)

	waitFor(t, time.Second, func() bool { return rec.count() == 1 })
}

// TestSetSupersedes tests that a fresh value replaces a running countdown
// without the old one firing
func TestSetSupersedes(t *testing.T) {
	a := NewWithInterval(time.Millisecond)
	oldRec := &expiryRecorder{}
	newRec := &expiryRecorder{}

	a.Set(7, 100000, oldRec.callback)
	a.Set(7, 2, newRec.callback)

	waitFor(t, time.Second, func() bool { return newRec.count() == 1 })
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, oldRec.count(), "superseded countdown must not fire")
}

// TestExpire_SupersededEntryStaysSilent tests that a timer goroutine
// reaching expiry after its entry was replaced does not fire its callback
// and does not remove the replacement
func TestExpire_SupersededEntryStaysSilent(t *testing.T) {
	a := NewWithInterval(time.Hour)
	staleRec := &expiryRecorder{}
	liveRec := &expiryRecorder{}

	a.Set(7, 10, liveRec.callback)

	// A goroutine whose entry lost the race to a fresh Set arrives here
	// with a pointer that is no longer in the arena
	stale := &entry{remaining: 0, cancel: make(chan struct{})}
	a.expire(7, stale, staleRec.callback)

	assert.Equal(t, 0, staleRec.count(), "superseded expiry must not fire")
	secs, running := a.Remaining(7)
	assert.True(t, running, "the live countdown must survive a stale expiry")
	assert.Equal(t, 10, secs)
	assert.Equal(t, 0, liveRec.count())
}

// TestCancel tests that a cancelled countdown never fires its callback
func TestCancel(t *testing.T) {
	a := NewWithInterval(time.Millisecond)
	rec := &expiryRecorder{}

	a.Set(7, 100000, rec.callback)
	_, running := a.Remaining(7)
	require.True(t, running)

	a.Cancel(7)

	_, running = a.Remaining(7)
	assert.False(t, running)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

// TestCancelUnknownMatch tests that cancelling an absent id is a no-op
func TestCancelUnknownMatch(t *testing.T) {
	a := New()

	assert.NotPanics(t, func() { a.Cancel(42) })
}

// TestRemaining tests the remaining-seconds query for present and absent ids
func TestRemaining(t *testing.T) {
	a := NewWithInterval(time.Hour)

	a.Set(7, 90, nil)

	secs, running := a.Remaining(7)
	assert.True(t, running)
	assert.Equal(t, 90, secs)

	_, running = a.Remaining(8)
	assert.False(t, running)
}

// TestStop tests that shutdown cancels every live countdown
func TestStop(t *testing.T) {
	a := NewWithInterval(time.Millisecond)
	rec := &expiryRecorder{}

	a.Set(1, 100000, rec.callback)
	a.Set(2, 100000, rec.callback)

	a.Stop()

	_, running := a.Remaining(1)
	assert.False(t, running)
	_, running = a.Remaining(2)
	assert.False(t, running)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

// TestFormat tests the mm:ss and hh:mm:ss renderings
func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00", Format(0))
	assert.Equal(t, "00:59", Format(59))
	assert.Equal(t, "02:05", Format(125))
	assert.Equal(t, "01:00:01", Format(3601))
	assert.Equal(t, "00:00", Format(-5))
}
