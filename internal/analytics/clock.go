package analytics

import (
	"sync"
	"time"
)

// Clock is a pausable, monotonic game clock. Elapsed time accumulates
// only while the clock runs, so pausing the game pauses its timeline
// and resuming continues from where it stopped.
type Clock struct {
	mu        sync.Mutex
	now       func() time.Time
	elapsed   time.Duration
	startedAt time.Time
	running   bool
}

// NewClock returns a stopped clock. Call Start to begin the timeline.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// newClockAt returns a stopped clock reading time from now. Tests use it
// to drive the timeline deterministically.
func newClockAt(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Start begins or resumes the timeline. Starting a running clock is a
// no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.startedAt = c.now()
	c.running = true
}

// Pause stops the timeline, banking the elapsed time so far. Pausing a
// stopped clock is a no-op.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.elapsed += c.now().Sub(c.startedAt)
	c.running = false
}

// Elapsed returns the accumulated game time. The reading is monotonic:
// it never decreases across Pause/Start cycles.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return c.elapsed + c.now().Sub(c.startedAt)
	}
	return c.elapsed
}

// Running reports whether the timeline is advancing.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Restore sets the accumulated time and stops the clock. Snapshot
// restore uses it to continue a saved timeline.
func (c *Clock) Restore(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = elapsed
	c.running = false
}

// Reset zeroes the timeline and stops the clock.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = 0
	c.running = false
}
