package testutil

import (
	"sync"
	"time"
)

// Clock is a thread-safe deterministic time source for tests. Each call to
// Now advances by a fixed step, so journaled timestamps are strictly
// increasing and reproducible across runs.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock starts at a fixed epoch with one-second steps.
func NewClock() *Clock {
	return &Clock{
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step: time.Second,
	}
}

// Now returns the current instant and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Reset rewinds the clock to its starting epoch for test reuse.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}
