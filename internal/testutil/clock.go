// Package testutil provides deterministic fakes shared by tests.
package testutil

import (
	"sync"
	"time"
)

// Clock is a deterministic wall clock for tests.
//
// Each call to Now returns the configured base time advanced by one step per
// previous call. Sessions stamped from a Clock produce byte-identical record
// files across runs, which is what golden comparisons require.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu    sync.Mutex
	base  time.Time
	step  time.Duration
	calls int
}

// NewClock creates a clock that starts at base and advances by step on each
// call to Now.
func NewClock(base time.Time, step time.Duration) *Clock {
	return &Clock{base: base, step: step}
}

// Now returns the next timestamp in the sequence.
//
// The first call returns base, the second base+step, and so on.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Reset rewinds the clock to base.
//
// Used for test reuse. After Reset, the next call to Now returns base again.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
