package testutil

import (
	"sync"
	"time"
)

// StepClock is a fake wall clock that advances by a fixed step on every
// reading.
//
// Passing Now to shocktest.WithClock makes every test case appear to take
// exactly one step, which keeps elapsed times in reports reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
	step  time.Duration
	reads int
}

// NewStepClock creates a clock starting at start that advances by step
// after each call to Now.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start, now: start, step: step}
}

// Now returns the current time and then advances the clock by one step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	c.reads++
	return t
}

// Reads returns how many times Now has been called.
func (c *StepClock) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Reset rewinds the clock to its start time.
//
// Used for test reuse. After Reset(), the next call to Now() returns start.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
	c.reads = 0
}
