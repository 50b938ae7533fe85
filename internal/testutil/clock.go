package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant returned by a DeterministicClock.
var Epoch = time.Date(2025, 10, 17, 21, 30, 0, 0, time.UTC)

// DeterministicClock is a thread-safe stand-in for time.Now that advances by
// a fixed step on every call.
//
// Synchronizers stamp run journal entries through an injected now function;
// using this clock makes those timestamps reproducible in golden output.
type DeterministicClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewDeterministicClock creates a clock starting at Epoch with a one second
// step.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{next: Epoch, step: time.Second}
}

// Now returns the current instant and advances the clock by one step.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Peek returns the instant the next call to Now will return.
func (c *DeterministicClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Reset rewinds the clock to Epoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = Epoch
}
