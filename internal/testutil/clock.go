// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

// defaultFakeTime is the reference time of a FakeClock created from a zero time.
var defaultFakeTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type (
	// Clock abstracts the current time. The registry stamps mutations
	// through it; tests substitute FakeClock.
	Clock interface {
		Now() time.Time
	}

	// RealClock implements Clock using the system time.
	RealClock struct{}

	// FakeClock implements Clock with manually controlled time.
	// Time only moves when Advance or Set is called.
	FakeClock struct {
		mu      sync.Mutex
		current time.Time
	}
)

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// NewFakeClock creates a FakeClock at initial, or at a fixed reference time
// when initial is zero.
func NewFakeClock(initial time.Time) *FakeClock {
	if initial.IsZero() {
		initial = defaultFakeTime
	}
	return &FakeClock{current: initial}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
