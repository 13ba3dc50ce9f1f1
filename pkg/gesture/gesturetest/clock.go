// Package gesturetest provides a fake clock for driving click timers in
// tests.
//
// clockwork's fake clock runs AfterFunc callbacks on their own goroutines,
// so a select or drill may land after Advance returns. [Clock.Advance]
// waits for every callback it made due, which keeps assertions that follow
// it deterministic.
package gesturetest

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is a clockwork fake clock whose Advance blocks until the callbacks
// it fired have returned.
type Clock struct {
	*clockwork.FakeClock

	mu      sync.Mutex
	pending []*timer
}

var _ clockwork.Clock = (*Clock)(nil)

type timer struct {
	clockwork.Timer
	clock    *Clock
	deadline time.Time
	done     chan struct{}
	stopped  bool
}

// NewClock returns a fake clock.
func NewClock() *Clock {
	return &Clock{FakeClock: clockwork.NewFakeClock()}
}

// AfterFunc schedules f on the fake clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) clockwork.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &timer{clock: c, deadline: c.FakeClock.Now().Add(d), done: make(chan struct{})}
	t.Timer = c.FakeClock.AfterFunc(d, func() {
		defer close(t.done)
		f()
	})
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by d and waits for the callbacks that
// came due.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.FakeClock.Now().Add(d)
	var due, rest []*timer
	for _, t := range c.pending {
		switch {
		case t.stopped:
		case t.deadline.After(target):
			rest = append(rest, t)
		default:
			due = append(due, t)
		}
	}
	c.pending = rest
	c.FakeClock.Advance(d)
	c.mu.Unlock()

	for _, t := range due {
		<-t.done
	}
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	ok := t.Timer.Stop()
	if ok {
		t.stopped = true
	}
	return ok
}
