package gesturetest

import (
	"testing"
	"time"
)

func TestAdvanceWaitsForCallbacks(t *testing.T) {
	c := NewClock()
	var fired []string

	c.AfterFunc(250*time.Millisecond, func() {
		time.Sleep(5 * time.Millisecond)
		fired = append(fired, "select")
	})
	c.AfterFunc(time.Second, func() { fired = append(fired, "late") })

	c.Advance(249 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("fired early: %v", fired)
	}
	c.Advance(time.Millisecond)
	if len(fired) != 1 || fired[0] != "select" {
		t.Fatalf("fired = %v, want [select]", fired)
	}
	if c.Pending() != 1 {
		t.Errorf("pending = %d, want 1", c.Pending())
	}
}

func TestStoppedTimerNeverFires(t *testing.T) {
	c := NewClock()
	ran := false
	timer := c.AfterFunc(250*time.Millisecond, func() { ran = true })

	if !timer.Stop() {
		t.Fatal("Stop on a pending timer should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(time.Second)
	if ran || c.Pending() != 0 {
		t.Errorf("ran=%v pending=%d", ran, c.Pending())
	}
}
