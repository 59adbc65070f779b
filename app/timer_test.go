// app/timer_test.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package app

import (
	"testing"
	"time"
)

// fakeClock is a manually-advanced clock; sleeping advances it.
type fakeClock struct {
	t      time.Time
	sleeps int
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.sleeps++
	c.t = c.t.Add(d)
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeTimer(tickRate float64) (*Timer, *fakeClock) {
	c := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	t := NewTimer(tickRate)
	t.now, t.sleep = c.now, c.sleep
	t.Reset()
	return t, c
}

func TestTimerConsume(t *testing.T) {
	tm, clock := newFakeTimer(100) // 10ms ticks

	if tm.Delta() != 10*time.Millisecond {
		t.Fatalf("delta %s", tm.Delta())
	}

	clock.advance(25 * time.Millisecond)
	tm.Tick()

	n := 0
	for tm.ConsumeTime() {
		n++
	}
	if n != 2 {
		t.Errorf("consumed %d ticks, expected 2", n)
	}
	if bf := tm.BlendFactor(); bf < 0.499 || bf > 0.501 {
		t.Errorf("blend factor %f, expected 0.5", bf)
	}

	// The remainder carries over.
	clock.advance(5 * time.Millisecond)
	tm.Tick()
	if !tm.ConsumeTime() || tm.ConsumeTime() {
		t.Errorf("expected exactly one tick from carried-over time")
	}
}

func TestTimerMaxLag(t *testing.T) {
	tm, clock := newFakeTimer(100)

	clock.advance(5 * time.Second)
	tm.Tick()

	n := 0
	for tm.ConsumeTime() {
		n++
	}
	if n != 8 {
		t.Errorf("consumed %d ticks after a stall, expected 8", n)
	}
}

func TestTimerTickUntilUpdateReady(t *testing.T) {
	tm, clock := newFakeTimer(250) // 4ms ticks

	clock.advance(time.Millisecond)
	tm.TickUntilUpdateReady()
	if clock.sleeps != 3 {
		t.Errorf("slept %d times, expected 3", clock.sleeps)
	}
	if !tm.ConsumeTime() || tm.ConsumeTime() {
		t.Errorf("expected exactly one tick ready")
	}

	// No sleeping when an update is already due.
	clock.sleeps = 0
	clock.advance(9 * time.Millisecond)
	tm.TickUntilUpdateReady()
	if clock.sleeps != 0 {
		t.Errorf("slept %d times, expected none", clock.sleeps)
	}
}

func TestTimerReset(t *testing.T) {
	tm, clock := newFakeTimer(60)

	clock.advance(time.Second)
	tm.Reset()
	tm.Tick()
	if tm.ConsumeTime() {
		t.Errorf("time before reset was kept")
	}
	if tm.BlendFactor() != 0 {
		t.Errorf("blend factor %f after reset", tm.BlendFactor())
	}
}
