// app/timer.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package app

import (
	"time"
)

// Timer implements a fixed timestep: wall-clock time accumulates as the
// program runs and is consumed in units of the tick duration, one per
// update. Accumulated time is capped so that a long stall (e.g., a
// debugger pause or a dragged window) doesn't lead to a burst of
// updates afterward.
type Timer struct {
	last        time.Time
	accumulated time.Duration
	target      time.Duration
	maxLag      time.Duration

	// These are replaced in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewTimer returns a Timer for the given number of updates per second.
func NewTimer(tickRate float64) *Timer {
	target := time.Duration(float64(time.Second) / tickRate)
	return &Timer{
		last:   time.Now(),
		target: target,
		maxLag: 8 * target,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Tick accounts for the time that has passed since the last call.
func (t *Timer) Tick() {
	t.advance()
	t.capAccumulated()
}

// TickUntilUpdateReady is like Tick but sleeps, in 1ms increments, until at
// least one update's worth of time has accumulated.
func (t *Timer) TickUntilUpdateReady() {
	t.advance()
	for t.accumulated < t.target {
		t.sleep(time.Millisecond)
		t.advance()
	}
	t.capAccumulated()
}

// Reset discards accumulated time and restarts the clock.
func (t *Timer) Reset() {
	t.last = t.now()
	t.accumulated = 0
}

// ConsumeTime returns true and deducts one tick if an update is due.
func (t *Timer) ConsumeTime() bool {
	if t.accumulated < t.target {
		return false
	}
	t.accumulated -= t.target
	return true
}

// Delta returns the fixed duration of an update.
func (t *Timer) Delta() time.Duration {
	return t.target
}

// BlendFactor returns how far, as a fraction of a tick, the current time
// is past the last update; it can be used to interpolate when drawing.
func (t *Timer) BlendFactor() float32 {
	return float32(t.accumulated.Seconds() / t.target.Seconds())
}

func (t *Timer) advance() {
	now := t.now()
	t.accumulated += now.Sub(t.last)
	t.last = now
}

func (t *Timer) capAccumulated() {
	t.accumulated = min(t.accumulated, t.maxLag)
}
