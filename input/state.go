// input/state.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package input

import (
	"golang.org/x/exp/maps"
)

// ButtonState tracks which buttons are held as well as which were
// pressed or released since the last call to Clear.
type ButtonState[T comparable] struct {
	down     map[T]struct{}
	pressed  map[T]struct{}
	released map[T]struct{}
}

func MakeButtonState[T comparable]() ButtonState[T] {
	return ButtonState[T]{
		down:     make(map[T]struct{}),
		pressed:  make(map[T]struct{}),
		released: make(map[T]struct{}),
	}
}

// SetDown records that b is down; it only counts as pressed if it was
// previously up, so key repeat doesn't generate presses.
func (s *ButtonState[T]) SetDown(b T) {
	if _, ok := s.down[b]; !ok {
		s.down[b] = struct{}{}
		s.pressed[b] = struct{}{}
	}
}

func (s *ButtonState[T]) SetUp(b T) {
	if _, ok := s.down[b]; ok {
		delete(s.down, b)
		s.released[b] = struct{}{}
	}
}

func (s *ButtonState[T]) Clear() {
	clear(s.pressed)
	clear(s.released)
}

func (s *ButtonState[T]) IsDown(b T) bool {
	_, ok := s.down[b]
	return ok
}

func (s *ButtonState[T]) IsUp(b T) bool {
	return !s.IsDown(b)
}

func (s *ButtonState[T]) IsPressed(b T) bool {
	_, ok := s.pressed[b]
	return ok
}

func (s *ButtonState[T]) IsReleased(b T) bool {
	_, ok := s.released[b]
	return ok
}

type playerAxis struct {
	player int
	axis   GamepadAxis
}

// AxisState holds the current value of each player's axes along with the
// values as of the last Clear, so that movement can be detected.
type AxisState struct {
	curr, prev map[playerAxis]float32
}

func MakeAxisState() AxisState {
	return AxisState{
		curr: make(map[playerAxis]float32),
		prev: make(map[playerAxis]float32),
	}
}

func (s *AxisState) Set(player int, axis GamepadAxis, v float32) {
	s.curr[playerAxis{player, axis}] = v
}

func (s *AxisState) Value(player int, axis GamepadAxis) float32 {
	return s.curr[playerAxis{player, axis}]
}

// HasMoved reports whether the axis value changed since the last Clear.
// An axis that has never been set is distinct from one set to zero.
func (s *AxisState) HasMoved(player int, axis GamepadAxis) bool {
	k := playerAxis{player, axis}
	c, cok := s.curr[k]
	p, pok := s.prev[k]
	return cok != pok || c != p
}

func (s *AxisState) Clear() {
	s.prev = maps.Clone(s.curr)
}

// reset forgets the player's axes entirely, as when a controller is
// disconnected.
func (s *AxisState) reset(player int) {
	for a := GamepadAxis(0); a < NumGamepadAxes; a++ {
		delete(s.curr, playerAxis{player, a})
		delete(s.prev, playerAxis{player, a})
	}
}
