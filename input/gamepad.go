// input/gamepad.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package input

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type GamepadButton int

const (
	GamepadA GamepadButton = iota
	GamepadB
	GamepadX
	GamepadY
	GamepadBack
	GamepadGuide
	GamepadStart
	GamepadLeftStick
	GamepadRightStick
	GamepadLeftShoulder
	GamepadRightShoulder
	GamepadUp
	GamepadDown
	GamepadLeft
	GamepadRight
	NumGamepadButtons
)

func (b GamepadButton) String() string {
	if b < 0 || b >= NumGamepadButtons {
		return fmt.Sprintf("GamepadButton(%d)", int(b))
	}
	return [...]string{"A", "B", "X", "Y", "Back", "Guide", "Start", "LeftStick", "RightStick",
		"LeftShoulder", "RightShoulder", "Up", "Down", "Left", "Right"}[b]
}

type GamepadAxis int

const (
	GamepadLeftStickX GamepadAxis = iota
	GamepadLeftStickY
	GamepadRightStickX
	GamepadRightStickY
	GamepadLeftTrigger
	GamepadRightTrigger
	NumGamepadAxes
)

func (a GamepadAxis) String() string {
	if a < 0 || a >= NumGamepadAxes {
		return fmt.Sprintf("GamepadAxis(%d)", int(a))
	}
	return [...]string{"LeftStickX", "LeftStickY", "RightStickX", "RightStickY", "LeftTrigger",
		"RightTrigger"}[a]
}

type GamepadStick int

const (
	GamepadStickLeft GamepadStick = iota
	GamepadStickRight
)

func (s GamepadStick) String() string {
	if s == GamepadStickLeft {
		return "LeftStick"
	} else if s == GamepadStickRight {
		return "RightStick"
	}
	return fmt.Sprintf("GamepadStick(%d)", int(s))
}

// Axes returns the x and y axes that make up the stick.
func (s GamepadStick) Axes() (GamepadAxis, GamepadAxis) {
	if s == GamepadStickRight {
		return GamepadRightStickX, GamepadRightStickY
	}
	return GamepadLeftStickX, GamepadLeftStickY
}

// Deadzone is the magnitude below which axis values are reported as zero.
const Deadzone = 0.2

// ApplyDeadzone returns zero for values within the deadzone and v
// otherwise.
func ApplyDeadzone[F constraints.Float](v F) F {
	if v > -Deadzone && v < Deadzone {
		return 0
	}
	return v
}

// NormalizeAxis maps a raw signed 16-bit axis value to [-1,1] and applies
// the deadzone.
func NormalizeAxis(raw int16) float32 {
	var v float32
	if raw > 0 {
		v = float32(raw) / 32767
	} else {
		v = float32(raw) / 32768
	}
	return ApplyDeadzone(v)
}

// Gamepad is a connected controller.
type Gamepad struct {
	Joystick JoystickID
	Name     string
}
