// input/event.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package input

import (
	"fmt"
)

// Event is implemented by all of the event types that the platform
// delivers; use a type switch to handle them.
type Event interface {
	isEvent()
}

// JoystickID identifies a connected controller for as long as it stays
// connected; it is never reused while the program is running.
type JoystickID int

type (
	KeyDown struct{ Key Key }
	KeyUp   struct{ Key Key }

	MouseButtonDown struct{ Button MouseButton }
	MouseButtonUp   struct{ Button MouseButton }
	// MouseMotion gives the new cursor position in window pixels.
	MouseMotion struct{ Position [2]float32 }

	ControllerAdded struct {
		Joystick JoystickID
		Name     string
	}
	ControllerRemoved struct {
		Joystick JoystickID
	}
	ControllerButtonDown struct {
		Joystick JoystickID
		Button   GamepadButton
	}
	ControllerButtonUp struct {
		Joystick JoystickID
		Button   GamepadButton
	}
	// ControllerAxisMotion values are normalized to [-1,1] with the
	// deadzone already applied.
	ControllerAxisMotion struct {
		Joystick JoystickID
		Axis     GamepadAxis
		Value    float32
	}

	// WindowResized gives the new framebuffer size in pixels.
	WindowResized struct{ Width, Height int }
	TextInput     struct{ Text string }
	// Quit is sent when the user asks to close the window.
	Quit struct{}
)

func (KeyDown) isEvent()              {}
func (KeyUp) isEvent()                {}
func (MouseButtonDown) isEvent()      {}
func (MouseButtonUp) isEvent()        {}
func (MouseMotion) isEvent()          {}
func (ControllerAdded) isEvent()      {}
func (ControllerRemoved) isEvent()    {}
func (ControllerButtonDown) isEvent() {}
func (ControllerButtonUp) isEvent()   {}
func (ControllerAxisMotion) isEvent() {}
func (WindowResized) isEvent()        {}
func (TextInput) isEvent()            {}
func (Quit) isEvent()                 {}

func (e KeyDown) String() string { return "key down " + e.Key.String() }
func (e KeyUp) String() string   { return "key up " + e.Key.String() }
func (e ControllerAxisMotion) String() string {
	return fmt.Sprintf("joystick %d %s %.3f", e.Joystick, e.Axis, e.Value)
}
