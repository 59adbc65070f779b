// input/input.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package input defines the events delivered by the platform layer and
// tracks keyboard, mouse, and gamepad state from them.
package input

type playerButton struct {
	player int
	button GamepadButton
}

// Input accumulates device state from events. Controllers are assigned to
// player slots in the order they're connected; when a controller is
// disconnected, its slot is given to the next one that connects.
//
// Pressed/released state and axis movement are relative to the last call
// to Clear, which the application loop makes after each update.
type Input struct {
	keys           ButtonState[Key]
	mouseButtons   ButtonState[MouseButton]
	gamepadButtons ButtonState[playerButton]
	axes           AxisState
	mousePosition  [2]float32
	text           string

	gamepads  []*Gamepad // indexed by player; nil for free slots
	joysticks map[JoystickID]int
}

func New() *Input {
	return &Input{
		keys:           MakeButtonState[Key](),
		mouseButtons:   MakeButtonState[MouseButton](),
		gamepadButtons: MakeButtonState[playerButton](),
		axes:           MakeAxisState(),
		joysticks:      make(map[JoystickID]int),
	}
}

// HandleEvent updates the input state from e. Controller events for
// joysticks that were never added are ignored.
func (in *Input) HandleEvent(e Event) {
	switch e := e.(type) {
	case KeyDown:
		in.keys.SetDown(e.Key)
	case KeyUp:
		in.keys.SetUp(e.Key)
	case MouseButtonDown:
		in.mouseButtons.SetDown(e.Button)
	case MouseButtonUp:
		in.mouseButtons.SetUp(e.Button)
	case MouseMotion:
		in.mousePosition = e.Position
	case TextInput:
		in.text += e.Text

	case ControllerAdded:
		if _, ok := in.joysticks[e.Joystick]; ok {
			return
		}
		gp := &Gamepad{Joystick: e.Joystick, Name: e.Name}
		player := -1
		for i, g := range in.gamepads {
			if g == nil {
				player = i
				break
			}
		}
		if player == -1 {
			player = len(in.gamepads)
			in.gamepads = append(in.gamepads, gp)
		} else {
			in.gamepads[player] = gp
		}
		in.joysticks[e.Joystick] = player

	case ControllerRemoved:
		if player, ok := in.joysticks[e.Joystick]; ok {
			delete(in.joysticks, e.Joystick)
			in.gamepads[player] = nil
			for b := GamepadButton(0); b < NumGamepadButtons; b++ {
				delete(in.gamepadButtons.down, playerButton{player, b})
			}
			in.axes.reset(player)
		}

	case ControllerButtonDown:
		if player, ok := in.joysticks[e.Joystick]; ok {
			in.gamepadButtons.SetDown(playerButton{player, e.Button})
		}
	case ControllerButtonUp:
		if player, ok := in.joysticks[e.Joystick]; ok {
			in.gamepadButtons.SetUp(playerButton{player, e.Button})
		}
	case ControllerAxisMotion:
		if player, ok := in.joysticks[e.Joystick]; ok {
			in.axes.Set(player, e.Axis, e.Value)
		}
	}
}

// Clear resets the per-update state: pressed and released buttons, axis
// movement, and text input.
func (in *Input) Clear() {
	in.keys.Clear()
	in.mouseButtons.Clear()
	in.gamepadButtons.Clear()
	in.axes.Clear()
	in.text = ""
}

func (in *Input) KeyDown(k Key) bool     { return in.keys.IsDown(k) }
func (in *Input) KeyUp(k Key) bool       { return in.keys.IsUp(k) }
func (in *Input) KeyPressed(k Key) bool  { return in.keys.IsPressed(k) }
func (in *Input) KeyReleased(k Key) bool { return in.keys.IsReleased(k) }

func (in *Input) MouseButtonDown(b MouseButton) bool     { return in.mouseButtons.IsDown(b) }
func (in *Input) MouseButtonUp(b MouseButton) bool       { return in.mouseButtons.IsUp(b) }
func (in *Input) MouseButtonPressed(b MouseButton) bool  { return in.mouseButtons.IsPressed(b) }
func (in *Input) MouseButtonReleased(b MouseButton) bool { return in.mouseButtons.IsReleased(b) }

// MousePosition returns the cursor position in window pixels.
func (in *Input) MousePosition() [2]float32 { return in.mousePosition }

// Text returns the text typed since the last Clear.
func (in *Input) Text() string { return in.text }

func (in *Input) GamepadButtonDown(player int, b GamepadButton) bool {
	return in.gamepadButtons.IsDown(playerButton{player, b})
}

func (in *Input) GamepadButtonUp(player int, b GamepadButton) bool {
	return in.gamepadButtons.IsUp(playerButton{player, b})
}

func (in *Input) GamepadButtonPressed(player int, b GamepadButton) bool {
	return in.gamepadButtons.IsPressed(playerButton{player, b})
}

func (in *Input) GamepadButtonReleased(player int, b GamepadButton) bool {
	return in.gamepadButtons.IsReleased(playerButton{player, b})
}

func (in *Input) GamepadAxis(player int, axis GamepadAxis) float32 {
	return in.axes.Value(player, axis)
}

func (in *Input) GamepadAxisMoved(player int, axis GamepadAxis) bool {
	return in.axes.HasMoved(player, axis)
}

func (in *Input) GamepadStick(player int, stick GamepadStick) [2]float32 {
	x, y := stick.Axes()
	return [2]float32{in.axes.Value(player, x), in.axes.Value(player, y)}
}

func (in *Input) GamepadStickMoved(player int, stick GamepadStick) bool {
	x, y := stick.Axes()
	return in.axes.HasMoved(player, x) || in.axes.HasMoved(player, y)
}

// Gamepad returns the controller assigned to the player, if any.
func (in *Input) Gamepad(player int) (Gamepad, bool) {
	if player < 0 || player >= len(in.gamepads) || in.gamepads[player] == nil {
		return Gamepad{}, false
	}
	return *in.gamepads[player], true
}

// Gamepads returns the players that currently have a controller, in
// increasing order.
func (in *Input) Gamepads() []int {
	var p []int
	for i, g := range in.gamepads {
		if g != nil {
			p = append(p, i)
		}
	}
	return p
}
