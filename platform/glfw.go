// platform/glfw.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"
	"runtime"

	"github.com/mmp/blit/input"
	"github.com/mmp/blit/log"
	"github.com/mmp/blit/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwPlatform implements the Platform interface using GLFW.
type glfwPlatform struct {
	window *glfw.Window
	config *Config
	lg     *log.Logger

	// Events are queued by the GLFW callbacks during glfw.PollEvents.
	events      []input.Event
	windowTitle string
	quitSent    bool

	gamepads       [glfw.JoystickLast + 1]*glfwGamepad
	nextJoystickID input.JoystickID
}

// glfwGamepad records the last state reported for a connected gamepad so
// that changes can be turned into events.
type glfwGamepad struct {
	id    input.JoystickID
	state gamepadState
}

// New returns a new instance of a Platform implemented with a window
// of the specified size open at the specified position on the screen.
// It must be called from the main thread and leaves the window's OpenGL
// 3.3 core context current.
func New(config *Config, lg *log.Logger) (Platform, error) {
	lg.Info("Starting GLFW initialization")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	lg.Infof("GLFW: %s", glfw.GetVersionString())

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	vm := glfw.GetPrimaryMonitor().GetVideoMode()
	if config.InitialWindowSize[0] <= 0 || config.InitialWindowSize[1] <= 0 {
		config.InitialWindowSize = [2]int{vm.Width - 150, vm.Height - 150}
	}
	// If window position is out of bounds, create the window at (100, 100)
	if config.InitialWindowPosition[0] < 0 || config.InitialWindowPosition[1] < 0 ||
		config.InitialWindowPosition[0] > vm.Width || config.InitialWindowPosition[1] > vm.Height {
		config.InitialWindowPosition = [2]int{100, 100}
	}

	// Start with an invisible window so that we can position it first
	glfw.WindowHint(glfw.Visible, glfw.False)
	if config.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}
	if config.EnableMSAA {
		glfw.WindowHint(glfw.Samples, 4)
	}

	title := config.Title
	if title == "" {
		title = "blit"
	}

	var window *glfw.Window
	var err error
	if config.StartInFullScreen {
		monitor := glfw.GetPrimaryMonitor()
		window, err = glfw.CreateWindow(vm.Width, vm.Height, title, monitor, nil)
	} else {
		window, err = glfw.CreateWindow(config.InitialWindowSize[0], config.InitialWindowSize[1], title, nil, nil)
	}
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	if !config.StartInFullScreen {
		window.SetPos(config.InitialWindowPosition[0], config.InitialWindowPosition[1])
	}
	window.Show()
	window.MakeContextCurrent()

	platform := &glfwPlatform{
		window:         window,
		config:         config,
		lg:             lg,
		windowTitle:    title,
		nextJoystickID: 1,
	}
	platform.installCallbacks()
	platform.EnableVSync(config.VSync)

	w, h := window.GetFramebufferSize()
	lg.Info("Finished GLFW initialization", "framebuffer_width", w, "framebuffer_height", h)

	return platform, nil
}

func (g *glfwPlatform) installCallbacks() {
	g.window.SetKeyCallback(g.keyChange)
	g.window.SetCharCallback(g.charChange)
	g.window.SetMouseButtonCallback(g.mouseButtonChange)
	g.window.SetCursorPosCallback(g.cursorPosChange)
	g.window.SetFramebufferSizeCallback(g.framebufferSizeChange)
	g.window.SetCloseCallback(g.closeRequested)
}

///////////////////////////////////////////////////////////////////////////
// renderer.Target

func (g *glfwPlatform) Size() (int, int) {
	return g.window.GetFramebufferSize()
}

func (g *glfwPlatform) Flipped() bool { return false }

func (g *glfwPlatform) Framebuffer() renderer.FramebufferID { return 0 }

///////////////////////////////////////////////////////////////////////////

func (g *glfwPlatform) PollEvents() []input.Event {
	g.events = g.events[:0]
	glfw.PollEvents()
	g.pollGamepads()

	// The caller may hold on to the returned slice past the next call.
	ev := make([]input.Event, len(g.events))
	copy(ev, g.events)
	return ev
}

func (g *glfwPlatform) SwapBuffers() {
	g.window.SwapBuffers()
}

func (g *glfwPlatform) ShouldStop() bool {
	return g.window.ShouldClose()
}

func (g *glfwPlatform) WindowSize() [2]int {
	w, h := g.window.GetSize()
	return [2]int{w, h}
}

func (g *glfwPlatform) FramebufferSize() [2]int {
	w, h := g.window.GetFramebufferSize()
	return [2]int{w, h}
}

func (g *glfwPlatform) DPIScale() float32 {
	if runtime.GOOS == "windows" {
		sx, sy := g.window.GetContentScale()
		return float32(int((sx + sy) / 2))
	}
	ws, fs := g.WindowSize(), g.FramebufferSize()
	if ws[0] == 0 {
		return 1
	}
	return float32(fs[0]) / float32(ws[0])
}

func (g *glfwPlatform) EnableVSync(sync bool) {
	if sync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (g *glfwPlatform) SetWindowTitle(text string) {
	if text != g.windowTitle {
		g.window.SetTitle(text)
		g.windowTitle = text
	}
}

func (g *glfwPlatform) Dispose() {
	g.window.Destroy()
	glfw.Terminate()
}

///////////////////////////////////////////////////////////////////////////
// Callbacks

func (g *glfwPlatform) keyChange(window *glfw.Window, keycode glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// Repeats are dropped; held keys are tracked by input.Input.
	if action != glfw.Press && action != glfw.Release {
		return
	}
	k, ok := glfwKeys[keycode]
	if !ok {
		return
	}
	if action == glfw.Press {
		g.events = append(g.events, input.KeyDown{Key: k})
	} else {
		g.events = append(g.events, input.KeyUp{Key: k})
	}
}

func (g *glfwPlatform) charChange(window *glfw.Window, char rune) {
	g.events = append(g.events, input.TextInput{Text: string(char)})
}

var glfwMouseButtons = map[glfw.MouseButton]input.MouseButton{
	glfw.MouseButtonLeft:   input.MouseButtonLeft,
	glfw.MouseButtonMiddle: input.MouseButtonMiddle,
	glfw.MouseButtonRight:  input.MouseButtonRight,
	glfw.MouseButton4:      input.MouseButtonX1,
	glfw.MouseButton5:      input.MouseButtonX2,
}

func (g *glfwPlatform) mouseButtonChange(window *glfw.Window, rawButton glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := glfwMouseButtons[rawButton]
	if !ok {
		return
	}
	if action == glfw.Press {
		g.events = append(g.events, input.MouseButtonDown{Button: b})
	} else if action == glfw.Release {
		g.events = append(g.events, input.MouseButtonUp{Button: b})
	}
}

// cursorPosChange reports positions in framebuffer pixels so that they
// match the coordinates used for drawing to the window.
func (g *glfwPlatform) cursorPosChange(window *glfw.Window, x, y float64) {
	s := g.DPIScale()
	g.events = append(g.events, input.MouseMotion{Position: [2]float32{float32(x) * s, float32(y) * s}})
}

func (g *glfwPlatform) framebufferSizeChange(window *glfw.Window, width, height int) {
	g.events = append(g.events, input.WindowResized{Width: width, Height: height})
}

func (g *glfwPlatform) closeRequested(window *glfw.Window) {
	if !g.quitSent {
		g.events = append(g.events, input.Quit{})
		g.quitSent = true
	}
}

///////////////////////////////////////////////////////////////////////////
// Gamepads

// pollGamepads checks all of the joystick slots for gamepads that have
// been connected or disconnected and for changes in the state of the
// connected ones. GLFW reuses joystick slots, so each newly-connected
// gamepad is given a fresh JoystickID.
func (g *glfwPlatform) pollGamepads() {
	for j := glfw.Joystick1; j <= glfw.JoystickLast; j++ {
		present := j.Present() && j.IsGamepad()
		gp := g.gamepads[j]

		if !present {
			if gp != nil {
				g.lg.Info("gamepad disconnected", "joystick", gp.id)
				g.events = append(g.events, input.ControllerRemoved{Joystick: gp.id})
				g.gamepads[j] = nil
			}
			continue
		}

		if gp == nil {
			gp = &glfwGamepad{id: g.nextJoystickID}
			g.nextJoystickID++
			g.gamepads[j] = gp
			name := j.GetGamepadName()
			g.lg.Info("gamepad connected", "joystick", gp.id, "name", name)
			g.events = append(g.events, input.ControllerAdded{Joystick: gp.id, Name: name})
		}

		if st := j.GetGamepadState(); st != nil {
			curr := gamepadStateFromGLFW(st)
			g.events = append(g.events, diffGamepad(gp.id, gp.state, curr)...)
			gp.state = curr
		}
	}
}

type gamepadState struct {
	buttons [input.NumGamepadButtons]bool
	axes    [input.NumGamepadAxes]float32
}

var glfwGamepadButtons = map[glfw.GamepadButton]input.GamepadButton{
	glfw.ButtonA:           input.GamepadA,
	glfw.ButtonB:           input.GamepadB,
	glfw.ButtonX:           input.GamepadX,
	glfw.ButtonY:           input.GamepadY,
	glfw.ButtonLeftBumper:  input.GamepadLeftShoulder,
	glfw.ButtonRightBumper: input.GamepadRightShoulder,
	glfw.ButtonBack:        input.GamepadBack,
	glfw.ButtonStart:       input.GamepadStart,
	glfw.ButtonGuide:       input.GamepadGuide,
	glfw.ButtonLeftThumb:   input.GamepadLeftStick,
	glfw.ButtonRightThumb:  input.GamepadRightStick,
	glfw.ButtonDpadUp:      input.GamepadUp,
	glfw.ButtonDpadRight:   input.GamepadRight,
	glfw.ButtonDpadDown:    input.GamepadDown,
	glfw.ButtonDpadLeft:    input.GamepadLeft,
}

var glfwGamepadAxes = map[glfw.GamepadAxis]input.GamepadAxis{
	glfw.AxisLeftX:        input.GamepadLeftStickX,
	glfw.AxisLeftY:        input.GamepadLeftStickY,
	glfw.AxisRightX:       input.GamepadRightStickX,
	glfw.AxisRightY:       input.GamepadRightStickY,
	glfw.AxisLeftTrigger:  input.GamepadLeftTrigger,
	glfw.AxisRightTrigger: input.GamepadRightTrigger,
}

// gamepadStateFromGLFW converts GLFW's gamepad state, remapping the
// triggers from [-1,1] to [0,1] and applying the deadzone to all axes.
func gamepadStateFromGLFW(st *glfw.GamepadState) gamepadState {
	var s gamepadState
	for gb, b := range glfwGamepadButtons {
		s.buttons[b] = st.Buttons[gb] == glfw.Press
	}
	for ga, a := range glfwGamepadAxes {
		v := st.Axes[ga]
		if a == input.GamepadLeftTrigger || a == input.GamepadRightTrigger {
			v = (v + 1) / 2
		}
		s.axes[a] = input.ApplyDeadzone(v)
	}
	return s
}

// diffGamepad returns the events that take a gamepad from prev to curr.
func diffGamepad(id input.JoystickID, prev, curr gamepadState) []input.Event {
	var ev []input.Event
	for b := range curr.buttons {
		if curr.buttons[b] == prev.buttons[b] {
			continue
		}
		if curr.buttons[b] {
			ev = append(ev, input.ControllerButtonDown{Joystick: id, Button: input.GamepadButton(b)})
		} else {
			ev = append(ev, input.ControllerButtonUp{Joystick: id, Button: input.GamepadButton(b)})
		}
	}
	for a := range curr.axes {
		if curr.axes[a] != prev.axes[a] {
			ev = append(ev, input.ControllerAxisMotion{Joystick: id, Axis: input.GamepadAxis(a), Value: curr.axes[a]})
		}
	}
	return ev
}
