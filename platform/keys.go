// platform/keys.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"github.com/mmp/blit/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwKeys maps GLFW key codes to input.Keys. GLFW key codes name
// physical keys by their position on a US keyboard, which matches
// input.Key. Right-hand modifiers are reported as the left ones.
var glfwKeys = map[glfw.Key]input.Key{
	glfw.KeySpace:        input.KeySpace,
	glfw.KeyBackspace:    input.KeyBackspace,
	glfw.KeyEnter:        input.KeyEnter,
	glfw.KeyKPEnter:      input.KeyEnter,
	glfw.KeyTab:          input.KeyTab,
	glfw.KeyCapsLock:     input.KeyCapsLock,
	glfw.KeyEscape:       input.KeyEscape,
	glfw.KeyLeftShift:    input.KeyLeftShift,
	glfw.KeyRightShift:   input.KeyLeftShift,
	glfw.KeyLeftControl:  input.KeyLeftCtrl,
	glfw.KeyRightControl: input.KeyLeftCtrl,
	glfw.KeyLeftAlt:      input.KeyLeftAlt,
	glfw.KeyRightAlt:     input.KeyLeftAlt,
	glfw.KeyUp:           input.KeyUpArrow,
	glfw.KeyDown:         input.KeyDownArrow,
	glfw.KeyLeft:         input.KeyLeftArrow,
	glfw.KeyRight:        input.KeyRightArrow,
	glfw.KeyGraveAccent:  input.KeyGrave,
	glfw.KeyMinus:        input.KeyMinus,
	glfw.KeyEqual:        input.KeyEquals,
}

func init() {
	for i := range 26 {
		glfwKeys[glfw.KeyA+glfw.Key(i)] = input.KeyA + input.Key(i)
	}
	for i := range 10 {
		glfwKeys[glfw.Key0+glfw.Key(i)] = input.Key0 + input.Key(i)
	}
	for i := range 12 {
		glfwKeys[glfw.KeyF1+glfw.Key(i)] = input.KeyF1 + input.Key(i)
	}
}
