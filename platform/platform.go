// platform/platform.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package platform creates the application window and translates the
// window system's input into input.Events.
package platform

import (
	"github.com/mmp/blit/input"
	"github.com/mmp/blit/renderer"
)

// Platform is the interface that abstracts platform-specific features like
// creating windows, mouse and keyboard handling, etc. The window itself
// is a renderer.Target; its size is that of the framebuffer.
type Platform interface {
	renderer.Target

	// PollEvents processes pending window system events and returns the
	// input events they generated, in order.
	PollEvents() []input.Event
	// SwapBuffers presents the frame that was just drawn.
	SwapBuffers()
	// ShouldStop returns true if the window is to be closed.
	ShouldStop() bool
	// WindowSize returns the size of the window in screen coordinates.
	WindowSize() [2]int
	// FramebufferSize returns the size of the window's framebuffer in
	// pixels; it differs from WindowSize on high-DPI displays.
	FramebufferSize() [2]int
	// DPIScale is the ratio of framebuffer pixels to screen coordinates.
	DPIScale() float32
	// EnableVSync specifies whether v-sync should be used when rendering.
	EnableVSync(sync bool)
	SetWindowTitle(text string)
	// Dispose destroys the window; it is called when the application is
	// shutting down.
	Dispose()
}

type Config struct {
	Title                 string
	InitialWindowSize     [2]int
	InitialWindowPosition [2]int

	VSync      bool
	Resizable  bool
	EnableMSAA bool

	StartInFullScreen bool
}
