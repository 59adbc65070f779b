// app/app.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package app runs the main loop: events are processed as they arrive,
// the game state is updated at a fixed rate, and a frame is drawn each
// time through the loop.
package app

import (
	"fmt"
	"time"

	"github.com/mmp/blit/input"
	"github.com/mmp/blit/log"
	"github.com/mmp/blit/platform"
	"github.com/mmp/blit/renderer"
)

// EventHandler is implemented by the application. Each time through the
// loop, Event is called for each pending event (after the App's Input
// has been updated with it), Update is called zero or more times,
// according to the tick rate, and then Draw is called once. An error
// returned by any of them stops the loop.
type EventHandler interface {
	Event(a *App, e input.Event) error
	Update(a *App) error
	Draw(a *App) error
}

// BaseHandler provides no-op implementations of the EventHandler
// methods; it can be embedded to implement only some of them.
type BaseHandler struct{}

func (BaseHandler) Event(*App, input.Event) error { return nil }
func (BaseHandler) Update(*App) error             { return nil }
func (BaseHandler) Draw(*App) error               { return nil }

type App struct {
	Platform platform.Platform
	Context  *renderer.Context
	Batcher  *renderer.Batcher
	Input    *input.Input
	Timer    *Timer
	Log      *log.Logger

	running bool

	// Rendering statistics are accumulated and reported periodically.
	stats       renderer.RendererStats
	statsFrames int
	statsStart  time.Time
}

// statsInterval is how often rendering statistics are logged.
const statsInterval = time.Second

// New creates an App that draws to the platform's window using the given
// device. The App takes ownership of both; they are released by Dispose.
func New(config *Config, p platform.Platform, dev renderer.Device, lg *log.Logger) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, err := renderer.Init(dev, lg)
	if err != nil {
		return nil, err
	}
	b, err := renderer.NewBatcher(ctx)
	if err != nil {
		ctx.Dispose()
		return nil, fmt.Errorf("creating batcher: %w", err)
	}

	p.SetWindowTitle(config.Title)

	return &App{
		Platform: p,
		Context:  ctx,
		Batcher:  b,
		Input:    input.New(),
		Timer:    NewTimer(config.TickRate),
		Log:      lg,
	}, nil
}

// Run runs the main loop until a Quit event arrives, Quit is called, or
// the handler returns an error, which is then returned.
func (a *App) Run(h EventHandler) error {
	a.running = true
	a.Timer.Reset()
	a.statsStart = a.Timer.now()

	for a.running {
		a.Timer.TickUntilUpdateReady()

		for _, e := range a.Platform.PollEvents() {
			if _, ok := e.(input.Quit); ok {
				a.running = false
			}
			a.Input.HandleEvent(e)
			if err := h.Event(a, e); err != nil {
				return err
			}
		}

		for a.Timer.ConsumeTime() {
			if err := h.Update(a); err != nil {
				return err
			}
			a.Input.Clear()
		}

		if err := h.Draw(a); err != nil {
			return err
		}
		a.Platform.SwapBuffers()
		a.Context.EndFrame()

		a.updateStats()
	}
	return nil
}

// Quit stops the main loop once the current iteration completes.
func (a *App) Quit() {
	a.running = false
}

func (a *App) updateStats() {
	a.stats.Merge(a.Context.Stats())
	a.statsFrames++

	if now := a.Timer.now(); now.Sub(a.statsStart) >= statsInterval {
		a.Log.Debug("frame statistics", "frames", a.statsFrames, "renderer", a.stats)
		a.stats = renderer.RendererStats{}
		a.statsFrames = 0
		a.statsStart = now
	}
}

// Dispose releases the batcher, all remaining GPU resources, and the
// platform's window.
func (a *App) Dispose() {
	a.Batcher.Delete()
	a.Context.Dispose()
	a.Platform.Dispose()
}
