// app/app_test.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package app

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/mmp/blit/input"
	"github.com/mmp/blit/math"
	"github.com/mmp/blit/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// nullDevice accepts every command and hands out increasing ids.
type nullDevice struct {
	next     uint32
	draws    int
	disposed bool
}

func (d *nullDevice) id() (uint32, error) {
	d.next++
	return d.next, nil
}

func (d *nullDevice) CreateTexture(w, h int, rgba []byte) (uint32, error) { return d.id() }
func (d *nullDevice) UpdateTexture(x, y, w, h int, rgba []byte)           {}
func (d *nullDevice) DeleteTexture(id uint32)                             {}
func (d *nullDevice) CreateShader(vs, fs string) (uint32, error)          { return d.id() }
func (d *nullDevice) DeleteShader(id uint32)                              {}
func (d *nullDevice) CreateFramebuffer(tex uint32) (uint32, error)        { return d.id() }
func (d *nullDevice) DeleteFramebuffer(id uint32)                         {}
func (d *nullDevice) CreateVertexBuffer(capacity int) (uint32, error)     { return d.id() }
func (d *nullDevice) CreateIndexBuffer(indices []uint32) (uint32, error)  { return d.id() }
func (d *nullDevice) UploadVertices(v []renderer.Vertex)                  {}
func (d *nullDevice) DeleteBuffer(id uint32)                              {}
func (d *nullDevice) Bind(slot renderer.Slot, id uint32)                  {}
func (d *nullDevice) SetProjection(m mgl32.Mat4)                          {}
func (d *nullDevice) SetViewport(w, h int)                                {}
func (d *nullDevice) SetFrontFace(cw bool)                                {}
func (d *nullDevice) Clear(c renderer.RGBA)                               {}
func (d *nullDevice) DrawTriangles(start, count int)                      { d.draws++ }
func (d *nullDevice) Dispose()                                            { d.disposed = true }

// scriptedPlatform returns one entry of frames from each call to
// PollEvents.
type scriptedPlatform struct {
	frames   [][]input.Event
	polls    int
	swaps    int
	title    string
	disposed bool
}

func (p *scriptedPlatform) Size() (int, int)                    { return 320, 200 }
func (p *scriptedPlatform) Flipped() bool                       { return false }
func (p *scriptedPlatform) Framebuffer() renderer.FramebufferID { return 0 }
func (p *scriptedPlatform) SwapBuffers()                        { p.swaps++ }
func (p *scriptedPlatform) ShouldStop() bool                    { return false }
func (p *scriptedPlatform) WindowSize() [2]int                  { return [2]int{320, 200} }
func (p *scriptedPlatform) FramebufferSize() [2]int             { return [2]int{320, 200} }
func (p *scriptedPlatform) DPIScale() float32                   { return 1 }
func (p *scriptedPlatform) EnableVSync(bool)                    {}
func (p *scriptedPlatform) SetWindowTitle(t string)             { p.title = t }
func (p *scriptedPlatform) Dispose()                            { p.disposed = true }

func (p *scriptedPlatform) PollEvents() []input.Event {
	defer func() { p.polls++ }()
	if p.polls < len(p.frames) {
		return p.frames[p.polls]
	}
	return nil
}

// recordingHandler logs the calls made to it along with some of the input
// state seen at each.
type recordingHandler struct {
	calls     []string
	failAt    string
	quitAfter int // Draw calls before calling App.Quit; 0 for never
}

func (h *recordingHandler) record(a *App, what string) error {
	s := fmt.Sprintf("%s down=%v pressed=%v", what, a.Input.KeyDown(input.KeyA), a.Input.KeyPressed(input.KeyA))
	h.calls = append(h.calls, s)
	if what == h.failAt {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) Event(a *App, e input.Event) error {
	return h.record(a, fmt.Sprintf("event %T", e))
}

func (h *recordingHandler) Update(a *App) error { return h.record(a, "update") }

func (h *recordingHandler) Draw(a *App) error {
	if err := h.record(a, "draw"); err != nil {
		return err
	}
	if h.quitAfter > 0 {
		h.quitAfter--
		if h.quitAfter == 0 {
			a.Quit()
		}
	}
	// Exercise the renderer so that statistics are generated.
	a.Batcher.DrawRect(math.MakeRect(0, 0, 8, 8), renderer.White)
	a.Batcher.Flush(a.Platform)
	return nil
}

func newTestApp(t *testing.T, frames ...[]input.Event) (*App, *scriptedPlatform, *nullDevice, *fakeClock) {
	t.Helper()

	p := &scriptedPlatform{frames: frames}
	dev := &nullDevice{}
	config := DefaultConfig()
	config.TickRate = 100
	config.Title = "test"

	a, err := New(config, p, dev, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	a.Timer.now, a.Timer.sleep = clock.now, clock.sleep
	return a, p, dev, clock
}

func TestRunOrder(t *testing.T) {
	a, p, dev, _ := newTestApp(t,
		[]input.Event{input.KeyDown{Key: input.KeyA}},
		[]input.Event{input.KeyUp{Key: input.KeyB}, input.Quit{}})

	var h recordingHandler
	if err := a.Run(&h); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"event input.KeyDown down=true pressed=true",
		"update down=true pressed=true",
		"draw down=true pressed=false",
		"event input.KeyUp down=true pressed=false",
		"event input.Quit down=true pressed=false",
		"update down=true pressed=false",
		"draw down=true pressed=false",
	}
	if !slices.Equal(h.calls, want) {
		t.Errorf("got calls:\n%v\nexpected:\n%v", h.calls, want)
	}
	if p.swaps != 2 {
		t.Errorf("%d swaps, expected 2", p.swaps)
	}
	if dev.draws != 2 {
		t.Errorf("%d draws, expected 2", dev.draws)
	}
	if p.title != "test" {
		t.Errorf("window title %q", p.title)
	}

	a.Dispose()
	if !dev.disposed || !p.disposed {
		t.Errorf("dispose: device %v platform %v", dev.disposed, p.disposed)
	}
}

func TestRunUpdatesAtTickRate(t *testing.T) {
	a, _, _, clock := newTestApp(t)

	// A slow draw means multiple updates are due the next time around.
	h := &slowHandler{clock: clock, drawTime: 35 * time.Millisecond, frames: 3}
	if err := a.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// One update after the initial wait, then 3 with 5ms left over, then
	// 4 once that 5ms is added to the next 35ms.
	if want := []int{1, 3, 4}; !slices.Equal(h.updatesPerFrame, want) {
		t.Errorf("updates per frame %v, expected %v", h.updatesPerFrame, want)
	}
}

type slowHandler struct {
	BaseHandler
	clock           *fakeClock
	drawTime        time.Duration
	frames          int
	updates         int
	updatesPerFrame []int
}

func (h *slowHandler) Update(*App) error {
	h.updates++
	return nil
}

func (h *slowHandler) Draw(a *App) error {
	h.updatesPerFrame = append(h.updatesPerFrame, h.updates)
	h.updates = 0
	h.clock.advance(h.drawTime)
	if len(h.updatesPerFrame) == h.frames {
		a.Quit()
	}
	return nil
}

func TestRunQuit(t *testing.T) {
	a, p, _, _ := newTestApp(t)

	h := &recordingHandler{quitAfter: 3}
	if err := a.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.swaps != 3 {
		t.Errorf("%d swaps, expected 3", p.swaps)
	}
}

func TestRunHandlerError(t *testing.T) {
	for _, failAt := range []string{"event input.TextInput", "update", "draw"} {
		t.Run(failAt, func(t *testing.T) {
			a, p, _, _ := newTestApp(t, []input.Event{input.TextInput{Text: "x"}})

			h := &recordingHandler{failAt: failAt}
			if err := a.Run(h); err == nil {
				t.Errorf("expected error")
			}
			if p.swaps != 0 {
				t.Errorf("%d swaps after error", p.swaps)
			}
		})
	}
}

func TestNewInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.TickRate = 0
	if _, err := New(config, &scriptedPlatform{}, &nullDevice{}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got error %v, expected ErrInvalidConfig", err)
	}
	if _, err := New(DefaultConfig(), &scriptedPlatform{}, nil, nil); !errors.Is(err, renderer.ErrNoDevice) {
		t.Errorf("got error %v, expected ErrNoDevice", err)
	}
}
