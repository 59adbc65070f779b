// renderer/scaler.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/blit/math"
)

// Scaler renders at a fixed resolution into a canvas and then draws the
// canvas into the window at the largest whole-number scale that fits,
// centered, with black bars around it.
type Scaler struct {
	canvas *Canvas
	offset [2]float32
	scale  float32
}

var _ Target = (*Scaler)(nil)

func NewScaler(ctx *Context, width, height int) (*Scaler, error) {
	c, err := NewCanvas(ctx, width, height)
	if err != nil {
		return nil, err
	}
	return &Scaler{canvas: c, scale: 1}, nil
}

func (s *Scaler) Size() (int, int)           { return s.canvas.Size() }
func (s *Scaler) Flipped() bool              { return s.canvas.Flipped() }
func (s *Scaler) Framebuffer() FramebufferID { return s.canvas.Framebuffer() }
func (s *Scaler) Canvas() *Canvas            { return s.canvas }

// Offset returns the window position of the canvas's top-left corner as
// of the most recent Draw.
func (s *Scaler) Offset() [2]float32 { return s.offset }
func (s *Scaler) Scale() float32      { return s.scale }

// FitCanvas returns the offset and integer scale at which a cw x ch canvas
// is drawn in a ww x wh window. The scale is never less than one, so a
// window that is too small crops the canvas.
func FitCanvas(cw, ch, ww, wh int) ([2]float32, float32) {
	if cw <= 0 || ch <= 0 {
		return [2]float32{}, 1
	}
	scale := max(1, min(ww/cw, wh/ch))
	return [2]float32{float32((ww - cw*scale) / 2), float32((wh - ch*scale) / 2)}, float32(scale)
}

// Draw clears the window and draws the canvas into it.
func (s *Scaler) Draw(b *Batcher, window Target) RendererStats {
	ww, wh := window.Size()
	cw, ch := s.canvas.Size()
	s.offset, s.scale = FitCanvas(cw, ch, ww, wh)

	b.ctx.Clear(window, Black)
	b.DrawTexture(s.canvas.Texture(), s.offset, &DrawParams{
		Scale: [2]float32{s.scale, s.scale},
		Color: White,
	})
	return b.Flush(window)
}

// ToCanvas maps a position in window pixels to canvas pixels.
func (s *Scaler) ToCanvas(p [2]float32) [2]float32 {
	return math.Scale2f(math.Sub2f(p, s.offset), 1/s.scale)
}

func (s *Scaler) Delete() {
	s.canvas.Delete()
}
