// renderer/params.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

// DrawParams controls how a sprite is placed and shaded. Use
// DefaultDrawParams to get the defaults and then modify the fields of
// interest; the zero value is not useful since it has zero scale and a
// fully transparent tint. Batcher methods treat a nil *DrawParams as the
// defaults.
type DrawParams struct {
	// Origin is the pivot for scaling and rotation, in pixels relative
	// to the sprite's top-left corner. It is placed at the draw
	// position. Default (0,0).
	Origin [2]float32
	// Scale is applied about Origin. Default (1,1).
	Scale [2]float32
	// Rotation about Origin, in radians. Default 0.
	Rotation float32
	// Color is multiplied with the texture color. Default White.
	Color RGBA
	// FlipX and FlipY mirror the texture coordinates. Default false.
	FlipX, FlipY bool
}

func DefaultDrawParams() DrawParams {
	return DrawParams{Scale: [2]float32{1, 1}, Color: White}
}

// Tinted returns the default parameters with the given tint.
func Tinted(c RGBA) *DrawParams {
	p := DefaultDrawParams()
	p.Color = c
	return &p
}

func paramsOrDefault(p *DrawParams) DrawParams {
	if p == nil {
		return DefaultDrawParams()
	}
	return *p
}
