// renderer/color.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmp/blit/math"
)

///////////////////////////////////////////////////////////////////////////
// RGBA

// RGBA is a color with float32 components in [0,1]. Whether it is
// straight or premultiplied alpha depends on the texture it is used with;
// the blend state assumes premultiplied.
type RGBA struct {
	R, G, B, A float32
}

var (
	White       = RGB(1, 1, 1)
	Black       = RGB(0, 0, 0)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Magenta     = RGB(1, 0, 1)
	Cyan        = RGB(0, 1, 1)
	Transparent = RGBA{}
)

var ErrInvalidHexColor = errors.New("invalid hex color")

func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

func RGBA8(r, g, b, a uint8) RGBA {
	return RGBA{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}
}

// Alpha returns a premultiplied white with opacity a; multiplying a tint
// by it fades a sprite.
func Alpha(a float32) RGBA {
	return RGBA{R: a, G: a, B: a, A: a}
}

// RGBAFromHex parses "rrggbb" or "rrggbbaa", optionally preceded by '#'.
func RGBAFromHex(s string) (RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return RGBA{}, fmt.Errorf("%q: %w", s, ErrInvalidHexColor)
	}

	var c [4]uint8
	c[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%q: %w", s, ErrInvalidHexColor)
		}
		c[i] = uint8(v)
	}
	return RGBA8(c[0], c[1], c[2], c[3]), nil
}

func LerpRGBA(x float32, a, b RGBA) RGBA {
	return RGBA{
		R: math.Lerp(x, a.R, b.R),
		G: math.Lerp(x, a.G, b.G),
		B: math.Lerp(x, a.B, b.B),
		A: math.Lerp(x, a.A, b.A),
	}
}

func (c RGBA) Scale(v float32) RGBA {
	return RGBA{R: c.R * v, G: c.G * v, B: c.B * v, A: c.A * v}
}

// Mul multiplies component-wise; it's how tints are applied.
func (c RGBA) Mul(o RGBA) RGBA {
	return RGBA{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

func (c RGBA) Premultiplied() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

func (c RGBA) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

func to8(v float32) uint8 {
	return uint8(math.Round(math.Clamp(v, 0, 1) * 255))
}
