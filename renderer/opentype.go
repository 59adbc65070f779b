// renderer/opentype.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// OpenTypeSource rasterizes glyphs from a TrueType or OpenType font at a
// fixed pixel size. It is not safe for concurrent use.
type OpenTypeSource struct {
	font *opentype.Font
	face font.Face
	buf  sfnt.Buffer
	size float32
}

// NewOpenTypeSource parses the font data; size is in pixels.
func NewOpenTypeSource(data []byte, size float32) (*OpenTypeSource, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72, // so that points are pixels
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %.1fpx face: %w", size, err)
	}
	return &OpenTypeSource{font: f, face: face, size: size}, nil
}

// DefaultFontSource returns the Go Regular font at the given size.
func DefaultFontSource(size float32) (*OpenTypeSource, error) {
	return NewOpenTypeSource(goregular.TTF, size)
}

// MonoFontSource returns the Go Mono font at the given size.
func MonoFontSource(size float32) (*OpenTypeSource, error) {
	return NewOpenTypeSource(gomono.TTF, size)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func (s *OpenTypeSource) Size() float32 {
	return s.size
}

func (s *OpenTypeSource) Metrics() FontMetrics {
	m := s.face.Metrics()
	ascent, descent := fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
	return FontMetrics{
		Ascent:  ascent,
		Descent: -descent, // x/image reports it as a positive distance
		LineGap: max(0, fixedToFloat(m.Height)-ascent-descent),
	}
}

func (s *OpenTypeSource) Glyph(r rune) (GlyphBitmap, bool) {
	if idx, err := s.font.GlyphIndex(&s.buf, r); err != nil || idx == 0 {
		return GlyphBitmap{}, false
	}

	dr, mask, maskp, advance, ok := s.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return GlyphBitmap{}, false
	}

	gb := GlyphBitmap{Advance: fixedToFloat(advance)}
	w, h := dr.Dx(), dr.Dy()
	if w <= 0 || h <= 0 {
		return gb, true
	}

	gb.Width, gb.Height = w, h
	gb.Offset = [2]float32{float32(dr.Min.X), float32(dr.Min.Y)}
	gb.Coverage = make([]byte, w*h)
	empty := true
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			gb.Coverage[y*w+x] = uint8(a >> 8)
			empty = empty && a == 0
		}
	}
	if empty {
		// Nothing to draw, so don't waste atlas space on it.
		return GlyphBitmap{Advance: gb.Advance}, true
	}
	return gb, true
}

func (s *OpenTypeSource) Kern(a, b rune) float32 {
	return fixedToFloat(s.face.Kern(a, b))
}

func (s *OpenTypeSource) Close() error {
	return s.face.Close()
}
