// renderer/font.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"slices"
	"unicode"

	"github.com/mmp/blit/math"
)

// FontMetrics gives a font's vertical metrics in pixels. Descent is
// negative for fonts that extend below the baseline.
type FontMetrics struct {
	Ascent  float32
	Descent float32
	LineGap float32
}

// LineHeight returns the distance between consecutive baselines.
func (m FontMetrics) LineHeight() float32 {
	return m.Ascent - m.Descent + m.LineGap
}

// GlyphBitmap is a rasterized glyph. Offset is the position of the
// bitmap's top-left corner relative to the pen position on the baseline,
// with y increasing downward. Coverage holds Width*Height alpha values
// and is empty for glyphs with nothing to draw, like the space.
type GlyphBitmap struct {
	Advance       float32
	Offset        [2]float32
	Width, Height int
	Coverage      []byte
}

// GlyphSource provides the metrics and bitmaps that a Font is baked
// from.
type GlyphSource interface {
	Metrics() FontMetrics
	// Glyph returns false if the font has no glyph for r.
	Glyph(r rune) (GlyphBitmap, bool)
	// Kern returns the horizontal adjustment between a and b, or zero.
	Kern(a, b rune) float32
}

// Glyph is a baked glyph. Region is in texels in the font's atlas and
// includes the padding; Offset already accounts for it.
type Glyph struct {
	Advance  float32
	HasImage bool
	Offset   [2]float32
	Region   math.Rect
}

type KernPair struct {
	A, B   rune
	Amount float32
}

// BakedFont is everything needed to create a Font without rasterizing
// anything; it can be cached on disk.
type BakedFont struct {
	Metrics FontMetrics
	Width   int
	Height  int
	Pixels  []byte
	Glyphs  map[rune]Glyph
	Kerning []KernPair
}

type FontConfig struct {
	AtlasWidth, AtlasHeight int // default 256x256
	Padding                 int // default 1
	// Extra are runes to bake in addition to printable ASCII.
	Extra []rune
}

func (c FontConfig) withDefaults() FontConfig {
	if c.AtlasWidth == 0 {
		c.AtlasWidth = 256
	}
	if c.AtlasHeight == 0 {
		c.AtlasHeight = 256
	}
	if c.Padding == 0 {
		c.Padding = 1
	}
	return c
}

// FontRunes returns the runes that are baked for the given config: ASCII
// 32 through 127 followed by any extras.
func FontRunes(cfg FontConfig) []rune {
	var runes []rune
	for r := rune(32); r < 128; r++ {
		runes = append(runes, r)
	}
	for _, r := range cfg.Extra {
		if !slices.Contains(runes, r) {
			runes = append(runes, r)
		}
	}
	return runes
}

// Bake rasterizes the font's glyphs into a CPU-side atlas. Glyphs without
// bitmaps are recorded with just their advance. Running out of atlas
// space returns an error wrapping ErrAtlasFull.
func Bake(src GlyphSource, cfg FontConfig) (*BakedFont, error) {
	cfg = cfg.withDefaults()

	bitmap := NewBitmap(cfg.AtlasWidth, cfg.AtlasHeight)
	atlas := NewAtlas(bitmap, cfg.AtlasWidth, cfg.AtlasHeight)
	bf := &BakedFont{
		Metrics: src.Metrics(),
		Width:   cfg.AtlasWidth,
		Height:  cfg.AtlasHeight,
		Glyphs:  make(map[rune]Glyph),
	}

	runes := FontRunes(cfg)
	pad := float32(cfg.Padding)
	for _, r := range runes {
		gb, ok := src.Glyph(r)
		if !ok {
			continue
		}

		g := Glyph{Advance: gb.Advance}
		if gb.Width > 0 && gb.Height > 0 && len(gb.Coverage) > 0 {
			region, err := atlas.Add(gb.Width, gb.Height, cfg.Padding, coverageToRGBA(gb.Coverage))
			if err != nil {
				return nil, fmt.Errorf("baking %q: %w", r, err)
			}
			g.HasImage = true
			g.Offset = [2]float32{gb.Offset[0] - pad, gb.Offset[1] - pad}
			g.Region = math.ToRect(region)
		}
		bf.Glyphs[r] = g
	}

	for _, a := range runes {
		for _, b := range runes {
			if k := src.Kern(a, b); k != 0 {
				bf.Kerning = append(bf.Kerning, KernPair{A: a, B: b, Amount: k})
			}
		}
	}

	bf.Pixels = bitmap.Pix
	return bf, nil
}

// Coverage becomes premultiplied white.
func coverageToRGBA(cov []byte) []byte {
	rgba := make([]byte, 4*len(cov))
	for i, c := range cov {
		rgba[4*i], rgba[4*i+1], rgba[4*i+2], rgba[4*i+3] = c, c, c, c
	}
	return rgba
}

///////////////////////////////////////////////////////////////////////////
// Font

// Font is a set of glyphs baked into an atlas texture at a single size.
// Glyph regions never change once the font is created.
type Font struct {
	metrics FontMetrics
	texture *Texture
	// Glyphs for the ASCII range can be looked up using a directly-mapped
	// array; the rest are stored in a map.
	lowGlyphs [128]*Glyph
	glyphs    map[rune]*Glyph
	kerning   map[[2]rune]float32
}

// NewFont bakes src and uploads the result.
func NewFont(ctx *Context, src GlyphSource, cfg FontConfig) (*Font, error) {
	bf, err := Bake(src, cfg)
	if err != nil {
		return nil, err
	}
	return NewFontFromBaked(ctx, bf)
}

func NewFontFromBaked(ctx *Context, bf *BakedFont) (*Font, error) {
	tex, err := NewTexture(ctx, bf.Width, bf.Height, bf.Pixels)
	if err != nil {
		return nil, err
	}

	f := &Font{
		metrics: bf.Metrics,
		texture: tex,
		glyphs:  make(map[rune]*Glyph),
		kerning: make(map[[2]rune]float32),
	}
	for r, g := range bf.Glyphs {
		g := g
		if r >= 0 && r < 128 {
			f.lowGlyphs[r] = &g
		} else {
			f.glyphs[r] = &g
		}
	}
	for _, k := range bf.Kerning {
		f.kerning[[2]rune{k.A, k.B}] = k.Amount
	}

	ctx.lg.Debugf("Created font: %d glyphs, %d kerning pairs, %dx%d atlas", len(bf.Glyphs),
		len(bf.Kerning), bf.Width, bf.Height)
	return f, nil
}

// Glyph returns the glyph for r, if the font has one.
func (f *Font) Glyph(r rune) (*Glyph, bool) {
	if r >= 0 && r < 128 {
		g := f.lowGlyphs[r]
		return g, g != nil
	}
	g, ok := f.glyphs[r]
	return g, ok
}

// Kerning returns the adjustment to apply between a and b.
func (f *Font) Kerning(a, b rune) (float32, bool) {
	k, ok := f.kerning[[2]rune{a, b}]
	return k, ok
}

func (f *Font) Metrics() FontMetrics { return f.metrics }
func (f *Font) Ascent() float32      { return f.metrics.Ascent }
func (f *Font) LineHeight() float32  { return f.metrics.LineHeight() }
func (f *Font) Texture() *Texture    { return f.texture }

func (f *Font) Delete() {
	f.texture.Delete()
}

///////////////////////////////////////////////////////////////////////////
// Layout

// TextSegment is a run of text drawn in a single color.
type TextSegment struct {
	Content string
	Color   RGBA
}

// PlacedGlyph is a glyph positioned by Layout; Pos is the top-left corner
// of its quad, snapped to whole pixels.
type PlacedGlyph struct {
	Rune   rune
	Pos    [2]float32
	Region math.Rect
	Color  RGBA
}

// Layout positions the characters of segments, calling emit for each one
// that has an image. The first line's top is at pos. maxChars limits the
// number of characters processed, counting every character (newlines and
// spaces included); <= 0 means no limit. Characters the font doesn't
// have are skipped.
func Layout(f *Font, pos [2]float32, segments []TextSegment, maxChars int, emit func(PlacedGlyph)) {
	cursor := [2]float32{0, math.Floor(f.metrics.Ascent)}
	lineHeight := math.Floor(f.LineHeight())
	var prev rune
	havePrev := false
	n := 0

	for _, seg := range segments {
		for _, r := range seg.Content {
			n++
			if maxChars > 0 && n > maxChars {
				return
			}

			if unicode.IsControl(r) {
				if r == '\n' {
					cursor[0] = 0
					cursor[1] += lineHeight
				}
				continue
			}

			g, ok := f.Glyph(r)
			if !ok {
				continue
			}

			if havePrev {
				if k, ok := f.Kerning(prev, r); ok {
					cursor[0] += k
				}
			}

			if g.HasImage {
				emit(PlacedGlyph{
					Rune:   r,
					Pos:    math.Floor2f(math.Add2f(math.Add2f(pos, cursor), g.Offset)),
					Region: g.Region,
					Color:  seg.Color,
				})
			}

			cursor[0] += g.Advance
			prev, havePrev = r, true
		}
	}
}

// MeasureText returns the width of the longest line of text and the
// total height of its lines.
func MeasureText(f *Font, text string) [2]float32 {
	lineHeight := math.Floor(f.LineHeight())
	var width, x float32
	var prev rune
	havePrev := false
	lines := 1

	for _, r := range text {
		if unicode.IsControl(r) {
			if r == '\n' {
				width = max(width, x)
				x = 0
				lines++
			}
			continue
		}
		g, ok := f.Glyph(r)
		if !ok {
			continue
		}
		if havePrev {
			if k, ok := f.Kerning(prev, r); ok {
				x += k
			}
		}
		x += g.Advance
		prev, havePrev = r, true
	}

	return [2]float32{max(width, x), float32(lines) * lineHeight}
}
