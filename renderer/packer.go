// renderer/packer.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	"fmt"

	"github.com/mmp/blit/math"
)

var ErrAtlasFull = errors.New("renderer: texture atlas is full")

// shelf is a horizontal strip of the atlas; items are placed left to
// right along it.
type shelf struct {
	x, y   int // x is the next free column
	height int
}

// ShelfPacker allocates rectangles within a fixed-size area using
// first-fit shelf packing. Allocations are permanent: nothing is ever
// moved or freed.
type ShelfPacker struct {
	width, height int
	shelves       []shelf
	nextY         int
}

func NewShelfPacker(width, height int) *ShelfPacker {
	return &ShelfPacker{width: width, height: height}
}

func (p *ShelfPacker) Size() (int, int) {
	return p.width, p.height
}

// Insert allocates space for a width x height item surrounded by padding
// pixels on each side, returning the padded rectangle. The item itself
// belongs at (X+padding, Y+padding).
func (p *ShelfPacker) Insert(width, height, padding int) (math.IRect, error) {
	pw, ph := width+2*padding, height+2*padding

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.height >= ph && p.width-s.x >= pw {
			r := math.MakeIRect(s.x, s.y, pw, ph)
			s.x += pw
			return r, nil
		}
	}

	if p.nextY+ph < p.height && pw <= p.width {
		p.shelves = append(p.shelves, shelf{x: pw, y: p.nextY, height: ph})
		r := math.MakeIRect(0, p.nextY, pw, ph)
		p.nextY += ph
		return r, nil
	}

	return math.IRect{}, fmt.Errorf("%dx%d (padding %d) in %dx%d: %w", width, height, padding,
		p.width, p.height, ErrAtlasFull)
}

///////////////////////////////////////////////////////////////////////////
// Atlas

// RegionSetter is implemented by images that an Atlas can be built in:
// *Texture for atlases that live on the GPU and *Bitmap for ones that are
// assembled on the CPU and uploaded (or cached) later.
type RegionSetter interface {
	SetRegion(x, y, w, h int, rgba []byte)
}

// Atlas fills an image with many small images, using a ShelfPacker to
// decide where they go.
type Atlas struct {
	dst    RegionSetter
	packer *ShelfPacker
}

// NewAtlas returns an Atlas that packs into dst, which must be (at
// least) width x height pixels.
func NewAtlas(dst RegionSetter, width, height int) *Atlas {
	return &Atlas{dst: dst, packer: NewShelfPacker(width, height)}
}

// Add copies the width x height RGBA8 image into the atlas, leaving
// padding pixels around it untouched, and returns the padded region it
// occupies.
func (a *Atlas) Add(width, height, padding int, rgba []byte) (math.IRect, error) {
	if len(rgba) != 4*width*height {
		panic(fmt.Sprintf("renderer: %dx%d atlas item given %d bytes of pixel data", width, height, len(rgba)))
	}
	r, err := a.packer.Insert(width, height, padding)
	if err != nil {
		return math.IRect{}, err
	}
	a.dst.SetRegion(r.X+padding, r.Y+padding, width, height, rgba)
	return r, nil
}
