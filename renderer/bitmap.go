// renderer/bitmap.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
)

// Bitmap is a CPU-side RGBA8 image with the same region-update contract
// as Texture.
type Bitmap struct {
	Width, Height int
	Pix           []byte
}

func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{Width: width, Height: height, Pix: make([]byte, 4*width*height)}
}

func (b *Bitmap) SetRegion(x, y, w, h int, rgba []byte) {
	if w*h*4 != len(rgba) {
		panic(fmt.Sprintf("renderer: %dx%d region given %d bytes of pixel data", w, h, len(rgba)))
	}
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > b.Width || y+h > b.Height {
		panic(fmt.Sprintf("renderer: region (%d,%d) %dx%d outside of %dx%d bitmap", x, y, w, h, b.Width, b.Height))
	}
	for row := 0; row < h; row++ {
		copy(b.Pix[4*((y+row)*b.Width+x):], rgba[4*row*w:4*(row+1)*w])
	}
}

// At returns the RGBA8 pixel at (x, y).
func (b *Bitmap) At(x, y int) [4]byte {
	o := 4 * (y*b.Width + x)
	return [4]byte{b.Pix[o], b.Pix[o+1], b.Pix[o+2], b.Pix[o+3]}
}
