// renderer/texture.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"image/draw"
)

// Texture is an RGBA8 image that lives on the GPU. Textures are compared
// by identity (their ID) when batching, never by content.
type Texture struct {
	ctx           *Context
	id            TextureID
	width, height int
}

// NewTexture creates a texture from tightly-packed RGBA8 pixels, which
// should be premultiplied. A nil rgba gives a texture of transparent black.
func NewTexture(ctx *Context, width, height int, rgba []byte) (*Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("renderer: invalid texture size %dx%d", width, height)
	}
	if rgba == nil {
		// glTexImage2D leaves the contents undefined without pixel data.
		rgba = make([]byte, 4*width*height)
	} else if len(rgba) != 4*width*height {
		panic(fmt.Sprintf("renderer: %dx%d texture given %d bytes of pixel data", width, height, len(rgba)))
	}
	id, err := ctx.createTexture(width, height, rgba, "")
	if err != nil {
		return nil, err
	}
	return &Texture{ctx: ctx, id: id, width: width, height: height}, nil
}

func NewEmptyTexture(ctx *Context, width, height int) (*Texture, error) {
	return NewTexture(ctx, width, height, nil)
}

// NewTextureFromImage uploads img; *image.RGBA pixels are used directly
// and anything else is converted first.
func NewTextureFromImage(ctx *Context, img image.Image) (*Texture, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*rgba.Rect.Dx() || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return NewTexture(ctx, rgba.Rect.Dx(), rgba.Rect.Dy(), rgba.Pix)
}

func (t *Texture) ID() TextureID { return t.id }
func (t *Texture) Width() int    { return t.width }
func (t *Texture) Height() int   { return t.height }

func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// SetRegion replaces the pixels of the given region. The region must lie
// within the texture and rgba must hold exactly w*h RGBA8 pixels;
// violations are programming errors and panic before anything is
// modified.
func (t *Texture) SetRegion(x, y, w, h int, rgba []byte) {
	if w*h*4 != len(rgba) {
		panic(fmt.Sprintf("renderer: %dx%d region given %d bytes of pixel data", w, h, len(rgba)))
	}
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > t.width || y+h > t.height {
		panic(fmt.Sprintf("renderer: region (%d,%d) %dx%d outside of %dx%d texture", x, y, w, h, t.width, t.height))
	}
	if w == 0 || h == 0 {
		return
	}
	t.ctx.updateTexture(t.id, x, y, w, h, rgba)
}

// Delete releases the GPU texture. It is safe to call more than once.
func (t *Texture) Delete() {
	t.ctx.free(uint32(t.id))
}

// deleteAtEndOfFrame releases the texture once the current frame's draws
// have been flushed.
func (t *Texture) deleteAtEndOfFrame() {
	t.ctx.freeAtEndOfFrame(uint32(t.id))
}
