// renderer/target.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

// Target is something that can be drawn into: the window or a Canvas.
type Target interface {
	// Size returns the target's size in pixels.
	Size() (width, height int)
	// Flipped reports whether the target's rows are stored bottom-up
	// relative to the window (true for canvases). It selects the sign of
	// the projection's y axis and, with it, the front-face winding.
	Flipped() bool
	// Framebuffer returns the framebuffer to bind; 0 is the window's.
	Framebuffer() FramebufferID
}

///////////////////////////////////////////////////////////////////////////
// Canvas

// Canvas is an offscreen target whose contents can then be drawn as a
// texture.
type Canvas struct {
	texture *Texture
	fb      FramebufferID
}

func NewCanvas(ctx *Context, width, height int) (*Canvas, error) {
	tex, err := NewEmptyTexture(ctx, width, height)
	if err != nil {
		return nil, err
	}
	fb, err := ctx.createFramebuffer(tex.id)
	if err != nil {
		tex.Delete()
		return nil, err
	}
	return &Canvas{texture: tex, fb: fb}, nil
}

func (c *Canvas) Size() (int, int) {
	return c.texture.Size()
}

func (c *Canvas) Flipped() bool {
	return true
}

func (c *Canvas) Framebuffer() FramebufferID {
	return c.fb
}

// Texture returns the texture holding the canvas's contents.
func (c *Canvas) Texture() *Texture {
	return c.texture
}

func (c *Canvas) Delete() {
	c.texture.ctx.free(uint32(c.fb))
	c.texture.Delete()
}
