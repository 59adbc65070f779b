// renderer/batch.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"

	"github.com/mmp/blit/math"
)

const (
	// MaxSprites is the number of quads that fit in the vertex buffer;
	// frames with more are drawn with multiple uploads.
	MaxSprites  = 2048
	MaxVertices = 4 * MaxSprites
	MaxIndices  = 6 * MaxSprites
)

// Batch is a run of consecutive quads that share a texture. Texture 0
// means untextured; those quads are drawn with a 1x1 white texture.
type Batch struct {
	IndexStart int
	IndexCount int
	Texture    TextureID
}

// quads returns the half-open range of quads covered by the batch.
func (b Batch) quads() (int, int) {
	return b.IndexStart / 6, (b.IndexStart + b.IndexCount) / 6
}

// Batcher accumulates quads over the course of a frame and draws them in
// the order they were submitted with as few draw calls as possible.
// Consecutive quads that use the same texture are merged into a single
// batch; quads are never reordered, so later draws always composite over
// earlier ones.
//
// A Batcher is not safe for concurrent use.
type Batcher struct {
	ctx *Context

	vertices []Vertex
	batches  []Batch
	matrices []math.Matrix3

	white   *Texture
	shader  *Shader
	vbuffer BufferID
	ibuffer BufferID
}

// NewBatcher allocates the batcher's GPU resources: the vertex buffer,
// the shared index buffer, the default shader, and the white texture
// used for untextured quads.
func NewBatcher(ctx *Context) (*Batcher, error) {
	b := &Batcher{ctx: ctx, batches: []Batch{{}}}

	var err error
	if b.vbuffer, err = ctx.CreateVertexBuffer(MaxVertices); err != nil {
		return nil, fmt.Errorf("batcher vertex buffer: %w", err)
	}
	if b.ibuffer, err = ctx.CreateIndexBuffer(QuadIndices(MaxSprites)); err != nil {
		return nil, fmt.Errorf("batcher index buffer: %w", err)
	}
	if b.shader, err = NewShader(ctx, DefaultVertexShader, DefaultFragmentShader); err != nil {
		return nil, fmt.Errorf("batcher shader: %w", err)
	}
	if b.white, err = NewTexture(ctx, 1, 1, []byte{255, 255, 255, 255}); err != nil {
		return nil, fmt.Errorf("batcher default texture: %w", err)
	}

	ctx.lg.Debugf("Created sprite batcher with capacity %d", MaxSprites)
	return b, nil
}

// Delete releases the batcher's GPU resources.
func (b *Batcher) Delete() {
	b.white.Delete()
	b.shader.Delete()
	b.ctx.DeleteBuffer(b.vbuffer)
	b.ctx.DeleteBuffer(b.ibuffer)
}

// Batches returns the batches accumulated since the last flush.
func (b *Batcher) Batches() []Batch {
	if len(b.batches) == 1 && b.batches[0].IndexCount == 0 {
		return nil
	}
	return append([]Batch(nil), b.batches...)
}

// Vertices returns the vertices accumulated since the last flush; the
// slice is only valid until the next call to a Batcher method.
func (b *Batcher) Vertices() []Vertex {
	return b.vertices
}

// NumQuads returns the number of quads accumulated since the last flush.
func (b *Batcher) NumQuads() int {
	return len(b.vertices) / 4
}

///////////////////////////////////////////////////////////////////////////
// Matrix stack

// PushMatrix makes m the transformation applied to the corners of all
// subsequently-drawn quads, until the matching PopMatrix. Matrices are
// absolute; they are not composed with the one below.
func (b *Batcher) PushMatrix(m math.Matrix3) {
	b.matrices = append(b.matrices, m)
}

func (b *Batcher) PopMatrix() {
	if len(b.matrices) > 0 {
		b.matrices = b.matrices[:len(b.matrices)-1]
	}
}

///////////////////////////////////////////////////////////////////////////
// Drawing

// DrawRect draws a solid rectangle. Zero-area rectangles are allowed and
// produce a degenerate quad.
func (b *Batcher) DrawRect(r math.Rect, c RGBA) {
	p := DefaultDrawParams()
	p.Color = c
	b.pushSprite(0, math.Rect{}, r, p)
}

// DrawRectParams draws a solid rectangle that can be rotated and scaled
// about p.Origin.
func (b *Batcher) DrawRectParams(r math.Rect, p *DrawParams) {
	b.pushSprite(0, math.Rect{}, r, paramsOrDefault(p))
}

// DrawTexture draws the entire texture with its top-left corner (or
// Origin, if set) at pos.
func (b *Batcher) DrawTexture(t *Texture, pos [2]float32, p *DrawParams) {
	dest := math.MakeRect(pos[0], pos[1], float32(t.width), float32(t.height))
	b.pushSprite(t.id, math.MakeRect(0, 0, 1, 1), dest, paramsOrDefault(p))
}

// DrawTextureTransform draws the entire texture placed by xf.
func (b *Batcher) DrawTextureTransform(t *Texture, xf math.Transform, tint RGBA) {
	b.PushMatrix(b.currentMatrix().PostMultiply(xf.Matrix()))
	b.DrawTexture(t, [2]float32{}, Tinted(tint))
	b.PopMatrix()
}

// DrawRegion draws the given region of the texture, specified in texels,
// at pos.
func (b *Batcher) DrawRegion(t *Texture, region math.Rect, pos [2]float32, p *DrawParams) {
	dest := math.MakeRect(pos[0], pos[1], region.Width, region.Height)
	b.pushSprite(t.id, regionUV(t, region), dest, paramsOrDefault(p))
}

// DrawRegionDest draws the given region of the texture stretched to
// cover dest.
func (b *Batcher) DrawRegionDest(t *Texture, region math.Rect, dest math.Rect, p *DrawParams) {
	b.pushSprite(t.id, regionUV(t, region), dest, paramsOrDefault(p))
}

// DrawText draws a string with its first line's top at pos. At most
// maxChars characters are processed, counting every character including
// newlines, spaces, and other characters that don't produce a quad; a
// value <= 0 means no limit.
func (b *Batcher) DrawText(f *Font, pos [2]float32, text string, maxChars int) {
	b.DrawRichText(f, pos, []TextSegment{{Content: text, Color: White}}, maxChars)
}

// DrawRichText is DrawText for a sequence of differently-colored
// segments; the character limit applies across all of them.
func (b *Batcher) DrawRichText(f *Font, pos [2]float32, segments []TextSegment, maxChars int) {
	Layout(f, pos, segments, maxChars, func(g PlacedGlyph) {
		b.DrawRegion(f.Texture(), g.Region, g.Pos, Tinted(g.Color))
	})
}

// regionUV converts a region in texels to normalized texture
// coordinates. Empty textures give zero UVs rather than dividing by
// zero.
func regionUV(t *Texture, region math.Rect) math.Rect {
	if t.width <= 0 || t.height <= 0 {
		return math.Rect{}
	}
	w, h := float32(t.width), float32(t.height)
	return math.MakeRect(region.X/w, region.Y/h, region.Width/w, region.Height/h)
}

func (b *Batcher) currentMatrix() math.Matrix3 {
	if len(b.matrices) == 0 {
		return math.Identity3x3()
	}
	return b.matrices[len(b.matrices)-1]
}

func (b *Batcher) pushSprite(tex TextureID, uv math.Rect, dest math.Rect, p DrawParams) {
	fx := -p.Origin[0] * p.Scale[0]
	fy := -p.Origin[1] * p.Scale[1]
	fx2 := (dest.Width - p.Origin[0]) * p.Scale[0]
	fy2 := (dest.Height - p.Origin[1]) * p.Scale[1]

	sin, cos := float32(0), float32(1)
	if p.Rotation != 0 {
		sin, cos = math.SinCos(p.Rotation)
	}
	corner := func(cx, cy float32) [2]float32 {
		return [2]float32{dest.X + cos*cx - sin*cy, dest.Y + sin*cx + cos*cy}
	}
	pos := [4][2]float32{corner(fx, fy), corner(fx, fy2), corner(fx2, fy2), corner(fx2, fy)}

	if len(b.matrices) > 0 {
		m := b.matrices[len(b.matrices)-1]
		for i := range pos {
			pos[i] = m.TransformPoint(pos[i])
		}
	}

	u0, u1 := uv.Left(), uv.Right()
	if p.FlipX {
		u0, u1 = u1, u0
	}
	v0, v1 := uv.Top(), uv.Bottom()
	if p.FlipY {
		v0, v1 = v1, v0
	}

	// Top-left, bottom-left, bottom-right, top-right: the winding order
	// is what the front-face selection expects.
	b.vertices = append(b.vertices,
		Vertex{Pos: pos[0], UV: [2]float32{u0, v0}, Color: p.Color},
		Vertex{Pos: pos[1], UV: [2]float32{u0, v1}, Color: p.Color},
		Vertex{Pos: pos[2], UV: [2]float32{u1, v1}, Color: p.Color},
		Vertex{Pos: pos[3], UV: [2]float32{u1, v0}, Color: p.Color})

	b.addQuad(tex)
}

// addQuad extends the batch sequence with one quad using the given
// texture: the last batch grows if it's empty or already uses the
// texture, and otherwise a new batch is started.
func (b *Batcher) addQuad(tex TextureID) {
	last := &b.batches[len(b.batches)-1]
	switch {
	case last.IndexCount == 0:
		last.Texture = tex
		last.IndexCount = 6
	case last.Texture == tex:
		last.IndexCount += 6
	default:
		b.batches = append(b.batches, Batch{
			IndexStart: last.IndexStart + last.IndexCount,
			IndexCount: 6,
			Texture:    tex,
		})
	}
}

///////////////////////////////////////////////////////////////////////////
// Flushing

// Flush draws everything accumulated since the last flush to the target
// and resets the batcher for the next frame. If there are more than
// MaxSprites quads, the vertices are uploaded in MaxSprites-sized chunks,
// each followed by the draws for the batches (or parts of batches) it
// holds; batches are still drawn in submission order. The returned
// statistics cover this flush alone; they are also included in the
// Context's Stats.
func (b *Batcher) Flush(target Target) RendererStats {
	var stats RendererStats
	nQuads := len(b.vertices) / 4
	stats.Quads = nQuads
	if nQuads > 0 {
		stats.Batches = len(b.batches)
	}

	bi := 0
	for q0 := 0; q0 < nQuads; q0 += MaxSprites {
		q1 := min(q0+MaxSprites, nQuads)

		b.ctx.UploadVertices(b.vbuffer, b.vertices[4*q0:4*q1])
		stats.Flushes++
		stats.Vertices += 4 * (q1 - q0)

		for ; bi < len(b.batches); bi++ {
			bq0, bq1 := b.batches[bi].quads()
			start, end := max(bq0, q0), min(bq1, q1)
			if start < end {
				tex := b.batches[bi].Texture
				if tex == 0 {
					tex = b.white.id
				}
				b.ctx.Draw(target, DrawCall{
					Vertices:   b.vbuffer,
					Indices:    b.ibuffer,
					Texture:    tex,
					Shader:     b.shader.id,
					IndexStart: 6 * (start - q0),
					IndexCount: 6 * (end - start),
				})
				stats.DrawCalls++
			}
			if bq1 > q1 {
				// The rest of this batch goes with the next chunk.
				break
			}
		}
	}

	// The Context counts uploads, draw calls, and binds itself.
	b.ctx.stats.Batches += stats.Batches
	b.ctx.stats.Quads += stats.Quads

	b.reset()
	return stats
}

func (b *Batcher) reset() {
	b.vertices = b.vertices[:0]
	b.batches = b.batches[:1]
	b.batches[0] = Batch{}
	b.matrices = b.matrices[:0]
}
