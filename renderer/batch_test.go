// renderer/batch_test.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"testing"

	"github.com/mmp/blit/math"
)

func newTestBatcher(t *testing.T) (*Batcher, *Context, *recordingDevice) {
	t.Helper()
	ctx, dev := newTestContext(t)
	b, err := NewBatcher(ctx)
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}
	return b, ctx, dev
}

func newTestTexture(t *testing.T, ctx *Context, w, h int) *Texture {
	t.Helper()
	tex, err := NewTexture(ctx, w, h, nil)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	return tex
}

func devTexture(ctx *Context, tex *Texture) uint32 {
	return ctx.get(uint32(tex.ID()), SlotTexture).dev
}

func near(a, b [2]float32) bool {
	return math.Abs(a[0]-b[0]) < 1e-4 && math.Abs(a[1]-b[1]) < 1e-4
}

func TestBatchMerging(t *testing.T) {
	b, ctx, dev := newTestBatcher(t)
	texA := newTestTexture(t, ctx, 16, 16)
	texB := newTestTexture(t, ctx, 16, 16)

	for _, tex := range []*Texture{texA, texA, texB, texA, texA} {
		b.DrawTexture(tex, [2]float32{}, nil)
	}

	want := []Batch{
		{IndexStart: 0, IndexCount: 12, Texture: texA.ID()},
		{IndexStart: 12, IndexCount: 6, Texture: texB.ID()},
		{IndexStart: 18, IndexCount: 12, Texture: texA.ID()},
	}
	got := b.Batches()
	if len(got) != len(want) {
		t.Fatalf("got batches %+v, expected %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("batch %d: got %+v, expected %+v", i, got[i], want[i])
		}
	}

	stats := b.Flush(testWindow{100, 100})
	if stats.DrawCalls != 3 || stats.Batches != 3 || stats.Quads != 5 || stats.Flushes != 1 {
		t.Errorf("unexpected stats %s", stats.String())
	}
	if len(dev.uploads) != 1 || len(dev.uploads[0]) != 20 {
		t.Errorf("expected one upload of 20 vertices")
	}
	wantDraws := []struct {
		tex          *Texture
		start, count int
	}{{texA, 0, 12}, {texB, 12, 6}, {texA, 18, 12}}
	if len(dev.draws) != len(wantDraws) {
		t.Fatalf("got %d draws, expected %d", len(dev.draws), len(wantDraws))
	}
	for i, w := range wantDraws {
		d := dev.draws[i]
		if d.texture != devTexture(ctx, w.tex) || d.start != w.start || d.count != w.count {
			t.Errorf("draw %d: texture %d indices [%d,+%d), expected texture %d [%d,+%d)", i,
				d.texture, d.start, d.count, devTexture(ctx, w.tex), w.start, w.count)
		}
	}
}

func TestBatchesCoverAllQuads(t *testing.T) {
	b, ctx, _ := newTestBatcher(t)
	textures := []*Texture{newTestTexture(t, ctx, 4, 4), newTestTexture(t, ctx, 4, 4), nil}

	seq := []int{0, 1, 1, 2, 2, 2, 0, 2, 1, 1, 0, 0, 0}
	for _, i := range seq {
		if textures[i] == nil {
			b.DrawRect(math.MakeRect(0, 0, 1, 1), Red)
		} else {
			b.DrawTexture(textures[i], [2]float32{}, nil)
		}
	}

	batches := b.Batches()
	next := 0
	for i, batch := range batches {
		if batch.IndexStart != next {
			t.Errorf("batch %d starts at %d, expected %d", i, batch.IndexStart, next)
		}
		if batch.IndexCount == 0 || batch.IndexCount%6 != 0 {
			t.Errorf("batch %d has %d indices", i, batch.IndexCount)
		}
		if i > 0 && batches[i-1].Texture == batch.Texture {
			t.Errorf("batches %d and %d have the same texture and weren't merged", i-1, i)
		}
		next += batch.IndexCount
	}
	if next != 6*len(seq) {
		t.Errorf("batches cover %d indices, expected %d", next, 6*len(seq))
	}
	if b.NumQuads() != len(seq) {
		t.Errorf("%d quads, expected %d", b.NumQuads(), len(seq))
	}
}

func TestUntexturedUsesWhite(t *testing.T) {
	b, ctx, dev := newTestBatcher(t)
	b.DrawRect(math.MakeRect(1, 2, 3, 4), Green)
	if batches := b.Batches(); len(batches) != 1 || batches[0].Texture != 0 {
		t.Errorf("expected a single untextured batch, got %+v", batches)
	}

	b.Flush(testWindow{10, 10})
	if len(dev.draws) != 1 {
		t.Fatalf("got %d draws, expected 1", len(dev.draws))
	}
	if dev.draws[0].texture != devTexture(ctx, b.white) {
		t.Errorf("untextured quad drawn with texture %d", dev.draws[0].texture)
	}
	if pix := dev.textures[devTexture(ctx, b.white)]; len(pix) != 4 || pix[0] != 255 || pix[3] != 255 {
		t.Errorf("white texture has pixels %v", pix)
	}
}

func TestBatcherOverflow(t *testing.T) {
	tests := []struct {
		name  string
		quads func(a, b *Texture) []*Texture
		draws []struct {
			tex          int // 0: a, 1: b
			start, count int
		}
		uploads []int
	}{
		{
			name: "one past capacity",
			quads: func(a, b *Texture) []*Texture {
				q := make([]*Texture, MaxSprites+1)
				for i := range q {
					q[i] = a
				}
				return q
			},
			draws: []struct {
				tex          int
				start, count int
			}{{0, 0, 6 * MaxSprites}, {0, 0, 6}},
			uploads: []int{4 * MaxSprites, 4},
		},
		{
			name: "batch straddles chunks",
			quads: func(a, b *Texture) []*Texture {
				var q []*Texture
				for range MaxSprites - 1 {
					q = append(q, a)
				}
				return append(q, b, b, a)
			},
			draws: []struct {
				tex          int
				start, count int
			}{{0, 0, 6 * (MaxSprites - 1)}, {1, 6 * (MaxSprites - 1), 6}, {1, 0, 6}, {0, 6, 6}},
			uploads: []int{4 * MaxSprites, 8},
		},
		{
			name: "exactly full",
			quads: func(a, b *Texture) []*Texture {
				q := make([]*Texture, MaxSprites)
				for i := range q {
					q[i] = b
				}
				return q
			},
			draws: []struct {
				tex          int
				start, count int
			}{{1, 0, 6 * MaxSprites}},
			uploads: []int{4 * MaxSprites},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ctx, dev := newTestBatcher(t)
			tex := []*Texture{newTestTexture(t, ctx, 8, 8), newTestTexture(t, ctx, 8, 8)}

			quads := tt.quads(tex[0], tex[1])
			for i, q := range quads {
				b.DrawTexture(q, [2]float32{float32(i), 0}, nil)
			}
			b.Flush(testWindow{100, 100})

			if len(dev.uploads) != len(tt.uploads) {
				t.Fatalf("got %d uploads, expected %d", len(dev.uploads), len(tt.uploads))
			}
			for i, n := range tt.uploads {
				if len(dev.uploads[i]) != n {
					t.Errorf("upload %d: %d vertices, expected %d", i, len(dev.uploads[i]), n)
				}
			}
			// The last quad drawn must be the last vertex uploaded.
			last := dev.uploads[len(dev.uploads)-1]
			if x := last[len(last)-1].Pos[0]; x != float32(len(quads)-1)+8 {
				t.Errorf("last uploaded vertex at x=%g, expected %d", x, len(quads)-1+8)
			}

			if len(dev.draws) != len(tt.draws) {
				t.Fatalf("got %d draws, expected %d", len(dev.draws), len(tt.draws))
			}
			for i, w := range tt.draws {
				d := dev.draws[i]
				if d.texture != devTexture(ctx, tex[w.tex]) || d.start != w.start || d.count != w.count {
					t.Errorf("draw %d: texture %d [%d,+%d), expected texture %d [%d,+%d)", i, d.texture,
						d.start, d.count, devTexture(ctx, tex[w.tex]), w.start, w.count)
				}
				if d.start+d.count > MaxIndices {
					t.Errorf("draw %d exceeds index buffer", i)
				}
			}
		})
	}
}

func TestQuadGeometry(t *testing.T) {
	b, ctx, _ := newTestBatcher(t)
	tex := newTestTexture(t, ctx, 64, 32)

	tests := []struct {
		name   string
		draw   func()
		pos    [4][2]float32
		uv     [4][2]float32
		ignore bool // skip uv check
	}{
		{
			name: "region",
			draw: func() { b.DrawRegion(tex, math.MakeRect(16, 8, 16, 8), [2]float32{10, 20}, nil) },
			pos:  [4][2]float32{{10, 20}, {10, 28}, {26, 28}, {26, 20}},
			uv:   [4][2]float32{{0.25, 0.25}, {0.25, 0.5}, {0.5, 0.5}, {0.5, 0.25}},
		},
		{
			name: "flip x",
			draw: func() {
				p := DefaultDrawParams()
				p.FlipX = true
				b.DrawRegion(tex, math.MakeRect(16, 8, 16, 8), [2]float32{10, 20}, &p)
			},
			pos: [4][2]float32{{10, 20}, {10, 28}, {26, 28}, {26, 20}},
			uv:  [4][2]float32{{0.5, 0.25}, {0.5, 0.5}, {0.25, 0.5}, {0.25, 0.25}},
		},
		{
			name: "flip y",
			draw: func() {
				p := DefaultDrawParams()
				p.FlipY = true
				b.DrawTexture(tex, [2]float32{}, &p)
			},
			pos: [4][2]float32{{0, 0}, {0, 32}, {64, 32}, {64, 0}},
			uv:  [4][2]float32{{0, 1}, {0, 0}, {1, 0}, {1, 1}},
		},
		{
			name: "scale",
			draw: func() {
				p := DefaultDrawParams()
				p.Scale = [2]float32{2, 3}
				b.DrawTexture(tex, [2]float32{1, 1}, &p)
			},
			pos: [4][2]float32{{1, 1}, {1, 97}, {129, 97}, {129, 1}},
			uv:  [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		},
		{
			name: "origin",
			draw: func() {
				p := DefaultDrawParams()
				p.Origin = [2]float32{32, 16}
				b.DrawTexture(tex, [2]float32{100, 100}, &p)
			},
			pos: [4][2]float32{{68, 84}, {68, 116}, {132, 116}, {132, 84}},
			uv:  [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		},
		{
			name: "rotation about origin",
			draw: func() {
				p := DefaultDrawParams()
				p.Origin = [2]float32{5, 5}
				p.Rotation = math.Pi() / 2
				b.DrawRectParams(math.MakeRect(100, 100, 10, 10), &p)
			},
			pos:    [4][2]float32{{105, 95}, {95, 95}, {95, 105}, {105, 105}},
			ignore: true,
		},
		{
			name:   "matrix",
			draw:   func() { b.PushMatrix(math.Identity3x3().Translate(5, 7)); b.DrawRect(math.MakeRect(0, 0, 2, 2), White); b.PopMatrix() },
			pos:    [4][2]float32{{5, 7}, {5, 9}, {7, 9}, {7, 7}},
			ignore: true,
		},
		{
			name: "transform",
			draw: func() {
				xf := math.DefaultTransform()
				xf.Position = [2]float32{50, 60}
				xf.Scale = [2]float32{0.5, 0.5}
				b.DrawTextureTransform(tex, xf, White)
			},
			pos: [4][2]float32{{50, 60}, {50, 76}, {82, 76}, {82, 60}},
			uv:  [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.Flush(testWindow{10, 10})
			tt.draw()
			v := b.Vertices()
			if len(v) != 4 {
				t.Fatalf("got %d vertices, expected 4", len(v))
			}
			for i := range 4 {
				if !near(v[i].Pos, tt.pos[i]) {
					t.Errorf("vertex %d: position %v, expected %v", i, v[i].Pos, tt.pos[i])
				}
				if !tt.ignore && !near(v[i].UV, tt.uv[i]) {
					t.Errorf("vertex %d: uv %v, expected %v", i, v[i].UV, tt.uv[i])
				}
			}
		})
	}
}

func TestTintAndColor(t *testing.T) {
	b, ctx, _ := newTestBatcher(t)
	tex := newTestTexture(t, ctx, 4, 4)

	b.DrawTexture(tex, [2]float32{}, Tinted(Red))
	b.DrawRect(math.MakeRect(0, 0, 1, 1), Blue)
	for i, v := range b.Vertices() {
		want := Red
		if i >= 4 {
			want = Blue
		}
		if v.Color != want {
			t.Errorf("vertex %d: color %s, expected %s", i, v.Color, want)
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	b, ctx, dev := newTestBatcher(t)
	empty := newTestTexture(t, ctx, 0, 0)

	b.DrawRect(math.MakeRect(5, 5, 0, 10), White)
	b.DrawRegion(empty, math.MakeRect(0, 0, 4, 4), [2]float32{}, nil)

	if b.NumQuads() != 2 {
		t.Errorf("got %d quads, expected 2", b.NumQuads())
	}
	for i, v := range b.Vertices()[4:] {
		if v.UV != [2]float32{} {
			t.Errorf("vertex %d of empty-texture quad has uv %v", i, v.UV)
		}
	}
	b.Flush(testWindow{10, 10})
	if len(dev.draws) != 2 {
		t.Errorf("got %d draws, expected 2", len(dev.draws))
	}
}

func TestFlushResets(t *testing.T) {
	b, ctx, dev := newTestBatcher(t)
	tex := newTestTexture(t, ctx, 4, 4)

	b.PushMatrix(math.Identity3x3().Translate(100, 100))
	b.DrawTexture(tex, [2]float32{}, nil)
	b.Flush(testWindow{10, 10})

	if b.NumQuads() != 0 || b.Batches() != nil {
		t.Errorf("batcher not reset after flush")
	}

	// The matrix stack is per-frame as well.
	b.DrawTexture(tex, [2]float32{}, nil)
	if v := b.Vertices()[0].Pos; v != [2]float32{} {
		t.Errorf("matrix survived flush: first vertex at %v", v)
	}
	b.Flush(testWindow{10, 10})

	n := len(dev.draws)
	if stats := b.Flush(testWindow{10, 10}); stats.DrawCalls != 0 || stats.Batches != 0 {
		t.Errorf("empty flush reported %s", stats.String())
	}
	if len(dev.draws) != n {
		t.Errorf("empty flush issued draws")
	}
}

func TestBatcherDelete(t *testing.T) {
	b, ctx, dev := newTestBatcher(t)
	b.Delete()
	if ctx.NumResources() != 0 || len(dev.live) != 0 {
		t.Errorf("Delete left %d resources", ctx.NumResources())
	}
}
