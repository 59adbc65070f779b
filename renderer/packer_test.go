// renderer/packer_test.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/mmp/blit/math"
)

func TestShelfPackerNoOverlap(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := range 20 {
		p := NewShelfPacker(256, 256)
		var placed []math.IRect
		for range 500 {
			w, h := 1+r.IntN(24), 1+r.IntN(24)
			pad := r.IntN(3)
			rect, err := p.Insert(w, h, pad)
			if errors.Is(err, ErrAtlasFull) {
				continue
			} else if err != nil {
				t.Fatalf("unexpected error %v", err)
			}

			if rect.Width != w+2*pad || rect.Height != h+2*pad {
				t.Errorf("%dx%d pad %d: got %s", w, h, pad, rect)
			}
			if rect.X < 0 || rect.Y < 0 || rect.Right() > 256 || rect.Bottom() > 256 {
				t.Errorf("%s is outside of the atlas", rect)
			}
			for _, o := range placed {
				if rect.Intersects(o) {
					t.Fatalf("iteration %d: %s overlaps %s", iter, rect, o)
				}
			}
			placed = append(placed, rect)
		}
		if len(placed) == 0 {
			t.Errorf("nothing was placed")
		}
	}
}

func TestShelfPackerDeterministic(t *testing.T) {
	sizes := [][2]int{{10, 12}, {30, 5}, {7, 7}, {64, 20}, {3, 40}, {12, 12}, {100, 9}}
	pack := func() []math.IRect {
		p := NewShelfPacker(128, 128)
		var r []math.IRect
		for _, s := range sizes {
			rect, err := p.Insert(s[0], s[1], 1)
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}
			r = append(r, rect)
		}
		return r
	}

	a, b := pack(), pack()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("insert %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestShelfPackerFirstFit(t *testing.T) {
	p := NewShelfPacker(100, 100)

	tests := []struct {
		w, h int
		want math.IRect
	}{
		{40, 20, math.MakeIRect(0, 0, 40, 20)},  // opens shelf 0
		{40, 10, math.MakeIRect(40, 0, 40, 10)}, // fits on shelf 0
		{30, 30, math.MakeIRect(0, 20, 30, 30)}, // too tall: shelf 1
		{20, 5, math.MakeIRect(80, 0, 20, 5)},   // first fit is still shelf 0
		{10, 30, math.MakeIRect(30, 20, 10, 30)},
	}
	for i, tt := range tests {
		got, err := p.Insert(tt.w, tt.h, 0)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		if got != tt.want {
			t.Errorf("%d: %dx%d placed at %s, expected %s", i, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestShelfPackerFull(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"too wide", 65, 1},
		{"too tall", 1, 64},
		{"both", 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewShelfPacker(64, 64)
			if _, err := p.Insert(tt.w, tt.h, 0); !errors.Is(err, ErrAtlasFull) {
				t.Errorf("got %v, expected ErrAtlasFull", err)
			}
		})
	}

	// Fill with 16x16 items; the fourth row would end exactly at the
	// bottom, which a new shelf doesn't allow.
	p := NewShelfPacker(64, 64)
	n := 0
	for {
		if _, err := p.Insert(16, 16, 0); err != nil {
			if !errors.Is(err, ErrAtlasFull) {
				t.Fatalf("unexpected error %v", err)
			}
			break
		}
		n++
	}
	if n != 12 {
		t.Errorf("placed %d items, expected 12", n)
	}
}

func TestAtlasCopiesPixels(t *testing.T) {
	bm := NewBitmap(16, 16)
	atlas := NewAtlas(bm, 16, 16)

	red := []byte{255, 0, 0, 255, 255, 0, 0, 255, 255, 0, 0, 255, 255, 0, 0, 255}
	r, err := atlas.Add(2, 2, 1, red)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r != math.MakeIRect(0, 0, 4, 4) {
		t.Errorf("region %s, expected padded 4x4 at origin", r)
	}

	for y := range 4 {
		for x := range 4 {
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			px := bm.At(x, y)
			if inside && px != [4]byte{255, 0, 0, 255} {
				t.Errorf("(%d,%d) = %v, expected red", x, y, px)
			}
			if !inside && px != [4]byte{} {
				t.Errorf("padding at (%d,%d) = %v, expected clear", x, y, px)
			}
		}
	}
}

func TestAtlasBadDataLeavesPackerUnchanged(t *testing.T) {
	atlas := NewAtlas(NewBitmap(16, 16), 16, 16)

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("expected panic for mismatched pixel data")
			}
		}()
		atlas.Add(2, 2, 1, make([]byte, 12))
	}()

	r, err := atlas.Add(2, 2, 1, make([]byte, 16))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r != math.MakeIRect(0, 0, 4, 4) {
		t.Errorf("region %s, expected the space the failed Add would have used", r)
	}
}

func TestAtlasOnTexture(t *testing.T) {
	ctx, dev := newTestContext(t)
	tex := newTestTexture(t, ctx, 8, 8)
	atlas := NewAtlas(tex, 8, 8)

	if _, err := atlas.Add(1, 1, 0, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r, err := atlas.Add(1, 1, 0, []byte{5, 6, 7, 8})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	pix := dev.textures[devTexture(ctx, tex)]
	o := 4 * (r.Y*8 + r.X)
	if pix[o] != 5 || pix[o+3] != 8 {
		t.Errorf("texture pixel at %s is %v", r, pix[o:o+4])
	}
}

func TestSetRegionPreconditions(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex := newTestTexture(t, ctx, 4, 4)
	bm := NewBitmap(4, 4)

	tests := []struct {
		name        string
		x, y, w, h  int
		n           int
		shouldPanic bool
	}{
		{"whole", 0, 0, 4, 4, 64, false},
		{"corner", 3, 3, 1, 1, 4, false},
		{"empty", 2, 2, 0, 0, 0, false},
		{"short data", 0, 0, 2, 2, 12, true},
		{"long data", 0, 0, 2, 2, 20, true},
		{"past right", 3, 0, 2, 1, 8, true},
		{"past bottom", 0, 3, 1, 2, 8, true},
		{"negative", -1, 0, 1, 1, 4, true},
	}

	for _, tt := range tests {
		for _, dst := range []RegionSetter{tex, bm} {
			func() {
				defer func() {
					if p := recover(); (p != nil) != tt.shouldPanic {
						t.Errorf("%s: %T panic = %v, expected panic %v", tt.name, dst, p, tt.shouldPanic)
					}
				}()
				dst.SetRegion(tt.x, tt.y, tt.w, tt.h, make([]byte, tt.n))
			}()
		}
	}
}
