// math/rect.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

///////////////////////////////////////////////////////////////////////////
// Rectangle

// Rectangle is an axis-aligned rectangle given by its top-left corner
// and its size. Y grows downward.
type Rectangle[T constraints.Integer | constraints.Float] struct {
	X, Y          T
	Width, Height T
}

// Rect is used for positions and texel regions; IRect for atlas
// allocations and other pixel-exact areas.
type (
	Rect  = Rectangle[float32]
	IRect = Rectangle[int]
)

func MakeRect(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func MakeIRect(x, y, w, h int) IRect {
	return IRect{X: x, Y: y, Width: w, Height: h}
}

func (r Rectangle[T]) Left() T   { return r.X }
func (r Rectangle[T]) Right() T  { return r.X + r.Width }
func (r Rectangle[T]) Top() T    { return r.Y }
func (r Rectangle[T]) Bottom() T { return r.Y + r.Height }

func (r Rectangle[T]) TopLeft() [2]T     { return [2]T{r.Left(), r.Top()} }
func (r Rectangle[T]) TopRight() [2]T    { return [2]T{r.Right(), r.Top()} }
func (r Rectangle[T]) BottomLeft() [2]T  { return [2]T{r.Left(), r.Bottom()} }
func (r Rectangle[T]) BottomRight() [2]T { return [2]T{r.Right(), r.Bottom()} }

func (r Rectangle[T]) Size() [2]T { return [2]T{r.Width, r.Height} }

// Empty reports whether the rectangle has no area.
func (r Rectangle[T]) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects returns true if the interiors of r and o overlap; rectangles
// that only share an edge do not intersect.
func (r Rectangle[T]) Intersects(o Rectangle[T]) bool {
	return r.Left() < o.Right() && r.Right() > o.Left() &&
		r.Top() < o.Bottom() && r.Bottom() > o.Top()
}

// Contains returns true if o lies entirely within r.
func (r Rectangle[T]) Contains(o Rectangle[T]) bool {
	return r.Left() <= o.Left() && r.Right() >= o.Right() &&
		r.Top() <= o.Top() && r.Bottom() >= o.Bottom()
}

// ContainsPoint uses half-open bounds: the left and top edges are inside,
// the right and bottom edges are not.
func (r Rectangle[T]) ContainsPoint(p [2]T) bool {
	return p[0] >= r.Left() && p[0] < r.Right() && p[1] >= r.Top() && p[1] < r.Bottom()
}

// Combine returns the smallest rectangle that contains both r and o.
func (r Rectangle[T]) Combine(o Rectangle[T]) Rectangle[T] {
	x0, y0 := min(r.Left(), o.Left()), min(r.Top(), o.Top())
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rectangle[T]{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Offset returns r translated by p.
func (r Rectangle[T]) Offset(p [2]T) Rectangle[T] {
	r.X += p[0]
	r.Y += p[1]
	return r
}

// Expand grows the rectangle by d on every side.
func (r Rectangle[T]) Expand(d T) Rectangle[T] {
	return Rectangle[T]{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

func (r Rectangle[T]) String() string {
	return fmt.Sprintf("(%v,%v %vx%v)", r.X, r.Y, r.Width, r.Height)
}

// ToRect converts an integer rectangle to float32 coordinates.
func ToRect(r IRect) Rect {
	return Rect{X: float32(r.X), Y: float32(r.Y), Width: float32(r.Width), Height: float32(r.Height)}
}
