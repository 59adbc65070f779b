// renderer/vertex.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"unsafe"
)

// Vertex is uploaded to the GPU as-is, so its layout must match the
// attribute pointers set up by the device: position at offset 0, texture
// coordinates at 8, and color at 16.
type Vertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color RGBA
}

const (
	VertexSize        = int(unsafe.Sizeof(Vertex{}))
	vertexUVOffset    = int(unsafe.Offsetof(Vertex{}.UV))
	vertexColorOffset = int(unsafe.Offsetof(Vertex{}.Color))
)

// QuadIndices returns the index pattern shared by all quads: each quad's
// four vertices (top-left, bottom-left, bottom-right, top-right) are
// split into the triangles 0-1-2 and 2-3-0.
func QuadIndices(nQuads int) []uint32 {
	idx := make([]uint32, 0, 6*nQuads)
	for i := 0; i < nQuads; i++ {
		b := uint32(4 * i)
		idx = append(idx, b, b+1, b+2, b+2, b+3, b)
	}
	return idx
}

// vertexBytes returns the vertices as a byte slice without copying.
func vertexBytes(v []Vertex) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*VertexSize)
}
