// renderer/device.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Slot identifies a piece of bindable GPU state. The Context caches the
// object bound to each slot so that redundant binds never reach the
// Device.
type Slot int

const (
	SlotFramebuffer Slot = iota
	SlotTexture
	SlotShader
	SlotVertexBuffer
	SlotIndexBuffer
	numSlots
)

func (s Slot) String() string {
	return [...]string{"framebuffer", "texture", "shader", "vertex buffer", "index buffer"}[s]
}

// Device is the low-level graphics API binding. Object ids are the
// device's own names; 0 always means "none" (or the default framebuffer).
//
// Create* methods leave the newly-created object bound in its slot, and
// the Update/Upload methods operate on whatever is currently bound in the
// corresponding slot. The Context relies on both properties to keep its
// bound-state cache accurate.
type Device interface {
	CreateTexture(width, height int, rgba []byte) (uint32, error)
	// UpdateTexture updates a region of the bound texture.
	UpdateTexture(x, y, width, height int, rgba []byte)
	DeleteTexture(id uint32)

	// CreateShader does not bind the new program.
	CreateShader(vertexSource, fragmentSource string) (uint32, error)
	DeleteShader(id uint32)

	CreateFramebuffer(texture uint32) (uint32, error)
	DeleteFramebuffer(id uint32)

	// CreateVertexBuffer allocates space for capacity vertices.
	CreateVertexBuffer(capacity int) (uint32, error)
	CreateIndexBuffer(indices []uint32) (uint32, error)
	// UploadVertices replaces the start of the bound vertex buffer.
	UploadVertices(v []Vertex)
	DeleteBuffer(id uint32)

	Bind(slot Slot, id uint32)

	// SetProjection sets the projection uniform of the bound shader.
	SetProjection(m mgl32.Mat4)
	SetViewport(width, height int)
	// SetFrontFace selects which winding is front-facing; quads are
	// emitted counter-clockwise in window coordinates, which becomes
	// clockwise once a flipped target's projection is applied.
	SetFrontFace(clockwise bool)
	Clear(c RGBA)
	// DrawTriangles issues exactly one indexed draw call using the bound
	// framebuffer, buffers, texture, and shader.
	DrawTriangles(indexStart, indexCount int)

	Dispose()
}
