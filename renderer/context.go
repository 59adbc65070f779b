// renderer/context.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmp/blit/log"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoDevice = errors.New("renderer: no graphics device")

// Opaque handles for GPU objects owned by a Context. The zero value of
// each is "none"; for framebuffers, it is the window's default
// framebuffer.
type (
	TextureID     uint32
	ShaderID      uint32
	FramebufferID uint32
	BufferID      uint32
)

type resource struct {
	slot          Slot
	dev           uint32 // the Device's name for the object
	width, height int    // textures only
	label         string
}

// targetState is the per-target state that is set before drawing:
// viewport, winding, and (per shader) projection.
type targetState struct {
	width, height int
	flipped       bool
}

// Context owns all of the GPU objects created through it and mediates all
// access to the Device. There may be more than one Context in a process
// (e.g., one per Device in tests); nothing here is global.
type Context struct {
	dev Device
	lg  *log.Logger

	resources  map[uint32]*resource
	nextHandle uint32

	// Bound-state cache, holding Device names. Entries are invalidated
	// when the object they refer to is freed, so that a later object
	// that happens to reuse the name is bound again.
	bound      [numSlots]uint32
	boundValid [numSlots]bool

	target      targetState
	targetValid bool
	projShader  uint32
	projTarget  targetState
	projValid   bool

	// Handles whose objects may still be referenced by queued draws;
	// they are freed by EndFrame.
	pendingFrees []uint32

	stats RendererStats
}

// Init returns a new Context that issues its commands to dev.
func Init(dev Device, lg *log.Logger) (*Context, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	lg.Debug("Initialized renderer context")
	return &Context{
		dev:        dev,
		lg:         lg,
		resources:  make(map[uint32]*resource),
		nextHandle: 1,
	}, nil
}

func (c *Context) Device() Device {
	return c.dev
}

func (c *Context) Logger() *log.Logger {
	return c.lg
}

func (c *Context) add(slot Slot, dev uint32, w, h int, label string) uint32 {
	handle := c.nextHandle
	c.nextHandle++
	c.resources[handle] = &resource{slot: slot, dev: dev, width: w, height: h, label: label}
	c.lg.Debug("created GPU resource", slog.String("kind", slot.String()), slog.Int("handle", int(handle)),
		slog.Int("device_id", int(dev)), slog.String("label", label))
	return handle
}

// get returns the resource for the handle, which must be alive and of
// the given kind; anything else is a programming error.
func (c *Context) get(handle uint32, slot Slot) *resource {
	r, ok := c.resources[handle]
	if !ok {
		panic(fmt.Sprintf("renderer: use of freed or unknown %s handle %d", slot, handle))
	}
	if r.slot != slot {
		panic(fmt.Sprintf("renderer: handle %d is a %s, not a %s", handle, r.slot, slot))
	}
	return r
}

// free releases the resource's GPU object. It is a no-op for handles that
// have already been freed.
func (c *Context) free(handle uint32) {
	r, ok := c.resources[handle]
	if !ok {
		return
	}
	delete(c.resources, handle)

	if c.boundValid[r.slot] && c.bound[r.slot] == r.dev {
		c.boundValid[r.slot] = false
	}

	switch r.slot {
	case SlotTexture:
		c.dev.DeleteTexture(r.dev)
	case SlotShader:
		c.dev.DeleteShader(r.dev)
		if c.projShader == r.dev {
			c.projValid = false
		}
	case SlotFramebuffer:
		c.dev.DeleteFramebuffer(r.dev)
		c.targetValid = false
	case SlotVertexBuffer, SlotIndexBuffer:
		c.dev.DeleteBuffer(r.dev)
	}
	c.lg.Debug("freed GPU resource", slog.String("kind", r.slot.String()), slog.Int("handle", int(handle)))
}

// freeAtEndOfFrame schedules the handle to be freed by the next EndFrame.
func (c *Context) freeAtEndOfFrame(handle uint32) {
	c.pendingFrees = append(c.pendingFrees, handle)
}

// EndFrame frees the objects that were released during the frame. It
// should be called after everything drawn in the frame has been flushed.
func (c *Context) EndFrame() {
	for _, h := range c.pendingFrees {
		c.free(h)
	}
	c.pendingFrees = c.pendingFrees[:0]
}

// bind binds the device object id in the given slot unless the cache
// says it's already bound.
func (c *Context) bind(slot Slot, id uint32) {
	if c.boundValid[slot] && c.bound[slot] == id {
		return
	}
	c.dev.Bind(slot, id)
	c.bound[slot] = id
	c.boundValid[slot] = true
	c.stats.Binds++

	if slot == SlotVertexBuffer {
		// The index buffer binding is part of the vertex array state, so
		// switching vertex buffers changes it as well.
		c.boundValid[SlotIndexBuffer] = false
	}
}

// created records that a Device Create* call left id bound.
func (c *Context) created(slot Slot, id uint32) {
	c.bound[slot] = id
	c.boundValid[slot] = true
	if slot == SlotVertexBuffer {
		c.boundValid[SlotIndexBuffer] = false
	}
}

// IsBound reports whether the cache believes the handle's object is
// currently bound.
func (c *Context) IsBound(handle uint32) bool {
	r, ok := c.resources[handle]
	return ok && c.boundValid[r.slot] && c.bound[r.slot] == r.dev
}

// NumResources returns the number of live GPU objects.
func (c *Context) NumResources() int {
	return len(c.resources)
}

///////////////////////////////////////////////////////////////////////////
// Resource creation

func (c *Context) createTexture(w, h int, rgba []byte, label string) (TextureID, error) {
	id, err := c.dev.CreateTexture(w, h, rgba)
	if err != nil {
		c.lg.Errorf("%s: unable to create %dx%d texture: %v", label, w, h, err)
		return 0, err
	}
	c.created(SlotTexture, id)
	return TextureID(c.add(SlotTexture, id, w, h, label)), nil
}

func (c *Context) updateTexture(t TextureID, x, y, w, h int, rgba []byte) {
	r := c.get(uint32(t), SlotTexture)
	c.bind(SlotTexture, r.dev)
	c.dev.UpdateTexture(x, y, w, h, rgba)
}

func (c *Context) createShader(vs, fs string) (ShaderID, error) {
	id, err := c.dev.CreateShader(vs, fs)
	if err != nil {
		c.lg.Errorf("unable to create shader: %v", err)
		return 0, err
	}
	return ShaderID(c.add(SlotShader, id, 0, 0, "")), nil
}

func (c *Context) createFramebuffer(t TextureID) (FramebufferID, error) {
	r := c.get(uint32(t), SlotTexture)
	id, err := c.dev.CreateFramebuffer(r.dev)
	if err != nil {
		c.lg.Errorf("unable to create framebuffer: %v", err)
		return 0, err
	}
	c.created(SlotFramebuffer, id)
	c.targetValid = false
	return FramebufferID(c.add(SlotFramebuffer, id, r.width, r.height, r.label)), nil
}

// CreateVertexBuffer allocates a vertex buffer that holds up to capacity
// vertices.
func (c *Context) CreateVertexBuffer(capacity int) (BufferID, error) {
	id, err := c.dev.CreateVertexBuffer(capacity)
	if err != nil {
		c.lg.Errorf("unable to create vertex buffer: %v", err)
		return 0, err
	}
	c.created(SlotVertexBuffer, id)
	return BufferID(c.add(SlotVertexBuffer, id, capacity, 0, "")), nil
}

func (c *Context) CreateIndexBuffer(indices []uint32) (BufferID, error) {
	id, err := c.dev.CreateIndexBuffer(indices)
	if err != nil {
		c.lg.Errorf("unable to create index buffer: %v", err)
		return 0, err
	}
	c.created(SlotIndexBuffer, id)
	return BufferID(c.add(SlotIndexBuffer, id, len(indices), 0, "")), nil
}

func (c *Context) DeleteBuffer(b BufferID) {
	c.free(uint32(b))
}

// UploadVertices copies v to the start of the given vertex buffer. All
// vertices must be uploaded before any draw call that references them.
func (c *Context) UploadVertices(b BufferID, v []Vertex) {
	r := c.get(uint32(b), SlotVertexBuffer)
	if len(v) > r.width {
		panic(fmt.Sprintf("renderer: %d vertices overflow vertex buffer of capacity %d", len(v), r.width))
	}
	c.bind(SlotVertexBuffer, r.dev)
	c.dev.UploadVertices(v)
	c.stats.Flushes++
	c.stats.Vertices += len(v)
}

///////////////////////////////////////////////////////////////////////////
// Drawing

// DrawCall describes a single indexed draw: IndexCount indices starting
// at IndexStart, drawn with the given buffers, texture, and shader.
type DrawCall struct {
	Vertices   BufferID
	Indices    BufferID
	Texture    TextureID
	Shader     ShaderID
	IndexStart int
	IndexCount int
}

func (c *Context) framebufferID(fb FramebufferID) uint32 {
	if fb == 0 {
		return 0
	}
	return c.get(uint32(fb), SlotFramebuffer).dev
}

func (c *Context) bindTarget(target Target) {
	c.bind(SlotFramebuffer, c.framebufferID(target.Framebuffer()))

	w, h := target.Size()
	ts := targetState{width: w, height: h, flipped: target.Flipped()}
	if !c.targetValid || c.target != ts {
		c.dev.SetViewport(w, h)
		c.dev.SetFrontFace(ts.flipped)
		c.target = ts
		c.targetValid = true
	}
}

// ProjectionMatrix returns the orthographic projection for a target of
// the given size. Coordinates are in pixels with (0,0) at the top left;
// flipped targets (canvases) are stored bottom-up, so their y axis is not
// inverted.
func ProjectionMatrix(width, height int, flipped bool) mgl32.Mat4 {
	w, h := float32(width), float32(height)
	if flipped {
		return mgl32.Ortho(0, w, 0, h, -1, 1)
	}
	return mgl32.Ortho(0, w, h, 0, -1, 1)
}

func (c *Context) setProjection(shader uint32) {
	if c.projValid && c.projShader == shader && c.projTarget == c.target {
		return
	}
	c.dev.SetProjection(ProjectionMatrix(c.target.width, c.target.height, c.target.flipped))
	c.projShader = shader
	c.projTarget = c.target
	c.projValid = true
}

// Draw issues exactly one draw call to the target.
func (c *Context) Draw(target Target, call DrawCall) {
	if call.IndexCount == 0 {
		return
	}

	c.bindTarget(target)
	c.bind(SlotVertexBuffer, c.get(uint32(call.Vertices), SlotVertexBuffer).dev)
	c.bind(SlotIndexBuffer, c.get(uint32(call.Indices), SlotIndexBuffer).dev)
	c.bind(SlotTexture, c.get(uint32(call.Texture), SlotTexture).dev)
	shader := c.get(uint32(call.Shader), SlotShader).dev
	c.bind(SlotShader, shader)
	c.setProjection(shader)

	c.dev.DrawTriangles(call.IndexStart, call.IndexCount)
	c.stats.DrawCalls++
}

// Clear fills the entire target with the given color.
func (c *Context) Clear(target Target, color RGBA) {
	c.bindTarget(target)
	c.dev.Clear(color)
}

// Stats returns the statistics accumulated since the last call to
// Stats.
func (c *Context) Stats() RendererStats {
	s := c.stats
	c.stats = RendererStats{}
	return s
}

// Dispose frees all remaining GPU objects and then the Device itself.
func (c *Context) Dispose() {
	c.pendingFrees = nil
	for h := range c.resources {
		c.free(h)
	}
	c.dev.Dispose()
}
