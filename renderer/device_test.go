// renderer/device_test.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type drawRecord struct {
	framebuffer, texture, shader uint32
	vertices, indices            uint32
	start, count                 int
	projection                   mgl32.Mat4
}

// recordingDevice is a Device that keeps track of what's bound and
// records everything that is drawn. Like GL, it reuses the ids of deleted
// objects.
type recordingDevice struct {
	nextID   uint32
	freeIDs  []uint32
	live     map[uint32]Slot
	bound    [numSlots]uint32
	binds    [numSlots]int
	textures map[uint32][]byte
	texSize  map[uint32][2]int

	projection mgl32.Mat4
	viewports  int
	frontFaces []bool
	clears     []RGBA
	uploads    [][]Vertex
	draws      []drawRecord
	disposed   bool

	failTextures bool
	nilPixels    int // textures created without pixel data
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{
		nextID:   1,
		live:     make(map[uint32]Slot),
		textures: make(map[uint32][]byte),
		texSize:  make(map[uint32][2]int),
	}
}

func newTestContext(t *testing.T) (*Context, *recordingDevice) {
	t.Helper()
	dev := newRecordingDevice()
	ctx, err := Init(dev, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return ctx, dev
}

func (d *recordingDevice) alloc(slot Slot) uint32 {
	var id uint32
	if len(d.freeIDs) > 0 {
		slices.Sort(d.freeIDs)
		id, d.freeIDs = d.freeIDs[0], d.freeIDs[1:]
	} else {
		id = d.nextID
		d.nextID++
	}
	d.live[id] = slot
	return id
}

func (d *recordingDevice) release(id uint32, slot Slot) {
	if s, ok := d.live[id]; !ok || s != slot {
		panic(fmt.Sprintf("deleting %s %d that isn't live", slot, id))
	}
	delete(d.live, id)
	d.freeIDs = append(d.freeIDs, id)
	if d.bound[slot] == id {
		d.bound[slot] = 0
	}
}

func (d *recordingDevice) CreateTexture(width, height int, rgba []byte) (uint32, error) {
	if d.failTextures {
		return 0, fmt.Errorf("out of texture memory")
	}
	if rgba == nil {
		d.nilPixels++
	}
	id := d.alloc(SlotTexture)
	pix := make([]byte, 4*width*height)
	copy(pix, rgba)
	d.textures[id] = pix
	d.texSize[id] = [2]int{width, height}
	d.bound[SlotTexture] = id
	return id, nil
}

func (d *recordingDevice) UpdateTexture(x, y, width, height int, rgba []byte) {
	id := d.bound[SlotTexture]
	tw := d.texSize[id][0]
	for row := 0; row < height; row++ {
		copy(d.textures[id][4*((y+row)*tw+x):], rgba[4*row*width:4*(row+1)*width])
	}
}

func (d *recordingDevice) DeleteTexture(id uint32) {
	d.release(id, SlotTexture)
	delete(d.textures, id)
	delete(d.texSize, id)
}

func (d *recordingDevice) CreateShader(vs, fs string) (uint32, error) {
	if vs == "" || fs == "" {
		return 0, fmt.Errorf("%w: empty source", ErrShaderCompile)
	}
	return d.alloc(SlotShader), nil
}

func (d *recordingDevice) DeleteShader(id uint32) { d.release(id, SlotShader) }

func (d *recordingDevice) CreateFramebuffer(texture uint32) (uint32, error) {
	id := d.alloc(SlotFramebuffer)
	d.bound[SlotFramebuffer] = id
	return id, nil
}

func (d *recordingDevice) DeleteFramebuffer(id uint32) { d.release(id, SlotFramebuffer) }

func (d *recordingDevice) CreateVertexBuffer(capacity int) (uint32, error) {
	id := d.alloc(SlotVertexBuffer)
	d.bound[SlotVertexBuffer] = id
	return id, nil
}

func (d *recordingDevice) CreateIndexBuffer(indices []uint32) (uint32, error) {
	id := d.alloc(SlotIndexBuffer)
	d.bound[SlotIndexBuffer] = id
	return id, nil
}

func (d *recordingDevice) UploadVertices(v []Vertex) {
	d.uploads = append(d.uploads, slices.Clone(v))
}

func (d *recordingDevice) DeleteBuffer(id uint32) {
	d.release(id, d.live[id])
}

func (d *recordingDevice) Bind(slot Slot, id uint32) {
	d.bound[slot] = id
	d.binds[slot]++
}

func (d *recordingDevice) SetProjection(m mgl32.Mat4) { d.projection = m }
func (d *recordingDevice) SetViewport(width, height int) {
	d.viewports++
}
func (d *recordingDevice) SetFrontFace(clockwise bool) {
	d.frontFaces = append(d.frontFaces, clockwise)
}
func (d *recordingDevice) Clear(c RGBA) { d.clears = append(d.clears, c) }

func (d *recordingDevice) DrawTriangles(indexStart, indexCount int) {
	d.draws = append(d.draws, drawRecord{
		framebuffer: d.bound[SlotFramebuffer],
		texture:     d.bound[SlotTexture],
		shader:      d.bound[SlotShader],
		vertices:    d.bound[SlotVertexBuffer],
		indices:     d.bound[SlotIndexBuffer],
		start:       indexStart,
		count:       indexCount,
		projection:  d.projection,
	})
}

func (d *recordingDevice) Dispose() { d.disposed = true }

// testWindow is a non-flipped Target standing in for the window.
type testWindow struct {
	width, height int
}

func (w testWindow) Size() (int, int)           { return w.width, w.height }
func (w testWindow) Flipped() bool              { return false }
func (w testWindow) Framebuffer() FramebufferID { return 0 }
