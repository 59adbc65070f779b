// renderer/opengl.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/mmp/blit/log"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// OpenGLDevice implements Device using OpenGL 3.3 core. A GL context
// must be current on the calling thread before it is created, and all
// of its methods must be called from that thread.
type OpenGLDevice struct {
	lg *log.Logger

	// Each vertex buffer has its own vertex array object, which also
	// holds the index buffer binding.
	vaos     map[uint32]uint32
	textures map[uint32]int // texture id -> bytes
	projLoc  map[uint32]int32
	program  uint32
}

var _ Device = (*OpenGLDevice)(nil)

// NewOpenGLDevice loads the GL entrypoints and sets up the fixed pipeline
// state: premultiplied-alpha blending, back-face culling, and no depth
// test.
func NewOpenGLDevice(lg *log.Logger) (*OpenGLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	lg.Infof("OpenGL version %s vendor %s renderer %s", gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.VENDOR)), gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Disable(gl.DEPTH_TEST)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.ActiveTexture(gl.TEXTURE0)

	return &OpenGLDevice{
		lg:       lg,
		vaos:     make(map[uint32]uint32),
		textures: make(map[uint32]int),
		projLoc:  make(map[uint32]int32),
	}, nil
}

func (d *OpenGLDevice) checkError(what string) error {
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%x", what, e)
	}
	return nil
}

func (d *OpenGLDevice) logTextureMemory(id uint32, bytes int, verb string) {
	total := 0
	for _, b := range d.textures {
		total += b
	}
	d.lg.Debugf("%s texture %d: %d bytes -> %.2f MiB of textures total", verb, id, bytes,
		float32(total)/(1024*1024))
}

func pixelPointer(rgba []byte) unsafe.Pointer {
	if len(rgba) == 0 {
		return nil
	}
	return unsafe.Pointer(&rgba[0])
}

func (d *OpenGLDevice) CreateTexture(width, height int, rgba []byte) (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA,
		gl.UNSIGNED_BYTE, pixelPointer(rgba))

	if err := d.checkError("glTexImage2D"); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}

	d.textures[id] = 4 * width * height
	d.logTextureMemory(id, 4*width*height, "Created")
	return id, nil
}

func (d *OpenGLDevice) UpdateTexture(x, y, width, height int, rgba []byte) {
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(width), int32(height), gl.RGBA,
		gl.UNSIGNED_BYTE, pixelPointer(rgba))
}

func (d *OpenGLDevice) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
	delete(d.textures, id)
}

func compileShader(source string, ty uint32) (uint32, error) {
	s := gl.CreateShader(ty)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csrc, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n)+1)
		gl.GetShaderInfoLog(s, n, nil, gl.Str(msg))
		gl.DeleteShader(s)
		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, strings.TrimRight(msg, "\x00"))
	}
	return s, nil
}

func (d *OpenGLDevice) CreateShader(vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n)+1)
		gl.GetProgramInfoLog(prog, n, nil, gl.Str(msg))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("%w: link: %s", ErrShaderCompile, strings.TrimRight(msg, "\x00"))
	}

	d.projLoc[prog] = gl.GetUniformLocation(prog, gl.Str("u_projection\x00"))
	return prog, nil
}

func (d *OpenGLDevice) DeleteShader(id uint32) {
	gl.DeleteProgram(id)
	delete(d.projLoc, id)
	if d.program == id {
		d.program = 0
	}
}

func (d *OpenGLDevice) CreateFramebuffer(texture uint32) (uint32, error) {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.DeleteFramebuffers(1, &fb)
		return 0, fmt.Errorf("framebuffer incomplete: status 0x%x", status)
	}
	return fb, nil
}

func (d *OpenGLDevice) DeleteFramebuffer(id uint32) {
	gl.DeleteFramebuffers(1, &id)
}

func (d *OpenGLDevice) CreateVertexBuffer(capacity int) (uint32, error) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*VertexSize, nil, gl.DYNAMIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, int32(VertexSize), gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, int32(VertexSize), gl.PtrOffset(vertexUVOffset))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, int32(VertexSize), gl.PtrOffset(vertexColorOffset))

	if err := d.checkError("vertex buffer"); err != nil {
		gl.DeleteBuffers(1, &vbo)
		gl.DeleteVertexArrays(1, &vao)
		return 0, err
	}
	d.vaos[vbo] = vao
	return vbo, nil
}

// CreateIndexBuffer attaches the new buffer to the currently-bound vertex
// array.
func (d *OpenGLDevice) CreateIndexBuffer(indices []uint32) (uint32, error) {
	var ibo uint32
	gl.GenBuffers(1, &ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo)
	var ptr unsafe.Pointer
	if len(indices) > 0 {
		ptr = unsafe.Pointer(&indices[0])
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(indices), ptr, gl.STATIC_DRAW)

	if err := d.checkError("index buffer"); err != nil {
		gl.DeleteBuffers(1, &ibo)
		return 0, err
	}
	return ibo, nil
}

func (d *OpenGLDevice) UploadVertices(v []Vertex) {
	if len(v) == 0 {
		return
	}
	b := vertexBytes(v)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(b), unsafe.Pointer(&b[0]))
}

func (d *OpenGLDevice) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
	if vao, ok := d.vaos[id]; ok {
		gl.DeleteVertexArrays(1, &vao)
		delete(d.vaos, id)
	}
}

func (d *OpenGLDevice) Bind(slot Slot, id uint32) {
	switch slot {
	case SlotFramebuffer:
		gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	case SlotTexture:
		gl.BindTexture(gl.TEXTURE_2D, id)
	case SlotShader:
		gl.UseProgram(id)
		d.program = id
	case SlotVertexBuffer:
		gl.BindVertexArray(d.vaos[id])
		gl.BindBuffer(gl.ARRAY_BUFFER, id)
	case SlotIndexBuffer:
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	default:
		d.lg.Errorf("%d: unknown binding slot", slot)
	}
}

func (d *OpenGLDevice) SetProjection(m mgl32.Mat4) {
	loc, ok := d.projLoc[d.program]
	if !ok || loc < 0 {
		return
	}
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *OpenGLDevice) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *OpenGLDevice) SetFrontFace(clockwise bool) {
	if clockwise {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
}

func (d *OpenGLDevice) Clear(c RGBA) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *OpenGLDevice) DrawTriangles(indexStart, indexCount int) {
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, gl.PtrOffset(4*indexStart))
}

func (d *OpenGLDevice) Dispose() {
	for id := range d.textures {
		gl.DeleteTextures(1, &id)
	}
	for vbo, vao := range d.vaos {
		gl.DeleteBuffers(1, &vbo)
		gl.DeleteVertexArrays(1, &vao)
	}
	clear(d.textures)
	clear(d.vaos)
	d.lg.Info("Disposed OpenGL device")
}
