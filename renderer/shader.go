// renderer/shader.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
)

var ErrShaderCompile = errors.New("renderer: shader compilation failed")

// The default sprite shader. Vertex attribute locations match the Vertex
// layout; textures and vertex colors are both premultiplied.
const (
	DefaultVertexShader = `#version 330 core

layout(location = 0) in vec2 a_position;
layout(location = 1) in vec2 a_uv;
layout(location = 2) in vec4 a_color;

uniform mat4 u_projection;

out vec2 v_uv;
out vec4 v_color;

void main() {
    v_uv = a_uv;
    v_color = a_color;
    gl_Position = u_projection * vec4(a_position, 0.0, 1.0);
}
`

	DefaultFragmentShader = `#version 330 core

in vec2 v_uv;
in vec4 v_color;

uniform sampler2D u_texture;

out vec4 o_color;

void main() {
    o_color = texture(u_texture, v_uv) * v_color;
}
`
)

type Shader struct {
	ctx *Context
	id  ShaderID
}

func NewShader(ctx *Context, vertexSource, fragmentSource string) (*Shader, error) {
	id, err := ctx.createShader(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	return &Shader{ctx: ctx, id: id}, nil
}

func (s *Shader) ID() ShaderID { return s.id }

func (s *Shader) Delete() {
	s.ctx.free(uint32(s.id))
}
