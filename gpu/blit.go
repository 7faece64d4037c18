// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"
)

// ErrBlitUnavailable is returned when the blit program failed to build and
// compositing cannot proceed.
var ErrBlitUnavailable = errors.New("gpu: blit program unavailable")

const blitVertexSource = `#version 330 core
layout(location = 0) in vec2 position;
layout(location = 1) in vec2 texcoord;
out vec2 v_texcoord;
void main() {
    v_texcoord = texcoord;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const blitFragmentSource = `#version 330 core
uniform sampler2D tex;
in vec2 v_texcoord;
out vec4 frag_color;
void main() {
    frag_color = texture(tex, v_texcoord);
}
`

// blitQuad covers the full viewport: two triangles, interleaved
// position/texcoord pairs.
var blitQuad = [24]float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
	-1, -1, 0, 0,
	1, 1, 1, 1,
	-1, 1, 0, 1,
}

// Blitter draws an engine-rendered texture over the current viewport. It
// lazily builds its program and quad geometry the first time Draw runs,
// so construction needs no current context.
type Blitter struct {
	gl      GL
	program uint32
	vao     uint32
	vbo     uint32
	ready   bool
	failed  bool
}

// NewBlitter returns a Blitter drawing through gl.
func NewBlitter(gl GL) *Blitter {
	return &Blitter{gl: gl}
}

// Draw renders texture across the current viewport. The render context
// must be current. The caller is responsible for saving and restoring any
// GL binding state it needs preserved.
func (b *Blitter) Draw(texture uint32) error {
	if err := b.ensure(); err != nil {
		return err
	}
	gl := b.gl
	gl.UseProgram(b.program)
	gl.BindVertexArray(b.vao)
	gl.BindTexture(GLTexture2D, texture)
	gl.DrawArrays(GLTriangles, 0, 6)
	return nil
}

// ensure builds the program and quad once. A build failure is sticky:
// shader sources are constant, so retrying cannot succeed.
func (b *Blitter) ensure() error {
	if b.ready {
		return nil
	}
	if b.failed {
		return ErrBlitUnavailable
	}

	program, err := b.buildProgram()
	if err != nil {
		b.failed = true
		return fmt.Errorf("%w: %v", ErrBlitUnavailable, err)
	}

	gl := b.gl
	vao := gl.GenVertexArray()
	vbo := gl.GenBuffer()
	gl.BindVertexArray(vao)
	gl.BindBuffer(GLArrayBuffer, vbo)
	gl.BufferData(GLArrayBuffer, blitQuad[:], GLStaticDraw)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, GLFloat, false, 16, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, GLFloat, false, 16, 8)

	b.program = program
	b.vao = vao
	b.vbo = vbo
	b.ready = true
	return nil
}

func (b *Blitter) buildProgram() (uint32, error) {
	gl := b.gl

	vert, err := b.compile(GLVertexShader, blitVertexSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := b.compile(GLFragmentShader, blitFragmentSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)
	if gl.GetProgramParameter(program, GLLinkStatus) != GLTrue {
		log := gl.ProgramInfoLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", log)
	}
	return program, nil
}

func (b *Blitter) compile(xtype uint32, source string) (uint32, error) {
	gl := b.gl
	shader := gl.CreateShader(xtype)
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)
	if gl.GetShaderParameter(shader, GLCompileStatus) != GLTrue {
		log := gl.ShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compile failed: %s", log)
	}
	return shader, nil
}

// Close releases the program and geometry. The render context must be
// current.
func (b *Blitter) Close() {
	if !b.ready {
		return
	}
	gl := b.gl
	gl.DeleteVertexArray(b.vao)
	gl.DeleteBuffer(b.vbo)
	gl.DeleteProgram(b.program)
	b.ready = false
}
