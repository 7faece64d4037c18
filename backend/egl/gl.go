// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package egl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/gogpu/layerhost/gpu"
)

// glFuncs holds the raw GL entry points, resolved with eglGetProcAddress
// and registered through purego.
type glFuncs struct {
	viewport                func(x, y, width, height int32)
	getIntegerv             func(pname uint32, data *int32)
	drawBuffer              func(buf uint32)
	genTextures             func(n int32, textures *uint32)
	deleteTextures          func(n int32, textures *uint32)
	bindTexture             func(target, texture uint32)
	texParameteri           func(target, pname uint32, param int32)
	texImage2D              func(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels uintptr)
	genFramebuffers         func(n int32, framebuffers *uint32)
	deleteFramebuffers      func(n int32, framebuffers *uint32)
	bindFramebuffer         func(target, framebuffer uint32)
	framebufferTexture2D    func(target, attachment, textarget, texture uint32, level int32)
	framebufferRenderbuffer func(target, attachment, renderbuffertarget, renderbuffer uint32)
	checkFramebufferStatus  func(target uint32) uint32
	genRenderbuffers        func(n int32, renderbuffers *uint32)
	deleteRenderbuffers     func(n int32, renderbuffers *uint32)
	bindRenderbuffer        func(target, renderbuffer uint32)
	renderbufferStorage     func(target, internalFormat uint32, width, height int32)
	genBuffers              func(n int32, buffers *uint32)
	deleteBuffers           func(n int32, buffers *uint32)
	bindBuffer              func(target, buffer uint32)
	bufferData              func(target uint32, size uintptr, data *float32, usage uint32)
	genVertexArrays         func(n int32, arrays *uint32)
	deleteVertexArrays      func(n int32, arrays *uint32)
	bindVertexArray         func(array uint32)
	enableVertexAttribArray func(index uint32)
	vertexAttribPointer     func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	createShader            func(xtype uint32) uint32
	shaderSource            func(shader uint32, count int32, sources *uintptr, lengths *int32)
	compileShader           func(shader uint32)
	getShaderiv             func(shader, pname uint32, params *int32)
	getShaderInfoLog        func(shader uint32, bufSize int32, length *int32, infoLog *byte)
	deleteShader            func(shader uint32)
	createProgram           func() uint32
	attachShader            func(program, shader uint32)
	linkProgram             func(program uint32)
	getProgramiv            func(program, pname uint32, params *int32)
	getProgramInfoLog       func(program uint32, bufSize int32, length *int32, infoLog *byte)
	deleteProgram           func(program uint32)
	useProgram              func(program uint32)
	drawArrays              func(mode uint32, first, count int32)
}

// glContext implements gpu.GL over glFuncs.
type glContext struct {
	f glFuncs
}

// loadGL resolves every GL entry point the compositing path uses.
func loadGL(proc func(string) uintptr) (gpu.GL, error) {
	c := &glContext{}

	register := func(fptr any, name string) error {
		addr := proc(name)
		if addr == 0 {
			return fmt.Errorf("egl: missing GL symbol %s", name)
		}
		purego.RegisterFunc(fptr, addr)
		return nil
	}

	bindings := []struct {
		fptr any
		name string
	}{
		{&c.f.viewport, "glViewport"},
		{&c.f.getIntegerv, "glGetIntegerv"},
		{&c.f.drawBuffer, "glDrawBuffer"},
		{&c.f.genTextures, "glGenTextures"},
		{&c.f.deleteTextures, "glDeleteTextures"},
		{&c.f.bindTexture, "glBindTexture"},
		{&c.f.texParameteri, "glTexParameteri"},
		{&c.f.texImage2D, "glTexImage2D"},
		{&c.f.genFramebuffers, "glGenFramebuffers"},
		{&c.f.deleteFramebuffers, "glDeleteFramebuffers"},
		{&c.f.bindFramebuffer, "glBindFramebuffer"},
		{&c.f.framebufferTexture2D, "glFramebufferTexture2D"},
		{&c.f.framebufferRenderbuffer, "glFramebufferRenderbuffer"},
		{&c.f.checkFramebufferStatus, "glCheckFramebufferStatus"},
		{&c.f.genRenderbuffers, "glGenRenderbuffers"},
		{&c.f.deleteRenderbuffers, "glDeleteRenderbuffers"},
		{&c.f.bindRenderbuffer, "glBindRenderbuffer"},
		{&c.f.renderbufferStorage, "glRenderbufferStorage"},
		{&c.f.genBuffers, "glGenBuffers"},
		{&c.f.deleteBuffers, "glDeleteBuffers"},
		{&c.f.bindBuffer, "glBindBuffer"},
		{&c.f.bufferData, "glBufferData"},
		{&c.f.genVertexArrays, "glGenVertexArrays"},
		{&c.f.deleteVertexArrays, "glDeleteVertexArrays"},
		{&c.f.bindVertexArray, "glBindVertexArray"},
		{&c.f.enableVertexAttribArray, "glEnableVertexAttribArray"},
		{&c.f.vertexAttribPointer, "glVertexAttribPointer"},
		{&c.f.createShader, "glCreateShader"},
		{&c.f.shaderSource, "glShaderSource"},
		{&c.f.compileShader, "glCompileShader"},
		{&c.f.getShaderiv, "glGetShaderiv"},
		{&c.f.getShaderInfoLog, "glGetShaderInfoLog"},
		{&c.f.deleteShader, "glDeleteShader"},
		{&c.f.createProgram, "glCreateProgram"},
		{&c.f.attachShader, "glAttachShader"},
		{&c.f.linkProgram, "glLinkProgram"},
		{&c.f.getProgramiv, "glGetProgramiv"},
		{&c.f.getProgramInfoLog, "glGetProgramInfoLog"},
		{&c.f.deleteProgram, "glDeleteProgram"},
		{&c.f.useProgram, "glUseProgram"},
		{&c.f.drawArrays, "glDrawArrays"},
	}
	for _, b := range bindings {
		if err := register(b.fptr, b.name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *glContext) Viewport(x, y, width, height int32) { c.f.viewport(x, y, width, height) }

func (c *glContext) GetIntegerv(pname uint32) int32 {
	var v int32
	c.f.getIntegerv(pname, &v)
	return v
}

func (c *glContext) DrawBuffer(buf uint32) { c.f.drawBuffer(buf) }

func (c *glContext) GenTexture() uint32 {
	var id uint32
	c.f.genTextures(1, &id)
	return id
}

func (c *glContext) DeleteTexture(texture uint32) { c.f.deleteTextures(1, &texture) }

func (c *glContext) BindTexture(target, texture uint32) { c.f.bindTexture(target, texture) }

func (c *glContext) TexParameteri(target, pname uint32, param int32) {
	c.f.texParameteri(target, pname, param)
}

func (c *glContext) TexImage2D(target uint32, internalFormat int32, width, height int32, format, xtype uint32) {
	c.f.texImage2D(target, 0, internalFormat, width, height, 0, format, xtype, 0)
}

func (c *glContext) GenFramebuffer() uint32 {
	var id uint32
	c.f.genFramebuffers(1, &id)
	return id
}

func (c *glContext) DeleteFramebuffer(framebuffer uint32) { c.f.deleteFramebuffers(1, &framebuffer) }

func (c *glContext) BindFramebuffer(target, framebuffer uint32) {
	c.f.bindFramebuffer(target, framebuffer)
}

func (c *glContext) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	c.f.framebufferTexture2D(target, attachment, textarget, texture, level)
}

func (c *glContext) FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32) {
	c.f.framebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer)
}

func (c *glContext) CheckFramebufferStatus(target uint32) uint32 {
	return c.f.checkFramebufferStatus(target)
}

func (c *glContext) GenRenderbuffer() uint32 {
	var id uint32
	c.f.genRenderbuffers(1, &id)
	return id
}

func (c *glContext) DeleteRenderbuffer(renderbuffer uint32) {
	c.f.deleteRenderbuffers(1, &renderbuffer)
}

func (c *glContext) BindRenderbuffer(target, renderbuffer uint32) {
	c.f.bindRenderbuffer(target, renderbuffer)
}

func (c *glContext) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	c.f.renderbufferStorage(target, internalFormat, width, height)
}

func (c *glContext) GenBuffer() uint32 {
	var id uint32
	c.f.genBuffers(1, &id)
	return id
}

func (c *glContext) DeleteBuffer(buffer uint32) { c.f.deleteBuffers(1, &buffer) }

func (c *glContext) BindBuffer(target, buffer uint32) { c.f.bindBuffer(target, buffer) }

func (c *glContext) BufferData(target uint32, data []float32, usage uint32) {
	c.f.bufferData(target, uintptr(len(data))*4, &data[0], usage)
	runtime.KeepAlive(data)
}

func (c *glContext) GenVertexArray() uint32 {
	var id uint32
	c.f.genVertexArrays(1, &id)
	return id
}

func (c *glContext) DeleteVertexArray(array uint32) { c.f.deleteVertexArrays(1, &array) }

func (c *glContext) BindVertexArray(array uint32) { c.f.bindVertexArray(array) }

func (c *glContext) EnableVertexAttribArray(index uint32) { c.f.enableVertexAttribArray(index) }

func (c *glContext) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	c.f.vertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (c *glContext) CreateShader(xtype uint32) uint32 { return c.f.createShader(xtype) }

func (c *glContext) ShaderSource(shader uint32, source string) {
	src := []byte(source)
	length := int32(len(src))
	ptr := uintptr(unsafe.Pointer(&src[0]))
	c.f.shaderSource(shader, 1, &ptr, &length)
	runtime.KeepAlive(src)
}

func (c *glContext) CompileShader(shader uint32) { c.f.compileShader(shader) }

func (c *glContext) GetShaderParameter(shader, pname uint32) int32 {
	var v int32
	c.f.getShaderiv(shader, pname, &v)
	return v
}

func (c *glContext) ShaderInfoLog(shader uint32) string {
	buf := make([]byte, 1024)
	var n int32
	c.f.getShaderInfoLog(shader, int32(len(buf)), &n, &buf[0])
	return string(buf[:n])
}

func (c *glContext) DeleteShader(shader uint32) { c.f.deleteShader(shader) }

func (c *glContext) CreateProgram() uint32 { return c.f.createProgram() }

func (c *glContext) AttachShader(program, shader uint32) { c.f.attachShader(program, shader) }

func (c *glContext) LinkProgram(program uint32) { c.f.linkProgram(program) }

func (c *glContext) GetProgramParameter(program, pname uint32) int32 {
	var v int32
	c.f.getProgramiv(program, pname, &v)
	return v
}

func (c *glContext) ProgramInfoLog(program uint32) string {
	buf := make([]byte, 1024)
	var n int32
	c.f.getProgramInfoLog(program, int32(len(buf)), &n, &buf[0])
	return string(buf[:n])
}

func (c *glContext) DeleteProgram(program uint32) { c.f.deleteProgram(program) }

func (c *glContext) UseProgram(program uint32) { c.f.useProgram(program) }

func (c *glContext) DrawArrays(mode uint32, first, count int32) {
	c.f.drawArrays(mode, first, count)
}

var _ gpu.GL = (*glContext)(nil)
