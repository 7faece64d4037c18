// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

// OpenGL enums, restricted to what the compositing path touches.
const (
	GLTexture2D           = 0x0DE1
	GLTextureWrapS        = 0x2802
	GLTextureWrapT        = 0x2803
	GLTextureMinFilter    = 0x2801
	GLTextureMagFilter    = 0x2800
	GLNearest             = 0x2600
	GLClampToEdge         = 0x812F
	GLRGBA8               = 0x8058
	GLRGBA                = 0x1908
	GLUnsignedByte        = 0x1401
	GLFramebuffer         = 0x8D40
	GLDrawFramebuffer     = 0x8CA9
	GLColorAttachment0    = 0x8CE0
	GLDepthStencilAttach  = 0x821A
	GLRenderbuffer        = 0x8D41
	GLDepth24Stencil8     = 0x88F0
	GLFramebufferComplete = 0x8CD5
	GLArrayBuffer         = 0x8892
	GLStaticDraw          = 0x88E4
	GLFloat               = 0x1406
	GLTriangles           = 0x0004
	GLVertexShader        = 0x8B31
	GLFragmentShader      = 0x8B30
	GLCompileStatus       = 0x8B81
	GLLinkStatus          = 0x8B82
	GLTrue                = 1

	GLArrayBufferBinding     = 0x8894
	GLVertexArrayBinding     = 0x85B5
	GLDrawFramebufferBinding = 0x8CA6
	GLTextureBinding2D       = 0x8069

	GLBack = 0x0405
)

// GL is the slice of the OpenGL 3.3 core API the embedder uses. Every
// call requires a current context on the calling thread.
//
// Gen* return a single object name and Delete* take one; the compositor
// never allocates in bulk.
type GL interface {
	Viewport(x, y, width, height int32)
	GetIntegerv(pname uint32) int32
	DrawBuffer(buf uint32)

	GenTexture() uint32
	DeleteTexture(texture uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	// TexImage2D allocates level-0 storage without initial pixel data.
	TexImage2D(target uint32, internalFormat int32, width, height int32, format, xtype uint32)

	GenFramebuffer() uint32
	DeleteFramebuffer(framebuffer uint32)
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32)
	CheckFramebufferStatus(target uint32) uint32

	GenRenderbuffer() uint32
	DeleteRenderbuffer(renderbuffer uint32)
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)

	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []float32, usage uint32)

	GenVertexArray() uint32
	DeleteVertexArray(array uint32)
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderParameter(shader, pname uint32) int32
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramParameter(program, pname uint32) int32
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	DrawArrays(mode uint32, first, count int32)
}
