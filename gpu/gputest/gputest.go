// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gputest provides in-memory GL and display fakes for tests.
//
// The fake GL tracks object lifetimes and binding state so tests can
// assert that compositing leaves no leaked objects and restores every
// binding it touches, without a real GPU or display server.
package gputest

import (
	"fmt"
	"sync"

	"github.com/gogpu/layerhost/gpu"
)

// GL is an in-memory gpu.GL. Not safe for concurrent use; GL contexts are
// single-threaded by nature and so are tests using this fake.
type GL struct {
	nextID uint32

	textures      map[uint32]bool
	framebuffers  map[uint32]bool
	renderbuffers map[uint32]bool
	buffers       map[uint32]bool
	vertexArrays  map[uint32]bool
	shaders       map[uint32]bool
	programs      map[uint32]bool

	// Binding state, keyed by the *_BINDING query enum.
	bindings map[uint32]int32

	// Viewports records every glViewport call in order.
	Viewports [][4]int32

	// Draws counts glDrawArrays calls.
	Draws int

	// DrawBuffers records every glDrawBuffer call.
	DrawBuffers []uint32

	// TexAllocs records the dimensions of every glTexImage2D call.
	TexAllocs [][2]int32

	// FailCompile forces shader compilation failures.
	FailCompile bool

	// FailLink forces program link failures.
	FailLink bool

	// IncompleteFramebuffer makes CheckFramebufferStatus report failure.
	IncompleteFramebuffer bool
}

// NewGL returns an empty fake GL.
func NewGL() *GL {
	return &GL{
		nextID:        1,
		textures:      make(map[uint32]bool),
		framebuffers:  make(map[uint32]bool),
		renderbuffers: make(map[uint32]bool),
		buffers:       make(map[uint32]bool),
		vertexArrays:  make(map[uint32]bool),
		shaders:       make(map[uint32]bool),
		programs:      make(map[uint32]bool),
		bindings:      make(map[uint32]int32),
	}
}

// LiveObjects returns how many GL objects exist, shaders and programs
// excluded (a blit program legitimately outlives individual frames).
func (g *GL) LiveObjects() int {
	return len(g.textures) + len(g.framebuffers) + len(g.renderbuffers) +
		len(g.buffers) + len(g.vertexArrays)
}

// LiveShaders returns the number of undeleted shader objects.
func (g *GL) LiveShaders() int { return len(g.shaders) }

// LivePrograms returns the number of undeleted program objects.
func (g *GL) LivePrograms() int { return len(g.programs) }

// LiveTextures returns the number of undeleted textures.
func (g *GL) LiveTextures() int { return len(g.textures) }

// LiveFramebuffers returns the number of undeleted framebuffers.
func (g *GL) LiveFramebuffers() int { return len(g.framebuffers) }

// LiveRenderbuffers returns the number of undeleted renderbuffers.
func (g *GL) LiveRenderbuffers() int { return len(g.renderbuffers) }

// Binding returns the tracked value for a *_BINDING query enum.
func (g *GL) Binding(pname uint32) int32 { return g.bindings[pname] }

// SetBinding seeds binding state, letting tests plant sentinel values
// before exercising save/restore paths.
func (g *GL) SetBinding(pname uint32, value int32) { g.bindings[pname] = value }

func (g *GL) gen(pool map[uint32]bool) uint32 {
	id := g.nextID
	g.nextID++
	pool[id] = true
	return id
}

func (g *GL) del(pool map[uint32]bool, id uint32, kind string) {
	if !pool[id] {
		panic(fmt.Sprintf("gputest: delete of dead or unknown %s %d", kind, id))
	}
	delete(pool, id)
}

func (g *GL) Viewport(x, y, width, height int32) {
	g.Viewports = append(g.Viewports, [4]int32{x, y, width, height})
}

func (g *GL) GetIntegerv(pname uint32) int32 { return g.bindings[pname] }

func (g *GL) DrawBuffer(buf uint32) { g.DrawBuffers = append(g.DrawBuffers, buf) }

func (g *GL) GenTexture() uint32 { return g.gen(g.textures) }

func (g *GL) DeleteTexture(texture uint32) { g.del(g.textures, texture, "texture") }

func (g *GL) BindTexture(target, texture uint32) {
	if target == gpu.GLTexture2D {
		g.bindings[gpu.GLTextureBinding2D] = int32(texture)
	}
}

func (g *GL) TexParameteri(target, pname uint32, param int32) {}

func (g *GL) TexImage2D(target uint32, internalFormat int32, width, height int32, format, xtype uint32) {
	g.TexAllocs = append(g.TexAllocs, [2]int32{width, height})
}

func (g *GL) GenFramebuffer() uint32 { return g.gen(g.framebuffers) }

func (g *GL) DeleteFramebuffer(framebuffer uint32) {
	g.del(g.framebuffers, framebuffer, "framebuffer")
}

func (g *GL) BindFramebuffer(target, framebuffer uint32) {
	// FRAMEBUFFER binds both targets; only the draw binding is tracked.
	if target == gpu.GLFramebuffer || target == gpu.GLDrawFramebuffer {
		g.bindings[gpu.GLDrawFramebufferBinding] = int32(framebuffer)
	}
}

func (g *GL) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {}

func (g *GL) FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32) {}

func (g *GL) CheckFramebufferStatus(target uint32) uint32 {
	if g.IncompleteFramebuffer {
		return 0
	}
	return gpu.GLFramebufferComplete
}

func (g *GL) GenRenderbuffer() uint32 { return g.gen(g.renderbuffers) }

func (g *GL) DeleteRenderbuffer(renderbuffer uint32) {
	g.del(g.renderbuffers, renderbuffer, "renderbuffer")
}

func (g *GL) BindRenderbuffer(target, renderbuffer uint32) {}

func (g *GL) RenderbufferStorage(target, internalFormat uint32, width, height int32) {}

func (g *GL) GenBuffer() uint32 { return g.gen(g.buffers) }

func (g *GL) DeleteBuffer(buffer uint32) { g.del(g.buffers, buffer, "buffer") }

func (g *GL) BindBuffer(target, buffer uint32) {
	if target == gpu.GLArrayBuffer {
		g.bindings[gpu.GLArrayBufferBinding] = int32(buffer)
	}
}

func (g *GL) BufferData(target uint32, data []float32, usage uint32) {}

func (g *GL) GenVertexArray() uint32 { return g.gen(g.vertexArrays) }

func (g *GL) DeleteVertexArray(array uint32) { g.del(g.vertexArrays, array, "vertex array") }

func (g *GL) BindVertexArray(array uint32) {
	g.bindings[gpu.GLVertexArrayBinding] = int32(array)
}

func (g *GL) EnableVertexAttribArray(index uint32) {}

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
}

func (g *GL) CreateShader(xtype uint32) uint32 { return g.gen(g.shaders) }

func (g *GL) ShaderSource(shader uint32, source string) {}

func (g *GL) CompileShader(shader uint32) {}

func (g *GL) GetShaderParameter(shader, pname uint32) int32 {
	if pname == gpu.GLCompileStatus && g.FailCompile {
		return 0
	}
	return gpu.GLTrue
}

func (g *GL) ShaderInfoLog(shader uint32) string { return "gputest: forced compile failure" }

func (g *GL) DeleteShader(shader uint32) { g.del(g.shaders, shader, "shader") }

func (g *GL) CreateProgram() uint32 { return g.gen(g.programs) }

func (g *GL) AttachShader(program, shader uint32) {}

func (g *GL) LinkProgram(program uint32) {}

func (g *GL) GetProgramParameter(program, pname uint32) int32 {
	if pname == gpu.GLLinkStatus && g.FailLink {
		return 0
	}
	return gpu.GLTrue
}

func (g *GL) ProgramInfoLog(program uint32) string { return "gputest: forced link failure" }

func (g *GL) DeleteProgram(program uint32) { g.del(g.programs, program, "program") }

func (g *GL) UseProgram(program uint32) {}

func (g *GL) DrawArrays(mode uint32, first, count int32) { g.Draws++ }

var _ gpu.GL = (*GL)(nil)

// Display is a fake gpu.Display producing fake contexts and surfaces.
type Display struct {
	gl *GL

	mu       sync.Mutex
	contexts []*Context
	surfaces []*Surface
	closed   bool
}

// NewDisplay returns a fake display backed by gl.
func NewDisplay(gl *GL) *Display {
	return &Display{gl: gl}
}

// Contexts returns every context created on this display, in creation
// order.
func (d *Display) Contexts() []*Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Context, len(d.contexts))
	copy(out, d.contexts)
	return out
}

// Surfaces returns every surface created on this display.
func (d *Display) Surfaces() []*Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Surface, len(d.surfaces))
	copy(out, d.surfaces)
	return out
}

// Closed reports whether Close was called.
func (d *Display) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// CreateContext implements gpu.Display.
func (d *Display) CreateContext(share gpu.Context) (gpu.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := &Context{display: d}
	d.contexts = append(d.contexts, c)
	return c, nil
}

// CreateWindowSurface implements gpu.Display.
func (d *Display) CreateWindowSurface(nativeWindow uintptr) (gpu.WindowSurface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &Surface{}
	d.surfaces = append(d.surfaces, s)
	return s, nil
}

// GL implements gpu.Display.
func (d *Display) GL() gpu.GL { return d.gl }

// ProcAddress implements gpu.Display.
func (d *Display) ProcAddress(name string) uintptr { return 0 }

// Close implements gpu.Display.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Context is a fake gpu.Context recording currency transitions.
type Context struct {
	display *Display

	mu        sync.Mutex
	current   bool
	destroyed bool
	binds     []gpu.WindowSurface

	// MakeCurrentCount counts MakeCurrent calls.
	MakeCurrentCount int
}

// Binds returns the surface argument of every MakeCurrent call in order,
// nil entries for surfaceless binds.
func (c *Context) Binds() []gpu.WindowSurface {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]gpu.WindowSurface, len(c.binds))
	copy(out, c.binds)
	return out
}

// Current reports whether the context is current.
func (c *Context) Current() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Destroyed reports whether Destroy was called.
func (c *Context) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// MakeCurrent implements gpu.Context.
func (c *Context) MakeCurrent(surface gpu.WindowSurface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = true
	c.binds = append(c.binds, surface)
	c.MakeCurrentCount++
	return nil
}

// ClearCurrent implements gpu.Context.
func (c *Context) ClearCurrent() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = false
	return nil
}

// Destroy implements gpu.Context.
func (c *Context) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	return nil
}

// Surface is a fake gpu.WindowSurface counting presents.
type Surface struct {
	mu        sync.Mutex
	swaps     int
	resizes   [][2]uint32
	destroyed bool
}

// Resizes returns every Resize call in order.
func (s *Surface) Resizes() [][2]uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]uint32, len(s.resizes))
	copy(out, s.resizes)
	return out
}

// Resize implements gpu.WindowSurface.
func (s *Surface) Resize(width, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizes = append(s.resizes, [2]uint32{width, height})
	return nil
}

// Swaps returns how many times SwapBuffers ran.
func (s *Surface) Swaps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swaps
}

// Destroyed reports whether Destroy was called.
func (s *Surface) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// SwapBuffers implements gpu.WindowSurface.
func (s *Surface) SwapBuffers() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swaps++
	return nil
}

// Destroy implements gpu.WindowSurface.
func (s *Surface) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	return nil
}

var (
	_ gpu.Display       = (*Display)(nil)
	_ gpu.Context       = (*Context)(nil)
	_ gpu.WindowSurface = (*Surface)(nil)
)
