// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package egl

import (
	"errors"
	"fmt"

	"github.com/gogpu/layerhost/gpu"
)

// Initial wl_egl_window dimensions; the compositor's first configure
// resizes before anything is presented.
const (
	initialWidth  = 1600
	initialHeight = 900
)

// ErrNoConfig is returned when the display offers no framebuffer
// configuration matching the engine's requirements.
var ErrNoConfig = errors.New("egl: no matching framebuffer configuration")

// Display implements gpu.Display over an EGL display bound to a Wayland
// compositor connection.
type Display struct {
	handle uintptr
	config uintptr
	gl     gpu.GL
}

// Open connects to the EGL display behind a wl_display handle, binds the
// OpenGL API, and picks an RGBA8 + depth24/stencil8 window config.
func Open(nativeDisplay uintptr) (gpu.Display, error) {
	if err := load(); err != nil {
		return nil, err
	}

	handle := libEGL.getDisplay(nativeDisplay)
	if handle == 0 {
		return nil, eglError("eglGetDisplay")
	}
	var major, minor int32
	if !libEGL.initialize(handle, &major, &minor) {
		return nil, eglError("eglInitialize")
	}
	if !libEGL.bindAPI(eglOpenGLAPI) {
		libEGL.terminate(handle)
		return nil, eglError("eglBindAPI")
	}

	attribs := []int32{
		eglSurfaceType, eglWindowBit,
		eglRenderableType, eglOpenGLBit,
		eglRedSize, 8,
		eglGreenSize, 8,
		eglBlueSize, 8,
		eglAlphaSize, 8,
		eglDepthSize, 24,
		eglStencilSize, 8,
		eglNone,
	}
	var config uintptr
	var count int32
	if !libEGL.chooseConfig(handle, &attribs[0], &config, 1, &count) {
		libEGL.terminate(handle)
		return nil, eglError("eglChooseConfig")
	}
	if count == 0 {
		libEGL.terminate(handle)
		return nil, ErrNoConfig
	}

	gl, err := loadGL(libEGL.getProcAddress)
	if err != nil {
		libEGL.terminate(handle)
		return nil, err
	}
	return &Display{handle: handle, config: config, gl: gl}, nil
}

// CreateContext implements gpu.Display, creating a GL 3.3 core context.
func (d *Display) CreateContext(share gpu.Context) (gpu.Context, error) {
	var shareHandle uintptr
	if share != nil {
		shareHandle = share.(*Context).handle
	}
	attribs := []int32{
		eglContextMajorVersion, 3,
		eglContextMinorVersion, 3,
		eglContextOpenGLProfileMask, eglContextCoreProfileBit,
		eglNone,
	}
	handle := libEGL.createContext(d.handle, d.config, shareHandle, &attribs[0])
	if handle == 0 {
		return nil, eglError("eglCreateContext")
	}
	return &Context{display: d, handle: handle}, nil
}

// CreateWindowSurface implements gpu.Display. nativeWindow is the
// wl_surface handle; the backend owns the wl_egl_window wrapped around
// it.
func (d *Display) CreateWindowSurface(nativeWindow uintptr) (gpu.WindowSurface, error) {
	window := libWLEGL.windowCreate(nativeWindow, initialWidth, initialHeight)
	if window == 0 {
		return nil, fmt.Errorf("egl: wl_egl_window_create failed")
	}
	handle := libEGL.createWindowSurface(d.handle, d.config, window, nil)
	if handle == 0 {
		libWLEGL.windowDestroy(window)
		return nil, eglError("eglCreateWindowSurface")
	}
	return &Surface{display: d, handle: handle, window: window}, nil
}

// GL implements gpu.Display.
func (d *Display) GL() gpu.GL { return d.gl }

// ProcAddress implements gpu.Display.
func (d *Display) ProcAddress(name string) uintptr {
	return libEGL.getProcAddress(name)
}

// Close implements gpu.Display.
func (d *Display) Close() error {
	if !libEGL.terminate(d.handle) {
		return eglError("eglTerminate")
	}
	return nil
}

// Context implements gpu.Context over an EGLContext.
type Context struct {
	display *Display
	handle  uintptr
}

// MakeCurrent implements gpu.Context. A nil surface binds the context
// surfaceless for resource uploads.
func (c *Context) MakeCurrent(surface gpu.WindowSurface) error {
	var drawable uintptr
	if surface != nil {
		drawable = surface.(*Surface).handle
	}
	if !libEGL.makeCurrent(c.display.handle, drawable, drawable, c.handle) {
		return eglError("eglMakeCurrent")
	}
	return nil
}

// ClearCurrent implements gpu.Context.
func (c *Context) ClearCurrent() error {
	if !libEGL.makeCurrent(c.display.handle, 0, 0, 0) {
		return eglError("eglMakeCurrent(clear)")
	}
	return nil
}

// Destroy implements gpu.Context.
func (c *Context) Destroy() error {
	if !libEGL.destroyContext(c.display.handle, c.handle) {
		return eglError("eglDestroyContext")
	}
	return nil
}

// Surface implements gpu.WindowSurface over an EGLSurface and its
// wl_egl_window.
type Surface struct {
	display *Display
	handle  uintptr
	window  uintptr
}

// Resize implements gpu.WindowSurface.
func (s *Surface) Resize(width, height uint32) error {
	libWLEGL.windowResize(s.window, int32(width), int32(height), 0, 0)
	return nil
}

// SwapBuffers implements gpu.WindowSurface.
func (s *Surface) SwapBuffers() error {
	if !libEGL.swapBuffers(s.display.handle, s.handle) {
		return eglError("eglSwapBuffers")
	}
	return nil
}

// Destroy implements gpu.WindowSurface.
func (s *Surface) Destroy() error {
	ok := libEGL.destroySurface(s.display.handle, s.handle)
	libWLEGL.windowDestroy(s.window)
	if !ok {
		return eglError("eglDestroySurface")
	}
	return nil
}

var (
	_ gpu.Display       = (*Display)(nil)
	_ gpu.Context       = (*Context)(nil)
	_ gpu.WindowSurface = (*Surface)(nil)
)
