// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

// Package egl is the Wayland EGL backend.
//
// It binds libEGL and libwayland-egl at runtime through purego, so the
// binary carries no link-time dependency on either: on systems without
// them the backend simply reports itself unavailable and the registry
// falls through to the next one. GL entry points are resolved with
// eglGetProcAddress, the only resolution path the engine contract
// guarantees.
package egl

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/gogpu/layerhost/gpu"
)

// Name is the registry name of this backend.
const Name = "wayland-egl"

func init() {
	gpu.Register(Name, 100, Open, available)
}

// EGL constants, from EGL 1.5.
const (
	eglNone           = 0x3038
	eglFalse          = 0
	eglOpenGLAPI      = 0x30A2
	eglOpenGLBit      = 0x0008
	eglWindowBit      = 0x0004
	eglAlphaSize      = 0x3021
	eglBlueSize       = 0x3022
	eglGreenSize      = 0x3023
	eglRedSize        = 0x3024
	eglDepthSize      = 0x3025
	eglStencilSize    = 0x3026
	eglSurfaceType    = 0x3033
	eglRenderableType = 0x3040

	eglContextMajorVersion       = 0x3098
	eglContextMinorVersion       = 0x30FB
	eglContextOpenGLProfileMask  = 0x30FD
	eglContextCoreProfileBit     = 0x0001
)

// eglLib is the slice of libEGL the backend calls.
type eglLib struct {
	getDisplay          func(nativeDisplay uintptr) uintptr
	initialize          func(display uintptr, major, minor *int32) bool
	bindAPI             func(api uint32) bool
	chooseConfig        func(display uintptr, attribs *int32, configs *uintptr, configSize int32, numConfig *int32) bool
	createContext       func(display, config, share uintptr, attribs *int32) uintptr
	createWindowSurface func(display, config, window uintptr, attribs *int32) uintptr
	makeCurrent         func(display, draw, read, context uintptr) bool
	swapBuffers         func(display, surface uintptr) bool
	swapInterval        func(display uintptr, interval int32) bool
	destroyContext      func(display, context uintptr) bool
	destroySurface      func(display, surface uintptr) bool
	terminate           func(display uintptr) bool
	getProcAddress      func(name string) uintptr
	getError            func() int32
}

// wlEGLLib is the slice of libwayland-egl the backend calls.
type wlEGLLib struct {
	windowCreate  func(surface uintptr, width, height int32) uintptr
	windowDestroy func(window uintptr)
	windowResize  func(window uintptr, width, height, dx, dy int32)
}

var (
	loadOnce sync.Once
	loadErr  error
	libEGL   eglLib
	libWLEGL wlEGLLib
)

func load() error {
	loadOnce.Do(func() {
		egl, err := purego.Dlopen("libEGL.so.1", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("egl: load libEGL: %w", err)
			return
		}
		wl, err := purego.Dlopen("libwayland-egl.so.1", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("egl: load libwayland-egl: %w", err)
			return
		}

		purego.RegisterLibFunc(&libEGL.getDisplay, egl, "eglGetDisplay")
		purego.RegisterLibFunc(&libEGL.initialize, egl, "eglInitialize")
		purego.RegisterLibFunc(&libEGL.bindAPI, egl, "eglBindAPI")
		purego.RegisterLibFunc(&libEGL.chooseConfig, egl, "eglChooseConfig")
		purego.RegisterLibFunc(&libEGL.createContext, egl, "eglCreateContext")
		purego.RegisterLibFunc(&libEGL.createWindowSurface, egl, "eglCreateWindowSurface")
		purego.RegisterLibFunc(&libEGL.makeCurrent, egl, "eglMakeCurrent")
		purego.RegisterLibFunc(&libEGL.swapBuffers, egl, "eglSwapBuffers")
		purego.RegisterLibFunc(&libEGL.swapInterval, egl, "eglSwapInterval")
		purego.RegisterLibFunc(&libEGL.destroyContext, egl, "eglDestroyContext")
		purego.RegisterLibFunc(&libEGL.destroySurface, egl, "eglDestroySurface")
		purego.RegisterLibFunc(&libEGL.terminate, egl, "eglTerminate")
		purego.RegisterLibFunc(&libEGL.getProcAddress, egl, "eglGetProcAddress")
		purego.RegisterLibFunc(&libEGL.getError, egl, "eglGetError")

		purego.RegisterLibFunc(&libWLEGL.windowCreate, wl, "wl_egl_window_create")
		purego.RegisterLibFunc(&libWLEGL.windowDestroy, wl, "wl_egl_window_destroy")
		purego.RegisterLibFunc(&libWLEGL.windowResize, wl, "wl_egl_window_resize")
	})
	return loadErr
}

func available() bool {
	return load() == nil
}

// eglError wraps the thread-local EGL error code.
func eglError(op string) error {
	return fmt.Errorf("egl: %s failed: error %#x", op, libEGL.getError())
}
