// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

// Display is a connection to the platform's GL display, bound to a chosen
// framebuffer configuration.
type Display interface {
	// CreateContext creates a GL context. A non-nil share context makes
	// the new context share objects (textures, buffers) with it.
	CreateContext(share Context) (Context, error)

	// CreateWindowSurface wraps a native window handle in a surface the
	// render context can draw to.
	CreateWindowSurface(nativeWindow uintptr) (WindowSurface, error)

	// GL returns the GL entry points for contexts of this display.
	GL() GL

	// ProcAddress resolves a GL or platform extension symbol. Returns 0
	// for unknown symbols.
	ProcAddress(name string) uintptr

	// Close terminates the display connection. Contexts and surfaces
	// must be destroyed first.
	Close() error
}

// Context is a GL context. Currency is per OS thread.
type Context interface {
	// MakeCurrent binds the context on the calling thread, drawing to
	// surface. A nil surface binds without a drawable, which is how the
	// resource-upload context runs.
	MakeCurrent(surface WindowSurface) error

	// ClearCurrent unbinds whatever context is current on this thread.
	ClearCurrent() error

	// Destroy releases the context. It must not be current anywhere.
	Destroy() error
}

// WindowSurface is an onscreen drawable.
type WindowSurface interface {
	// Resize adjusts the surface's pixel dimensions to match a new
	// window size.
	Resize(width, height uint32) error

	// SwapBuffers commits the back buffer to the screen.
	SwapBuffers() error

	// Destroy releases the surface. It must not be current anywhere.
	Destroy() error
}
