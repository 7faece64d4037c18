// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/layerhost/gpu"
	"github.com/gogpu/layerhost/gpu/gputest"
)

// TestContextManagerLifecycle tests context creation, currency, and full
// teardown through Close.
func TestContextManagerLifecycle(t *testing.T) {
	gl := gputest.NewGL()
	display := gputest.NewDisplay(gl)

	m, err := gpu.NewContextManager(display, 0, nil)
	if err != nil {
		t.Fatalf("NewContextManager() error = %v", err)
	}

	if err := m.MakeRenderCurrent(); err != nil {
		t.Fatalf("MakeRenderCurrent() error = %v", err)
	}
	if err := m.MakeResourceCurrent(); err != nil {
		t.Fatalf("MakeResourceCurrent() error = %v", err)
	}
	if err := m.ClearCurrent(); err != nil {
		t.Fatalf("ClearCurrent() error = %v", err)
	}
	if err := m.SwapBuffers(); err != nil {
		t.Fatalf("SwapBuffers() error = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !display.Closed() {
		t.Error("display not closed after Close()")
	}
	// Close is idempotent.
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

// TestContextManagerCurrencyTargets tests which drawable each currency
// operation binds: the render context runs surfaceless and takes the
// window surface only through MakeSurfaceCurrent.
func TestContextManagerCurrencyTargets(t *testing.T) {
	gl := gputest.NewGL()
	display := gputest.NewDisplay(gl)

	m, err := gpu.NewContextManager(display, 0, nil)
	if err != nil {
		t.Fatalf("NewContextManager() error = %v", err)
	}
	contexts := display.Contexts()
	render, resource := contexts[0], contexts[1]
	surface := display.Surfaces()[0]

	if err := m.MakeRenderCurrent(); err != nil {
		t.Fatalf("MakeRenderCurrent() error = %v", err)
	}
	if binds := render.Binds(); len(binds) != 1 || binds[0] != nil {
		t.Errorf("render Binds() = %v, want one surfaceless (nil) bind", binds)
	}

	if err := m.MakeSurfaceCurrent(); err != nil {
		t.Fatalf("MakeSurfaceCurrent() error = %v", err)
	}
	if binds := render.Binds(); len(binds) != 2 || binds[1] != surface {
		t.Errorf("render Binds() = %v, want the window surface bound second", binds)
	}

	if err := m.MakeResourceCurrent(); err != nil {
		t.Fatalf("MakeResourceCurrent() error = %v", err)
	}
	if binds := resource.Binds(); len(binds) != 1 || binds[0] != nil {
		t.Errorf("resource Binds() = %v, want one surfaceless (nil) bind", binds)
	}
}

// TestTexImageFor tests the color format mapping.
func TestTexImageFor(t *testing.T) {
	args, err := gpu.TexImageFor(gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("TexImageFor(RGBA8Unorm) error = %v", err)
	}
	if args.InternalFormat != gpu.GLRGBA8 || args.Format != gpu.GLRGBA || args.Type != gpu.GLUnsignedByte {
		t.Errorf("TexImageFor(RGBA8Unorm) = %+v, want RGBA8/RGBA/UNSIGNED_BYTE", args)
	}

	if _, err := gpu.TexImageFor(gputypes.TextureFormatDepth24PlusStencil8); err == nil {
		t.Error("TexImageFor(Depth24PlusStencil8) succeeded, want error")
	}
}

// TestRenderbufferFor tests the depth/stencil format mapping.
func TestRenderbufferFor(t *testing.T) {
	internal, err := gpu.RenderbufferFor(gputypes.TextureFormatDepth24PlusStencil8)
	if err != nil {
		t.Fatalf("RenderbufferFor(Depth24PlusStencil8) error = %v", err)
	}
	if internal != gpu.GLDepth24Stencil8 {
		t.Errorf("RenderbufferFor = %#x, want GLDepth24Stencil8", internal)
	}

	if _, err := gpu.RenderbufferFor(gputypes.TextureFormatRGBA8Unorm); err == nil {
		t.Error("RenderbufferFor(RGBA8Unorm) succeeded, want error")
	}
}

// TestBackendRegistry tests backend selection by priority and the typed
// not-found and unavailable errors.
func TestBackendRegistry(t *testing.T) {
	r := &gpu.Registry{}

	gl := gputest.NewGL()
	r.Register("fake", 10, func(uintptr) (gpu.Display, error) {
		return gputest.NewDisplay(gl), nil
	}, nil)
	r.Register("broken", 100, func(uintptr) (gpu.Display, error) {
		return nil, errors.New("broken backend")
	}, nil)
	r.Register("off", 50, nil, func() bool { return false })

	names := r.Available()
	if len(names) != 2 || names[0] != "broken" || names[1] != "fake" {
		t.Fatalf("Available() = %v, want [broken fake]", names)
	}

	// The highest-priority backend fails, the next succeeds.
	d, err := r.Open(0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if d.GL() != gl {
		t.Error("Open() returned a display from the wrong backend")
	}

	_, err = r.OpenByName("missing", 0)
	var notFound *gpu.BackendNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("OpenByName(missing) error = %T, want *BackendNotFoundError", err)
	}

	_, err = r.OpenByName("off", 0)
	var unavailable *gpu.BackendUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("OpenByName(off) error = %T, want *BackendUnavailableError", err)
	}

	empty := &gpu.Registry{}
	if _, err := empty.Open(0); !errors.Is(err, gpu.ErrNoBackendAvailable) {
		t.Errorf("empty Open() error = %v, want ErrNoBackendAvailable", err)
	}
}
