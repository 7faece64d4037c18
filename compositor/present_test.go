// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor_test

import (
	"testing"

	"github.com/gogpu/layerhost/compositor"
	"github.com/gogpu/layerhost/engine"
	"github.com/gogpu/layerhost/gpu"
)

// present builds a single backing-store layer frame for view id.
func presentInfo(id engine.ViewID, store *engine.BackingStore, offset engine.Point, size engine.Size) engine.PresentViewInfo {
	return engine.PresentViewInfo{
		ViewID: id,
		Layers: []*engine.Layer{{
			Type:         engine.LayerContentBackingStore,
			Offset:       offset,
			Size:         size,
			BackingStore: store,
		}},
	}
}

func addView(t *testing.T, h *harness, id engine.ViewID, w, hgt uint32) *compositor.View {
	t.Helper()
	v := compositor.NewView(id, w, hgt)
	if err := h.comp.Views().Add(v); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return v
}

// TestPresentUnknownView tests that presenting to an unregistered view
// reports an unshown frame without failing the session.
func TestPresentUnknownView(t *testing.T) {
	h := newHarness(t)

	shown, err := h.comp.Present(engine.PresentViewInfo{ViewID: 42})
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if shown {
		t.Error("Present() = true for unknown view, want false")
	}
	if got := h.surface.Swaps(); got != 0 {
		t.Errorf("Swaps() = %d, want 0", got)
	}
}

// TestPresentBlitsAndSwaps tests the happy path: one backing-store layer
// is blitted and the surface swapped.
func TestPresentBlitsAndSwaps(t *testing.T) {
	h := newHarness(t)
	addView(t, h, engine.ImplicitViewID, 800, 600)

	out := emptyStore()
	if err := h.comp.CreateBackingStore(storeConfig(800, 600), &out); err != nil {
		t.Fatalf("CreateBackingStore() error = %v", err)
	}

	shown, err := h.comp.Present(presentInfo(engine.ImplicitViewID, &out,
		engine.Point{}, engine.Size{Width: 800, Height: 600}))
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if !shown {
		t.Fatal("Present() = false, want true")
	}
	if got := h.surface.Swaps(); got != 1 {
		t.Errorf("Swaps() = %d, want 1", got)
	}
	if h.gl.Draws != 1 {
		t.Errorf("Draws = %d, want 1", h.gl.Draws)
	}
	if len(h.gl.DrawBuffers) != 1 || h.gl.DrawBuffers[0] != gpu.GLBack {
		t.Errorf("DrawBuffers = %v, want [GL_BACK]", h.gl.DrawBuffers)
	}
}

// TestPresentSwapsPerLayer tests that every backing-store layer gets its
// own blit and swap, and that a frame with no layers swaps nothing.
func TestPresentSwapsPerLayer(t *testing.T) {
	h := newHarness(t)
	addView(t, h, engine.ImplicitViewID, 800, 600)

	first := emptyStore()
	if err := h.comp.CreateBackingStore(storeConfig(800, 600), &first); err != nil {
		t.Fatalf("CreateBackingStore() error = %v", err)
	}
	second := emptyStore()
	if err := h.comp.CreateBackingStore(storeConfig(800, 600), &second); err != nil {
		t.Fatalf("CreateBackingStore() error = %v", err)
	}

	size := engine.Size{Width: 800, Height: 600}
	info := engine.PresentViewInfo{
		ViewID: engine.ImplicitViewID,
		Layers: []*engine.Layer{
			{Type: engine.LayerContentBackingStore, Size: size, BackingStore: &first},
			{Type: engine.LayerContentBackingStore, Size: size, BackingStore: &second},
		},
	}
	shown, err := h.comp.Present(info)
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if !shown {
		t.Fatal("Present() = false, want true")
	}
	if got := h.surface.Swaps(); got != 2 {
		t.Errorf("Swaps() = %d, want 2 (one per backing-store layer)", got)
	}
	if h.gl.Draws != 2 {
		t.Errorf("Draws = %d, want 2", h.gl.Draws)
	}

	// Presenting binds the render context to the window surface.
	render := h.display.Contexts()[0]
	binds := render.Binds()
	if len(binds) == 0 || binds[len(binds)-1] != h.surface {
		t.Errorf("last context bind = %v, want the window surface", binds)
	}

	shown, err = h.comp.Present(engine.PresentViewInfo{ViewID: engine.ImplicitViewID})
	if err != nil {
		t.Fatalf("Present() of empty frame error = %v", err)
	}
	if !shown {
		t.Error("Present() of empty frame = false, want true")
	}
	if got := h.surface.Swaps(); got != 2 {
		t.Errorf("Swaps() after empty frame = %d, want still 2", got)
	}
}

// TestPresentTruncatesLayerGeometry tests that fractional layer offsets
// and sizes are truncated toward zero, not rounded.
func TestPresentTruncatesLayerGeometry(t *testing.T) {
	h := newHarness(t)
	addView(t, h, engine.ImplicitViewID, 1920, 1080)

	out := emptyStore()
	if err := h.comp.CreateBackingStore(storeConfig(1920, 1080), &out); err != nil {
		t.Fatalf("CreateBackingStore() error = %v", err)
	}

	_, err := h.comp.Present(presentInfo(engine.ImplicitViewID, &out,
		engine.Point{X: 10.9, Y: 20.9},
		engine.Size{Width: 100.7, Height: 50.2}))
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	viewports := h.gl.Viewports
	if len(viewports) != 1 {
		t.Fatalf("Viewports = %v, want exactly one", viewports)
	}
	if want := [4]int32{10, 20, 100, 50}; viewports[0] != want {
		t.Errorf("Viewport = %v, want %v", viewports[0], want)
	}

	// Negative fractions also truncate toward zero.
	h.gl.Viewports = nil
	_, err = h.comp.Present(presentInfo(engine.ImplicitViewID, &out,
		engine.Point{X: -0.5, Y: -0.9},
		engine.Size{Width: 100, Height: 50}))
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if want := [4]int32{0, 0, 100, 50}; h.gl.Viewports[0] != want {
		t.Errorf("Viewport = %v, want %v", h.gl.Viewports[0], want)
	}
}

// TestPresentRestoresBindings tests that presenting puts back the GL
// binding state the engine left behind.
func TestPresentRestoresBindings(t *testing.T) {
	h := newHarness(t)
	addView(t, h, engine.ImplicitViewID, 640, 480)

	out := emptyStore()
	if err := h.comp.CreateBackingStore(storeConfig(640, 480), &out); err != nil {
		t.Fatalf("CreateBackingStore() error = %v", err)
	}

	// Sentinel bindings standing in for engine render state.
	h.gl.SetBinding(gpu.GLArrayBufferBinding, 71)
	h.gl.SetBinding(gpu.GLVertexArrayBinding, 72)
	h.gl.SetBinding(gpu.GLDrawFramebufferBinding, 73)
	h.gl.SetBinding(gpu.GLTextureBinding2D, 74)

	if _, err := h.comp.Present(presentInfo(engine.ImplicitViewID, &out,
		engine.Point{}, engine.Size{Width: 640, Height: 480})); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	checks := []struct {
		name  string
		pname uint32
		want  int32
	}{
		{"array buffer", gpu.GLArrayBufferBinding, 71},
		{"vertex array", gpu.GLVertexArrayBinding, 72},
		{"draw framebuffer", gpu.GLDrawFramebufferBinding, 73},
		{"texture 2d", gpu.GLTextureBinding2D, 74},
	}
	for _, c := range checks {
		if got := h.gl.Binding(c.pname); got != c.want {
			t.Errorf("%s binding = %d, want %d", c.name, got, c.want)
		}
	}
}

// TestPresentResizesOnSizeChange tests that the surface is resized only
// when the view size differs from the last presented size.
func TestPresentResizesOnSizeChange(t *testing.T) {
	h := newHarness(t)
	view := addView(t, h, engine.ImplicitViewID, 800, 600)

	out := emptyStore()
	if err := h.comp.CreateBackingStore(storeConfig(800, 600), &out); err != nil {
		t.Fatalf("CreateBackingStore() error = %v", err)
	}
	frame := presentInfo(engine.ImplicitViewID, &out,
		engine.Point{}, engine.Size{Width: 800, Height: 600})

	h.comp.Present(frame)
	h.comp.Present(frame)
	if got := h.surface.Resizes(); len(got) != 1 || got[0] != [2]uint32{800, 600} {
		t.Fatalf("Resizes() = %v, want one 800x600 resize", got)
	}

	view.SetSize(1024, 768)
	h.comp.Present(frame)
	got := h.surface.Resizes()
	if len(got) != 2 || got[1] != [2]uint32{1024, 768} {
		t.Errorf("Resizes() = %v, want second 1024x768 resize", got)
	}
}

// TestPresentSkipsPlatformViews tests that platform-view layers are
// skipped while backing-store layers still draw.
func TestPresentSkipsPlatformViews(t *testing.T) {
	h := newHarness(t)
	addView(t, h, engine.ImplicitViewID, 800, 600)

	out := emptyStore()
	if err := h.comp.CreateBackingStore(storeConfig(800, 600), &out); err != nil {
		t.Fatalf("CreateBackingStore() error = %v", err)
	}

	info := engine.PresentViewInfo{
		ViewID: engine.ImplicitViewID,
		Layers: []*engine.Layer{
			{Type: engine.LayerContentPlatformView, PlatformViewID: 3},
			{
				Type:         engine.LayerContentBackingStore,
				Size:         engine.Size{Width: 800, Height: 600},
				BackingStore: &out,
			},
		},
	}

	shown, err := h.comp.Present(info)
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if !shown {
		t.Error("Present() = false, want true despite skipped platform view")
	}
	if h.gl.Draws != 1 {
		t.Errorf("Draws = %d, want 1 (platform view skipped)", h.gl.Draws)
	}
}
