// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ContextManager owns the two GL contexts the engine requires and the
// onscreen surface they present to.
//
// The render context runs surfaceless for the engine's own rendering and
// takes the window surface as its drawable only for presentation; the
// resource context shares objects with it and never has a drawable, which
// is how the engine uploads textures from its worker threads. Context
// currency is whatever thread the engine calls from; the manager adds no
// affinity of its own.
type ContextManager struct {
	display  Display
	surface  WindowSurface
	render   Context
	resource Context
	blit     *Blitter
	log      *zap.Logger
	closed   bool
}

// NewContextManager creates the render and resource contexts for display
// and wraps nativeWindow in the presentation surface.
func NewContextManager(display Display, nativeWindow uintptr, logger *zap.Logger) (*ContextManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	render, err := display.CreateContext(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create render context: %w", err)
	}
	resource, err := display.CreateContext(render)
	if err != nil {
		render.Destroy()
		return nil, fmt.Errorf("gpu: create resource context: %w", err)
	}
	surface, err := display.CreateWindowSurface(nativeWindow)
	if err != nil {
		resource.Destroy()
		render.Destroy()
		return nil, fmt.Errorf("gpu: create window surface: %w", err)
	}

	return &ContextManager{
		display:  display,
		surface:  surface,
		render:   render,
		resource: resource,
		blit:     NewBlitter(display.GL()),
		log:      logger,
	}, nil
}

// GL returns the display's GL entry points.
func (m *ContextManager) GL() GL { return m.display.GL() }

// Blitter returns the manager's shared blit pipeline.
func (m *ContextManager) Blitter() *Blitter { return m.blit }

// MakeRenderCurrent binds the render context, surfaceless, on the calling
// thread. Presentation binds the window surface through MakeSurfaceCurrent.
func (m *ContextManager) MakeRenderCurrent() error {
	return m.render.MakeCurrent(nil)
}

// MakeSurfaceCurrent binds the render context with the window surface as
// its drawable, on the calling thread.
func (m *ContextManager) MakeSurfaceCurrent() error {
	return m.render.MakeCurrent(m.surface)
}

// MakeResourceCurrent binds the resource context, surfaceless, on the
// calling thread.
func (m *ContextManager) MakeResourceCurrent() error {
	return m.resource.MakeCurrent(nil)
}

// ClearCurrent unbinds the current context on the calling thread.
func (m *ContextManager) ClearCurrent() error {
	return m.render.ClearCurrent()
}

// ProcAddress resolves a GL symbol through the display.
func (m *ContextManager) ProcAddress(name string) uintptr {
	return m.display.ProcAddress(name)
}

// Resize adjusts the window surface to a new size.
func (m *ContextManager) Resize(width, height uint32) error {
	return m.surface.Resize(width, height)
}

// SwapBuffers presents the window surface's back buffer.
func (m *ContextManager) SwapBuffers() error {
	return m.surface.SwapBuffers()
}

// Close tears down the blit pipeline, both contexts, the surface, and the
// display connection. Safe to call once; must run on a thread where the
// render context may become current.
func (m *ContextManager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error

	// The blit objects live in the shared context group; deleting them
	// needs a current context.
	if err := m.render.MakeCurrent(nil); err != nil {
		m.log.Warn("make current for teardown failed", zap.Error(err))
	} else {
		m.blit.Close()
	}
	if err := m.render.ClearCurrent(); err != nil {
		errs = append(errs, err)
	}
	if err := m.resource.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if err := m.render.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if err := m.surface.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if err := m.display.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
