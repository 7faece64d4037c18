// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu abstracts the OpenGL display, context, and surface plumbing
// the embedder hands to the engine.
//
// A backend (registered through Register, the same self-registration
// scheme the engine bindings use) produces a Display for a native display
// handle. The ContextManager built on top owns the render and resource
// contexts the engine requires, the window surface, and the blit program
// used to composite engine-rendered textures onto the surface.
//
// All GL entry points are reached through the GL interface so tests can
// substitute an in-memory implementation; the real backend binds them
// through the display's ProcAddress.
package gpu
