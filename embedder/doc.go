// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package embedder ties the engine, compositor, scheduler, and windowing
// layers into a running session.
//
// The Embedder is the single object handed to the engine: it satisfies
// the renderer, compositor, and platform task-runner contracts, and its
// Run method is the one event loop the session has. Every display event,
// scheduled task, and shutdown signal funnels through that loop's select,
// so surface callbacks and engine tasks all execute on one locked OS
// thread.
//
// Failures from engine callbacks cannot unwind into the engine's C-like
// call discipline, so they are funneled into a one-slot fatal channel the
// event loop drains; the first fatal error wins and ends the session.
package embedder
