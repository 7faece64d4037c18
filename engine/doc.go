// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package engine defines the contract between layerhost and the embedded
// rendering engine.
//
// The engine itself is an external native library consumed through a
// narrow interface. This package holds the Go-side shape of that boundary:
// the Engine lifecycle interface, the callback interfaces the embedder
// implements (Renderer, Compositor, TaskRunner), the data types the engine
// exchanges per frame (backing stores, layers, window metrics), and the
// typed errors for engine result codes.
//
// A concrete engine binding registers itself through Register, following
// the same self-registration pattern as the gpu and windowing backends.
// Bindings adapt these interfaces to whatever callback-table ABI the
// native library requires; nothing in this repository links against the
// engine directly.
package engine
