// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package windowing abstracts the display-server connection and the
// layer-shell surface the embedder renders into.
//
// A layer surface is a wlr-layer-shell style desktop surface: anchored to
// screen edges, stacked in a compositor-defined layer, sized by the
// compositor through configure events that the client must acknowledge.
// Backends self-register through Register; the headless subpackage
// provides an in-memory backend for tests, and a native client plugs in
// the same way.
//
// Event delivery is pull-based: the client signals Readable when events
// are pending and the owner calls Dispatch from its event-loop thread,
// so every surface callback runs on that thread.
package windowing
