// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package compositor owns view bookkeeping and the frame path between the
// engine and the window surface.
//
// The engine renders each frame into backing stores the compositor
// allocates (a framebuffer backed by a color texture and a depth/stencil
// renderbuffer), then asks for the finished layers to be presented. The
// compositor blits every backing-store layer over the window surface and
// swaps. The engine drives allocation, presentation, and collection from
// its own threads with a current GL context; the compositor adds no
// thread affinity of its own.
package compositor
