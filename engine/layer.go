// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import "github.com/gogpu/gputypes"

// Point is a position in physical pixels, as supplied by the engine.
type Point struct {
	X float64
	Y float64
}

// Size is an extent in physical pixels, as supplied by the engine.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned region in physical pixels.
type Rect struct {
	Origin Point
	Size   Size
}

// BackingStoreConfig describes the render target the engine is asking the
// embedder to allocate for one composited layer.
type BackingStoreConfig struct {
	// StructSize is the size the engine believes the ABI struct has.
	// The embedder validates it before touching the GPU.
	StructSize uintptr

	// Size is the requested render-target size in physical pixels.
	Size Size
}

// Framebuffer describes the GL framebuffer the embedder allocated for a
// backing store.
type Framebuffer struct {
	// Format is the color attachment's texture format.
	Format gputypes.TextureFormat

	// Name is the GL framebuffer object id the engine renders into.
	Name uint32

	// UserData is an opaque token the embedder round-trips through the
	// engine's create/collect protocol. Only the embedder interprets it.
	UserData uint64
}

// BackingStore is one engine-composited render target. Created by
// Compositor.CreateBackingStore and destroyed, exactly once, by
// Compositor.CollectBackingStore; the embedder never frees it through any
// other path.
type BackingStore struct {
	// StructSize mirrors the ABI struct-size handshake: the engine sets
	// it before create, and the embedder rejects undersized values.
	StructSize uintptr

	// DidUpdate reports whether the store contents changed since the
	// previous present.
	DidUpdate bool

	// Framebuffer holds the GL objects backing the store.
	Framebuffer Framebuffer
}

// LayerContentType distinguishes the two kinds of composited layers.
type LayerContentType uint8

const (
	// LayerContentBackingStore is a layer rendered by the engine into an
	// embedder-allocated backing store.
	LayerContentBackingStore LayerContentType = iota

	// LayerContentPlatformView is a layer whose content is an
	// embedder-provided platform view.
	LayerContentPlatformView
)

// Layer is one unit of engine-composited content within a frame.
type Layer struct {
	// Type selects which content field is meaningful.
	Type LayerContentType

	// Offset is the layer's position on the view, in physical pixels.
	Offset Point

	// Size is the layer's extent, in physical pixels.
	Size Size

	// BackingStore is set for LayerContentBackingStore layers.
	BackingStore *BackingStore

	// PlatformViewID is set for LayerContentPlatformView layers.
	PlatformViewID int64

	// PresentationTime is when the layer should reach the screen, in
	// engine-clock nanoseconds.
	PresentationTime uint64

	// PaintRegion is the damaged region of the layer. An empty region
	// means full-surface damage.
	PaintRegion []Rect
}

// PresentViewInfo carries one composited frame for one view.
type PresentViewInfo struct {
	// ViewID is the destination view.
	ViewID ViewID

	// Layers are ordered back to front, as the engine composited them.
	Layers []*Layer
}
