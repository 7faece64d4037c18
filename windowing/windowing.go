// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package windowing

// Layer selects the compositor stacking layer a surface lives in.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// String returns the layer's protocol name.
func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Anchor is a bitmask of screen edges a surface is anchored to.
type Anchor uint32

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight

	// AnchorAll stretches the surface across the whole output.
	AnchorAll = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)

// KeyboardInteractivity selects how a layer surface receives keyboard
// focus.
type KeyboardInteractivity int

const (
	KeyboardNone KeyboardInteractivity = iota
	KeyboardExclusive
	KeyboardOnDemand
)

// Margin is the gap, in surface-local pixels, between each anchored edge
// and the surface.
type Margin struct {
	Top    int32
	Right  int32
	Bottom int32
	Left   int32
}

// SurfaceOptions configures a new layer surface.
type SurfaceOptions struct {
	// Namespace identifies the surface's purpose to the compositor.
	Namespace string

	Layer  Layer
	Anchor Anchor

	// Width and Height request a size; zero on an axis whose opposing
	// edges are both anchored lets the compositor choose.
	Width  uint32
	Height uint32

	// ExclusiveZone reserves space along the anchored edge. Zero
	// reserves nothing; -1 asks to ignore other surfaces' zones.
	ExclusiveZone int32

	Margin Margin

	Keyboard KeyboardInteractivity
}

// ConfigureEvent is the compositor's size grant for a surface. Width or
// height of zero leaves that dimension to the client.
type ConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}

// LayerSurface is a mapped layer-shell surface.
//
// Callbacks registered through OnConfigure and OnClosed run on the thread
// calling Client.Dispatch.
type LayerSurface interface {
	// OnConfigure installs the configure-event handler. The handler must
	// acknowledge each event with AckConfigure before the next commit.
	OnConfigure(fn func(ConfigureEvent))

	// OnClosed installs the handler for compositor-initiated closure.
	// After it fires the surface must not be rendered to again.
	OnClosed(fn func())

	// AckConfigure acknowledges a configure event by serial.
	AckConfigure(serial uint32)

	// NativeWindow returns the handle the GL backend wraps in a window
	// surface.
	NativeWindow() uintptr

	// Destroy unmaps and releases the surface.
	Destroy() error
}

// Client is a connection to the display server.
type Client interface {
	// CreateLayerSurface creates and maps a layer surface. The first
	// configure event arrives through the surface's handler after the
	// initial commit.
	CreateLayerSurface(opts SurfaceOptions) (LayerSurface, error)

	// NativeDisplay returns the handle the GL backend opens a display
	// for.
	NativeDisplay() uintptr

	// Readable is signaled when Dispatch has events to process.
	Readable() <-chan struct{}

	// Dispatch processes pending events, invoking surface callbacks on
	// the calling thread.
	Dispatch() error

	// Flush pushes buffered requests to the server.
	Flush() error

	// Close disconnects. Surfaces must be destroyed first.
	Close() error
}
