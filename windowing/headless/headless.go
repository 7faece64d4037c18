// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless is an in-memory windowing backend.
//
// It implements the windowing interfaces without a display server: tests
// (and the command's --headless mode) drive configure and close events
// from the outside, and the client queues them for Dispatch exactly like
// a socket-backed client would. It registers under the name "headless"
// with the lowest priority, so a native backend always wins when one is
// present.
package headless

import (
	"errors"
	"sync"

	"github.com/gogpu/layerhost/windowing"
)

// Name is the registry name of this backend.
const Name = "headless"

func init() {
	windowing.Register(Name, 0, func() (windowing.Client, error) {
		return New(), nil
	}, nil)
}

// ErrClosed is returned by operations on a closed client.
var ErrClosed = errors.New("headless: client closed")

// Client is an in-memory windowing.Client. Events pushed through surface
// test hooks queue here until Dispatch drains them.
type Client struct {
	mu       sync.Mutex
	queue    []func()
	readable chan struct{}
	surfaces []*Surface
	closed   bool
	flushes  int
}

// New returns a connected in-memory client.
func New() *Client {
	return &Client{readable: make(chan struct{}, 1)}
}

// CreateLayerSurface implements windowing.Client.
func (c *Client) CreateLayerSurface(opts windowing.SurfaceOptions) (windowing.LayerSurface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	s := &Surface{client: c, opts: opts}
	c.surfaces = append(c.surfaces, s)
	return s, nil
}

// NativeDisplay implements windowing.Client. Headless has no native
// display; GL backends used with it must cope with a zero handle, which
// the gputest display does.
func (c *Client) NativeDisplay() uintptr { return 0 }

// Readable implements windowing.Client.
func (c *Client) Readable() <-chan struct{} { return c.readable }

// Dispatch implements windowing.Client, running queued surface events on
// the calling thread.
func (c *Client) Dispatch() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	pending := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return nil
}

// Flush implements windowing.Client.
func (c *Client) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.flushes++
	return nil
}

// Close implements windowing.Client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Surfaces returns every surface created on this client, in creation
// order, including destroyed ones.
func (c *Client) Surfaces() []*Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Surface, len(c.surfaces))
	copy(out, c.surfaces)
	return out
}

// post queues an event and signals readability.
func (c *Client) post(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, fn)
	c.mu.Unlock()

	select {
	case c.readable <- struct{}{}:
	default:
	}
}

// Surface is an in-memory windowing.LayerSurface.
type Surface struct {
	client *Client

	mu          sync.Mutex
	opts        windowing.SurfaceOptions
	onConfigure func(windowing.ConfigureEvent)
	onClosed    func()
	acks        []uint32
	destroyed   bool
}

// Options returns the options the surface was created with.
func (s *Surface) Options() windowing.SurfaceOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Acks returns the acknowledged configure serials in order.
func (s *Surface) Acks() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint32, len(s.acks))
	copy(out, s.acks)
	return out
}

// Destroyed reports whether Destroy was called.
func (s *Surface) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Configure queues a compositor configure event. Test hook.
func (s *Surface) Configure(serial, width, height uint32) {
	s.client.post(func() {
		s.mu.Lock()
		fn := s.onConfigure
		s.mu.Unlock()
		if fn != nil {
			fn(windowing.ConfigureEvent{Serial: serial, Width: width, Height: height})
		}
	})
}

// RequestClose queues a compositor close event. Test hook.
func (s *Surface) RequestClose() {
	s.client.post(func() {
		s.mu.Lock()
		fn := s.onClosed
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// OnConfigure implements windowing.LayerSurface.
func (s *Surface) OnConfigure(fn func(windowing.ConfigureEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConfigure = fn
}

// OnClosed implements windowing.LayerSurface.
func (s *Surface) OnClosed(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClosed = fn
}

// AckConfigure implements windowing.LayerSurface.
func (s *Surface) AckConfigure(serial uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acks = append(s.acks, serial)
}

// NativeWindow implements windowing.LayerSurface.
func (s *Surface) NativeWindow() uintptr { return 0 }

// Destroy implements windowing.LayerSurface.
func (s *Surface) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	return nil
}

var (
	_ windowing.Client       = (*Client)(nil)
	_ windowing.LayerSurface = (*Surface)(nil)
)
