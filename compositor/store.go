// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap"

	"github.com/gogpu/layerhost/engine"
	"github.com/gogpu/layerhost/gpu"
)

var (
	// ErrStructSizeMismatch is returned when the engine's backing store
	// structs do not match the ABI revision this embedder was built for.
	// It wraps engine.ErrInternalInconsistency, so it classifies as fatal.
	ErrStructSizeMismatch = fmt.Errorf(
		"compositor: backing store struct size mismatch: %w", engine.ErrInternalInconsistency)

	// ErrUnknownStore is returned when collection names a backing store
	// this compositor did not create.
	ErrUnknownStore = errors.New("compositor: unknown backing store")

	// ErrFramebufferIncomplete is returned when a freshly assembled
	// backing store fails the completeness check.
	ErrFramebufferIncomplete = errors.New("compositor: framebuffer incomplete")
)

// Target is the GL destination the compositor works against. Backing
// store create/collect bind the render context surfaceless; Present binds
// it to the window surface. *gpu.ContextManager satisfies it.
type Target interface {
	MakeRenderCurrent() error
	MakeSurfaceCurrent() error
	ClearCurrent() error
	Resize(width, height uint32) error
	SwapBuffers() error
}

// backingStore is one engine render target: a framebuffer with a color
// texture and a depth/stencil renderbuffer.
type backingStore struct {
	framebuffer  uint32
	texture      uint32
	renderbuffer uint32
	width        int32
	height       int32
}

// Compositor allocates backing stores for the engine and presents
// finished layers onto the window surface.
type Compositor struct {
	gl     gpu.GL
	blit   *gpu.Blitter
	target Target
	views  *ViewRegistry
	log    *zap.Logger

	// mu guards the store table; the engine may allocate and collect
	// from different threads across a frame boundary.
	mu        sync.Mutex
	stores    map[uint64]*backingStore
	nextToken uint64
}

// New returns a compositor drawing through gl and blit onto target.
func New(gl gpu.GL, blit *gpu.Blitter, target Target, views *ViewRegistry, logger *zap.Logger) *Compositor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compositor{
		gl:     gl,
		blit:   blit,
		target: target,
		views:  views,
		log:    logger,
		stores: make(map[uint64]*backingStore),
	}
}

// Views returns the compositor's view registry.
func (c *Compositor) Views() *ViewRegistry { return c.views }

// StoreCount returns the number of live backing stores.
func (c *Compositor) StoreCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stores)
}

// CreateBackingStore implements engine.Compositor. The engine calls it
// from its render thread; the surfaceless render context is made current
// for the GL work and cleared before returning.
//
// Struct sizes are validated before any GL object is created, so an ABI
// mismatch allocates nothing.
func (c *Compositor) CreateBackingStore(config engine.BackingStoreConfig, out *engine.BackingStore) (err error) {
	if config.StructSize != unsafe.Sizeof(engine.BackingStoreConfig{}) {
		return fmt.Errorf("%w: config size %d", ErrStructSizeMismatch, config.StructSize)
	}
	if out.StructSize != unsafe.Sizeof(engine.BackingStore{}) {
		return fmt.Errorf("%w: store size %d", ErrStructSizeMismatch, out.StructSize)
	}

	width := int32(config.Size.Width)
	height := int32(config.Size.Height)

	texArgs, err := gpu.TexImageFor(gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return err
	}
	depthFormat, err := gpu.RenderbufferFor(gputypes.TextureFormatDepth24PlusStencil8)
	if err != nil {
		return err
	}

	if err := c.target.MakeRenderCurrent(); err != nil {
		return fmt.Errorf("compositor: make current: %w", err)
	}
	defer func() {
		if cerr := c.target.ClearCurrent(); cerr != nil && err == nil {
			err = fmt.Errorf("compositor: clear current: %w", cerr)
		}
	}()

	gl := c.gl
	texture := gl.GenTexture()
	gl.BindTexture(gpu.GLTexture2D, texture)
	gl.TexParameteri(gpu.GLTexture2D, gpu.GLTextureMinFilter, gpu.GLNearest)
	gl.TexParameteri(gpu.GLTexture2D, gpu.GLTextureMagFilter, gpu.GLNearest)
	gl.TexParameteri(gpu.GLTexture2D, gpu.GLTextureWrapS, gpu.GLClampToEdge)
	gl.TexParameteri(gpu.GLTexture2D, gpu.GLTextureWrapT, gpu.GLClampToEdge)
	gl.TexImage2D(gpu.GLTexture2D, texArgs.InternalFormat, width, height, texArgs.Format, texArgs.Type)

	renderbuffer := gl.GenRenderbuffer()
	gl.BindRenderbuffer(gpu.GLRenderbuffer, renderbuffer)
	gl.RenderbufferStorage(gpu.GLRenderbuffer, depthFormat, width, height)

	framebuffer := gl.GenFramebuffer()
	gl.BindFramebuffer(gpu.GLFramebuffer, framebuffer)
	gl.FramebufferTexture2D(gpu.GLFramebuffer, gpu.GLColorAttachment0, gpu.GLTexture2D, texture, 0)
	gl.FramebufferRenderbuffer(gpu.GLFramebuffer, gpu.GLDepthStencilAttach, gpu.GLRenderbuffer, renderbuffer)

	if status := gl.CheckFramebufferStatus(gpu.GLFramebuffer); status != gpu.GLFramebufferComplete {
		gl.DeleteFramebuffer(framebuffer)
		gl.DeleteRenderbuffer(renderbuffer)
		gl.DeleteTexture(texture)
		return fmt.Errorf("%w: status %#x", ErrFramebufferIncomplete, status)
	}

	store := &backingStore{
		framebuffer:  framebuffer,
		texture:      texture,
		renderbuffer: renderbuffer,
		width:        width,
		height:       height,
	}

	c.mu.Lock()
	c.nextToken++
	token := c.nextToken
	c.stores[token] = store
	c.mu.Unlock()

	out.Framebuffer = engine.Framebuffer{
		Format:   gputypes.TextureFormatRGBA8Unorm,
		Name:     framebuffer,
		UserData: token,
	}
	return nil
}

// CollectBackingStore implements engine.Compositor, releasing every GL
// object behind a store the engine is done with. The deletes run with the
// surfaceless render context current; it is cleared before returning.
func (c *Compositor) CollectBackingStore(store *engine.BackingStore) (err error) {
	token := store.Framebuffer.UserData

	if err := c.target.MakeRenderCurrent(); err != nil {
		return fmt.Errorf("compositor: make current: %w", err)
	}
	defer func() {
		if cerr := c.target.ClearCurrent(); cerr != nil && err == nil {
			err = fmt.Errorf("compositor: clear current: %w", cerr)
		}
	}()

	c.mu.Lock()
	bs, ok := c.stores[token]
	delete(c.stores, token)
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: token %d", ErrUnknownStore, token)
	}

	gl := c.gl
	gl.DeleteFramebuffer(bs.framebuffer)
	gl.DeleteRenderbuffer(bs.renderbuffer)
	gl.DeleteTexture(bs.texture)
	return nil
}

// lookup resolves a layer's backing store token.
func (c *Compositor) lookup(token uint64) (*backingStore, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bs, ok := c.stores[token]
	return bs, ok
}
