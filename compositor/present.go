// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gogpu/layerhost/engine"
	"github.com/gogpu/layerhost/gpu"
)

// Present composites a frame's layers onto the window surface, blitting
// and swapping once per backing-store layer.
//
// The returned bool is what the engine sees: false tells it the frame was
// not shown. An unknown view is reported as unshown without an error so a
// frame racing view teardown does not kill the session; real failures
// come back as errors for the embedder to classify.
//
// The whole surface is redrawn every frame. Partial damage is not worth
// tracking here: the engine already renders full layers, and the swap is
// the expensive part.
func (c *Compositor) Present(info engine.PresentViewInfo) (bool, error) {
	view, err := c.views.Get(info.ViewID)
	if err != nil {
		c.log.Warn("present for unknown view", zap.Int64("view", int64(info.ViewID)))
		return false, nil
	}

	width, height := view.Size()
	if width != view.presentedWidth || height != view.presentedHeight {
		if err := c.target.Resize(width, height); err != nil {
			return false, fmt.Errorf("compositor: resize surface: %w", err)
		}
		view.presentedWidth = width
		view.presentedHeight = height
	}

	// Presentation is the one place the window surface becomes the
	// render context's drawable.
	if err := c.target.MakeSurfaceCurrent(); err != nil {
		return false, fmt.Errorf("compositor: make current: %w", err)
	}

	var presentErr error
	for _, layer := range info.Layers {
		if layer.Type == engine.LayerContentPlatformView {
			c.log.Warn("platform view layers are not supported",
				zap.Int64("platform_view", layer.PlatformViewID))
			continue
		}

		bs, ok := c.lookup(layer.BackingStore.Framebuffer.UserData)
		if !ok {
			presentErr = fmt.Errorf("%w: token %d",
				ErrUnknownStore, layer.BackingStore.Framebuffer.UserData)
			break
		}

		if n := len(layer.PaintRegion); n > 0 {
			// Full-surface redraw; per-layer damage is not applied.
			c.log.Debug("ignoring layer paint region", zap.Int("rects", n))
		}

		if err := c.presentLayer(layer, bs); err != nil {
			presentErr = err
			break
		}
	}

	if err := c.target.ClearCurrent(); err != nil && presentErr == nil {
		presentErr = fmt.Errorf("compositor: clear current: %w", err)
	}
	return presentErr == nil, presentErr
}

// presentLayer blits one backing-store layer onto the back buffer and
// swaps. The engine's render thread leaves its own bindings behind; what
// the blit touches is saved first and restored after the swap, so the
// next engine frame starts from the state it expects.
func (c *Compositor) presentLayer(layer *engine.Layer, bs *backingStore) error {
	gl := c.gl

	prevBuffer := gl.GetIntegerv(gpu.GLArrayBufferBinding)
	prevVertexArray := gl.GetIntegerv(gpu.GLVertexArrayBinding)
	prevFramebuffer := gl.GetIntegerv(gpu.GLDrawFramebufferBinding)
	prevTexture := gl.GetIntegerv(gpu.GLTextureBinding2D)
	defer func() {
		gl.BindBuffer(gpu.GLArrayBuffer, uint32(prevBuffer))
		gl.BindVertexArray(uint32(prevVertexArray))
		gl.BindFramebuffer(gpu.GLDrawFramebuffer, uint32(prevFramebuffer))
		gl.BindTexture(gpu.GLTexture2D, uint32(prevTexture))
	}()

	gl.BindFramebuffer(gpu.GLDrawFramebuffer, 0)
	// Some drivers leave the draw buffer pointing at the backing store
	// after engine rendering; see
	// https://github.com/NVIDIA/egl-wayland/issues/48.
	gl.DrawBuffer(gpu.GLBack)

	// Offsets and sizes arrive as engine doubles; the viewport wants
	// pixels. Fractions are dropped toward zero on every field.
	x := int32(layer.Offset.X)
	y := int32(layer.Offset.Y)
	w := int32(layer.Size.Width)
	h := int32(layer.Size.Height)
	gl.Viewport(x, y, w, h)

	if err := c.blit.Draw(bs.texture); err != nil {
		return err
	}
	if err := c.target.SwapBuffers(); err != nil {
		return fmt.Errorf("compositor: swap buffers: %w", err)
	}
	return nil
}
