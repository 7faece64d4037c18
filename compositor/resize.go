// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gogpu/layerhost/engine"
	"github.com/gogpu/layerhost/windowing"
)

// Resizer translates compositor configure events into engine window
// metrics for one view.
//
// Every configure event is acknowledged, even a zero-sized one: the
// compositor is owed the ack regardless of whether the size is usable.
// Only nonzero grants reach the engine or change the stored view size.
type Resizer struct {
	engine     engine.Engine
	view       *View
	surface    windowing.LayerSurface
	pixelRatio float64
	log        *zap.Logger
}

// NewResizer returns a resizer for view backed by surface.
func NewResizer(eng engine.Engine, view *View, surface windowing.LayerSurface, pixelRatio float64, logger *zap.Logger) *Resizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pixelRatio <= 0 {
		pixelRatio = 1.0
	}
	return &Resizer{
		engine:     eng,
		view:       view,
		surface:    surface,
		pixelRatio: pixelRatio,
		log:        logger,
	}
}

// Configure handles one configure event. The metrics event is sent before
// the new size is stored, so a metrics failure leaves the view at its
// last engine-acknowledged size.
func (r *Resizer) Configure(ev windowing.ConfigureEvent) error {
	defer r.surface.AckConfigure(ev.Serial)

	if ev.Width == 0 || ev.Height == 0 {
		r.log.Debug("configure with undecided size",
			zap.Uint32("serial", ev.Serial))
		return nil
	}

	err := r.engine.SendWindowMetricsEvent(engine.WindowMetricsEvent{
		Width:      ev.Width,
		Height:     ev.Height,
		PixelRatio: r.pixelRatio,
		ViewID:     r.view.ID(),
	})
	if err != nil {
		return fmt.Errorf("compositor: send window metrics: %w", err)
	}

	r.view.SetSize(ev.Width, ev.Height)
	r.log.Debug("view resized",
		zap.Uint32("width", ev.Width),
		zap.Uint32("height", ev.Height))
	return nil
}
