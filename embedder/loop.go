// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package embedder

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/gogpu/layerhost/engine"
	"github.com/gogpu/layerhost/scheduler"
)

// Run starts the engine and drives the session's event loop until the
// context is canceled, the compositor closes the surface, or a fatal
// error surfaces. It returns nil for both clean shutdown paths.
//
// Run locks its goroutine to an OS thread and adopts it as the platform
// task thread; every display event and engine platform task executes
// here.
func (e *Embedder) Run(ctx context.Context) error {
	eng := e.engine()
	if eng == nil {
		return ErrNoEngine
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	e.sched.AdoptCurrentThread()

	if err := eng.Run(); err != nil {
		return fmt.Errorf("embedder: engine run: %w", err)
	}
	defer func() {
		if err := eng.Deinitialize(); err != nil {
			e.log.Warn("engine deinitialize failed", zap.Error(err))
		}
	}()

	if err := e.sendInitialMetrics(); err != nil {
		return err
	}

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	wait := e.sched.Pump()
	for {
		resetTimer(timer, wait)

		// When several branches are ready the runtime picks one at
		// random; any order is fine because each iteration ends by
		// pumping the scheduler and flushing the client regardless of
		// which branch fired.
		select {
		case <-ctx.Done():
			return nil

		case err := <-e.fatal:
			if errors.Is(err, ErrSurfaceClosed) {
				e.log.Info("surface closed by compositor")
				return nil
			}
			return err

		case <-e.client.Readable():
			if err := e.client.Dispatch(); err != nil {
				return fmt.Errorf("embedder: dispatch: %w", err)
			}

		case <-e.sched.Wake():

		case <-timer.C:
		}

		if err := e.client.Flush(); err != nil {
			e.log.Warn("client flush failed", zap.Error(err))
		}
		wait = e.sched.Pump()
	}
}

// sendInitialMetrics tells the engine the implicit view's assumed size so
// it can produce frames before the first configure event lands. Sessions
// without an implicit view skip this.
func (e *Embedder) sendInitialMetrics() error {
	view, err := e.comp.Views().Get(engine.ImplicitViewID)
	if err != nil {
		return nil
	}
	width, height := view.Size()
	metrics := engine.WindowMetricsEvent{
		Width:      width,
		Height:     height,
		PixelRatio: e.pixelRatio,
		ViewID:     view.ID(),
	}
	if err := e.engine().SendWindowMetricsEvent(metrics); err != nil {
		return fmt.Errorf("embedder: initial window metrics: %w", err)
	}
	return nil
}

// resetTimer rearms a stopped-or-fired timer for the next wait. The
// stop/drain dance avoids a stale tick waking the loop immediately.
func resetTimer(t *time.Timer, wait time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	if wait == scheduler.Forever {
		// No deadline pending; park the timer far out instead of
		// special-casing a nil channel in the select.
		wait = time.Hour
	}
	t.Reset(wait)
}
