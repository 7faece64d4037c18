// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package enginetest provides a scripted in-memory engine for tests.
//
// The fake engine records every call the embedder makes and exposes a
// controllable clock, so scheduler and resize behavior can be verified
// without a native engine binding.
package enginetest

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/layerhost/engine"
)

// Engine is a fake engine.Engine. The zero value is not usable; call New.
type Engine struct {
	clock atomic.Uint64

	mu          sync.Mutex
	running     bool
	deinited    bool
	ranTasks    []engine.Task
	metrics     []engine.WindowMetricsEvent
	frames      int
	runTaskErr  error
	metricsErr  error
	onRunTask   func(engine.Task)
}

// New returns a fake engine with its clock at zero.
func New() *Engine {
	return &Engine{}
}

// SetCurrentTime moves the engine clock to t nanoseconds.
func (e *Engine) SetCurrentTime(t uint64) {
	e.clock.Store(t)
}

// AdvanceTime moves the engine clock forward by d nanoseconds.
func (e *Engine) AdvanceTime(d uint64) {
	e.clock.Add(d)
}

// FailRunTask makes every subsequent RunTask return err (nil to reset).
func (e *Engine) FailRunTask(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runTaskErr = err
}

// FailMetrics makes every subsequent SendWindowMetricsEvent return err.
func (e *Engine) FailMetrics(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metricsErr = err
}

// OnRunTask installs a hook invoked for every task that runs.
func (e *Engine) OnRunTask(fn func(engine.Task)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRunTask = fn
}

// RanTasks returns the tasks executed so far, in execution order.
func (e *Engine) RanTasks() []engine.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.Task, len(e.ranTasks))
	copy(out, e.ranTasks)
	return out
}

// Metrics returns the window metrics events received so far.
func (e *Engine) Metrics() []engine.WindowMetricsEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.WindowMetricsEvent, len(e.metrics))
	copy(out, e.metrics)
	return out
}

// Running reports whether Run has been called without Deinitialize.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running && !e.deinited
}

// Deinitialized reports whether Deinitialize has been called.
func (e *Engine) Deinitialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deinited
}

// Frames returns how many frames were scheduled.
func (e *Engine) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Run implements engine.Engine.
func (e *Engine) Run() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	return nil
}

// Deinitialize implements engine.Engine.
func (e *Engine) Deinitialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deinited = true
	return nil
}

// CurrentTime implements engine.Engine.
func (e *Engine) CurrentTime() uint64 {
	return e.clock.Load()
}

// RunTask implements engine.Engine.
func (e *Engine) RunTask(task engine.Task) error {
	e.mu.Lock()
	if e.runTaskErr != nil {
		err := e.runTaskErr
		e.mu.Unlock()
		return err
	}
	e.ranTasks = append(e.ranTasks, task)
	hook := e.onRunTask
	e.mu.Unlock()
	if hook != nil {
		hook(task)
	}
	return nil
}

// SendWindowMetricsEvent implements engine.Engine.
func (e *Engine) SendWindowMetricsEvent(event engine.WindowMetricsEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.metricsErr != nil {
		return e.metricsErr
	}
	e.metrics = append(e.metrics, event)
	return nil
}

// ScheduleFrame implements engine.Engine.
func (e *Engine) ScheduleFrame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames++
	return nil
}

var _ engine.Engine = (*Engine)(nil)
