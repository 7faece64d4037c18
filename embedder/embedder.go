// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package embedder

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gogpu/layerhost/compositor"
	"github.com/gogpu/layerhost/engine"
	"github.com/gogpu/layerhost/gpu"
	"github.com/gogpu/layerhost/scheduler"
	"github.com/gogpu/layerhost/windowing"
)

// Initial implicit-view size, used until the compositor's first nonzero
// configure event arrives.
const (
	InitialWidth  = 1600
	InitialHeight = 900
)

// ErrSurfaceClosed signals that the compositor closed the layer surface.
// Run treats it as a clean shutdown.
var ErrSurfaceClosed = errors.New("embedder: layer surface closed")

// ErrNoEngine is returned when Run is called before AttachEngine.
var ErrNoEngine = errors.New("embedder: no engine attached")

// Options configures an Embedder.
type Options struct {
	// Client is the display-server connection. Required.
	Client windowing.Client

	// Surface is the layer surface the session renders into. Required.
	Surface windowing.LayerSurface

	// Contexts is the GL context manager for the surface. Required.
	Contexts *gpu.ContextManager

	// PixelRatio is reported to the engine with every metrics event.
	// Zero or negative defaults to 1.0.
	PixelRatio float64

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Embedder is one engine session: it owns the view registry, compositor,
// and task scheduler, and presents the engine with the renderer,
// compositor, and task-runner contracts it requires.
type Embedder struct {
	client     windowing.Client
	surface    windowing.LayerSurface
	contexts   *gpu.ContextManager
	comp       *compositor.Compositor
	sched      *scheduler.Scheduler
	log        *zap.Logger
	pixelRatio float64

	// fatal holds the first session-ending error; later ones are logged
	// and dropped.
	fatal chan error

	mu  sync.RWMutex
	eng engine.Engine
}

// New returns an embedder over an already-connected client, mapped
// surface, and initialized context manager.
func New(opts Options) *Embedder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	pixelRatio := opts.PixelRatio
	if pixelRatio <= 0 {
		pixelRatio = 1.0
	}

	e := &Embedder{
		client:     opts.Client,
		surface:    opts.Surface,
		contexts:   opts.Contexts,
		log:        log,
		pixelRatio: pixelRatio,
		fatal:      make(chan error, 1),
	}
	e.comp = compositor.New(
		opts.Contexts.GL(),
		opts.Contexts.Blitter(),
		opts.Contexts,
		compositor.NewViewRegistry(),
		log.Named("compositor"),
	)
	e.sched = scheduler.New(scheduler.Options{
		Clock: e.engineTime,
		Run:   e.runEngineTask,
		OnError: func(err error) {
			if engine.IsFatal(err) {
				e.fail(err)
			}
		},
		Logger: log.Named("scheduler"),
	})
	return e
}

// AttachEngine binds the engine instance the callbacks feed. Must happen
// before Run and before the engine posts its first task.
func (e *Embedder) AttachEngine(eng engine.Engine) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eng = eng
}

// Compositor returns the session's compositor.
func (e *Embedder) Compositor() *compositor.Compositor { return e.comp }

// CreateImplicitView registers the implicit view at its assumed initial
// size and wires the surface's configure and close events to it.
func (e *Embedder) CreateImplicitView() error {
	view := compositor.NewView(engine.ImplicitViewID, InitialWidth, InitialHeight)
	if err := e.comp.Views().Add(view); err != nil {
		return err
	}

	resizer := compositor.NewResizer(
		engineProxy{e}, view, e.surface, e.pixelRatio, e.log.Named("resize"))

	e.surface.OnConfigure(func(ev windowing.ConfigureEvent) {
		if err := resizer.Configure(ev); err != nil {
			if engine.IsFatal(err) {
				e.fail(err)
				return
			}
			e.log.Warn("configure rejected", zap.Error(err))
		}
	})
	e.surface.OnClosed(func() {
		e.fail(ErrSurfaceClosed)
	})
	return nil
}

// Close releases the GL contexts and the layer surface. The client is
// left open; its owner closes it.
func (e *Embedder) Close() error {
	return errors.Join(e.contexts.Close(), e.surface.Destroy())
}

// Fatal exposes the fatal channel for tests.
func (e *Embedder) Fatal() <-chan error { return e.fatal }

// fail records the first session-ending error.
func (e *Embedder) fail(err error) {
	select {
	case e.fatal <- err:
	default:
		e.log.Warn("fatal error after session already failing", zap.Error(err))
	}
}

func (e *Embedder) engine() engine.Engine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.eng
}

// engineTime is the scheduler's clock. Before AttachEngine there is no
// clock to read; zero keeps early submissions "due now".
func (e *Embedder) engineTime() uint64 {
	if eng := e.engine(); eng != nil {
		return eng.CurrentTime()
	}
	return 0
}

func (e *Embedder) runEngineTask(task engine.Task) error {
	eng := e.engine()
	if eng == nil {
		return ErrNoEngine
	}
	if err := eng.RunTask(task); err != nil {
		return fmt.Errorf("embedder: run engine task: %w", err)
	}
	return nil
}

// MakeCurrent implements engine.Renderer.
func (e *Embedder) MakeCurrent() error { return e.contexts.MakeRenderCurrent() }

// ClearCurrent implements engine.Renderer.
func (e *Embedder) ClearCurrent() error { return e.contexts.ClearCurrent() }

// MakeResourceCurrent implements engine.Renderer.
func (e *Embedder) MakeResourceCurrent() error { return e.contexts.MakeResourceCurrent() }

// ProcAddress implements engine.Renderer.
func (e *Embedder) ProcAddress(name string) uintptr { return e.contexts.ProcAddress(name) }

// CreateBackingStore implements engine.Compositor.
func (e *Embedder) CreateBackingStore(config engine.BackingStoreConfig, out *engine.BackingStore) error {
	return e.comp.CreateBackingStore(config, out)
}

// CollectBackingStore implements engine.Compositor.
func (e *Embedder) CollectBackingStore(store *engine.BackingStore) error {
	return e.comp.CollectBackingStore(store)
}

// PresentView implements engine.Compositor. The engine only understands a
// shown/unshown bool; errors go through the fatal funnel instead.
func (e *Embedder) PresentView(info engine.PresentViewInfo) bool {
	shown, err := e.comp.Present(info)
	if err != nil {
		e.fail(err)
		return false
	}
	return shown
}

// RunsTasksOnCurrentThread implements engine.TaskRunner.
func (e *Embedder) RunsTasksOnCurrentThread() bool {
	return e.sched.RunsTasksOnCurrentThread()
}

// PostTask implements engine.TaskRunner.
func (e *Embedder) PostTask(task engine.Task, targetTime uint64) {
	e.sched.PostTask(task, targetTime)
}

// EngineLog is the engine.LogSink for this session.
func (e *Embedder) EngineLog(tag, message string) {
	e.log.Info(message, zap.String("tag", tag))
}

// engineProxy defers engine resolution to call time, so the resizer can
// be built before AttachEngine.
type engineProxy struct {
	e *Embedder
}

func (p engineProxy) Run() error          { return p.must().Run() }
func (p engineProxy) Deinitialize() error { return p.must().Deinitialize() }
func (p engineProxy) CurrentTime() uint64 { return p.e.engineTime() }

func (p engineProxy) RunTask(task engine.Task) error { return p.e.runEngineTask(task) }

func (p engineProxy) SendWindowMetricsEvent(ev engine.WindowMetricsEvent) error {
	eng := p.e.engine()
	if eng == nil {
		return ErrNoEngine
	}
	return eng.SendWindowMetricsEvent(ev)
}

func (p engineProxy) ScheduleFrame() error {
	eng := p.e.engine()
	if eng == nil {
		return ErrNoEngine
	}
	return eng.ScheduleFrame()
}

func (p engineProxy) must() engine.Engine {
	eng := p.e.engine()
	if eng == nil {
		panic(ErrNoEngine)
	}
	return eng
}

var (
	_ engine.Renderer   = (*Embedder)(nil)
	_ engine.Compositor = (*Embedder)(nil)
	_ engine.TaskRunner = (*Embedder)(nil)
	_ engine.Engine     = engineProxy{}
)
