// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

// ViewID identifies a logical on-screen destination inside the engine.
// The implicit (primary) view is always ImplicitViewID.
type ViewID int64

// ImplicitViewID is the identifier of the view the engine creates on its
// own; it exists for the whole session.
const ImplicitViewID ViewID = 0

// Task is an opaque unit of engine-scheduled work. The embedder never
// inspects it; it only carries the pair back into Engine.RunTask when the
// task's target time is reached.
type Task struct {
	// Runner is the engine-side runner the task belongs to.
	Runner uintptr

	// Handle is the engine's identifier for the task.
	Handle uint64
}

// WindowMetricsEvent describes a view's physical geometry. Submitted to
// the engine whenever the windowing system assigns the surface a new size.
type WindowMetricsEvent struct {
	// Width and Height are the view size in physical pixels. Both are
	// nonzero in every event the embedder submits.
	Width  uint32
	Height uint32

	// PixelRatio is the ratio of physical pixels to logical pixels.
	PixelRatio float64

	// InsetTop, InsetRight, InsetBottom and InsetLeft are the physical
	// insets of the view, in pixels.
	InsetTop    float64
	InsetRight  float64
	InsetBottom float64
	InsetLeft   float64

	// ViewID is the view the metrics apply to.
	ViewID ViewID

	// DisplayID is the display the view lives on.
	DisplayID uint64
}

// Engine is the lifecycle and submission surface of the embedded engine.
//
// Implementations adapt a native engine binding; the embedder holds
// exactly one Engine for the whole session and deinitializes it after the
// event loop unwinds. All methods translate engine result codes into the
// errors of this package.
type Engine interface {
	// Run starts the initialized engine.
	Run() error

	// Deinitialize shuts the engine down. After Deinitialize returns the
	// engine invokes no further callbacks.
	Deinitialize() error

	// CurrentTime returns the engine clock in nanoseconds. Task target
	// times are expressed on this clock.
	CurrentTime() uint64

	// RunTask executes a task previously handed to TaskRunner.PostTask.
	// Must be called on the thread for which the embedder's task runner
	// answered RunsTasksOnCurrentThread true.
	RunTask(task Task) error

	// SendWindowMetricsEvent informs the engine of a view's new size.
	SendWindowMetricsEvent(event WindowMetricsEvent) error

	// ScheduleFrame asks the engine to produce a frame.
	ScheduleFrame() error
}

// Renderer is the embedder's GL context-currency surface. The engine calls
// these from its own internal threads; every method must be safe to call
// from any thread and reports binding failures instead of swallowing them.
type Renderer interface {
	// MakeCurrent binds the render context, surfaceless, on the calling
	// thread. The onscreen surface is bound only during presentation.
	MakeCurrent() error

	// ClearCurrent unbinds whatever context is current on the calling
	// thread.
	ClearCurrent() error

	// MakeResourceCurrent binds the resource-loading context, which
	// shares object namespaces with the render context but is never used
	// for drawing.
	MakeResourceCurrent() error

	// ProcAddress resolves a GL symbol for the engine.
	ProcAddress(name string) uintptr
}

// Compositor is the embedder's per-frame compositing surface.
type Compositor interface {
	// CreateBackingStore allocates a render target for one composited
	// layer and fills out. The engine owns the result until it hands the
	// same store back through CollectBackingStore.
	CreateBackingStore(config BackingStoreConfig, out *BackingStore) error

	// CollectBackingStore releases a store created by CreateBackingStore.
	// The engine is the sole authority on when collection happens.
	CollectBackingStore(store *BackingStore) error

	// PresentView composites the supplied layers onto the view's surface.
	// Returns false when the frame was not presented (for example the
	// view is no longer registered); the engine treats that as
	// "not handled", not as a session failure.
	PresentView(info PresentViewInfo) bool
}

// TaskRunner is the embedder's task-posting surface, the platform task
// runner in engine terms.
type TaskRunner interface {
	// RunsTasksOnCurrentThread reports whether the calling thread is the
	// runner's owning thread. The engine uses this to decide whether a
	// thread-affine call may proceed directly.
	RunsTasksOnCurrentThread() bool

	// PostTask schedules task for execution at targetTime (engine-clock
	// nanoseconds). Never blocks; execution is always deferred to the
	// owning thread even when the caller is already on it.
	PostTask(task Task, targetTime uint64)
}

// LogSink receives engine-emitted log messages.
type LogSink func(tag, message string)
