// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package embedder_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/layerhost/embedder"
	"github.com/gogpu/layerhost/engine"
)

// startLoop runs the session loop under an errgroup and returns a stop
// func that cancels it and waits.
func startLoop(t *testing.T, f *fixture) (stop func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return f.emb.Run(ctx) })

	return func() error {
		cancel()
		return g.Wait()
	}
}

// TestRunSendsInitialMetrics tests that the engine learns the implicit
// view's assumed size at startup.
func TestRunSendsInitialMetrics(t *testing.T) {
	f := newFixture(t)
	stop := startLoop(t, f)

	waitFor(t, "initial metrics", func() bool { return len(f.eng.Metrics()) >= 1 })

	ev := f.eng.Metrics()[0]
	if ev.Width != 1600 || ev.Height != 900 {
		t.Errorf("initial metrics = %dx%d, want 1600x900", ev.Width, ev.Height)
	}
	if ev.ViewID != engine.ImplicitViewID {
		t.Errorf("ViewID = %d, want implicit view", ev.ViewID)
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !f.eng.Deinitialized() {
		t.Error("engine not deinitialized after shutdown")
	}
}

// TestRunDispatchesConfigure tests that a compositor configure event
// reaches the engine as window metrics and is acknowledged.
func TestRunDispatchesConfigure(t *testing.T) {
	f := newFixture(t)
	stop := startLoop(t, f)

	waitFor(t, "initial metrics", func() bool { return len(f.eng.Metrics()) >= 1 })

	f.surface.Configure(21, 2560, 1440)
	waitFor(t, "configure metrics", func() bool { return len(f.eng.Metrics()) >= 2 })

	ev := f.eng.Metrics()[1]
	if ev.Width != 2560 || ev.Height != 1440 {
		t.Errorf("metrics = %dx%d, want 2560x1440", ev.Width, ev.Height)
	}
	waitFor(t, "configure ack", func() bool {
		acks := f.surface.Acks()
		return len(acks) == 1 && acks[0] == 21
	})

	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

// TestRunExecutesPostedTasks tests that engine-posted tasks run on the
// loop thread, due tasks promptly and deferred ones after their deadline.
func TestRunExecutesPostedTasks(t *testing.T) {
	f := newFixture(t)
	f.eng.SetCurrentTime(1_000)
	stop := startLoop(t, f)

	f.emb.PostTask(engine.Task{Handle: 1}, 0)
	waitFor(t, "due task", func() bool { return len(f.eng.RanTasks()) == 1 })

	f.emb.PostTask(engine.Task{Handle: 2}, 2_000)
	f.eng.SetCurrentTime(3_000)
	// The deadline timer was armed from the old clock; a due post forces
	// a re-pump.
	f.emb.PostTask(engine.Task{Handle: 3}, 0)
	waitFor(t, "deferred task", func() bool { return len(f.eng.RanTasks()) == 3 })

	tasks := f.eng.RanTasks()
	if tasks[0].Handle != 1 {
		t.Errorf("tasks[0] = %d, want 1", tasks[0].Handle)
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

// TestRunStopsOnSurfaceClose tests that compositor-initiated closure
// shuts the session down cleanly.
func TestRunStopsOnSurfaceClose(t *testing.T) {
	f := newFixture(t)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- f.emb.Run(ctx) }()

	waitFor(t, "engine running", func() bool { return f.eng.Running() })
	f.surface.RequestClose()

	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v, want nil on surface close", err)
	}
	if !f.eng.Deinitialized() {
		t.Error("engine not deinitialized after surface close")
	}
}

// TestRunStopsOnFatalPresent tests that a fatal callback error ends the
// session with that error.
func TestRunStopsOnFatalPresent(t *testing.T) {
	f := newFixture(t)

	done := make(chan error, 1)
	go func() { done <- f.emb.Run(context.Background()) }()
	waitFor(t, "engine running", func() bool { return f.eng.Running() })

	// A present against a never-created store is a bookkeeping bug and
	// must kill the session.
	f.emb.PresentView(engine.PresentViewInfo{
		ViewID: engine.ImplicitViewID,
		Layers: []*engine.Layer{{
			Type:         engine.LayerContentBackingStore,
			BackingStore: &engine.BackingStore{},
		}},
	})

	err := <-done
	if err == nil {
		t.Fatal("Run() = nil, want fatal present error")
	}
}

// TestRunRequiresEngine tests that Run refuses to start detached.
func TestRunRequiresEngine(t *testing.T) {
	f := newFixture(t)
	f.emb.AttachEngine(nil)

	if err := f.emb.Run(context.Background()); !errors.Is(err, embedder.ErrNoEngine) {
		t.Errorf("Run() error = %v, want ErrNoEngine", err)
	}
}
