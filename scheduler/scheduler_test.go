// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scheduler

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/layerhost/engine"
)

// fakeClock is a manually advanced engine clock.
type fakeClock struct {
	now atomic.Uint64
}

func (c *fakeClock) read() uint64 { return c.now.Load() }

func (c *fakeClock) set(t uint64) { c.now.Store(t) }

// recorder collects executed task handles in order.
type recorder struct {
	handles []uint64
	err     error
}

func (r *recorder) run(task engine.Task) error {
	r.handles = append(r.handles, task.Handle)
	return r.err
}

func task(handle uint64) engine.Task {
	return engine.Task{Handle: handle}
}

// TestPumpOrdersByTargetTime tests that tasks posted out of deadline order
// execute in nondecreasing target-time order.
func TestPumpOrdersByTargetTime(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := New(Options{Clock: clock.read, Run: rec.run})

	s.PostTask(task(1), 300)
	s.PostTask(task(2), 100)
	s.PostTask(task(3), 200)

	if wait := s.Pump(); wait != 100 {
		t.Fatalf("Pump() wait = %v, want 100ns", wait)
	}
	if len(rec.handles) != 0 {
		t.Fatalf("ran %v before any deadline", rec.handles)
	}

	clock.set(300)
	if wait := s.Pump(); wait != Forever {
		t.Fatalf("Pump() wait = %v, want Forever", wait)
	}
	want := []uint64{2, 3, 1}
	if len(rec.handles) != len(want) {
		t.Fatalf("ran %v, want %v", rec.handles, want)
	}
	for i, h := range want {
		if rec.handles[i] != h {
			t.Errorf("handles[%d] = %d, want %d", i, rec.handles[i], h)
		}
	}
}

// TestPumpRunsDueTaskImmediately tests that a task whose deadline has
// already passed at receipt executes in the same Pump, without requeueing.
func TestPumpRunsDueTaskImmediately(t *testing.T) {
	clock := &fakeClock{}
	clock.set(500)
	rec := &recorder{}
	s := New(Options{Clock: clock.read, Run: rec.run})

	s.PostTask(task(7), 100)

	select {
	case <-s.Wake():
	default:
		t.Fatal("due submission did not wake the consumer")
	}

	if wait := s.Pump(); wait != Forever {
		t.Fatalf("Pump() wait = %v, want Forever", wait)
	}
	if len(rec.handles) != 1 || rec.handles[0] != 7 {
		t.Fatalf("ran %v, want [7]", rec.handles)
	}
}

// TestPostTaskWakesOnEarlierDeadline tests that a submission with a sooner
// deadline than everything queued wakes a parked consumer.
func TestPostTaskWakesOnEarlierDeadline(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := New(Options{Clock: clock.read, Run: rec.run})

	s.PostTask(task(1), 10_000)
	s.Pump()
	select {
	case <-s.Wake():
	default:
	}

	// Later deadline than the queued head: the parked timer still covers
	// it, no wake required.
	s.PostTask(task(2), 20_000)
	select {
	case <-s.Wake():
		t.Fatal("later-deadline submission woke the consumer")
	default:
	}

	s.PostTask(task(3), 5_000)
	select {
	case <-s.Wake():
	default:
		t.Fatal("earlier-deadline submission did not wake the consumer")
	}

	if wait := s.Pump(); wait != 5_000 {
		t.Fatalf("Pump() wait = %v, want 5000ns", wait)
	}
}

// TestPumpEmptyQueueWaitsForever tests the parked-consumer wait value.
func TestPumpEmptyQueueWaitsForever(t *testing.T) {
	clock := &fakeClock{}
	s := New(Options{Clock: clock.read, Run: func(engine.Task) error { return nil }})
	if wait := s.Pump(); wait != Forever {
		t.Errorf("Pump() wait = %v, want Forever", wait)
	}
}

// TestRunErrorReported tests that task failures reach OnError and do not
// stop later tasks from running.
func TestRunErrorReported(t *testing.T) {
	clock := &fakeClock{}
	clock.set(100)
	rec := &recorder{err: errors.New("engine rejected task")}

	var reported []error
	s := New(Options{
		Clock:   clock.read,
		Run:     rec.run,
		OnError: func(err error) { reported = append(reported, err) },
	})

	s.PostTask(task(1), 10)
	s.PostTask(task(2), 20)
	s.Pump()

	if len(rec.handles) != 2 {
		t.Fatalf("ran %v, want both tasks despite errors", rec.handles)
	}
	if len(reported) != 2 {
		t.Fatalf("reported %d errors, want 2", len(reported))
	}
	if !errors.Is(reported[0], rec.err) {
		t.Errorf("reported[0] = %v, want %v", reported[0], rec.err)
	}
}

// TestRunsTasksOnCurrentThread tests thread-affinity reporting across
// goroutines pinned to distinct OS threads.
func TestRunsTasksOnCurrentThread(t *testing.T) {
	clock := &fakeClock{}
	s := New(Options{Clock: clock.read, Run: func(engine.Task) error { return nil }})

	if s.RunsTasksOnCurrentThread() {
		t.Error("RunsTasksOnCurrentThread() = true before adoption")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	s.AdoptCurrentThread()

	if !s.RunsTasksOnCurrentThread() {
		t.Error("RunsTasksOnCurrentThread() = false on the owning thread")
	}

	result := make(chan bool)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		result <- s.RunsTasksOnCurrentThread()
	}()
	if <-result {
		t.Error("RunsTasksOnCurrentThread() = true on a foreign thread")
	}
}

// TestCrossThreadSubmission tests that tasks posted from another goroutine
// execute on the pumping thread in deadline order.
func TestCrossThreadSubmission(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := New(Options{Clock: clock.read, Run: rec.run})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := uint64(1); i <= 50; i++ {
			s.PostTask(task(i), i*10)
		}
	}()
	<-done

	clock.set(1_000)
	s.Pump()

	if len(rec.handles) != 50 {
		t.Fatalf("ran %d tasks, want 50", len(rec.handles))
	}
	for i := 1; i < len(rec.handles); i++ {
		if rec.handles[i] < rec.handles[i-1] {
			t.Fatalf("handles out of deadline order at %d: %v", i, rec.handles[:i+1])
		}
	}
}

// TestWakeCoalesces tests that many due submissions collapse into a single
// pending wake rather than blocking the posting thread.
func TestWakeCoalesces(t *testing.T) {
	clock := &fakeClock{}
	clock.set(100)
	rec := &recorder{}
	s := New(Options{Clock: clock.read, Run: rec.run})

	for i := uint64(0); i < 100; i++ {
		s.PostTask(task(i), 0)
	}

	select {
	case <-s.Wake():
	case <-time.After(time.Second):
		t.Fatal("no wake pending after due submissions")
	}
	select {
	case <-s.Wake():
		t.Fatal("more than one wake pending")
	default:
	}

	s.Pump()
	if len(rec.handles) != 100 {
		t.Fatalf("ran %d tasks, want 100", len(rec.handles))
	}
}
