// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scheduler

import (
	"container/heap"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/gogpu/layerhost/engine"
)

// Forever is the wait Pump returns when no task is queued.
const Forever = time.Duration(math.MaxInt64)

// noDeadline marks an empty queue in the published earliest deadline.
const noDeadline = math.MaxUint64

// Clock returns the current engine time in nanoseconds.
type Clock func() uint64

// Runner executes one engine task.
type Runner func(engine.Task) error

// PendingTask pairs an engine task with its target execution time on the
// engine clock.
type PendingTask struct {
	Task       engine.Task
	TargetTime uint64
}

// Options configures a Scheduler.
type Options struct {
	// Clock supplies the engine time. Required.
	Clock Clock

	// Run executes a due task. Required.
	Run Runner

	// OnError receives task-execution failures. The receiver decides
	// whether a failure is fatal to the session; the scheduler keeps
	// processing either way. May be nil.
	OnError func(error)

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Scheduler orders engine-posted tasks by target time and executes them
// on its owning thread.
//
// PostTask and RunsTasksOnCurrentThread are safe to call from any thread.
// Pump, and therefore all task execution and every queue mutation, must
// happen on the owning thread only; ownership is claimed with
// AdoptCurrentThread. Exclusive access to the queue is structural, not
// locked: there is exactly one consumer.
type Scheduler struct {
	clock   Clock
	run     Runner
	onError func(error)
	log     *zap.Logger

	// wake has capacity 1; sends coalesce while the consumer is busy.
	wake chan struct{}

	// ownerTID is the thread id recorded by AdoptCurrentThread.
	ownerTID atomic.Int64

	// mu guards inbox and next. next is the earliest queued deadline the
	// consumer last published (noDeadline when empty); PostTask compares
	// against it to decide whether the consumer must be woken.
	mu    sync.Mutex
	inbox []PendingTask
	next  uint64

	// queue is touched only by the owning thread.
	queue taskQueue
}

// New returns a Scheduler. It panics if Clock or Run is nil, mirroring
// the construction-time contract of the engine callback table.
func New(opts Options) *Scheduler {
	if opts.Clock == nil || opts.Run == nil {
		panic("scheduler: Options.Clock and Options.Run are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		clock:   opts.Clock,
		run:     opts.Run,
		onError: opts.OnError,
		log:     log,
		wake:    make(chan struct{}, 1),
		next:    noDeadline,
	}
}

// AdoptCurrentThread records the calling thread as the scheduler's owning
// thread. The caller must have locked the goroutine to its OS thread
// first; the event loop does this before entering its select.
func (s *Scheduler) AdoptCurrentThread() {
	s.ownerTID.Store(int64(unix.Gettid()))
}

// RunsTasksOnCurrentThread reports whether the calling thread is the
// owning thread. The engine requires this predicate for task categories
// that must execute on the platform thread.
func (s *Scheduler) RunsTasksOnCurrentThread() bool {
	tid := s.ownerTID.Load()
	return tid != 0 && tid == int64(unix.Gettid())
}

// Wake is the consumer's wake channel. The event loop selects on it
// alongside its deadline timer.
func (s *Scheduler) Wake() <-chan struct{} {
	return s.wake
}

// PostTask submits a task for execution at targetTime. It never blocks
// and never executes the task on the calling thread: execution is always
// deferred to the owning thread, which guarantees thread affinity.
func (s *Scheduler) PostTask(task engine.Task, targetTime uint64) {
	now := s.clock()

	s.mu.Lock()
	s.inbox = append(s.inbox, PendingTask{Task: task, TargetTime: targetTime})
	// Wake only when the task is already due or becomes the new earliest
	// deadline; otherwise the consumer's current timer is still correct.
	needWake := targetTime <= now || targetTime < s.next
	s.mu.Unlock()

	if needWake {
		s.notify()
	}
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pump drains the inbox and executes every due task, then returns how
// long the owning thread may sleep before the next deadline, Forever when
// nothing is queued. Must be called from the owning thread after every
// wake, whether the timer elapsed or Wake fired.
func (s *Scheduler) Pump() time.Duration {
	for {
		s.runDue()

		s.mu.Lock()
		if len(s.inbox) > 0 {
			pending := s.inbox
			s.inbox = nil
			s.mu.Unlock()
			for _, pt := range pending {
				s.receive(pt)
			}
			continue
		}

		// Publish the earliest deadline under the same lock submissions
		// take, so a concurrent PostTask either lands in the inbox we
		// just saw empty (and wakes us) or compares against this value.
		var wait time.Duration
		if s.queue.Len() == 0 {
			s.next = noDeadline
			wait = Forever
		} else {
			next := s.queue.tasks[0].TargetTime
			s.next = next
			if now := s.clock(); next > now {
				wait = time.Duration(next - now)
			}
		}
		s.mu.Unlock()
		return wait
	}
}

// receive handles one submission on the owning thread: a task already at
// or past its deadline runs immediately and is never queued.
func (s *Scheduler) receive(pt PendingTask) {
	if pt.TargetTime <= s.clock() {
		s.execute(pt.Task)
		return
	}
	heap.Push(&s.queue, pt)
}

// runDue pops and executes queued tasks whose deadline has been reached,
// in nondecreasing target-time order.
func (s *Scheduler) runDue() {
	for s.queue.Len() > 0 {
		if s.queue.tasks[0].TargetTime > s.clock() {
			return
		}
		pt := heap.Pop(&s.queue).(PendingTask)
		s.execute(pt.Task)
	}
}

func (s *Scheduler) execute(task engine.Task) {
	if err := s.run(task); err != nil {
		s.log.Error("engine task failed",
			zap.Uint64("task", task.Handle),
			zap.Error(err))
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// taskQueue is a min-heap over target time. Ties keep arbitrary order;
// the engine only requires nondecreasing execution.
type taskQueue struct {
	tasks []PendingTask
}

func (q *taskQueue) Len() int { return len(q.tasks) }

func (q *taskQueue) Less(i, j int) bool {
	return q.tasks[i].TargetTime < q.tasks[j].TargetTime
}

func (q *taskQueue) Swap(i, j int) {
	q.tasks[i], q.tasks[j] = q.tasks[j], q.tasks[i]
}

func (q *taskQueue) Push(x any) {
	q.tasks = append(q.tasks, x.(PendingTask))
}

func (q *taskQueue) Pop() any {
	old := q.tasks
	n := len(old)
	pt := old[n-1]
	q.tasks = old[:n-1]
	return pt
}

var _ heap.Interface = (*taskQueue)(nil)
