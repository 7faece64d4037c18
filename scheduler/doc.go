// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scheduler bridges the engine's thread-affine task-posting
// protocol onto the embedder's single event-loop thread.
//
// The engine posts tasks from arbitrary internal threads; each task
// carries a target timestamp on the engine clock. The scheduler defers
// every submission through a cross-thread inbox, and the owning thread
// drains the inbox and a deadline-ordered queue from its event loop,
// executing tasks in nondecreasing target-time order. A submission whose
// deadline beats everything currently queued wakes a sleeping consumer so
// it recomputes its wait instead of sleeping out a stale timer.
package scheduler
