// Copyright 2026 The braillebridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dispatch implements the command-dispatch pipeline: a
// single-consumer FIFO queue, a stack of named handlers, and the
// standard handler set (spec §4.3).
package dispatch

import (
	"context"
	"sync"

	"github.com/brltty-go/bridge"
)

// Queue is a single-consumer, priority-over-FIFO command queue. Normal
// commands are delivered in arrival order; Priority commands (internal
// scheduler wakeups, driver-offline notices) jump ahead of any normal
// command already queued.
//
// Suspend/Resume bracket display writes so the update loop's own
// WriteWindow call cannot be re-entered by a command it triggers
// (spec §4.3, §8's at-most-one-write-in-flight invariant).
type Queue struct {
	mu        sync.Mutex
	cond      *sync.Cond
	normal    []bridge.Command
	priority  []bridge.Command
	suspended bool
	closed    bool
}

// NewQueue returns an empty, running Queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends cmd to the normal queue. It never blocks.
func (q *Queue) Enqueue(cmd bridge.Command) {
	q.mu.Lock()
	q.normal = append(q.normal, cmd)
	q.mu.Unlock()
	q.cond.Signal()
}

// EnqueuePriority appends cmd ahead of normal commands.
func (q *Queue) EnqueuePriority(cmd bridge.Command) {
	q.mu.Lock()
	q.priority = append(q.priority, cmd)
	q.mu.Unlock()
	q.cond.Signal()
}

// Suspend stops Dequeue from returning commands until Resume is called.
// Enqueue/EnqueuePriority keep accepting commands while suspended.
func (q *Queue) Suspend() {
	q.mu.Lock()
	q.suspended = true
	q.mu.Unlock()
}

// Resume allows Dequeue to resume, flushing whatever accumulated while
// suspended (spec §4.3: "resumeCommandQueue() flushes any commands
// enqueued while suspended").
func (q *Queue) Resume() {
	q.mu.Lock()
	q.suspended = false
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Close wakes any blocked Dequeue call so it returns (0, false).
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Dequeue blocks until a command is available and the queue is not
// suspended, ctx is cancelled, or the queue is closed.
func (q *Queue) Dequeue(ctx context.Context) (bridge.Command, bool) {
	done := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		close(done)
		q.cond.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.closed {
			return 0, false
		}
		select {
		case <-done:
			return 0, false
		default:
		}
		if !q.suspended {
			if len(q.priority) > 0 {
				cmd := q.priority[0]
				q.priority = q.priority[1:]
				return cmd, true
			}
			if len(q.normal) > 0 {
				cmd := q.normal[0]
				q.normal = q.normal[1:]
				return cmd, true
			}
		}
		q.cond.Wait()
	}
}

// Len reports the number of commands currently queued (priority + normal).
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.priority) + len(q.normal)
}
