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

// Package alarm provides cancellable, idempotent scheduled callbacks, the
// primitive behind long-press timers, the sticky-modifier reset timer and
// the update loop's refresh quantum (spec §5: "every scheduled alarm has
// a handle that can be cancelled; cancellation is idempotent").
package alarm

import (
	"sync"
	"time"
)

// Handle is a cancellable alarm. Its zero value is a no-op handle that is
// already "cancelled", matching tcell's debounce-timer pattern in
// resize.go generalized to a reusable named type.
type Handle struct {
	mu     sync.Mutex
	timer  *time.Timer
	active bool
}

// After schedules fn to run after d, returning a Handle that can cancel
// it. fn runs on its own goroutine, as with time.AfterFunc.
func After(d time.Duration, fn func()) *Handle {
	h := &Handle{active: true}
	h.timer = time.AfterFunc(d, func() {
		h.mu.Lock()
		wasActive := h.active
		h.active = false
		h.mu.Unlock()
		if wasActive {
			fn()
		}
	})
	return h
}

// Cancel stops the alarm if it hasn't fired yet. Idempotent: cancelling
// an already-cancelled or already-fired Handle is a no-op.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.active = false
	t := h.timer
	h.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

// Active reports whether the alarm is still armed.
func (h *Handle) Active() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Repeating schedules fn to run every d until Cancel is called. The
// first invocation happens after d, matching auto-repeat semantics
// (spec §4.2 "keep re-emitting at the auto-repeat rate").
func Repeating(d time.Duration, fn func()) *Handle {
	h := &Handle{active: true}
	var tick func()
	tick = func() {
		h.mu.Lock()
		active := h.active
		h.mu.Unlock()
		if !active {
			return
		}
		fn()
		h.mu.Lock()
		if h.active {
			h.timer = time.AfterFunc(d, tick)
		}
		h.mu.Unlock()
	}
	h.timer = time.AfterFunc(d, tick)
	return h
}
