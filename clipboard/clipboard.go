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

// Package clipboard implements the process-wide shared clipboard buffer
// plus its bounded history (spec §4.6).
package clipboard

import (
	"sync"

	"github.com/brltty-go/bridge"
)

// DefaultHistoryDepth bounds how many prior buffers are retained.
const DefaultHistoryDepth = 8

// Clipboard is the single shared buffer plus a bounded history stack,
// guarded by one lock (spec §3, §5). Every observable change publishes
// CLIPBOARD_CONTENT to bus so parameter watchers learn of it.
type Clipboard struct {
	mu      sync.Mutex
	buffer  []rune
	history [][]rune
	depth   int
	bus     *bridge.Bus
}

// New returns an empty Clipboard that publishes changes on bus. bus may
// be nil, in which case changes are not published (useful in tests).
func New(bus *bridge.Bus) *Clipboard {
	return &Clipboard{depth: DefaultHistoryDepth, bus: bus}
}

// Get returns the current buffer contents as a string.
func (c *Clipboard) Get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.buffer)
}

// Set replaces the buffer wholesale, pushing the previous contents onto
// history.
func (c *Clipboard) Set(text string) {
	c.mu.Lock()
	c.pushHistoryLocked()
	c.buffer = []rune(text)
	c.mu.Unlock()
	c.notify()
}

// Append adds text to the end of the buffer without touching history
// (an append is not itself a new clipboard "version").
func (c *Clipboard) Append(text string) {
	c.mu.Lock()
	c.buffer = append(c.buffer, []rune(text)...)
	c.mu.Unlock()
	c.notify()
}

// Cut replaces the buffer with text, equivalent to Set; kept as a
// distinct name because the command-dispatch `clipboard` handler (spec
// §4.3) issues CUT and APPEND as separate commands against the same
// underlying operation.
func (c *Clipboard) Cut(text string) { c.Set(text) }

// History returns the buffer as it stood `index` changes ago (0 is the
// most recent prior version), or ("", false) if index is out of range.
func (c *Clipboard) History(index int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.history) {
		return "", false
	}
	// history[0] is the oldest pushed so far if we append; store most
	// recent at the end and index from the end to honor "0 is most
	// recent prior version".
	return string(c.history[len(c.history)-1-index]), true
}

// Paste restores the buffer to a given history index, pushing the
// current buffer onto history first.
func (c *Clipboard) Paste(index int) bool {
	c.mu.Lock()
	if index < 0 || index >= len(c.history) {
		c.mu.Unlock()
		return false
	}
	prior := c.history[len(c.history)-1-index]
	c.pushHistoryLocked()
	c.buffer = append([]rune(nil), prior...)
	c.mu.Unlock()
	c.notify()
	return true
}

func (c *Clipboard) pushHistoryLocked() {
	if len(c.buffer) == 0 {
		return
	}
	c.history = append(c.history, append([]rune(nil), c.buffer...))
	if len(c.history) > c.depth {
		c.history = c.history[len(c.history)-c.depth:]
	}
}

func (c *Clipboard) notify() {
	if c.bus == nil {
		return
	}
	c.bus.Publish(bridge.Report{
		Name: bridge.ReportParameterUpdated,
		Payload: bridge.ParamUpdate{
			Key:   bridge.ParamKey{ID: bridge.ParamClipboardContent},
			Value: bridge.StringValue(c.Get()),
		},
	})
}
