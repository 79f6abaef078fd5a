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

package protocol

import (
	"sync"

	"github.com/google/uuid"

	"github.com/brltty-go/bridge"
)

// Client is one attached protocol client: its identity, TTY path, and
// the key-range set it has registered via acceptKeys/ignoreKeys (spec
// §4.5.4, §4.5.5).
type Client struct {
	ID      uuid.UUID
	Conn    *Conn
	mu      sync.Mutex
	path    []int
	ranges  *RangeSet
	ownsDisplay bool
}

// NewClient returns a Client with a fresh random ID bound to conn.
func NewClient(conn *Conn) *Client {
	return &Client{ID: uuid.New(), Conn: conn, ranges: NewRangeSet()}
}

// SetTTYPath records the path this client entered via enterTTYMode.
func (c *Client) SetTTYPath(path []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = append([]int(nil), path...)
}

// TTYPath returns the client's current TTY path.
func (c *Client) TTYPath() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.path...)
}

// Ranges returns the client's accepted/rejected key-range set.
func (c *Client) Ranges() *RangeSet {
	return c.ranges
}

// SetOwnsDisplay records whether this client currently owns raw display
// writes (spec §4.5.6).
func (c *Client) SetOwnsDisplay(owns bool) {
	c.mu.Lock()
	c.ownsDisplay = owns
	c.mu.Unlock()
}

// OwnsDisplay reports whether this client owns the display.
func (c *Client) OwnsDisplay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownsDisplay
}

// EncodeKey packs a KeyEvent into the 64-bit value key ranges are
// expressed over (spec §4.5.5: "type bits, block bits, argument bits,
// modifier flags"). The low 32 bits are the KeyID's group/number; the
// high 32 bits are reserved for modifier flags set by the caller.
func EncodeKey(k bridge.KeyID, modifiers uint32) uint64 {
	return uint64(modifiers)<<32 | uint64(uint8(k.Group))<<24 | uint64(uint32(k.Number)&0xFFFFFF)
}

// pushKey delivers an accepted key event to this client as an
// asynchronous FrameKey (spec §4.5.3). Write errors are swallowed here;
// the connection's read side will observe the broken pipe and close.
func (c *Client) pushKey(k bridge.KeyEvent) {
	if c.Conn == nil {
		return
	}
	payload := encodeUint32(uint32(k.Key.Group))
	payload = append(payload, encodeUint32(uint32(k.Key.Number))...)
	pressed := uint32(0)
	if k.Pressed {
		pressed = 1
	}
	payload = append(payload, encodeUint32(pressed)...)
	c.Conn.sendAsync(Frame{Type: FrameKey, Payload: payload})
}

// pushParameterUpdate delivers a parameterUpdate frame to this client
// (spec §4.5.7).
func (c *Client) pushParameterUpdate(u ParameterUpdateFrame) {
	if c.Conn == nil {
		return
	}
	c.Conn.sendAsync(Frame{Type: FrameParameterUpdate, Payload: EncodeParameterUpdate(u)})
}
