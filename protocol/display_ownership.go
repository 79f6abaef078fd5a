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

import "sync"

// DisplayOwnership arbitrates the single "raw display" owner slot
// (spec §4.5.6): ownership is granted FIFO on acquireDisplay and
// released on releaseDisplay or disconnect.
type DisplayOwnership struct {
	mu      sync.Mutex
	owner   *Client
	waiters []*Client
}

// NewDisplayOwnership returns an unowned slot.
func NewDisplayOwnership() *DisplayOwnership {
	return &DisplayOwnership{}
}

// Acquire requests ownership for c. It grants immediately if the slot is
// free, otherwise queues c FIFO and returns false; the caller is
// responsible for blocking (or not) on that outcome — this protocol has
// no queued-grant callback, and Conn acks acquireDisplay whether or not
// it was granted, so a queued acquirer must poll Owner or retry
// acquireDisplay.
func (d *DisplayOwnership) Acquire(c *Client) (granted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.owner == nil {
		d.owner = c
		c.SetOwnsDisplay(true)
		return true
	}
	if d.owner == c {
		return true
	}
	for _, w := range d.waiters {
		if w == c {
			return false
		}
	}
	d.waiters = append(d.waiters, c)
	return false
}

// Release relinquishes ownership held by c, promoting the next waiter if
// any (spec §4.5.6).
func (d *DisplayOwnership) Release(c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseLocked(c)
}

func (d *DisplayOwnership) releaseLocked(c *Client) {
	if d.owner != c {
		for i, w := range d.waiters {
			if w == c {
				d.waiters = append(d.waiters[:i], d.waiters[i+1:]...)
				break
			}
		}
		return
	}
	c.SetOwnsDisplay(false)
	d.owner = nil
	if len(d.waiters) > 0 {
		next := d.waiters[0]
		d.waiters = d.waiters[1:]
		d.owner = next
		next.SetOwnsDisplay(true)
	}
}

// Owner returns the current display owner, or nil.
func (d *DisplayOwnership) Owner() *Client {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.owner
}
