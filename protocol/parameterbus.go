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

	"github.com/brltty-go/bridge"
)

// watchKey identifies one watcher registration: a (paramId, subparam,
// clientId) triple (spec §4.5.7).
type watchKey struct {
	id       bridge.ParamID
	subparam int
	client   *Client
}

// ParameterBus tracks per-client watches over the shared bridge.Bus and
// the current value of each parameter instance, and pushes
// parameterUpdate frames to matching watchers on change.
type ParameterBus struct {
	mu       sync.Mutex
	values   map[bridge.ParamKey]bridge.Value
	watchers map[watchKey]bool // value is the self-notify flag
	busToken int
	bus      *bridge.Bus
}

// NewParameterBus subscribes to bus and returns a ParameterBus that
// mirrors bridge.ReportParameterUpdated reports into watcher pushes.
func NewParameterBus(bus *bridge.Bus) *ParameterBus {
	p := &ParameterBus{
		values:   make(map[bridge.ParamKey]bridge.Value),
		watchers: make(map[watchKey]bool),
		bus:      bus,
	}
	p.busToken = bus.Subscribe(p.onReport)
	return p
}

// Close unsubscribes from the underlying bus.
func (p *ParameterBus) Close() {
	p.bus.Unsubscribe(p.busToken)
}

func (p *ParameterBus) onReport(r bridge.Report) {
	if r.Name != bridge.ReportParameterUpdated {
		return
	}
	update, ok := r.Payload.(bridge.ParamUpdate)
	if !ok {
		return
	}
	p.Set(update.Key.ID, update.Key.Subpram, update.Value, nil)
}

// Watch registers client's interest in (id, subparam). selfNotify
// controls whether client receives pushes triggered by its own
// setParameter calls (spec §4.5.7). It returns the parameter's current
// value, to be sent back as watchParameter's reply.
func (p *ParameterBus) Watch(id bridge.ParamID, subparam int, client *Client, selfNotify bool) bridge.Value {
	key := bridge.ParamKey{ID: id, Subpram: subparam}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchers[watchKey{id: id, subparam: subparam, client: client}] = selfNotify
	return p.values[key]
}

// Unwatch removes client's watch on (id, subparam), e.g. on disconnect.
func (p *ParameterBus) Unwatch(id bridge.ParamID, subparam int, client *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.watchers, watchKey{id: id, subparam: subparam, client: client})
}

// UnwatchAll removes every watch held by client, called on disconnect.
func (p *ParameterBus) UnwatchAll(client *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k := range p.watchers {
		if k.client == client {
			delete(p.watchers, k)
		}
	}
}

// Get returns the current value for (id, subparam).
func (p *ParameterBus) Get(id bridge.ParamID, subparam int) bridge.Value {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[bridge.ParamKey{ID: id, Subpram: subparam}]
}

// Set stores a new value for (id, subparam) and pushes parameterUpdate
// frames to every matching watcher, skipping writer when writer set the
// value itself unless that watcher registered with self-notify. It
// rejects a value whose Kind disagrees with id's declared kind with
// ErrParameter, storing nothing.
func (p *ParameterBus) Set(id bridge.ParamID, subparam int, value bridge.Value, writer *Client) error {
	if declared, ok := bridge.ParamKind(id); ok && declared != value.Kind {
		return bridge.NewError(bridge.KindInput, "protocol.setParameter", ErrParameter)
	}
	key := bridge.ParamKey{ID: id, Subpram: subparam}
	p.mu.Lock()
	p.values[key] = value.Clone()
	p.mu.Unlock()
	p.Notify(key, value, writer)
	return nil
}

// Notify pushes value to every client watching key, honoring self-notify
// for writer (pass nil if the change did not originate from a client).
func (p *ParameterBus) Notify(key bridge.ParamKey, value bridge.Value, writer *Client) {
	p.mu.Lock()
	recipients := make([]*Client, 0, len(p.watchers))
	for k, selfNotify := range p.watchers {
		if k.id != key.ID || k.subparam != key.Subpram {
			continue
		}
		if k.client == writer && !selfNotify {
			continue
		}
		recipients = append(recipients, k.client)
	}
	p.mu.Unlock()

	update := ParameterUpdateFrame{ID: key.ID, Subparam: key.Subpram, Value: value.Clone()}
	for _, c := range recipients {
		c.pushParameterUpdate(update)
	}
}
