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

// Package keytable compiles a declarative key-binding file into an
// automaton that recognises single keys, chords, and hold/long-press
// sequences across multiple contexts, and matches live KeyEvents against
// it (spec §4.2).
package keytable

import (
	"sort"

	"github.com/brltty-go/bridge"
)

// Context names a scope in the key table (default, menu, help, waiting,
// ...) that selects the active binding set. The zero value is the root
// context and has no parent.
type Context string

const RootContext Context = ""

// BindFlag marks special binding semantics.
type BindFlag uint8

const (
	BindNone BindFlag = 0
	BindHold BindFlag = 1 << iota
	BindRepeat
	BindHotkey
)

// Chord is an unordered set of key identifiers: one immediate key plus
// zero or more held modifier keys (spec §3). Chords compare by value, so
// two Chords built from the same keys in different orders are equal.
type Chord struct {
	keys map[bridge.KeyID]bool
}

// NewChord builds a Chord from the given keys.
func NewChord(keys ...bridge.KeyID) Chord {
	c := Chord{keys: make(map[bridge.KeyID]bool, len(keys))}
	for _, k := range keys {
		c.keys[k] = true
	}
	return c
}

// Add returns a new Chord with k added.
func (c Chord) Add(k bridge.KeyID) Chord {
	nc := NewChord()
	for existing := range c.keys {
		nc.keys[existing] = true
	}
	nc.keys[k] = true
	return nc
}

// Len reports how many keys are in the chord.
func (c Chord) Len() int { return len(c.keys) }

// canonical returns a deterministic, sorted string key usable as a map
// key for this Chord, since Go maps can't be keyed by maps directly.
func (c Chord) canonical() string {
	ids := make([]bridge.KeyID, 0, len(c.keys))
	for k := range c.keys {
		ids = append(ids, k)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Group != ids[j].Group {
			return ids[i].Group < ids[j].Group
		}
		return ids[i].Number < ids[j].Number
	})
	buf := make([]byte, 0, len(ids)*8)
	for _, id := range ids {
		buf = append(buf, byte(id.Group), byte(id.Number>>8), byte(id.Number))
	}
	return string(buf)
}

// Binding is one compiled entry: a chord bound to a command within a
// context, with optional hold/repeat/hotkey semantics (spec §3).
type Binding struct {
	Context Context
	Chord   Chord
	Command bridge.Command
	Flags   BindFlag
	// ReleaseCommand fires when a `hold` binding's key set is released
	// (the Held state's exit action, spec §4.2).
	ReleaseCommand bridge.Command
	HasRelease     bool
}

// Table is an immutable compiled key table: for each (context, chord) a
// single Binding, plus context inheritance edges.
type Table struct {
	bindings map[Context]map[string]*Binding
	parents  map[Context]Context
	names    map[bridge.KeyID]string
}

func newTable() *Table {
	return &Table{
		bindings: make(map[Context]map[string]*Binding),
		parents:  make(map[Context]Context),
		names:    make(map[bridge.KeyID]string),
	}
}

// Lookup finds the Binding for chord starting in ctx and walking parent
// contexts up to the root, per spec §4.2's lookup algorithm. The
// compiler rejects duplicate (context, chord) pairs so there is never a
// tie to break.
func (t *Table) Lookup(ctx Context, chord Chord) (*Binding, bool) {
	key := chord.canonical()
	for {
		if m, ok := t.bindings[ctx]; ok {
			if b, ok := m[key]; ok {
				return b, true
			}
		}
		parent, ok := t.parents[ctx]
		if !ok || parent == ctx {
			return nil, false
		}
		ctx = parent
	}
}

// Parent returns ctx's parent context and whether one is registered.
func (t *Table) Parent(ctx Context) (Context, bool) {
	p, ok := t.parents[ctx]
	return p, ok
}

// KeyName returns the declared name for a KeyID, if any.
func (t *Table) KeyName(id bridge.KeyID) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}
