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

// Package texttable translates between Unicode code points and 8-dot
// braille cells for display and for textual search within clients
// (spec §4.1). A Table is immutable once compiled; Compile is the only
// way to produce one.
package texttable

import "github.com/brltty-go/bridge"

// brailleRowFirst and brailleRowLast bound the Unicode Braille Patterns
// block (U+2800-U+28FF), whose low byte is already a dot pattern.
const (
	brailleRowFirst = rune(0x2800)
	brailleRowLast  = rune(0x28FF)
)

type cellEntry struct {
	cell    bridge.BrailleCell
	defined bool
	aliased bool
}

// rowNode holds up to 256 cell entries, one per low byte of a code point.
type rowNode struct {
	cells [256]cellEntry
}

// planeNode holds up to 256 rows.
type planeNode struct {
	rows map[uint8]*rowNode
}

// groupNode holds up to 256 planes. In practice only group 0 is ever
// populated (valid runes top out at U+10FFFF), but the structure mirrors
// spec §3's literal "group -> plane -> row -> cell" description.
type groupNode struct {
	planes map[uint8]*planeNode
}

// Table is an immutable compiled text table: a direct cell->rune map, a
// sparse code-point->cell trie, and an alias chain table.
type Table struct {
	groups map[uint8]*groupNode

	// byCell is the direct 256-entry map from cell value to best
	// Unicode character (spec §3).
	byCell    [256]rune
	cellKnown [256]bool

	// aliases maps a code point to the code point it aliases, one hop
	// at a time; cellOf follows the chain (see alias.go).
	aliases map[rune]rune

	// BaseFallback enables decomposing a character to its base form
	// when no direct/trie/alias mapping exists (resolution step 4).
	BaseFallback bool
}

func newTable() *Table {
	return &Table{
		groups:  make(map[uint8]*groupNode),
		aliases: make(map[rune]rune),
	}
}

func splitRune(r rune) (group, plane, row, col uint8) {
	u := uint32(r)
	return uint8(u >> 24), uint8(u >> 16), uint8(u >> 8), uint8(u)
}

func (t *Table) lookup(r rune) (cellEntry, bool) {
	group, plane, row, col := splitRune(r)
	g, ok := t.groups[group]
	if !ok {
		return cellEntry{}, false
	}
	p, ok := g.planes[plane]
	if !ok {
		return cellEntry{}, false
	}
	rw, ok := p.rows[row]
	if !ok {
		return cellEntry{}, false
	}
	e := rw.cells[col]
	return e, e.defined
}

func (t *Table) insert(r rune, cell bridge.BrailleCell, aliased bool) {
	group, plane, row, col := splitRune(r)
	g, ok := t.groups[group]
	if !ok {
		g = &groupNode{planes: make(map[uint8]*planeNode)}
		t.groups[group] = g
	}
	p, ok := g.planes[plane]
	if !ok {
		p = &planeNode{rows: make(map[uint8]*rowNode)}
		g.planes[plane] = p
	}
	rw, ok := p.rows[row]
	if !ok {
		rw = &rowNode{}
		p.rows[row] = rw
	}
	rw.cells[col] = cellEntry{cell: cell, defined: true, aliased: aliased}
}

// IsDefined reports whether ch has a direct mapping or lies in the
// Unicode Braille Patterns row. Alias chains and the fallback steps are
// not consulted.
func (t *Table) IsDefined(ch rune) bool {
	if ch >= brailleRowFirst && ch <= brailleRowLast {
		return true
	}
	_, ok := t.lookup(ch)
	return ok
}

// CharOf is the inverse of CellOf: the Unicode character this module
// displays for a given cell pattern, or U+FFFD if undefined.
func (t *Table) CharOf(cell bridge.BrailleCell) rune {
	if t.cellKnown[cell] {
		return t.byCell[cell]
	}
	return '�'
}
