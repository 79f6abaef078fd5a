package texttable

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/brltty-go/bridge"
)

// maxAliasSteps bounds alias-chain traversal (spec §4.1, §8 "Alias
// termination"): cellOf must terminate within 16 steps for every input.
const maxAliasSteps = 16

// undefinedCell is what CellOf returns when every resolution step in
// spec §4.1 fails: the cell for U+FFFD if defined, else '?', else all
// eight dots raised.
func (t *Table) undefinedCell() bridge.BrailleCell {
	if e, ok := t.lookup('�'); ok {
		return e.cell
	}
	if e, ok := t.lookup('?'); ok {
		return e.cell
	}
	return bridge.DotsAll
}

// CellOf returns the dot pattern bridge should display for ch, following
// the resolution order of spec §4.1:
//
//  1. the Unicode Braille Patterns row maps directly to its low byte;
//  2. a direct/trie mapping;
//  3. an alias chain, followed for at most 16 steps with cycle
//     detection;
//  4. (if enabled) compatibility-decompose ch and retry 1-3 on the base
//     character;
//  5. transliterate ch to a single ASCII byte and recurse;
//  6. the cell for U+FFFD, else '?', else all eight dots.
func (t *Table) CellOf(ch rune) bridge.BrailleCell {
	if cell, ok := t.cellOfDirectOrAlias(ch); ok {
		return cell
	}
	if t.BaseFallback {
		if base, ok := decomposeBase(ch); ok && base != ch {
			if cell, ok := t.cellOfDirectOrAlias(base); ok {
				return cell
			}
		}
	}
	if b, ok := transliterateByte(ch); ok && rune(b) != ch {
		if cell, ok := t.cellOfDirectOrAlias(rune(b)); ok {
			return cell
		}
	}
	return t.undefinedCell()
}

// cellOfDirectOrAlias implements resolution steps 1-3: braille-row
// passthrough, direct/trie lookup, and alias-chain following.
func (t *Table) cellOfDirectOrAlias(ch rune) (bridge.BrailleCell, bool) {
	if ch >= brailleRowFirst && ch <= brailleRowLast {
		return bridge.BrailleCell(ch & 0xFF), true
	}
	if e, ok := t.lookup(ch); ok {
		return e.cell, true
	}
	// Alias chain: a small ring of visited code points guards against
	// cycles. On re-visit we abort the chain rather than loop.
	var visited [maxAliasSteps + 1]rune
	visited[0] = ch
	n := 1
	cur := ch
	for steps := 0; steps < maxAliasSteps; steps++ {
		target, ok := t.aliases[cur]
		if !ok {
			return bridge.BrailleCell(0), false
		}
		for i := 0; i < n; i++ {
			if visited[i] == target {
				return bridge.BrailleCell(0), false
			}
		}
		if n <= maxAliasSteps {
			visited[n] = target
			n++
		}
		if e, ok := t.lookup(target); ok {
			return e.cell, true
		}
		cur = target
	}
	return bridge.BrailleCell(0), false
}

// decomposeBase returns the base character of ch's compatibility
// decomposition (its first, non-combining rune), used by resolution
// step 4.
func decomposeBase(ch rune) (rune, bool) {
	decomposed := norm.NFKD.String(string(ch))
	for _, r := range decomposed {
		return r, true
	}
	return ch, false
}

// transliterateByte attempts to represent ch as a single Windows-1252
// byte, the concrete technique behind resolution step 5 ("transliterate
// to a single ASCII byte").
func transliterateByte(ch rune) (byte, bool) {
	enc := charmap.Windows1252.NewEncoder()
	out, err := enc.String(string(ch))
	if err != nil || len(out) != 1 {
		return 0, false
	}
	return out[0], true
}
