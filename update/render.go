package update

import (
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/brltty-go/bridge"
	"github.com/brltty-go/bridge/texttable"
)

// CursorPattern is the dot pattern overlaid on the cell under the screen
// cursor when showScreenCursor is enabled (spec §4.4 step 4). Dots 7-8
// form the conventional BRLTTY cursor underline.
const CursorPattern = bridge.Dot7 | bridge.Dot8

// RenderPass is the pure, side-effect-free half of step 4 of the render
// pass (spec §4.4): translating a row of ScreenCharacters into the
// BrailleCell slice that will be written to the display.
type RenderPass struct {
	Table            *texttable.Table
	ShowScreenCursor bool
	BlinkOn          bool
}

// Render produces one BrailleCell per character in chars (row-major,
// already clipped to the window) after coalesceCombining has dropped
// combining marks, overlaying the cursor pattern at
// cursorCol if it falls within range and showScreenCursor/blink allow
// it, and the textual rendering alongside it.
func (p *RenderPass) Render(chars []bridge.ScreenCharacter, cursorCol int, cursorVisible bool) ([]bridge.BrailleCell, string) {
	cells := make([]bridge.BrailleCell, 0, len(chars))
	text := make([]rune, 0, len(chars))

	coalesced := coalesceCombining(chars)
	for i, ch := range coalesced {
		cell := p.Table.CellOf(ch.Rune)
		if ch.Attr.Blink && !p.BlinkOn {
			cell = bridge.DotsNone
		}
		if p.ShowScreenCursor && cursorVisible && i == cursorCol {
			cell = cell.WithDot(CursorPattern)
		}
		cells = append(cells, cell)
		text = append(text, ch.Rune)
	}
	return cells, string(text)
}

// coalesceCombining merges a combining mark into the preceding base
// character's cell slot, since a single BrailleCell can only stand for
// one grapheme. go-runewidth's zero-width classification identifies
// combining marks without a full grapheme-cluster segmenter.
func coalesceCombining(chars []bridge.ScreenCharacter) []bridge.ScreenCharacter {
	out := make([]bridge.ScreenCharacter, 0, len(chars))
	for _, ch := range chars {
		if len(out) > 0 && isCombining(ch.Rune) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func isCombining(r rune) bool {
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
		return true
	}
	return runewidth.RuneWidth(r) == 0 && r != 0
}
