package bridge

// BrailleCell is one refreshable braille cell: a byte whose bits 1..8
// (value 0x01..0x80) encode dots 1..8 per ISO 11548-1.
type BrailleCell byte

// Dot bit values, named per the conventional braille dot numbering:
//
//	1 4
//	2 5
//	3 6
//	7 8
const (
	Dot1 BrailleCell = 1 << iota
	Dot2
	Dot3
	Dot4
	Dot5
	Dot6
	Dot7
	Dot8

	DotsNone = BrailleCell(0)
	DotsAll  = Dot1 | Dot2 | Dot3 | Dot4 | Dot5 | Dot6 | Dot7 | Dot8
)

// HasDot reports whether d is set in the cell.
func (c BrailleCell) HasDot(d BrailleCell) bool { return c&d != 0 }

// WithDot returns c with d set.
func (c BrailleCell) WithDot(d BrailleCell) BrailleCell { return c | d }

// String renders the cell as a dash-joined dot-number list, e.g. "1-3-5",
// or "(0)" for the empty cell, matching the dot-list notation the
// text-table and key-table compilers accept on input (spec §4.1).
func (c BrailleCell) String() string {
	if c == DotsNone {
		return "(0)"
	}
	out := make([]byte, 0, 16)
	for i := 0; i < 8; i++ {
		if c&(1<<uint(i)) != 0 {
			if len(out) > 0 {
				out = append(out, '-')
			}
			out = append(out, byte('1'+i))
		}
	}
	return string(out)
}

// Attribute describes the display attributes of one ScreenCharacter: a
// foreground/background color pair (0-7, matching an 8-color text
// console palette) plus blink/intensify flags. It is copied verbatim from
// the ScreenSource; the core never blends or interpolates colors.
type Attribute struct {
	Foreground uint8 // 0-7
	Background uint8 // 0-7
	Blink      bool
	Intensify  bool
}

// ScreenCharacter is one cell of a ScreenRegion: a Unicode code point plus
// its display attribute.
type ScreenCharacter struct {
	Rune rune
	Attr Attribute
}
