package bridge

// ScreenRegion is a rectangular snapshot of host screen content, produced
// on demand by a ScreenSource. The core never owns or caches a
// ScreenRegion beyond a single render pass (spec §3).
type ScreenRegion struct {
	Columns      int
	Rows         int
	CursorColumn int
	CursorRow    int
	VirtualTerm  int
	Characters   []ScreenCharacter // len == Rows*Columns, row-major
}

// At returns the character at (col, row), or the zero ScreenCharacter if
// out of bounds.
func (r *ScreenRegion) At(col, row int) ScreenCharacter {
	if col < 0 || row < 0 || col >= r.Columns || row >= r.Rows {
		return ScreenCharacter{}
	}
	return r.Characters[row*r.Columns+col]
}

// Box is a rectangular sub-region of a screen, in screen coordinates.
type Box struct {
	Left, Top, Width, Height int
}

// ScreenDescription summarizes a screen without transferring its
// character content; returned by ScreenSource.Describe.
type ScreenDescription struct {
	Columns      int
	Rows         int
	CursorColumn int
	CursorRow    int
	Number       int // virtual-terminal number
	Unreadable   bool
}

// ScreenSource is the abstract screen-capture backend the core consumes.
// Concrete implementations (talking to a console driver, a PTY, a remote
// framebuffer, ...) are outside the core's scope (spec §1); the core only
// ever calls these six methods.
type ScreenSource interface {
	// Describe reports the current screen's dimensions, cursor position
	// and VT number without transferring character content.
	Describe() (ScreenDescription, error)

	// ReadRegion returns the characters within box. The returned slice
	// has box.Width*box.Height entries in row-major order.
	ReadRegion(box Box) ([]ScreenCharacter, error)

	// InsertKey synthesizes a keypress on the host, as if typed at the
	// real keyboard.
	InsertKey(key rune) error

	// RouteCursor moves the host's text cursor to (col, row) on the
	// given virtual terminal.
	RouteCursor(col, row, screen int) error

	// SwitchVirtualTerminal requests that the host switch its active
	// virtual terminal/console to n.
	SwitchVirtualTerminal(n int) error

	// SelectVirtualTerminal changes which VT this ScreenSource reads
	// from for subsequent Describe/ReadRegion calls, without changing
	// which VT is actually active on the host.
	SelectVirtualTerminal(n int) error
}
