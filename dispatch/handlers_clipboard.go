package dispatch

import (
	"github.com/brltty-go/bridge"
	"github.com/brltty-go/bridge/clipboard"
)

// Selection supplies the text a cut/append command should act on; the
// screen handler (or a protocol client) resolves the actual selected
// range and stages it here before the CUT/APPEND command is enqueued.
type Selection interface {
	PendingText() string
}

// ClipboardHandler implements the `clipboard` standard handler (spec
// §4.3, §4.6): cut/append/paste and history recall.
type ClipboardHandler struct {
	Board     *clipboard.Clipboard
	Selection Selection
	Paste     func(text string) // delivers pasted text to the host, e.g. via ScreenSource.InsertKey per rune
}

func NewClipboardHandler(board *clipboard.Clipboard, sel Selection, paste func(string)) *ClipboardHandler {
	return &ClipboardHandler{Board: board, Selection: sel, Paste: paste}
}

func (h *ClipboardHandler) Name() string { return "clipboard" }

func (h *ClipboardHandler) HandleCommand(_ Context, cmd bridge.Command) bool {
	if cmd.Block() != bridge.BlockClipboard {
		return false
	}
	switch cmd {
	case bridge.CmdClipCut:
		h.Board.Cut(h.text())
	case bridge.CmdClipAppend:
		h.Board.Append(h.text())
	case bridge.CmdClipPaste:
		if h.Paste != nil {
			h.Paste(h.Board.Get())
		}
	case bridge.CmdClipHist:
		if text, ok := h.Board.History(int(cmd.Arg())); ok && h.Paste != nil {
			h.Paste(text)
		}
	default:
		return false
	}
	return true
}

func (h *ClipboardHandler) text() string {
	if h.Selection == nil {
		return ""
	}
	return h.Selection.PendingText()
}
