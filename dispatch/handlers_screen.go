package dispatch

import "github.com/brltty-go/bridge"

// ScreenHandler implements the `screen` standard handler (spec §4.3):
// panning, cursor-tracking toggle, and cursor routing.
type ScreenHandler struct {
	Session *bridge.Session
	Screen  bridge.ScreenSource
}

func NewScreenHandler(session *bridge.Session, screen bridge.ScreenSource) *ScreenHandler {
	return &ScreenHandler{Session: session, Screen: screen}
}

func (h *ScreenHandler) Name() string { return "screen" }

func (h *ScreenHandler) HandleCommand(_ Context, cmd bridge.Command) bool {
	if cmd.Block() != bridge.BlockScreen {
		return false
	}
	desc, err := h.describe()
	if err != nil {
		return true
	}
	w := &h.Session.Window
	switch cmd {
	case bridge.CmdPanLeft:
		w.PanBy(-w.Width, desc.Columns, desc.Rows)
	case bridge.CmdPanRight:
		w.PanBy(w.Width, desc.Columns, desc.Rows)
	case bridge.CmdRowUp:
		w.SetRow(w.OriginY-1, desc.Columns, desc.Rows)
	case bridge.CmdRowDown:
		w.SetRow(w.OriginY+1, desc.Columns, desc.Rows)
	case bridge.CmdTrackToggle:
		h.Session.TrackCursor = !h.Session.TrackCursor
	case bridge.CmdRouteCursor:
		col := w.OriginX + int(cmd.Arg())
		if h.Screen != nil {
			h.Screen.RouteCursor(col, w.OriginY, h.Session.VT)
		}
	default:
		return false
	}
	return true
}

func (h *ScreenHandler) describe() (bridge.ScreenDescription, error) {
	if h.Screen == nil {
		return bridge.ScreenDescription{}, bridge.NewError(bridge.KindResource, "screen.describe", bridge.ErrNoDriver)
	}
	return h.Screen.Describe()
}
