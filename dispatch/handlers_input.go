package dispatch

import "github.com/brltty-go/bridge"

// InputHandler implements the `input` standard handler (spec §4.3):
// PASSKEY/PASSCHAR/PASSDOTS injection and virtual-terminal switching.
// Sticky-modifier flags already ride on the Command (attached by
// keytable.Matcher.emit); this handler only has to pass them through to
// the ScreenSource.
type InputHandler struct {
	Screen  bridge.ScreenSource
	OnVT    func(n int) // called after every SWITCHVT, whether or not the switch succeeded, e.g. matcher.OnVTSwitch
}

func NewInputHandler(screen bridge.ScreenSource, onVT func(int)) *InputHandler {
	return &InputHandler{Screen: screen, OnVT: onVT}
}

func (h *InputHandler) Name() string { return "input" }

func (h *InputHandler) HandleCommand(_ Context, cmd bridge.Command) bool {
	switch cmd.Block() {
	case bridge.BlockPassChar:
		if h.Screen != nil {
			h.Screen.InsertKey(rune(cmd.Arg()))
		}
		return true
	case bridge.BlockPassKey, bridge.BlockPassDots:
		// Dot patterns and raw key codes are delivered to the host the
		// same way as a character once resolved to a rune by the
		// driver-specific key map; the argument already carries that
		// rune for both blocks in this core.
		if h.Screen != nil {
			h.Screen.InsertKey(rune(cmd.Arg()))
		}
		return true
	case bridge.BlockSwitchVT:
		n := int(cmd.Arg())
		if h.Screen != nil {
			// A failed switch is still consumed here; nothing else would
			// handle it either, and pending keys are cleared regardless.
			_ = h.Screen.SwitchVirtualTerminal(n)
		}
		if h.OnVT != nil {
			h.OnVT(n)
		}
		return true
	}
	return false
}
