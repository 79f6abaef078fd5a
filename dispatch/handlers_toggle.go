package dispatch

import "github.com/brltty-go/bridge"

// ToggleSetter flips a single boolean preference, returning its new
// value.
type ToggleSetter func(on bool) bool

// ToggleHandler implements the `toggle` standard handler (spec §4.3):
// every boolean preference command carries FlagToggleOn or
// FlagToggleOff, and its Arg identifies which preference via ParamID.
type ToggleHandler struct {
	setters map[bridge.ParamID]ToggleSetter
}

func NewToggleHandler() *ToggleHandler {
	return &ToggleHandler{setters: make(map[bridge.ParamID]ToggleSetter)}
}

// Register binds a ParamID to the function that applies its toggle.
func (h *ToggleHandler) Register(id bridge.ParamID, setter ToggleSetter) {
	h.setters[id] = setter
}

func (h *ToggleHandler) Name() string { return "toggle" }

func (h *ToggleHandler) HandleCommand(_ Context, cmd bridge.Command) bool {
	if cmd.Block() != bridge.BlockToggle {
		return false
	}
	setter, ok := h.setters[bridge.ParamID(cmd.Arg())]
	if !ok {
		return false
	}
	switch {
	case cmd.Has(bridge.FlagToggleOn):
		setter(true)
	case cmd.Has(bridge.FlagToggleOff):
		setter(false)
	default:
		// bare toggle (neither flag): applied as on; the setter receives
		// the same argument as for FlagToggleOn.
		setter(true)
	}
	return true
}
