package dispatch

import "github.com/brltty-go/bridge"

// MiscHandler implements the `miscellaneous` standard handler (spec
// §4.3): help screen, time, restart, refresh.
type MiscHandler struct {
	Pipeline     *Pipeline
	HelpHandlers func() []Handler
	ShowTime     func()
	Restart      func()
	Refresh      func()
}

func NewMiscHandler(p *Pipeline, helpHandlers func() []Handler, showTime, restart, refresh func()) *MiscHandler {
	return &MiscHandler{Pipeline: p, HelpHandlers: helpHandlers, ShowTime: showTime, Restart: restart, Refresh: refresh}
}

func (h *MiscHandler) Name() string { return "miscellaneous" }

func (h *MiscHandler) HandleCommand(_ Context, cmd bridge.Command) bool {
	if cmd.Block() != bridge.BlockMisc {
		return false
	}
	switch cmd {
	case bridge.CmdHelp:
		var handlers []Handler
		if h.HelpHandlers != nil {
			handlers = h.HelpHandlers()
		}
		h.Pipeline.PushEnvironment("help", handlers, ContextHelp)
	case bridge.CmdTime:
		if h.ShowTime != nil {
			h.ShowTime()
		}
	case bridge.CmdRestart:
		if h.Restart != nil {
			h.Restart()
		}
	case bridge.CmdRefresh:
		if h.Refresh != nil {
			h.Refresh()
		}
	default:
		return false
	}
	return true
}
