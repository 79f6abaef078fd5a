package dispatch

import "github.com/brltty-go/bridge"

// PreferencesStore is the persistence boundary the `preferences` handler
// depends on; config.Config satisfies it.
type PreferencesStore interface {
	Save() error
	Load() error
	Reset()
}

// PreferencesHandler implements the `preferences` standard handler
// (spec §4.3): menu enter/exit, save, load, reset. Entering the menu
// pushes a modal command environment; exiting pops it.
type PreferencesHandler struct {
	Pipeline    *Pipeline
	Store       PreferencesStore
	MenuHandlers func() []Handler
	Bus         *bridge.Bus
}

func NewPreferencesHandler(p *Pipeline, store PreferencesStore, menuHandlers func() []Handler, bus *bridge.Bus) *PreferencesHandler {
	return &PreferencesHandler{Pipeline: p, Store: store, MenuHandlers: menuHandlers, Bus: bus}
}

func (h *PreferencesHandler) Name() string { return "preferences" }

func (h *PreferencesHandler) HandleCommand(_ Context, cmd bridge.Command) bool {
	if cmd.Block() != bridge.BlockPreferences {
		return false
	}
	switch cmd {
	case bridge.CmdMenuEnter:
		var handlers []Handler
		if h.MenuHandlers != nil {
			handlers = h.MenuHandlers()
		}
		h.Pipeline.PushEnvironment("menu", handlers, ContextMenu)
	case bridge.CmdMenuExit:
		h.Pipeline.PopEnvironment()
	case bridge.CmdPrefSave:
		h.reject(h.Store.Save())
	case bridge.CmdPrefLoad:
		h.reject(h.Store.Load())
	case bridge.CmdPrefReset:
		h.Store.Reset()
	default:
		return false
	}
	return true
}

func (h *PreferencesHandler) reject(err error) {
	if err == nil || h.Bus == nil {
		return
	}
	h.Bus.Publish(bridge.Report{Name: bridge.ReportCommandRejected, Payload: err})
}
