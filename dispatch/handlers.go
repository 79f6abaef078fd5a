package dispatch

import "github.com/brltty-go/bridge"

// Context names the current command context (spec §4.3): set by the
// window/update-loop policy and consulted by handlers and, indirectly,
// by the keytable Matcher's binding lookup.
type Context string

const (
	ContextDefault Context = "default"
	ContextMenu    Context = "menu"
	ContextHelp    Context = "help"
	ContextWaiting Context = "waiting"
)

// Handler consumes a Command within the current Context, returning true
// if it handled it (stopping dispatch) or false to let the next handler
// in the stack try (spec §4.3 steps 2-3).
type Handler interface {
	Name() string
	HandleCommand(ctx Context, cmd bridge.Command) bool
}

// HandlerFunc adapts a plain function to the Handler interface for
// handlers with no state of their own.
type HandlerFunc struct {
	name string
	fn   func(Context, bridge.Command) bool
}

// NewHandlerFunc returns a Handler wrapping fn.
func NewHandlerFunc(name string, fn func(Context, bridge.Command) bool) *HandlerFunc {
	return &HandlerFunc{name: name, fn: fn}
}

func (h *HandlerFunc) Name() string { return h.name }
func (h *HandlerFunc) HandleCommand(ctx Context, cmd bridge.Command) bool {
	return h.fn(ctx, cmd)
}
