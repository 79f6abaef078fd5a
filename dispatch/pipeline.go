package dispatch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/brltty-go/bridge"
)

// maxEnvironmentDepth bounds the command-environment stack. Spec §4.3
// only requires nesting to at least 8 levels; this is a generous
// multiple of that meant to catch a runaway push/pop imbalance rather
// than a real UI need.
const maxEnvironmentDepth = 32

// environment is one pushed command-environment frame: its own handler
// stack and context (spec §4.3, "a handler may call
// pushCommandEnvironment(name) to temporarily replace the stack and the
// context").
type environment struct {
	name     string
	handlers []Handler
	context  Context
}

// Pipeline is the command-dispatch pipeline: it owns a Queue, a stack of
// command environments (the base one installed at construction, plus
// any pushed modal ones), and runs the dispatch loop.
type Pipeline struct {
	queue  *Queue
	bus    *bridge.Bus
	logger zerolog.Logger

	mu    sync.Mutex
	stack []environment
}

// NewPipeline returns a Pipeline whose base environment uses handlers
// (evaluated top to bottom, i.e. in slice order) under the given
// default context. A zero Logger discards all output.
func NewPipeline(queue *Queue, bus *bridge.Bus, handlers []Handler, defaultContext Context, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		queue:  queue,
		bus:    bus,
		logger: logger,
		stack:  []environment{{name: "base", handlers: handlers, context: defaultContext}},
	}
}

// PushEnvironment replaces the active handler stack and context with a
// new modal one (e.g. entering the help screen or preferences menu).
// Reports false without pushing if the stack is already at its depth
// limit.
func (p *Pipeline) PushEnvironment(name string, handlers []Handler, ctx Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.stack) >= maxEnvironmentDepth {
		return false
	}
	p.stack = append(p.stack, environment{name: name, handlers: handlers, context: ctx})
	p.logger.Debug().Str("environment", name).Int("depth", len(p.stack)).Msg("pushed command environment")
	return true
}

// PopEnvironment restores the previously active environment. It is a
// no-op (returns false) on the base environment, which cannot be popped.
func (p *Pipeline) PopEnvironment() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.stack) <= 1 {
		return false
	}
	p.stack = p.stack[:len(p.stack)-1]
	return true
}

// CurrentName reports the name of the active environment.
func (p *Pipeline) CurrentName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stack[len(p.stack)-1].name
}

// CurrentContext reports the active environment's Context, consulted
// by keytable.Matcher.SetContext to keep key lookups aligned with the
// current modal UI.
func (p *Pipeline) CurrentContext() Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stack[len(p.stack)-1].context
}

func (p *Pipeline) currentHandlers() []Handler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stack[len(p.stack)-1].handlers
}

// AppendHandlers adds handlers to the end of the base environment's
// handler stack (index 0), for handlers like `preferences` and
// `miscellaneous` that need the Pipeline itself to construct.
func (p *Pipeline) AppendHandlers(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stack[0].handlers = append(p.stack[0].handlers, handlers...)
}

// DispatchOne runs one command through the active environment's handler
// stack top to bottom, stopping at the first handler that returns true.
// If no handler consumes it, COMMAND_REJECTED is published (spec §4.3
// step 4). Returns whether some handler consumed cmd.
func (p *Pipeline) DispatchOne(cmd bridge.Command) bool {
	ctx := p.CurrentContext()
	for _, h := range p.currentHandlers() {
		if h.HandleCommand(ctx, cmd) {
			return true
		}
	}
	p.logger.Debug().Uint32("command", uint32(cmd)).Msg("command rejected: no handler consumed it")
	if p.bus != nil {
		p.bus.Publish(bridge.Report{Name: bridge.ReportCommandRejected, Payload: cmd})
	}
	return false
}

// Run drains the queue until ctx is cancelled or the queue is closed,
// dispatching each command as it arrives.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		cmd, ok := p.queue.Dequeue(ctx)
		if !ok {
			return
		}
		p.DispatchOne(cmd)
	}
}
