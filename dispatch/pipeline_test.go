package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/brltty-go/bridge"
	"github.com/rs/zerolog"
)

func newTestHandler(name string, block bridge.Block, out *[]bridge.Command) Handler {
	return NewHandlerFunc(name, func(_ Context, cmd bridge.Command) bool {
		if cmd.Block() != block {
			return false
		}
		*out = append(*out, cmd)
		return true
	})
}

func TestDispatchStopsAtFirstHandler(t *testing.T) {
	var miscSeen, prefSeen []bridge.Command
	handlers := []Handler{
		newTestHandler("miscellaneous", bridge.BlockMisc, &miscSeen),
		newTestHandler("preferences", bridge.BlockPreferences, &prefSeen),
	}
	p := NewPipeline(NewQueue(), nil, handlers, ContextDefault, zerolog.Nop())

	if !p.DispatchOne(bridge.CmdHelp) {
		t.Fatalf("expected CmdHelp to be handled")
	}
	if len(miscSeen) != 1 || len(prefSeen) != 0 {
		t.Fatalf("expected only the misc handler to see CmdHelp, got misc=%d pref=%d", len(miscSeen), len(prefSeen))
	}
}

func TestDispatchRejectsUnknownCommand(t *testing.T) {
	bus := bridge.NewBus()
	var rejected int
	bus.Subscribe(func(r bridge.Report) {
		if r.Name == bridge.ReportCommandRejected {
			rejected++
		}
	})
	p := NewPipeline(NewQueue(), bus, nil, ContextDefault, zerolog.Nop())
	if p.DispatchOne(bridge.CmdHelp) {
		t.Fatalf("expected no handler to consume the command")
	}
	if rejected != 1 {
		t.Fatalf("got %d rejections, want 1", rejected)
	}
}

func TestPushPopEnvironment(t *testing.T) {
	p := NewPipeline(NewQueue(), nil, nil, ContextDefault, zerolog.Nop())
	if p.CurrentName() != "base" {
		t.Fatalf("CurrentName() = %q, want base", p.CurrentName())
	}
	if !p.PushEnvironment("menu", nil, ContextMenu) {
		t.Fatalf("PushEnvironment failed")
	}
	if p.CurrentContext() != ContextMenu {
		t.Fatalf("CurrentContext() = %v, want ContextMenu", p.CurrentContext())
	}
	if !p.PopEnvironment() {
		t.Fatalf("PopEnvironment failed")
	}
	if p.CurrentName() != "base" {
		t.Fatalf("after pop, CurrentName() = %q, want base", p.CurrentName())
	}
	if p.PopEnvironment() {
		t.Fatalf("popping the base environment should fail")
	}
}

func TestQueueSuspendResume(t *testing.T) {
	q := NewQueue()
	q.Suspend()
	q.Enqueue(bridge.CmdRefresh)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, ok := q.Dequeue(ctx); ok {
		t.Fatalf("Dequeue should block while suspended")
	}

	q.Resume()
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	cmd, ok := q.Dequeue(ctx2)
	if !ok || cmd != bridge.CmdRefresh {
		t.Fatalf("Dequeue after resume = %v, %v, want CmdRefresh, true", cmd, ok)
	}
}

func TestQueuePriorityOrdering(t *testing.T) {
	q := NewQueue()
	q.Enqueue(bridge.CmdHelp)
	q.EnqueuePriority(bridge.CmdRefresh)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cmd, ok := q.Dequeue(ctx)
	if !ok || cmd != bridge.CmdRefresh {
		t.Fatalf("first dequeue = %v, %v, want CmdRefresh, true", cmd, ok)
	}
	cmd, ok = q.Dequeue(ctx)
	if !ok || cmd != bridge.CmdHelp {
		t.Fatalf("second dequeue = %v, %v, want CmdHelp, true", cmd, ok)
	}
}
