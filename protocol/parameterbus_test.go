package protocol

import (
	"net"
	"testing"
	"time"

	"github.com/brltty-go/bridge"
)

func TestParameterBusWatchReturnsCurrentValue(t *testing.T) {
	bus := bridge.NewBus()
	pb := NewParameterBus(bus)
	defer pb.Close()

	pb.Set(bridge.ParamClipboardContent, 0, bridge.StringValue("hello"), nil)
	c := &Client{}
	got := pb.Watch(bridge.ParamClipboardContent, 0, c, false)
	if got.String() != "hello" {
		t.Fatalf("got %q, want %q", got.String(), "hello")
	}
}

func TestParameterBusNotifiesOtherWatchers(t *testing.T) {
	bus := bridge.NewBus()
	pb := NewParameterBus(bus)
	defer pb.Close()

	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	writer := &Client{}
	watcher := &Client{Conn: &Conn{raw: serverSide}}
	pb.Watch(bridge.ParamClipboardContent, 0, watcher, false)

	go pb.Set(bridge.ParamClipboardContent, 0, bridge.StringValue("x"), writer)

	frame, err := ReadFrame(clientSide)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.Type != FrameParameterUpdate {
		t.Fatalf("got frame type %v, want FrameParameterUpdate", frame.Type)
	}
	update, err := DecodeParameterUpdate(frame.Payload)
	if err != nil {
		t.Fatalf("DecodeParameterUpdate: %v", err)
	}
	if update.Value.String() != "x" {
		t.Fatalf("got %q, want %q", update.Value.String(), "x")
	}
}

func TestParameterBusSelfNotifySuppressedByDefault(t *testing.T) {
	bus := bridge.NewBus()
	pb := NewParameterBus(bus)
	defer pb.Close()

	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	writer := &Client{Conn: &Conn{raw: serverSide}}
	pb.watchers[watchKey{id: bridge.ParamClipboardContent, subparam: 0, client: writer}] = false

	pb.Set(bridge.ParamClipboardContent, 0, bridge.StringValue("y"), writer)

	clientSide.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	if _, err := ReadFrame(clientSide); err == nil {
		t.Fatal("writer should not self-notify without the flag")
	}
}

func TestParameterBusUnwatchAll(t *testing.T) {
	bus := bridge.NewBus()
	pb := NewParameterBus(bus)
	defer pb.Close()

	c := &Client{}
	pb.Watch(bridge.ParamClipboardContent, 0, c, false)
	pb.Watch(bridge.ParamDriverName, 0, c, false)
	pb.UnwatchAll(c)

	if len(pb.watchers) != 0 {
		t.Fatalf("expected all watches removed, got %d", len(pb.watchers))
	}
}

func TestParameterBusGetDefaultsToZeroValue(t *testing.T) {
	bus := bridge.NewBus()
	pb := NewParameterBus(bus)
	defer pb.Close()

	v := pb.Get(bridge.ParamAudibleAlerts, 0)
	if v.Kind != bridge.ValueBool || v.B != false {
		t.Fatalf("expected zero Value, got %+v", v)
	}
}

func TestParameterBusSetRejectsWrongKind(t *testing.T) {
	bus := bridge.NewBus()
	pb := NewParameterBus(bus)
	defer pb.Close()

	if err := pb.Set(bridge.ParamAudibleAlerts, 0, bridge.StringValue("yes"), nil); err == nil {
		t.Fatal("expected an error setting a ValueString onto a ValueBool parameter")
	}
	if v := pb.Get(bridge.ParamAudibleAlerts, 0); v.Kind != bridge.ValueBool || v.B != false {
		t.Fatalf("rejected Set must not store its value, got %+v", v)
	}
}

func TestParameterBusMirrorsReportedValue(t *testing.T) {
	bus := bridge.NewBus()
	pb := NewParameterBus(bus)
	defer pb.Close()

	bus.Publish(bridge.Report{
		Name: bridge.ReportParameterUpdated,
		Payload: bridge.ParamUpdate{
			Key:   bridge.ParamKey{ID: bridge.ParamClipboardContent},
			Value: bridge.StringValue("from clipboard"),
		},
	})

	if got := pb.Get(bridge.ParamClipboardContent, 0); got.String() != "from clipboard" {
		t.Fatalf("Get() = %q, want %q", got.String(), "from clipboard")
	}
}
