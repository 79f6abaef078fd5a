package bridge

import "testing"

func TestBusPublishDeliversToAllListeners(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(func(r Report) { got = append(got, "a:"+string(r.Name)) })
	b.Subscribe(func(r Report) { got = append(got, "b:"+string(r.Name)) })

	b.Publish(Report{Name: ReportDeviceOnline})

	want := []string{"a:" + string(ReportDeviceOnline), "b:" + string(ReportDeviceOnline)}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Publish delivered %v, want %v", got, want)
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	calls := 0
	id := b.Subscribe(func(Report) { calls++ })
	b.Publish(Report{Name: ReportCommandRejected})
	b.Unsubscribe(id)
	b.Publish(Report{Name: ReportCommandRejected})

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no delivery after Unsubscribe)", calls)
	}
}

func TestBusUnsubscribeIsIdempotent(t *testing.T) {
	b := NewBus()
	id := b.Subscribe(func(Report) {})
	b.Unsubscribe(id)
	b.Unsubscribe(id) // must not panic
}

func TestBusPublishCarriesPayload(t *testing.T) {
	b := NewBus()
	var got any
	b.Subscribe(func(r Report) { got = r.Payload })
	b.Publish(Report{Name: ReportParameterUpdated, Payload: ParamKey{ID: ParamCellCount}})

	key, ok := got.(ParamKey)
	if !ok || key.ID != ParamCellCount {
		t.Errorf("Payload = %#v, want ParamKey{ID: ParamCellCount}", got)
	}
}
