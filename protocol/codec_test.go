package protocol

import (
	"testing"

	"github.com/brltty-go/bridge"
)

func TestVersionRoundTrip(t *testing.T) {
	got, err := DecodeVersion(EncodeVersion(3))
	if err != nil {
		t.Fatalf("DecodeVersion: %v", err)
	}
	if got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestAuthTypesRoundTrip(t *testing.T) {
	kinds := []AuthKind{AuthNone, AuthKeyfile, AuthPolkit}
	got, err := DecodeAuthTypes(EncodeAuthTypes(kinds))
	if err != nil {
		t.Fatalf("DecodeAuthTypes: %v", err)
	}
	if len(got) != len(kinds) {
		t.Fatalf("got %v, want %v", got, kinds)
	}
	for i := range kinds {
		if got[i] != kinds[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], kinds[i])
		}
	}
}

func TestParameterRequestRoundTrip(t *testing.T) {
	want := ParameterRequest{ID: bridge.ParamClipboardContent, Subparam: 2, SelfNotify: true, Value: bridge.StringValue("hi")}
	got, err := DecodeParameterRequest(EncodeParameterRequest(want))
	if err != nil {
		t.Fatalf("DecodeParameterRequest: %v", err)
	}
	if got.ID != want.ID || got.Subparam != want.Subparam || got.SelfNotify != want.SelfNotify {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParameterUpdateRoundTrip(t *testing.T) {
	want := ParameterUpdateFrame{ID: bridge.ParamDriverName, Subparam: 0, Value: bridge.StringValue("mockdriver")}
	got, err := DecodeParameterUpdate(EncodeParameterUpdate(want))
	if err != nil {
		t.Fatalf("DecodeParameterUpdate: %v", err)
	}
	if got.ID != want.ID || got.Value.String() != want.Value.String() {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPathRoundTrip(t *testing.T) {
	want := []int{1, 2, 3}
	path, _, err := decodePath(encodePath(want))
	if err != nil {
		t.Fatalf("decodePath: %v", err)
	}
	if len(path) != len(want) {
		t.Fatalf("got %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, path[i], want[i])
		}
	}
}

func TestWriteRequestRoundTrip(t *testing.T) {
	want := WriteRequest{
		Region:    bridge.Box{Left: 1, Top: 2, Width: 3, Height: 1},
		Cells:     []bridge.BrailleCell{1, 2, 3},
		Text:      "abc",
		CursorCol: 1,
		CursorRow: 0,
		Charset:   "utf-8",
	}
	got, err := decodeWriteRequest(encodeWriteRequest(want))
	if err != nil {
		t.Fatalf("decodeWriteRequest: %v", err)
	}
	if got.Region != want.Region || got.Text != want.Text || len(got.Cells) != len(want.Cells) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRangeListRoundTrip(t *testing.T) {
	want := []KeyRange{{Min: 0, Max: 10}, {Min: 100, Max: 200}}
	got, err := decodeRangeList(encodeRangeList(want))
	if err != nil {
		t.Fatalf("decodeRangeList: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Min != want[i].Min || got[i].Max != want[i].Max {
			t.Fatalf("index %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeUint32ShortPayload(t *testing.T) {
	if _, _, err := decodeUint32([]byte{1, 2}); err == nil {
		t.Fatal("expected error for short payload")
	}
}
