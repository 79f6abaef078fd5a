package bridge

import (
	"errors"
	"testing"
)

func TestErrorMessageWithAndWithoutCause(t *testing.T) {
	bare := NewError(KindAuth, "protocol.authenticate", nil)
	if got, want := bare.Error(), "protocol.authenticate: auth"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := NewError(KindTransport, "protocol.read", errors.New("connection reset"))
	if got, want := wrapped.Error(), "protocol.read: transport: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := NewError(KindResource, "dispatch.enqueue", cause)
	if !errors.Is(e, cause) {
		t.Error("errors.Is did not find the wrapped cause")
	}
}

func TestIsKind(t *testing.T) {
	e := NewError(KindProtocol, "protocol.frame", nil)
	if !IsKind(e, KindProtocol) {
		t.Error("IsKind(e, KindProtocol) = false, want true")
	}
	if IsKind(e, KindInput) {
		t.Error("IsKind(e, KindInput) = true, want false")
	}
	if IsKind(errors.New("plain"), KindInput) {
		t.Error("IsKind on a non-*Error = true, want false")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindInput, "input"},
		{KindTransport, "transport"},
		{KindProtocol, "protocol"},
		{KindAuth, "auth"},
		{KindResource, "resource"},
		{KindProgrammer, "programmer"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
