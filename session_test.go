package bridge

import "testing"

func TestSessionRegistryGetCreatesDefault(t *testing.T) {
	r := NewSessionRegistry()
	s := r.Get(3)
	if s.VT != 3 {
		t.Errorf("VT = %d, want 3", s.VT)
	}
	if !s.TrackCursor || !s.ShowScreenCursor {
		t.Error("a freshly created session should track and show the cursor by default")
	}
	if s.DisplayMode != DisplayText {
		t.Errorf("DisplayMode = %v, want DisplayText", s.DisplayMode)
	}
}

func TestSessionRegistryGetReturnsSameInstance(t *testing.T) {
	r := NewSessionRegistry()
	a := r.Get(1)
	a.Sliding = true
	b := r.Get(1)
	if !b.Sliding {
		t.Error("Get(1) returned a different Session on the second call")
	}
}

func TestSessionRegistryDestroyResetsCurrent(t *testing.T) {
	r := NewSessionRegistry()
	r.Get(2)
	r.SetCurrent(2)
	r.Destroy(2)
	if r.CurrentVT() != 0 {
		t.Errorf("CurrentVT() after destroying the current VT = %d, want 0", r.CurrentVT())
	}
	if _, ok := r.sessions[2]; ok {
		t.Error("Destroy(2) left the session in the map")
	}
}

func TestSessionRegistryCurrentTracksSetCurrent(t *testing.T) {
	r := NewSessionRegistry()
	r.SetCurrent(5)
	if got := r.Current().VT; got != 5 {
		t.Errorf("Current().VT = %d, want 5", got)
	}
}
