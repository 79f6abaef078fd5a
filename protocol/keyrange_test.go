package protocol

import "testing"

func TestRangeSetAllowsWithinRange(t *testing.T) {
	s := NewRangeSet()
	s.Add(10, 20, false)
	if !s.Allows(15) {
		t.Fatal("expected 15 to be allowed")
	}
	if s.Allows(25) {
		t.Fatal("expected 25 to be rejected (not in accept set)")
	}
}

func TestRangeSetRejectOverridesAccept(t *testing.T) {
	s := NewRangeSet()
	s.Add(0, 100, false)
	s.Add(40, 50, true)
	if s.Allows(45) {
		t.Fatal("expected reject range to override accept")
	}
	if !s.Allows(10) {
		t.Fatal("expected 10 to remain allowed")
	}
}

func TestRangeSetMergesAdjacentRanges(t *testing.T) {
	s := NewRangeSet()
	s.Add(0, 9, false)
	s.Add(10, 19, false)
	if len(s.accept) != 1 {
		t.Fatalf("expected adjacent ranges to merge into one, got %d", len(s.accept))
	}
	if !s.Allows(15) {
		t.Fatal("expected merged range to allow 15")
	}
}

func TestRangeSetRemove(t *testing.T) {
	s := NewRangeSet()
	s.Add(0, 9, false)
	s.Remove(0, 9, false)
	if s.Allows(5) {
		t.Fatal("expected removed range to no longer allow 5")
	}
}
