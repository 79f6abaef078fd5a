package bridge

import "testing"

func TestBrailleCellHasDot(t *testing.T) {
	c := Dot1 | Dot3 | Dot8
	if !c.HasDot(Dot1) || !c.HasDot(Dot3) || !c.HasDot(Dot8) {
		t.Error("HasDot false for a set dot")
	}
	if c.HasDot(Dot2) || c.HasDot(Dot7) {
		t.Error("HasDot true for an unset dot")
	}
}

func TestBrailleCellWithDot(t *testing.T) {
	c := DotsNone.WithDot(Dot5).WithDot(Dot5)
	if c != Dot5 {
		t.Errorf("WithDot = %v, want Dot5 (idempotent)", c)
	}
}

func TestBrailleCellString(t *testing.T) {
	tests := []struct {
		cell BrailleCell
		want string
	}{
		{DotsNone, "(0)"},
		{Dot1, "1"},
		{Dot1 | Dot3 | Dot5, "1-3-5"},
		{DotsAll, "1-2-3-4-5-6-7-8"},
	}
	for _, tt := range tests {
		if got := tt.cell.String(); got != tt.want {
			t.Errorf("(%08b).String() = %q, want %q", tt.cell, got, tt.want)
		}
	}
}
