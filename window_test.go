package bridge

import "testing"

func TestWindowSnapFillsZeroWidthAndHeight(t *testing.T) {
	w := Window{}
	w.Snap(40, 25)
	if w.Width != 40 {
		t.Errorf("Width = %d, want 40", w.Width)
	}
	if w.Height != 1 {
		t.Errorf("Height = %d, want 1", w.Height)
	}
}

func TestWindowSnapClampsOversizeWidth(t *testing.T) {
	w := Window{Width: 100}
	w.Snap(40, 25)
	if w.Width != 40 {
		t.Errorf("Width = %d, want clamped to 40", w.Width)
	}
}

func TestWindowSnapPullsBackOriginX(t *testing.T) {
	w := Window{OriginX: 30, Width: 20}
	w.Snap(40, 25)
	if w.OriginX != 20 {
		t.Errorf("OriginX = %d, want 20 (40-20)", w.OriginX)
	}
}

func TestWindowSnapClampsNegativeOrigin(t *testing.T) {
	w := Window{OriginX: -5, OriginY: -5, Width: 10}
	w.Snap(40, 25)
	if w.OriginX != 0 {
		t.Errorf("OriginX = %d, want 0", w.OriginX)
	}
	if w.OriginY != 0 {
		t.Errorf("OriginY = %d, want 0", w.OriginY)
	}
}

func TestWindowSnapClampsRowBeyondScreen(t *testing.T) {
	w := Window{OriginY: 30, Width: 10}
	w.Snap(40, 25)
	if w.OriginY != 24 {
		t.Errorf("OriginY = %d, want 24 (25-1)", w.OriginY)
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{OriginX: 10, OriginY: 2, Width: 20, Height: 1}
	if !w.Contains(15, 2) {
		t.Error("Contains(15, 2) = false, want true")
	}
	if w.Contains(5, 2) {
		t.Error("Contains(5, 2) = true, want false")
	}
	if w.Contains(15, 3) {
		t.Error("Contains(15, 3) = true, want false (wrong row)")
	}
}

func TestWindowPanByMovesAndClamps(t *testing.T) {
	w := Window{OriginX: 0, Width: 20}
	w.PanBy(10, 40, 25)
	if w.OriginX != 10 {
		t.Errorf("OriginX after PanBy(10) = %d, want 10", w.OriginX)
	}
	w.PanBy(-100, 40, 25)
	if w.OriginX != 0 {
		t.Errorf("OriginX after PanBy(-100) = %d, want clamped to 0", w.OriginX)
	}
}

func TestWindowSetRowReSnaps(t *testing.T) {
	w := Window{Width: 10}
	w.SetRow(3, 40, 25)
	if w.OriginY != 3 {
		t.Errorf("OriginY = %d, want 3", w.OriginY)
	}
}

func TestWindowBox(t *testing.T) {
	w := Window{OriginX: 1, OriginY: 2, Width: 3, Height: 4}
	got := w.Box()
	want := Box{Left: 1, Top: 2, Width: 3, Height: 4}
	if got != want {
		t.Errorf("Box() = %+v, want %+v", got, want)
	}
}
