package bridge

// Window is a logical viewport over a screen. It never straddles a row:
// every render pass operates on exactly one row band at a time, panning
// left/right within it and switching rows independently (spec §3).
type Window struct {
	OriginX int
	OriginY int
	Width   int
	Height  int
}

// Snap clamps the window so it satisfies the invariants in spec §3:
//
//	0 <= OriginX, OriginX+Width <= columns
//	0 <= OriginY < rows
//
// It is idempotent and safe to call after any mutation (resize, pan,
// row change).
func (w *Window) Snap(columns, rows int) {
	if w.Width <= 0 {
		w.Width = columns
	}
	if w.Width > columns {
		w.Width = columns
	}
	if w.Height <= 0 {
		w.Height = 1
	}
	if w.OriginX < 0 {
		w.OriginX = 0
	}
	if w.OriginX+w.Width > columns {
		w.OriginX = columns - w.Width
		if w.OriginX < 0 {
			w.OriginX = 0
		}
	}
	if rows <= 0 {
		w.OriginY = 0
		return
	}
	if w.OriginY < 0 {
		w.OriginY = 0
	}
	if w.OriginY >= rows {
		w.OriginY = rows - 1
	}
}

// Box returns the Box this window currently covers.
func (w *Window) Box() Box {
	return Box{Left: w.OriginX, Top: w.OriginY, Width: w.Width, Height: w.Height}
}

// Contains reports whether (col, row) lies within the window.
func (w *Window) Contains(col, row int) bool {
	return row >= w.OriginY && row < w.OriginY+w.Height &&
		col >= w.OriginX && col < w.OriginX+w.Width
}

// PanTo moves the window to originate at col on its current row, then
// re-snaps against the given screen dimensions.
func (w *Window) PanTo(col, columns, rows int) {
	w.OriginX = col
	w.Snap(columns, rows)
}

// PanBy moves the window horizontally by delta columns (negative moves
// left), then re-snaps.
func (w *Window) PanBy(delta, columns, rows int) {
	w.OriginX += delta
	w.Snap(columns, rows)
}

// SetRow moves the window to row, then re-snaps.
func (w *Window) SetRow(row, columns, rows int) {
	w.OriginY = row
	w.Snap(columns, rows)
}
