// Copyright 2026 The braillebridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package update implements the render loop that keeps the braille
// output consistent with (window, screen, translator, preferences)
// without doing more work than necessary (spec §4.4).
package update

import "github.com/brltty-go/bridge"

// trackCursor repositions w so that (col, row) is visible, applying the
// sliding/skip-blank-windows policy (spec §4.4 step 3).
func trackCursor(w *bridge.Window, col, row int, desc bridge.ScreenDescription, sliding bool, isBlank func(left, width int) bool, skipBlank bool) {
	w.SetRow(row, desc.Columns, desc.Rows)
	if w.Contains(col, row) {
		return
	}
	if sliding {
		slideTo(w, col, desc, isBlank, skipBlank)
		return
	}
	panTo(w, col, desc, isBlank, skipBlank)
}

// panTo jumps directly to the window-width-aligned block containing col
// (the non-sliding policy: windows advance in fixed Width-sized steps).
func panTo(w *bridge.Window, col int, desc bridge.ScreenDescription, isBlank func(left, width int) bool, skipBlank bool) {
	if w.Width <= 0 {
		w.Width = desc.Columns
	}
	left := (col / w.Width) * w.Width
	if skipBlank && isBlank != nil {
		left = skipBlankWindows(left, w.Width, desc.Columns, isBlank)
	}
	w.PanTo(left, desc.Columns, desc.Rows)
}

// slideTo moves the window by whatever distance brings col into view,
// not necessarily a whole window width (the sliding policy permits
// fractional pans, spec §4.4).
func slideTo(w *bridge.Window, col int, desc bridge.ScreenDescription, isBlank func(left, width int) bool, skipBlank bool) {
	left := w.OriginX
	switch {
	case col < left:
		left = col
	case col >= left+w.Width:
		left = col - w.Width + 1
	}
	if skipBlank && isBlank != nil {
		left = skipBlankWindows(left, w.Width, desc.Columns, isBlank)
	}
	w.PanTo(left, desc.Columns, desc.Rows)
}

// skipBlankWindows advances left past any window whose visible
// characters are all whitespace, stopping at the first non-blank window
// or the right edge of the screen (spec §4.4: "advances past windows
// whose visible characters are all whitespace when panning").
func skipBlankWindows(left, width, columns int, isBlank func(left, width int) bool) int {
	for left+width < columns && isBlank(left, width) {
		left += width
	}
	return left
}
