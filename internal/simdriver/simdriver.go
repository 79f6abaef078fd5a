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

// Package simdriver provides a deterministic in-memory BrailleDriver and
// ScreenSource pair, intended for exercising the core and its subsystems
// without real hardware or a real console.
package simdriver

import (
	"context"
	"errors"
	"sync"

	"github.com/brltty-go/bridge"
)

// Screen is a simulated host screen: a fixed grid of ScreenCharacters
// that tests mutate directly (via Poke/Resize) and the core reads back
// through the ScreenSource interface.
type Screen struct {
	mu         sync.Mutex
	columns    int
	rows       int
	cursorCol  int
	cursorRow  int
	vt         int
	chars      []bridge.ScreenCharacter
	unreadable bool

	insertedKeys []rune
	routedCursor [3]int // col, row, screen of the last RouteCursor call
	switchedVT   int
	selectedVT   int
}

// NewScreen returns a Screen of the given size, blank-filled.
func NewScreen(columns, rows int) *Screen {
	return &Screen{
		columns: columns,
		rows:    rows,
		chars:   make([]bridge.ScreenCharacter, columns*rows),
	}
}

func (s *Screen) Describe() (bridge.ScreenDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unreadable {
		return bridge.ScreenDescription{}, errors.New("simdriver: screen unreadable")
	}
	return bridge.ScreenDescription{
		Columns:      s.columns,
		Rows:         s.rows,
		CursorColumn: s.cursorCol,
		CursorRow:    s.cursorRow,
		Number:       s.vt,
	}, nil
}

func (s *Screen) ReadRegion(box bridge.Box) ([]bridge.ScreenCharacter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unreadable {
		return nil, errors.New("simdriver: screen unreadable")
	}
	out := make([]bridge.ScreenCharacter, box.Width*box.Height)
	for row := 0; row < box.Height; row++ {
		srcRow := box.Top + row
		for col := 0; col < box.Width; col++ {
			srcCol := box.Left + col
			if srcRow < 0 || srcRow >= s.rows || srcCol < 0 || srcCol >= s.columns {
				continue
			}
			out[row*box.Width+col] = s.chars[srcRow*s.columns+srcCol]
		}
	}
	return out, nil
}

func (s *Screen) InsertKey(key rune) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertedKeys = append(s.insertedKeys, key)
	return nil
}

func (s *Screen) RouteCursor(col, row, screen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routedCursor = [3]int{col, row, screen}
	return nil
}

func (s *Screen) SwitchVirtualTerminal(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switchedVT = n
	return nil
}

func (s *Screen) SelectVirtualTerminal(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedVT = n
	s.vt = n
	return nil
}

// Poke writes a single character at (col, row), growing no bounds; out
// of range writes are silently dropped, matching how a real console
// driver would ignore an out-of-bounds paint.
func (s *Screen) Poke(col, row int, ch bridge.ScreenCharacter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col < 0 || row < 0 || col >= s.columns || row >= s.rows {
		return
	}
	s.chars[row*s.columns+col] = ch
}

// SetCursor places the screen's reported cursor position.
func (s *Screen) SetCursor(col, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorCol, s.cursorRow = col, row
}

// Resize changes the logical screen dimensions, discarding content.
func (s *Screen) Resize(columns, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns, s.rows = columns, rows
	s.chars = make([]bridge.ScreenCharacter, columns*rows)
}

// SetUnreadable makes Describe/ReadRegion fail, simulating a console
// that has gone away (e.g. a VT switch mid-read).
func (s *Screen) SetUnreadable(unreadable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unreadable = unreadable
}

// InsertedKeys returns the runes passed to InsertKey so far, in order.
func (s *Screen) InsertedKeys() []rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rune, len(s.insertedKeys))
	copy(out, s.insertedKeys)
	return out
}

// Driver is a deterministic in-memory BrailleDriver: WriteWindow copies
// into a buffer tests can inspect, and ReadCommand delivers whatever
// KeyEvents have been queued via InjectKey.
type Driver struct {
	mu       sync.Mutex
	cells    int
	status   bridge.DriverStatus
	holder   string
	lastText string
	lastCells []bridge.BrailleCell
	writeErr error
	keyNames []bridge.KeyID
	events   chan bridge.KeyEvent
}

// NewDriver returns a Driver presenting cellCount cells, initially
// online, with a command channel (buffered to 64 events) fed by
// InjectKey.
func NewDriver(cellCount int, keyNames []bridge.KeyID) *Driver {
	return &Driver{
		cells:    cellCount,
		status:   bridge.DriverOnline,
		keyNames: keyNames,
		events:   make(chan bridge.KeyEvent, 64),
	}
}

func (d *Driver) Construct(bridge.DriverParams) error { return nil }
func (d *Driver) Destruct()                           {}

func (d *Driver) ReadCommand(ctx context.Context) (bridge.KeyEvent, bool, error) {
	select {
	case <-ctx.Done():
		return bridge.KeyEvent{}, false, ctx.Err()
	case ev, ok := <-d.events:
		return ev, ok, nil
	}
}

func (d *Driver) WriteWindow(cells []bridge.BrailleCell, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return d.writeErr
	}
	d.lastCells = append([]bridge.BrailleCell(nil), cells...)
	d.lastText = text
	return nil
}

func (d *Driver) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = bridge.DriverSuspended
	return nil
}

func (d *Driver) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = bridge.DriverOnline
	return nil
}

func (d *Driver) Claim(holder string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.holder != "" && d.holder != holder {
		return errors.New("simdriver: display already claimed by " + d.holder)
	}
	d.holder = holder
	return nil
}

func (d *Driver) Release(holder string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.holder == holder {
		d.holder = ""
	}
}

func (d *Driver) Status() bridge.DriverStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Driver) CellCount() int { return d.cells }

func (d *Driver) KeyNames() []bridge.KeyID { return d.keyNames }

// Name satisfies the informal `interface{ Name() string }` the protocol
// server probes for when answering GetDriverName.
func (d *Driver) Name() string { return "simdriver" }

// InjectKey queues a KeyEvent for delivery on the next ReadCommand call.
func (d *Driver) InjectKey(ev bridge.KeyEvent) {
	d.events <- ev
}

// SetStatus forces the reported operational state, bypassing
// Suspend/Resume, e.g. to simulate a device unplugged mid-session.
func (d *Driver) SetStatus(status bridge.DriverStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// SetWriteError makes subsequent WriteWindow calls fail with err, or
// succeed again when err is nil.
func (d *Driver) SetWriteError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeErr = err
}

// LastWrite returns the cells and text from the most recent successful
// WriteWindow call.
func (d *Driver) LastWrite() ([]bridge.BrailleCell, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cells := append([]bridge.BrailleCell(nil), d.lastCells...)
	return cells, d.lastText
}
