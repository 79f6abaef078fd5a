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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/brltty-go/bridge"
)

// brailleRowBase is U+2800, the start of the Unicode Braille Patterns
// block; adding an 8-bit dot mask to it yields the glyph for that cell.
const brailleRowBase = 0x2800

// consoleDriver is an illustrative concrete BrailleDriver: it renders
// the window as a row of Unicode braille glyphs on the controlling
// terminal, put into raw mode so individual keystrokes arrive
// unbuffered. It is not part of the core — a real deployment talks to
// actual display hardware — but it lets braillebridged run end to end
// against nothing more exotic than a terminal emulator, the same role
// a raw-mode attach path plays for a session multiplexer.
type consoleDriver struct {
	fd       int
	oldState *term.State
	out      *bufio.Writer

	mu     sync.Mutex
	cells  int
	holder string
	status bridge.DriverStatus

	keys   chan bridge.KeyEvent
	stopCh chan struct{}
}

// newConsoleDriver wraps stdin/stdout, sized to the controlling
// terminal's current width (spec §6's CellCount is fixed at
// construction; this driver never resizes mid-session).
func newConsoleDriver() (*consoleDriver, error) {
	fd := int(os.Stdin.Fd())
	cols, _, err := term.GetSize(fd)
	if err != nil {
		return nil, fmt.Errorf("braille bridge: get terminal size: %w", err)
	}
	return &consoleDriver{
		fd:     fd,
		out:    bufio.NewWriter(os.Stdout),
		cells:  cols,
		status: bridge.DriverOffline,
		keys:   make(chan bridge.KeyEvent, 64),
		stopCh: make(chan struct{}),
	}, nil
}

func (d *consoleDriver) Construct(bridge.DriverParams) error {
	oldState, err := term.MakeRaw(d.fd)
	if err != nil {
		return fmt.Errorf("braille bridge: set raw mode: %w", err)
	}
	d.oldState = oldState
	d.mu.Lock()
	d.status = bridge.DriverOnline
	d.mu.Unlock()
	go d.readLoop()
	return nil
}

func (d *consoleDriver) Destruct() {
	select {
	case <-d.stopCh:
		return
	default:
		close(d.stopCh)
	}
	if d.oldState != nil {
		term.Restore(d.fd, d.oldState)
	}
	d.mu.Lock()
	d.status = bridge.DriverOffline
	d.mu.Unlock()
}

// readLoop turns raw stdin bytes into KeyEvents: the arrow-key escape
// sequences map to navigation keys 0-3, and every other byte maps to a
// braille-group key press/release pair numbered by the byte's value (so
// a real terminal keyboard can drive the dispatch pipeline's PASSCHAR
// path indirectly via the matcher).
func (d *consoleDriver) readLoop() {
	buf := make([]byte, 64)
	in := os.Stdin
	for {
		n, err := in.Read(buf)
		if n > 0 {
			d.translate(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				select {
				case <-d.stopCh:
				default:
				}
			}
			return
		}
		select {
		case <-d.stopCh:
			return
		default:
		}
	}
}

func (d *consoleDriver) translate(b []byte) {
	for i := 0; i < len(b); i++ {
		switch {
		case b[i] == 0x1b && i+2 < len(b) && b[i+1] == '[':
			switch b[i+2] {
			case 'A':
				d.emit(bridge.KeyGroupNavigation, 0)
			case 'B':
				d.emit(bridge.KeyGroupNavigation, 1)
			case 'C':
				d.emit(bridge.KeyGroupNavigation, 2)
			case 'D':
				d.emit(bridge.KeyGroupNavigation, 3)
			}
			i += 2
		default:
			d.emit(bridge.KeyGroupBraille, int(b[i]))
		}
	}
}

func (d *consoleDriver) emit(group bridge.KeyGroup, number int) {
	key := bridge.KeyID{Group: group, Number: number}
	d.keys <- bridge.KeyEvent{Key: key, Pressed: true}
	d.keys <- bridge.KeyEvent{Key: key, Pressed: false}
}

func (d *consoleDriver) ReadCommand(ctx context.Context) (bridge.KeyEvent, bool, error) {
	select {
	case <-ctx.Done():
		return bridge.KeyEvent{}, false, ctx.Err()
	case <-d.stopCh:
		return bridge.KeyEvent{}, false, nil
	case ev, ok := <-d.keys:
		return ev, ok, nil
	}
}

func (d *consoleDriver) WriteWindow(cells []bridge.BrailleCell, text string) error {
	d.out.WriteString("\r\x1b[K")
	for _, c := range cells {
		d.out.WriteRune(rune(brailleRowBase + int(c)))
	}
	if text != "" {
		d.out.WriteString("  ")
		d.out.WriteString(text)
	}
	return d.out.Flush()
}

func (d *consoleDriver) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = bridge.DriverSuspended
	return nil
}

func (d *consoleDriver) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = bridge.DriverOnline
	return nil
}

func (d *consoleDriver) Claim(holder string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.holder != "" && d.holder != holder {
		return fmt.Errorf("braille bridge: display claimed by %s", d.holder)
	}
	d.holder = holder
	return nil
}

func (d *consoleDriver) Release(holder string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.holder == holder {
		d.holder = ""
	}
}

func (d *consoleDriver) Status() bridge.DriverStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *consoleDriver) CellCount() int { return d.cells }

func (d *consoleDriver) KeyNames() []bridge.KeyID {
	names := make([]bridge.KeyID, 0, d.cells+4)
	for i := 0; i < 4; i++ {
		names = append(names, bridge.KeyID{Group: bridge.KeyGroupNavigation, Number: i})
	}
	for i := 0; i < 256; i++ {
		names = append(names, bridge.KeyID{Group: bridge.KeyGroupBraille, Number: i})
	}
	return names
}

// Name satisfies the informal `interface{ Name() string }` the protocol
// server probes for when answering GetDriverName.
func (d *consoleDriver) Name() string { return "console" }
