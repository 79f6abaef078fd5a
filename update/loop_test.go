package update

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brltty-go/bridge"
	"github.com/rs/zerolog"
)

type fakeScreen struct {
	mu    sync.Mutex
	desc  bridge.ScreenDescription
	chars []bridge.ScreenCharacter
}

func (s *fakeScreen) Describe() (bridge.ScreenDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc, nil
}
func (s *fakeScreen) ReadRegion(box bridge.Box) ([]bridge.ScreenCharacter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bridge.ScreenCharacter, box.Width*box.Height)
	for i := range out {
		if box.Left+i < len(s.chars) {
			out[i] = s.chars[box.Left+i]
		}
	}
	return out, nil
}
func (s *fakeScreen) InsertKey(rune) error                   { return nil }
func (s *fakeScreen) RouteCursor(int, int, int) error        { return nil }
func (s *fakeScreen) SwitchVirtualTerminal(int) error        { return nil }
func (s *fakeScreen) SelectVirtualTerminal(int) error         { return nil }

type fakeDriver struct {
	mu      sync.Mutex
	status  bridge.DriverStatus
	written []bridge.BrailleCell
	writes  int
}

func (d *fakeDriver) Construct(bridge.DriverParams) error { return nil }
func (d *fakeDriver) Destruct()                           {}
func (d *fakeDriver) ReadCommand(context.Context) (bridge.KeyEvent, bool, error) {
	return bridge.KeyEvent{}, false, nil
}
func (d *fakeDriver) WriteWindow(cells []bridge.BrailleCell, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.written = append([]bridge.BrailleCell(nil), cells...)
	d.writes++
	return nil
}
func (d *fakeDriver) Suspend() error         { return nil }
func (d *fakeDriver) Resume() error          { return nil }
func (d *fakeDriver) Claim(string) error     { return nil }
func (d *fakeDriver) Release(string)         {}
func (d *fakeDriver) Status() bridge.DriverStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}
func (d *fakeDriver) CellCount() int        { return 10 }
func (d *fakeDriver) KeyNames() []bridge.KeyID { return nil }

type fakeSuspender struct{ suspended, resumed int }

func (s *fakeSuspender) Suspend() { s.suspended++ }
func (s *fakeSuspender) Resume()  { s.resumed++ }

func TestRenderPassWritesWindow(t *testing.T) {
	table := mustCompile(t, "char 'a' 1\n")
	screen := &fakeScreen{
		desc:  bridge.ScreenDescription{Columns: 10, Rows: 1},
		chars: []bridge.ScreenCharacter{{Rune: 'a'}, {Rune: 'a'}, {Rune: 'a'}},
	}
	driver := &fakeDriver{status: bridge.DriverOnline}
	sessions := bridge.NewSessionRegistry()
	suspender := &fakeSuspender{}
	loop := NewLoop(driver, screen, sessions, table, nil, suspender, zerolog.Nop())

	loop.renderPass()

	if driver.writes != 1 {
		t.Fatalf("writes = %d, want 1", driver.writes)
	}
	if suspender.suspended != 1 || suspender.resumed != 1 {
		t.Fatalf("suspend/resume = %d/%d, want 1/1", suspender.suspended, suspender.resumed)
	}
}

func TestRenderPassSkippedWhenClientOwnsDisplay(t *testing.T) {
	table := mustCompile(t, "")
	driver := &fakeDriver{status: bridge.DriverOnline}
	screen := &fakeScreen{desc: bridge.ScreenDescription{Columns: 10, Rows: 1}}
	sessions := bridge.NewSessionRegistry()
	loop := NewLoop(driver, screen, sessions, table, nil, nil, zerolog.Nop())
	loop.SetClientOwnsDisplay(true)

	loop.renderPass()
	if driver.writes != 0 {
		t.Fatalf("writes = %d, want 0 while client owns the display", driver.writes)
	}
}

func TestRenderPassForwardsOwnerWrite(t *testing.T) {
	table := mustCompile(t, "")
	driver := &fakeDriver{status: bridge.DriverOnline}
	screen := &fakeScreen{desc: bridge.ScreenDescription{Columns: 10, Rows: 1}}
	sessions := bridge.NewSessionRegistry()
	loop := NewLoop(driver, screen, sessions, table, nil, nil, zerolog.Nop())
	loop.SetClientOwnsDisplay(true)

	want := []bridge.BrailleCell{9, 8, 7}
	loop.OwnerWrite = func() ([]bridge.BrailleCell, string, bool) { return want, "xyz", true }

	loop.renderPass()

	if driver.writes != 1 {
		t.Fatalf("writes = %d, want 1 (owner's write passed through)", driver.writes)
	}
	if len(driver.written) != len(want) {
		t.Fatalf("written = %v, want %v", driver.written, want)
	}
	for i, c := range want {
		if driver.written[i] != c {
			t.Fatalf("written = %v, want %v", driver.written, want)
		}
	}
}

func TestRunCoalescesBurstsIntoOneRenderPass(t *testing.T) {
	table := mustCompile(t, "char 'a' 1\n")
	screen := &fakeScreen{
		desc:  bridge.ScreenDescription{Columns: 10, Rows: 1},
		chars: []bridge.ScreenCharacter{{Rune: 'a'}},
	}
	driver := &fakeDriver{status: bridge.DriverOnline}
	sessions := bridge.NewSessionRegistry()
	loop := NewLoop(driver, screen, sessions, table, nil, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go loop.Run(ctx)

	for i := 0; i < 5; i++ {
		loop.NeedsUpdate("burst")
	}
	<-ctx.Done()

	driver.mu.Lock()
	writes := driver.writes
	driver.mu.Unlock()
	if writes == 0 {
		t.Fatalf("expected at least one render pass from the burst")
	}
	if writes > 3 {
		t.Fatalf("writes = %d, burst of 5 requests should coalesce to very few passes", writes)
	}
}
