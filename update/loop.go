package update

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/brltty-go/bridge"
	"github.com/brltty-go/bridge/texttable"
)

// RefreshQuantum coalesces bursts of update requests into a single
// render pass (spec §4.4: "a short refresh quantum (≈40ms)").
const RefreshQuantum = 40 * time.Millisecond

// CommandSuspender brackets display writes so a command the render pass
// itself triggers cannot re-enter the dispatch pipeline (spec §4.3,
// §4.4 step 1/6); dispatch.Queue satisfies this.
type CommandSuspender interface {
	Suspend()
	Resume()
}

// Loop is the update loop: it watches a scheduling token set by any
// mutation (screen-change report, preference change, key command,
// client write) and performs at most one render pass per wake-up.
type Loop struct {
	Driver    bridge.BrailleDriver
	Screen    bridge.ScreenSource
	Sessions  *bridge.SessionRegistry
	Table     *texttable.Table
	Bus       *bridge.Bus
	Suspender CommandSuspender
	Logger    zerolog.Logger

	IsBlank func(chars []bridge.ScreenCharacter) bool

	// OwnerWrite, if set, returns the current display owner's pending
	// write() payload; ok is false when no owner or no pending write.
	// renderPass calls it in place of its own render step while a
	// client owns the display (spec §4.5.6).
	OwnerWrite func() (cells []bridge.BrailleCell, text string, ok bool)

	mu         sync.Mutex
	wake       chan string // reason; buffered 1, coalesces bursts
	blinkOn    bool
	hasFailed  bool
	clientOwns bool
}

// NewLoop returns a Loop ready to Run. A zero logger discards all output.
func NewLoop(driver bridge.BrailleDriver, screen bridge.ScreenSource, sessions *bridge.SessionRegistry, table *texttable.Table, bus *bridge.Bus, suspender CommandSuspender, logger zerolog.Logger) *Loop {
	return &Loop{
		Driver:    driver,
		Screen:    screen,
		Sessions:  sessions,
		Table:     table,
		Bus:       bus,
		Suspender: suspender,
		Logger:    logger,
		wake:      make(chan string, 1),
	}
}

// NeedsUpdate sets the wake token; reason is informational only and
// shows up in logs. Safe to call from any goroutine.
func (l *Loop) NeedsUpdate(reason string) {
	select {
	case l.wake <- reason:
	default:
		// a wake is already pending; the burst coalesces into it.
	}
}

// SetClientOwnsDisplay records whether a client currently owns
// WriteWindow (spec §4.4: "if a client owns the display, skip pass").
func (l *Loop) SetClientOwnsDisplay(owns bool) {
	l.mu.Lock()
	l.clientOwns = owns
	l.mu.Unlock()
	if !owns {
		l.NeedsUpdate("client released display")
	}
}

// SetBlinkPhase toggles the blink phase used by Render; callers drive
// this from a periodic timer independent of NeedsUpdate.
func (l *Loop) SetBlinkPhase(on bool) {
	l.mu.Lock()
	l.blinkOn = on
	l.mu.Unlock()
	l.NeedsUpdate("blink phase")
}

// Run blocks, performing at most one render pass per RefreshQuantum
// while woken, until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	timer := time.NewTimer(RefreshQuantum)
	defer timer.Stop()
	pending := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			if !pending {
				pending = true
				if !timer.Stop() {
					drainTimer(timer)
				}
				timer.Reset(RefreshQuantum)
			}
		case <-timer.C:
			if pending {
				pending = false
				l.renderPass()
			}
			timer.Reset(RefreshQuantum)
		}
	}
}

func drainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

// renderPass runs the six steps of spec §4.4's render pass exactly once.
func (l *Loop) renderPass() {
	l.mu.Lock()
	clientOwns := l.clientOwns
	blinkOn := l.blinkOn
	l.mu.Unlock()
	if clientOwns {
		if l.OwnerWrite != nil {
			if cells, text, ok := l.OwnerWrite(); ok {
				l.writeOwnerPass(cells, text)
			}
		}
		return
	}
	if l.Driver == nil || l.Driver.Status() != bridge.DriverOnline {
		return
	}

	// Step 1: acquire.
	if err := l.Driver.Claim("update-loop"); err != nil {
		return
	}
	defer l.Driver.Release("update-loop")

	if l.Suspender != nil {
		l.Suspender.Suspend()
		defer l.Suspender.Resume()
	}

	// Step 2: snapshot.
	session := l.Sessions.Current()
	desc, err := l.Screen.Describe()
	if err != nil {
		return
	}
	session.Window.Snap(desc.Columns, desc.Rows)

	// Step 3: track/slide.
	if session.TrackCursor {
		trackCursor(&session.Window, desc.CursorColumn, desc.CursorRow, desc,
			session.Sliding, l.windowIsBlank(desc), session.SkipBlankWindows)
	}

	box := session.Window.Box()
	chars, err := l.Screen.ReadRegion(box)
	if err != nil {
		return
	}

	// Step 4: render.
	pass := &RenderPass{Table: l.Table, ShowScreenCursor: session.ShowScreenCursor, BlinkOn: blinkOn}
	cursorVisible := desc.CursorRow == session.Window.OriginY
	cells, text := pass.Render(chars, desc.CursorColumn-session.Window.OriginX, cursorVisible)

	// Step 5: emit.
	if err := l.Driver.WriteWindow(cells, text); err != nil {
		l.mu.Lock()
		l.hasFailed = true
		l.mu.Unlock()
		l.Logger.Warn().Err(err).Msg("WriteWindow failed, marking device offline")
		if l.Bus != nil {
			l.Bus.Publish(bridge.Report{Name: bridge.ReportDeviceOffline, Payload: err})
		}
		return
	}

	// Step 6: release happens via the deferred Release above; broadcast.
	l.Logger.Debug().Int("cells", len(cells)).Msg("render pass complete")
	if l.Bus != nil {
		l.Bus.Publish(bridge.Report{Name: bridge.ReportBrailleWindowUpdated, Payload: cells})
	}
}

// writeOwnerPass forwards a display owner's write() payload straight to
// the driver, bypassing the screen snapshot/render steps (spec §4.5.6:
// "the update loop ... passes through the owner's last write() payload").
func (l *Loop) writeOwnerPass(cells []bridge.BrailleCell, text string) {
	if l.Driver == nil || l.Driver.Status() != bridge.DriverOnline {
		return
	}
	if err := l.Driver.Claim("update-loop"); err != nil {
		return
	}
	defer l.Driver.Release("update-loop")

	if err := l.Driver.WriteWindow(cells, text); err != nil {
		l.mu.Lock()
		l.hasFailed = true
		l.mu.Unlock()
		l.Logger.Warn().Err(err).Msg("WriteWindow failed for owner write, marking device offline")
		if l.Bus != nil {
			l.Bus.Publish(bridge.Report{Name: bridge.ReportDeviceOffline, Payload: err})
		}
		return
	}
	l.Logger.Debug().Int("cells", len(cells)).Msg("owner write pass complete")
	if l.Bus != nil {
		l.Bus.Publish(bridge.Report{Name: bridge.ReportBrailleWindowUpdated, Payload: cells})
	}
}

func (l *Loop) windowIsBlank(desc bridge.ScreenDescription) func(left, width int) bool {
	return func(left, width int) bool {
		if l.IsBlank == nil {
			return false
		}
		box := bridge.Box{Left: left, Top: desc.CursorRow, Width: width, Height: 1}
		chars, err := l.Screen.ReadRegion(box)
		if err != nil {
			return false
		}
		return l.IsBlank(chars)
	}
}
