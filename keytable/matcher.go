package keytable

import (
	"time"

	"github.com/brltty-go/bridge"
	"github.com/brltty-go/bridge/internal/alarm"
)

// matchState is one of the three PendingKeys states from spec §4.2.
type matchState int

const (
	stateIdle matchState = iota
	stateBuilding
	stateHeld
)

// DefaultLongPressTimeout is the long-press resolution timeout (spec §9
// Open Questions: "treat it as a preference... with a sensible
// default"), exposed as bridge.ParamLongPressTime.
const DefaultLongPressTimeout = 400 * time.Millisecond

// DefaultRepeatRate is the auto-repeat rate for `repeat`-flagged
// bindings.
const DefaultRepeatRate = 150 * time.Millisecond

// Matcher is the runtime state machine that recognises chords, holds,
// and repeats against a compiled Table: one per driver session (spec
// §4.2).
type Matcher struct {
	table *Table
	ctx   Context

	state    matchState
	held     map[bridge.KeyID]bool
	order    []bridge.KeyID // press order, for "most recently pressed"
	lastFire bool           // a hotkey fired for the current combo already

	activeHold *Binding

	longPressTimer *alarm.Handle
	longPress      time.Duration
	repeatTimer    *alarm.Handle
	repeatRate     time.Duration

	sticky *stickyModifiers

	// Emit is called once per matched command, already carrying any
	// sticky-modifier flags. Replace in tests to capture emissions.
	Emit func(bridge.Command)
}

// NewMatcher returns a Matcher bound to table, starting in RootContext.
func NewMatcher(table *Table) *Matcher {
	return &Matcher{
		table:      table,
		ctx:        RootContext,
		held:       make(map[bridge.KeyID]bool),
		longPress:  DefaultLongPressTimeout,
		repeatRate: DefaultRepeatRate,
		sticky:     newStickyModifiers(),
		Emit:       func(bridge.Command) {},
	}
}

// SetContext changes the active lookup context (e.g. on entering a menu).
func (m *Matcher) SetContext(ctx Context) { m.ctx = ctx }

// Context returns the active lookup context.
func (m *Matcher) Context() Context { return m.ctx }

// SetLongPressTimeout overrides the long-press timeout, e.g. from the
// PARAM_LONG_PRESS_TIME preference.
func (m *Matcher) SetLongPressTimeout(d time.Duration) { m.longPress = d }

// HandleKeyEvent feeds one KeyEvent into the state machine.
func (m *Matcher) HandleKeyEvent(ev bridge.KeyEvent) {
	if ev.Pressed {
		m.press(ev.Key)
	} else {
		m.release(ev.Key)
	}
}

// OnVTSwitch clears all pending chord state and sticky modifiers, per
// spec §9's resolution of mid-combination VT switches.
func (m *Matcher) OnVTSwitch() {
	m.cancelTimers()
	m.held = make(map[bridge.KeyID]bool)
	m.order = nil
	m.state = stateIdle
	m.activeHold = nil
	m.sticky.ClearAll()
}

func (m *Matcher) cancelTimers() {
	m.longPressTimer.Cancel()
	m.longPressTimer = nil
	m.repeatTimer.Cancel()
	m.repeatTimer = nil
}

func (m *Matcher) currentChord() Chord {
	ids := make([]bridge.KeyID, 0, len(m.held))
	for id := range m.held {
		ids = append(ids, id)
	}
	return NewChord(ids...)
}

func (m *Matcher) isModifier(id bridge.KeyID) (bridge.ModifierKey, bool) {
	if id.Group != bridge.KeyGroupModifier {
		return 0, false
	}
	return bridge.ModifierKey(id.Number), true
}

func (m *Matcher) press(id bridge.KeyID) {
	switch m.state {
	case stateIdle:
		m.held = map[bridge.KeyID]bool{id: true}
		m.order = []bridge.KeyID{id}
		m.state = stateBuilding
		m.lastFire = false
		m.armLongPress()
	case stateBuilding:
		if !m.held[id] {
			m.held[id] = true
			m.order = append(m.order, id)
		}
		m.armLongPress()
	case stateHeld:
		m.held[id] = true
	}
	m.checkHotkey()
}

func (m *Matcher) checkHotkey() {
	if m.state != stateBuilding {
		return
	}
	b, ok := m.table.Lookup(m.ctx, m.currentChord())
	if !ok || b.Flags&BindHotkey == 0 {
		return
	}
	m.fire(b.Command)
}

func (m *Matcher) armLongPress() {
	m.longPressTimer.Cancel()
	m.longPressTimer = alarm.After(m.longPress, m.onLongPress)
}

func (m *Matcher) onLongPress() {
	if m.state != stateBuilding {
		return
	}
	b, ok := m.table.Lookup(m.ctx, m.currentChord())
	if !ok || b.Flags&BindHold == 0 {
		return
	}
	m.fire(b.Command)
	m.activeHold = b
	m.state = stateHeld
}

func (m *Matcher) release(id bridge.KeyID) {
	if !m.held[id] {
		return
	}

	// A solo modifier tap is a press+release of exactly one key, with
	// no other key ever joining the combo (spec §4.2's sticky-modifier
	// trigger). Captured before mutating m.order below.
	soloModifier, isSolo := m.isModifier(id)
	isSolo = isSolo && m.state == stateBuilding && len(m.order) == 1 && m.order[0] == id

	if m.state == stateBuilding {
		// "most recently pressed" is the last element of m.order.
		if len(m.order) > 0 && m.order[len(m.order)-1] == id && !m.lastFire {
			if b, ok := m.table.Lookup(m.ctx, m.currentChord()); ok && b.Flags&BindHotkey == 0 && b.Flags&BindHold == 0 {
				m.fire(b.Command)
				if b.Flags&BindRepeat != 0 {
					cmd := b.Command
					m.repeatTimer = alarm.Repeating(m.repeatRate, func() { m.emit(cmd) })
				}
			}
		}
	}

	delete(m.held, id)
	for i, k := range m.order {
		if k == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if len(m.held) == 0 {
		m.cancelTimers()
		wasHeld := m.state == stateHeld
		activeHold := m.activeHold
		m.state = stateIdle
		m.activeHold = nil
		m.lastFire = false
		if wasHeld && activeHold != nil && activeHold.HasRelease {
			m.emit(activeHold.ReleaseCommand)
		}
		if isSolo {
			m.sticky.Press(soloModifier)
		}
	}
}

func (m *Matcher) fire(cmd bridge.Command) {
	m.lastFire = true
	m.emit(cmd)
}

// emit applies and consumes sticky-modifier flags, then calls Emit.
func (m *Matcher) emit(cmd bridge.Command) {
	switch cmd.Block() {
	case bridge.BlockPassChar, bridge.BlockPassKey, bridge.BlockPassDots:
		cmd = cmd.WithFlags(m.sticky.ApplyAndConsume())
	}
	if m.Emit != nil {
		m.Emit(cmd)
	}
}
