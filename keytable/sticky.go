package keytable

import (
	"time"

	"github.com/brltty-go/bridge"
	"github.com/brltty-go/bridge/internal/alarm"
)

// stickyState is the per-modifier sticky state (spec §4.2): idle, "once"
// (applies to exactly the next emitted PASSKEY/PASSCHAR/PASSDOTS), or
// "lock" (applies to all subsequent emissions until cleared).
type stickyState int

const (
	stickyIdle stickyState = iota
	stickyOnce
	stickyLock
)

// StickyResetTimeout is the default duration after which an unconsumed
// sticky modifier clears itself (spec §4.2, "~10s by default").
const StickyResetTimeout = 10 * time.Second

// stickyModifiers tracks the once/lock state of every modifier key
// along with the reset timer that clears unconsumed state.
type stickyModifiers struct {
	state       [int(bridgeNumModifiers)]stickyState
	resetTimers [int(bridgeNumModifiers)]*alarm.Handle
	resetAfter  time.Duration
}

// bridgeNumModifiers mirrors bridge.numModifierKeys, which is
// unexported; ModifierKey values are always < 8 in practice, so a fixed
// small array is used instead of importing an unexported count.
const bridgeNumModifiers = 8

func newStickyModifiers() *stickyModifiers {
	return &stickyModifiers{resetAfter: StickyResetTimeout}
}

// Press records a press-then-release of a bare modifier key (no other
// key held meanwhile): idle->once, once->lock, lock->idle (spec §4.2:
// "a third clears both").
func (s *stickyModifiers) Press(m bridge.ModifierKey) {
	i := int(m)
	if i < 0 || i >= len(s.state) {
		return
	}
	switch s.state[i] {
	case stickyIdle:
		s.state[i] = stickyOnce
	case stickyOnce:
		s.state[i] = stickyLock
	case stickyLock:
		s.state[i] = stickyIdle
	}
	s.armReset(m)
}

func (s *stickyModifiers) armReset(m bridge.ModifierKey) {
	i := int(m)
	s.resetTimers[i].Cancel()
	if s.state[i] == stickyIdle {
		s.resetTimers[i] = nil
		return
	}
	s.resetTimers[i] = alarm.After(s.resetAfter, func() {
		s.Clear(m)
	})
}

// Clear forces m back to idle and cancels its reset timer. Idempotent.
func (s *stickyModifiers) Clear(m bridge.ModifierKey) {
	i := int(m)
	if i < 0 || i >= len(s.state) {
		return
	}
	s.resetTimers[i].Cancel()
	s.resetTimers[i] = nil
	s.state[i] = stickyIdle
}

// ClearAll forces every modifier back to idle; used on a mid-combination
// VT switch (spec §9 Open Questions resolution).
func (s *stickyModifiers) ClearAll() {
	for m := range s.state {
		s.Clear(bridge.ModifierKey(m))
	}
}

// ApplyAndConsume returns the flags contributed by any active sticky
// modifiers and consumes "once" states (but leaves "lock" states armed),
// per spec §4.2 and §8's sticky-modifier-consumption invariant. Call
// this exactly once per emitted PASSKEY/PASSCHAR/PASSDOTS command.
func (s *stickyModifiers) ApplyAndConsume() bridge.Flag {
	var flags bridge.Flag
	for i := range s.state {
		m := bridge.ModifierKey(i)
		switch s.state[i] {
		case stickyOnce:
			flags |= modifierFlag(m)
			s.Clear(m)
		case stickyLock:
			flags |= modifierFlag(m)
		}
	}
	return flags
}

func modifierFlag(m bridge.ModifierKey) bridge.Flag {
	switch m {
	case bridge.ModShift, bridge.ModUpper:
		return bridge.FlagInputShift
	case bridge.ModControl:
		return bridge.FlagInputControl
	case bridge.ModMeta, bridge.ModGUI:
		return bridge.FlagInputMeta
	case bridge.ModAltGr:
		return bridge.FlagInputAltGr
	default:
		return 0
	}
}
