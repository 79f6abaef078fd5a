package bridge

import "time"

// KeyGroup scopes a KeyName: the same numeric key identifier can mean a
// routing key, a braille-dot key or a navigation key depending on group
// (spec §3).
type KeyGroup uint8

const (
	KeyGroupNavigation KeyGroup = iota
	KeyGroupRouting
	KeyGroupBraille
	KeyGroupModifier
)

func (g KeyGroup) String() string {
	switch g {
	case KeyGroupNavigation:
		return "navigation"
	case KeyGroupRouting:
		return "routing"
	case KeyGroupBraille:
		return "braille"
	case KeyGroupModifier:
		return "modifier"
	default:
		return "unknown"
	}
}

// KeyID identifies one key within a KeyGroup.
type KeyID struct {
	Group  KeyGroup
	Number int
}

// KeyEvent is a single press or release reported by a BrailleDriver.
type KeyEvent struct {
	Key       KeyID
	Pressed   bool
	Timestamp time.Time
}

// ModifierKey enumerates the sticky-capable modifier keys (spec §4.2).
type ModifierKey int

const (
	ModShift ModifierKey = iota
	ModControl
	ModMeta
	ModAltGr
	ModGUI
	ModUpper
	numModifierKeys
)

func (m ModifierKey) String() string {
	switch m {
	case ModShift:
		return "shift"
	case ModControl:
		return "control"
	case ModMeta:
		return "meta"
	case ModAltGr:
		return "altgr"
	case ModGUI:
		return "gui"
	case ModUpper:
		return "upper"
	default:
		return "unknown"
	}
}
