package bridge

import "testing"

func TestKeyGroupString(t *testing.T) {
	tests := []struct {
		g    KeyGroup
		want string
	}{
		{KeyGroupNavigation, "navigation"},
		{KeyGroupRouting, "routing"},
		{KeyGroupBraille, "braille"},
		{KeyGroupModifier, "modifier"},
		{KeyGroup(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.g.String(); got != tt.want {
			t.Errorf("KeyGroup(%d).String() = %q, want %q", tt.g, got, tt.want)
		}
	}
}

func TestModifierKeyString(t *testing.T) {
	tests := []struct {
		m    ModifierKey
		want string
	}{
		{ModShift, "shift"},
		{ModControl, "control"},
		{ModMeta, "meta"},
		{ModAltGr, "altgr"},
		{ModGUI, "gui"},
		{ModUpper, "upper"},
		{ModifierKey(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("ModifierKey(%d).String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}
