package bridge

import "testing"

func TestCommandPackUnpack(t *testing.T) {
	c := NewCommand(BlockPassDots, 0x1234, FlagInputShift|FlagRelease)
	if got := c.Block(); got != BlockPassDots {
		t.Errorf("Block() = %v, want %v", got, BlockPassDots)
	}
	if got := c.Arg(); got != 0x1234 {
		t.Errorf("Arg() = %#x, want %#x", got, 0x1234)
	}
	if got := c.Flags(); got != FlagInputShift|FlagRelease {
		t.Errorf("Flags() = %v, want %v", got, FlagInputShift|FlagRelease)
	}
}

func TestCommandWithFlags(t *testing.T) {
	c := NewCommand(BlockToggle, 1, FlagToggleOn)
	c = c.WithFlags(FlagRelease)
	if !c.Has(FlagToggleOn) || !c.Has(FlagRelease) {
		t.Errorf("WithFlags dropped a prior flag: Flags() = %v", c.Flags())
	}
	if c.Block() != BlockToggle || c.Arg() != 1 {
		t.Errorf("WithFlags disturbed block/arg: Block=%v Arg=%v", c.Block(), c.Arg())
	}
}

func TestCommandHas(t *testing.T) {
	c := NewCommand(BlockMisc, 0, FlagInputShift|FlagInputControl)
	if !c.Has(FlagInputShift) {
		t.Error("Has(FlagInputShift) = false, want true")
	}
	if c.Has(FlagInputMeta) {
		t.Error("Has(FlagInputMeta) = true, want false")
	}
	if !c.Has(FlagInputShift | FlagInputControl) {
		t.Error("Has(combined set flags) = false, want true")
	}
}

func TestNamedCommandConstantsCarryTheirBlock(t *testing.T) {
	tests := []struct {
		cmd  Command
		want Block
	}{
		{CmdHelp, BlockMisc},
		{CmdMenuEnter, BlockPreferences},
		{CmdClipCut, BlockClipboard},
		{CmdPanLeft, BlockScreen},
	}
	for _, tt := range tests {
		if got := tt.cmd.Block(); got != tt.want {
			t.Errorf("%v.Block() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}
