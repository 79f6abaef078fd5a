package bridge

// Command is a 32-bit tagged value: the upper byte selects a Block
// (opcode family), the low 16 bits carry an argument, and the remaining
// bits between them carry flags (spec §3). It is the single currency the
// KeyMatcher, the ProtocolServer and internal schedulers all enqueue onto
// the CommandQueue.
type Command uint32

// Block identifies a command's opcode family (the upper 8 bits).
type Block uint8

const (
	blockShift = 24
	blockMask  = Command(0xFF) << blockShift
	argMask    = Command(0xFFFF)
	flagShift  = 16
	flagMask   = Command(0xFF) << flagShift
)

const (
	BlockNop Block = iota
	BlockPassChar
	BlockPassKey
	BlockPassDots
	BlockRoute
	BlockSwitchVT
	BlockToggle
	BlockMisc
	BlockClipboard
	BlockScreen
	BlockPreferences
	BlockClient // commands injected by a protocol client
)

// Flag bits occupy the byte directly below Block (bits 16..23).
type Flag uint8

const (
	FlagToggleOn Flag = 1 << iota
	FlagToggleOff
	FlagMotionScaled
	FlagInputShift
	FlagInputControl
	FlagInputMeta
	FlagInputAltGr
	FlagRelease // marks the "hold released" companion command
)

// NewCommand packs a block, argument and flag set into a Command.
func NewCommand(b Block, arg uint16, flags Flag) Command {
	return Command(b)<<blockShift | Command(flags)<<flagShift | Command(arg)
}

// Block returns the command's opcode family.
func (c Command) Block() Block { return Block(c >> blockShift) }

// Arg returns the command's 16-bit argument.
func (c Command) Arg() uint16 { return uint16(c & argMask) }

// Flags returns the command's flag bits.
func (c Command) Flags() Flag { return Flag((c & flagMask) >> flagShift) }

// WithFlags returns c with additional flags OR'd in.
func (c Command) WithFlags(f Flag) Command {
	return c | Command(f)<<flagShift
}

// Has reports whether all bits of f are set on c.
func (c Command) Has(f Flag) bool {
	return Flag(c.Flags())&f == f
}

// Named command constants for the miscellaneous/toggle/preferences
// handlers (spec §4.3). These use BlockMisc/BlockToggle/BlockPreferences
// with argument values scoped to this module; they are not part of the
// wire protocol's type registry (see protocol/types.go for that).
const (
	CmdHelp          = Command(BlockMisc)<<blockShift | 1
	CmdTime          = Command(BlockMisc)<<blockShift | 2
	CmdRestart       = Command(BlockMisc)<<blockShift | 3
	CmdRefresh       = Command(BlockMisc)<<blockShift | 4
	CmdCommandReject = Command(BlockMisc)<<blockShift | 5

	CmdMenuEnter = Command(BlockPreferences)<<blockShift | 1
	CmdMenuExit  = Command(BlockPreferences)<<blockShift | 2
	CmdPrefSave  = Command(BlockPreferences)<<blockShift | 3
	CmdPrefLoad  = Command(BlockPreferences)<<blockShift | 4
	CmdPrefReset = Command(BlockPreferences)<<blockShift | 5

	CmdClipCut    = Command(BlockClipboard)<<blockShift | 1
	CmdClipAppend = Command(BlockClipboard)<<blockShift | 2
	CmdClipPaste  = Command(BlockClipboard)<<blockShift | 3
	CmdClipHist   = Command(BlockClipboard)<<blockShift | 4

	CmdPanLeft     = Command(BlockScreen)<<blockShift | 1
	CmdPanRight    = Command(BlockScreen)<<blockShift | 2
	CmdRowUp       = Command(BlockScreen)<<blockShift | 3
	CmdRowDown     = Command(BlockScreen)<<blockShift | 4
	CmdTrackToggle = Command(BlockScreen)<<blockShift | 5
	CmdRouteCursor = Command(BlockScreen)<<blockShift | 6
)
