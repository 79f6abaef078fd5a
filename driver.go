package bridge

import "context"

// DriverStatus reports the operational state of a BrailleDriver.
type DriverStatus int

const (
	DriverOnline DriverStatus = iota
	DriverOffline
	DriverSuspended
)

// DriverParams carries construction-time parameters for a BrailleDriver
// (device path, baud rate, vendor options, ...). The core treats it as
// opaque and only passes through whatever the caller supplied.
type DriverParams map[string]string

// BrailleDriver is the abstract display-hardware driver the core
// consumes (spec §6). Concrete transports (serial/USB/Bluetooth framing)
// are out of scope; the core only ever calls this interface.
type BrailleDriver interface {
	// Construct initializes the driver with the given parameters.
	Construct(params DriverParams) error
	// Destruct releases all driver resources. Idempotent.
	Destruct()

	// ReadCommand blocks until the next raw key event is available, ctx
	// is cancelled, or the driver reaches EOF (returns false). Resolving
	// key combinations into commands is left to keytable.Matcher.
	ReadCommand(ctx context.Context) (KeyEvent, bool, error)

	// WriteWindow writes cells (and, where the driver supports it, a
	// parallel text rendering) to the display. At most one WriteWindow
	// call is ever in flight at a time (spec §8).
	WriteWindow(cells []BrailleCell, text string) error

	// Suspend/Resume: stop/restart normal operation, e.g. while a client
	// owns the display.
	Suspend() error
	Resume() error

	// Claim/Release: exclusive ownership of WriteWindow. Recursive
	// claims by the same holder are idempotent.
	Claim(holder string) error
	Release(holder string)

	// Status reports the current operational state.
	Status() DriverStatus

	// CellCount reports the display's cell width.
	CellCount() int
	// KeyNames reports the KeyIDs the driver can emit, used to validate
	// a KeyTable against the attached hardware.
	KeyNames() []KeyID
}
