package bridge

import (
	"errors"
	"fmt"
)

// Kind classifies an Error per the six error kinds of the error handling
// design (spec §7): Input, Transport, Protocol, Auth, Resource and
// Programmer failures are all reported through the same shape so callers
// can branch on Kind without type-asserting concrete error values.
type Kind int

const (
	// KindInput covers malformed tables, malformed wire frames and invalid
	// parameters. Never fatal to the process.
	KindInput Kind = iota
	// KindTransport covers socket/driver read or write failures.
	KindTransport
	// KindProtocol covers a client breaking the connection state machine.
	KindProtocol
	// KindAuth covers authentication denial.
	KindAuth
	// KindResource covers allocation/resource exhaustion.
	KindResource
	// KindProgrammer covers invariant violations; callers log at error
	// level and attempt to continue with reset state.
	KindProgrammer
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindAuth:
		return "auth"
	case KindResource:
		return "resource"
	case KindProgrammer:
		return "programmer"
	default:
		return "unknown"
	}
}

// Error is the wrapped, typed error value used throughout the module in
// place of out-parameters, per the "Ok(value) | Err(kind, context)" design
// note. Op names the operation that failed (e.g. "texttable.compile",
// "protocol.write"); Err, when non-nil, is the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError constructs an Error, wrapping err (which may be nil).
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err is (or wraps) a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

var (
	// ErrNoDriver indicates no BrailleDriver has been constructed yet.
	ErrNoDriver = errors.New("no braille driver available")
	// ErrDriverOffline indicates the driver reported OFFLINE.
	ErrDriverOffline = errors.New("braille driver offline")
	// ErrDriverOwned indicates the display is currently owned by a client.
	ErrDriverOwned = errors.New("display owned by another client")
	// ErrQueueFull indicates the command queue rejected an enqueue.
	ErrQueueFull = errors.New("command queue full")
	// ErrUnknownCommand indicates no handler consumed a command.
	ErrUnknownCommand = errors.New("command rejected by all handlers")
)
