// Copyright 2026 The braillebridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protocol

import (
	"errors"

	"github.com/brltty-go/bridge"
)

// ErrFrameTooLarge is returned when a peer claims a payload length
// beyond MaxFramePayload.
var ErrFrameTooLarge = errors.New("frame payload exceeds maximum size")

// ErrProtocolVersion is returned (and sent as ERR_PROTOCOL_VERSION) when
// a client's version frame does not match ProtocolVersion.
var ErrProtocolVersion = errors.New("protocol version mismatch")

// ErrIllegalInstruction is sent as ERR_ILLEGAL_INSTRUCTION, and the
// connection closed, when a client issues a request its current
// ConnState does not permit (e.g. write() before enterTTYMode).
var ErrIllegalInstruction = errors.New("illegal instruction for current connection state")

// ErrDriverError is sent as ERR_DRIVERERROR when a client's write()
// cannot be honored because it does not currently own the display.
var ErrDriverError = errors.New("client does not own the display")

// ErrTimeout is sent as ERR_TIMEOUT when a request is discarded after
// exceeding RequestTimeout.
var ErrTimeout = errors.New("request timed out")

// ErrParameter is sent as ERR_PARAMETER when a setParameter request's
// value does not match its parameter's declared kind.
var ErrParameter = errors.New("parameter value has the wrong kind")

// ProtocolVersion is the version this server speaks (spec §4.5.2).
const ProtocolVersion uint32 = 1

// FrameType identifies a frame's payload shape and purpose. Request
// types and their matching reply share no numeric relationship; callers
// match a reply to its request by connection sequencing, since the
// protocol has no per-request correlation ID (spec §4.5.1/4.5.3: "all
// are request/reply").
type FrameType uint32

const (
	FrameVersion FrameType = iota + 1
	FrameAuthTypes
	FrameAuthSelect
	FrameAuthChallenge
	FrameAuthResponse
	FrameAuthResult

	FrameGetDriverName
	FrameGetModelIdentifier
	FrameGetDisplaySize
	FrameEnterTTYMode
	FrameLeaveTTYMode
	FrameSetFocus
	FrameWrite
	FrameAcceptKeys
	FrameIgnoreKeys
	FrameAcquireDisplay
	FrameReleaseDisplay
	FrameWatchParameter
	FrameGetParameter
	FrameSetParameter

	FrameAck
	FrameError
	FrameStringReply
	FrameDisplaySizeReply
	FrameValueReply

	// Asynchronous, server-initiated frames (spec §4.5.3).
	FrameKey
	FrameParameterUpdate
	FrameException
)

// EnterTTYHow selects the attach semantics of enterTTYMode.
type EnterTTYHow int

const (
	EnterTTYExclusive EnterTTYHow = iota
	EnterTTYShared
)

// EnterTTYRequest describes an enterTTYMode request: a path of TTY
// identifiers (spec §4.5.4) and an attach mode. Conn decodes the
// FrameEnterTTYMode payload as the path alone (decodePath); no attach
// mode is read from the wire.
type EnterTTYRequest struct {
	Path []int
	How  EnterTTYHow
}

// WriteRequest is FrameWrite's payload: a client-supplied cell buffer to
// display verbatim while it owns the display (spec §4.5.6).
type WriteRequest struct {
	Region     bridge.Box
	Cells      []bridge.BrailleCell
	Text       string
	CursorCol  int
	CursorRow  int
	Attributes []bridge.Attribute
	Charset    string
}

// ParameterRequest is shared by watchParameter/getParameter/setParameter
// (spec §4.5.3, §4.5.7).
type ParameterRequest struct {
	ID         bridge.ParamID
	Subparam   int
	SelfNotify bool
	Value      bridge.Value // meaningful only for setParameter
}

// KeyEventFrame is FrameKey's payload: an accepted key delivered to the
// owning client (spec §4.5.3).
type KeyEventFrame struct {
	Key bridge.KeyEvent
}

// ParameterUpdateFrame is FrameParameterUpdate's payload.
type ParameterUpdateFrame struct {
	ID       bridge.ParamID
	Subparam int
	Value    bridge.Value
}
