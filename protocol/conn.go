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
	"io"
	"net"
	"sync"
	"time"

	"github.com/brltty-go/bridge"
)

// RequestTimeout bounds how long a single request may take to handle
// (spec §5); a handler still running when it expires gets ERR_TIMEOUT
// and the request is discarded rather than blocking the connection.
const RequestTimeout = 5 * time.Second

// ConnState is one state of the per-connection handshake/session machine
// (spec §4.5.2).
type ConnState int

const (
	StateNew ConnState = iota
	StateVersionExchanged
	StateAuthPending
	StateAuthenticated
	StateTTYAttached
	StateClosing
)

// Services bundles the shared, server-wide collaborators a Conn needs to
// answer requests. One Services is shared by every connection accepted
// by a Server.
type Services struct {
	Driver       bridge.BrailleDriver
	Tree         *TTYTree
	Params       *ParameterBus
	Display      *DisplayOwnership
	Authenticate map[AuthKind]Authenticator

	// UnroutedKey receives a key that no attached, focused client's
	// range set accepted; it is fed back to the local command
	// dispatcher (spec §4.5.5).
	UnroutedKey func(bridge.KeyEvent)

	// OnDisplayOwnerChanged, if set, is called after every
	// acquireDisplay/releaseDisplay/disconnect with whether the display
	// now has an owner, so the update loop can pass through the owner's
	// write() payload (spec §4.5.6).
	OnDisplayOwnerChanged func(owned bool)
}

// Conn drives one accepted connection through the protocol state machine
// (spec §4.5.2), serializing frame writes against concurrent async
// pushes (pushKey/pushParameterUpdate) from other goroutines.
type Conn struct {
	raw  net.Conn
	svc  *Services
	peer PeerInfo

	writeMu sync.Mutex
	state   ConnState

	client *Client

	lastWriteMu sync.Mutex
	lastWrite   *WriteRequest
}

// NewConn wraps an accepted connection. peer carries any credentials the
// listener already resolved (e.g. via SO_PEERCRED); zero value if none.
func NewConn(raw net.Conn, svc *Services, peer PeerInfo) *Conn {
	c := &Conn{raw: raw, svc: svc, peer: peer, state: StateNew}
	c.client = NewClient(c)
	return c
}

// Client returns the Client identity bound to this connection.
func (c *Conn) Client() *Client { return c.client }

// ReadFrame/WriteFrame satisfy FrameReadWriter, used directly by
// Authenticator implementations during the AuthPending state.
func (c *Conn) ReadFrame() (Frame, error) { return ReadFrame(c.raw) }

func (c *Conn) WriteFrame(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteFrame(c.raw, f)
}

// sendAsync writes a server-initiated frame (key, parameterUpdate,
// exception), sharing WriteFrame's mutex so it never interleaves with a
// request's reply.
func (c *Conn) sendAsync(f Frame) {
	_ = c.WriteFrame(f)
}

// LastWrite returns the most recent write() payload this connection's
// client submitted while it owned the display, or nil.
func (c *Conn) LastWrite() *WriteRequest {
	c.lastWriteMu.Lock()
	defer c.lastWriteMu.Unlock()
	return c.lastWrite
}

// Serve runs the connection to completion: version handshake, auth,
// then the request loop. It returns when the peer disconnects, a
// protocol error occurs, or ctx-independent io.EOF is reached. Callers
// run Serve in its own goroutine per accepted connection.
func (c *Conn) Serve() error {
	defer c.teardown()

	if err := c.handshakeVersion(); err != nil {
		return err
	}
	if err := c.handshakeAuth(); err != nil {
		return err
	}
	c.state = StateAuthenticated

	for {
		frame, err := ReadFrame(c.raw)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := c.handleRequestWithTimeout(frame); err != nil {
			return err
		}
	}
}

func (c *Conn) teardown() {
	c.state = StateClosing
	if c.client != nil {
		c.svc.Params.UnwatchAll(c.client)
		c.svc.Display.Release(c.client)
		c.notifyDisplayOwnership()
		c.svc.Tree.Detach(c.client.TTYPath(), c.client)
	}
	c.raw.Close()
}

func (c *Conn) handshakeVersion() error {
	if err := c.WriteFrame(Frame{Type: FrameVersion, Payload: EncodeVersion(ProtocolVersion)}); err != nil {
		return err
	}
	frame, err := ReadFrame(c.raw)
	if err != nil {
		return err
	}
	version, err := DecodeVersion(frame.Payload)
	if err != nil {
		return err
	}
	if version != ProtocolVersion {
		c.WriteFrame(Frame{Type: FrameError, Payload: encodeString(ErrProtocolVersion.Error())})
		return ErrProtocolVersion
	}
	c.state = StateVersionExchanged
	return nil
}

func (c *Conn) handshakeAuth() error {
	kinds := make([]AuthKind, 0, len(c.svc.Authenticate))
	for k := range c.svc.Authenticate {
		kinds = append(kinds, k)
	}
	if err := c.WriteFrame(Frame{Type: FrameAuthTypes, Payload: EncodeAuthTypes(kinds)}); err != nil {
		return err
	}
	frame, err := ReadFrame(c.raw)
	if err != nil {
		return err
	}
	selected, err := DecodeVersion(frame.Payload) // reuses the uint32 codec
	if err != nil {
		return err
	}
	authenticator, ok := c.svc.Authenticate[AuthKind(selected)]
	if !ok {
		return bridge.NewError(bridge.KindProtocol, "protocol.auth", ErrAuthDenied)
	}
	c.state = StateAuthPending
	if err := authenticator.Authenticate(c, c.peer); err != nil {
		c.WriteFrame(Frame{Type: FrameAuthResult, Payload: encodeString(err.Error())})
		return err
	}
	return c.WriteFrame(Frame{Type: FrameAuthResult, Payload: encodeUint32(1)})
}

// handleRequestWithTimeout bounds handleRequest to RequestTimeout,
// replying ERR_TIMEOUT and discarding the request on expiry instead of
// leaving the connection stuck behind a wedged handler (spec §5).
func (c *Conn) handleRequestWithTimeout(frame Frame) error {
	done := make(chan error, 1)
	go func() { done <- c.handleRequest(frame) }()
	select {
	case err := <-done:
		return err
	case <-time.After(RequestTimeout):
		c.WriteFrame(Frame{Type: FrameError, Payload: encodeString(ErrTimeout.Error())})
		return nil
	}
}

func (c *Conn) handleRequest(frame Frame) error {
	switch frame.Type {
	case FrameWrite, FrameAcquireDisplay, FrameAcceptKeys, FrameIgnoreKeys:
		if c.state != StateTTYAttached {
			return c.illegalInstruction()
		}
	}

	switch frame.Type {
	case FrameGetDriverName:
		return c.reply(FrameStringReply, encodeString(driverNameOf(c.svc.Driver)))

	case FrameGetModelIdentifier:
		return c.reply(FrameStringReply, encodeString(driverNameOf(c.svc.Driver)))

	case FrameGetDisplaySize:
		cells := c.svc.Driver.CellCount()
		out := encodeUint32(uint32(cells))
		out = append(out, encodeUint32(1)...)
		return c.reply(FrameDisplaySizeReply, out)

	case FrameEnterTTYMode:
		return c.handleEnterTTYMode(frame.Payload)

	case FrameLeaveTTYMode:
		c.svc.Tree.Detach(c.client.TTYPath(), c.client)
		c.client.SetTTYPath(nil)
		c.state = StateAuthenticated
		return c.ack()

	case FrameSetFocus:
		path, _, err := decodePath(frame.Payload)
		if err != nil {
			return c.errorReply(err)
		}
		c.svc.Tree.Attach(path, c.client)
		return c.ack()

	case FrameWrite:
		return c.handleWrite(frame.Payload)

	case FrameAcceptKeys, FrameIgnoreKeys:
		return c.handleKeyRange(frame.Type, frame.Payload)

	case FrameAcquireDisplay:
		c.svc.Display.Acquire(c.client)
		c.notifyDisplayOwnership()
		return c.ack()

	case FrameReleaseDisplay:
		c.svc.Display.Release(c.client)
		c.notifyDisplayOwnership()
		return c.ack()

	case FrameWatchParameter, FrameGetParameter, FrameSetParameter:
		return c.handleParameter(frame.Type, frame.Payload)

	default:
		return c.errorReply(bridge.NewError(bridge.KindProtocol, "protocol.request", ErrUnknownFrame))
	}
}

func (c *Conn) handleEnterTTYMode(payload []byte) error {
	path, _, err := decodePath(payload)
	if err != nil {
		return c.errorReply(err)
	}
	c.client.SetTTYPath(path)
	c.svc.Tree.Attach(path, c.client)
	c.state = StateTTYAttached
	return c.ack()
}

func (c *Conn) handleWrite(payload []byte) error {
	if owner := c.svc.Display.Owner(); owner != c.client {
		return c.errorReply(ErrDriverError)
	}
	req, err := decodeWriteRequest(payload)
	if err != nil {
		return c.errorReply(err)
	}
	c.lastWriteMu.Lock()
	c.lastWrite = &req
	c.lastWriteMu.Unlock()
	return c.ack()
}

func (c *Conn) handleKeyRange(t FrameType, payload []byte) error {
	ranges, err := decodeRangeList(payload)
	if err != nil {
		return c.errorReply(err)
	}
	reject := t == FrameIgnoreKeys
	for _, r := range ranges {
		c.client.Ranges().Add(r.Min, r.Max, reject)
	}
	return c.ack()
}

func (c *Conn) handleParameter(t FrameType, payload []byte) error {
	req, err := DecodeParameterRequest(payload)
	if err != nil {
		return c.errorReply(err)
	}
	switch t {
	case FrameWatchParameter:
		v := c.svc.Params.Watch(req.ID, req.Subparam, c.client, req.SelfNotify)
		return c.reply(FrameValueReply, encodeString(v.String()))
	case FrameGetParameter:
		v := c.svc.Params.Get(req.ID, req.Subparam)
		return c.reply(FrameValueReply, encodeString(v.String()))
	case FrameSetParameter:
		if err := c.svc.Params.Set(req.ID, req.Subparam, req.Value, c.client); err != nil {
			return c.errorReply(err)
		}
		return c.ack()
	}
	return nil
}

// illegalInstruction replies ERR_ILLEGAL_INSTRUCTION and closes the
// connection (spec §7.3): the request itself is the protocol violation,
// not something a retry can fix.
func (c *Conn) illegalInstruction() error {
	c.WriteFrame(Frame{Type: FrameError, Payload: encodeString(ErrIllegalInstruction.Error())})
	return ErrIllegalInstruction
}

// notifyDisplayOwnership reports the current display-ownership state to
// Services.OnDisplayOwnerChanged, if configured.
func (c *Conn) notifyDisplayOwnership() {
	if c.svc.OnDisplayOwnerChanged != nil {
		c.svc.OnDisplayOwnerChanged(c.svc.Display.Owner() != nil)
	}
}

func (c *Conn) ack() error { return c.WriteFrame(Frame{Type: FrameAck}) }

func (c *Conn) reply(t FrameType, payload []byte) error {
	return c.WriteFrame(Frame{Type: t, Payload: payload})
}

func (c *Conn) errorReply(err error) error {
	c.WriteFrame(Frame{Type: FrameError, Payload: encodeString(err.Error())})
	return nil
}

func driverNameOf(d bridge.BrailleDriver) string {
	if d == nil {
		return ""
	}
	if named, ok := d.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}
