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

// Package protocol implements the client-server wire protocol (spec
// §4.5): frame codec, connection state machine, TTY tree and focus,
// key-range routing, the parameter bus, and authentication.
package protocol

import (
	"encoding/binary"
	"io"

	"github.com/brltty-go/bridge"
)

// MaxFramePayload bounds a single frame's payload, guarding against a
// misbehaving peer claiming an unbounded length.
const MaxFramePayload = 16 << 20

// Frame is one `length:u32 | type:u32 | payload` unit (spec §4.5.1).
type Frame struct {
	Type    FrameType
	Payload []byte
}

// WriteFrame writes f to w in the wire format.
func WriteFrame(w io.Writer, f Frame) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(f.Payload)))
	binary.BigEndian.PutUint32(header[4:8], uint32(f.Type))
	if _, err := w.Write(header[:]); err != nil {
		return bridge.NewError(bridge.KindTransport, "protocol.writeFrame", err)
	}
	if len(f.Payload) == 0 {
		return nil
	}
	if _, err := w.Write(f.Payload); err != nil {
		return bridge.NewError(bridge.KindTransport, "protocol.writeFrame", err)
	}
	return nil
}

// ReadFrame reads one frame from r.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, bridge.NewError(bridge.KindTransport, "protocol.readFrame", err)
	}
	length := binary.BigEndian.Uint32(header[0:4])
	typ := FrameType(binary.BigEndian.Uint32(header[4:8]))
	if length > MaxFramePayload {
		return Frame{}, bridge.NewError(bridge.KindProtocol, "protocol.readFrame", ErrFrameTooLarge)
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, bridge.NewError(bridge.KindTransport, "protocol.readFrame", err)
		}
	}
	return Frame{Type: typ, Payload: payload}, nil
}
