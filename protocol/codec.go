package protocol

import (
	"encoding/binary"
	"errors"
	"strconv"

	"github.com/brltty-go/bridge"
)

// The payload encodings below are deliberately simple packed layouts
// (spec §4.5.1: "a packed C-style struct in network byte order"); there
// is no generic reflection-based marshaler since the request set is
// small and fixed.

func encodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func decodeUint32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, errShortPayload
	}
	return binary.BigEndian.Uint32(b[:4]), b[4:], nil
}

func encodeString(s string) []byte {
	b := encodeUint32(uint32(len(s)))
	return append(b, s...)
}

func decodeString(b []byte) (string, []byte, error) {
	n, rest, err := decodeUint32(b)
	if err != nil {
		return "", nil, err
	}
	if uint32(len(rest)) < n {
		return "", nil, errShortPayload
	}
	return string(rest[:n]), rest[n:], nil
}

var errShortPayload = bridge.NewError(bridge.KindProtocol, "protocol.codec", errors.New("payload too short"))

// ErrUnknownFrame is returned when a connection receives a FrameType it
// does not recognize as a request.
var ErrUnknownFrame = errors.New("unknown frame type")

// encodePath/decodePath implement the `depth, path[depth]` shape shared
// by enterTTYMode and setFocus (spec §4.5.3, §4.5.4).
func encodePath(path []int) []byte {
	out := encodeUint32(uint32(len(path)))
	for _, p := range path {
		out = append(out, encodeUint32(uint32(p))...)
	}
	return out
}

func decodePath(b []byte) ([]int, []byte, error) {
	n, rest, err := decodeUint32(b)
	if err != nil {
		return nil, nil, err
	}
	path := make([]int, 0, n)
	for i := uint32(0); i < n; i++ {
		var v uint32
		v, rest, err = decodeUint32(rest)
		if err != nil {
			return nil, nil, err
		}
		path = append(path, int(v))
	}
	return path, rest, nil
}

// encodeWriteRequest/decodeWriteRequest implement the write() request
// payload (spec §4.5.3, §4.5.6).
func encodeWriteRequest(r WriteRequest) []byte {
	out := encodeUint32(uint32(r.Region.Left))
	out = append(out, encodeUint32(uint32(r.Region.Top))...)
	out = append(out, encodeUint32(uint32(r.Region.Width))...)
	out = append(out, encodeUint32(uint32(r.Region.Height))...)
	out = append(out, encodeUint32(uint32(len(r.Cells)))...)
	for _, c := range r.Cells {
		out = append(out, byte(c))
	}
	out = append(out, encodeString(r.Text)...)
	out = append(out, encodeUint32(uint32(r.CursorCol))...)
	out = append(out, encodeUint32(uint32(r.CursorRow))...)
	out = append(out, encodeString(r.Charset)...)
	return out
}

func decodeWriteRequest(b []byte) (WriteRequest, error) {
	var r WriteRequest
	left, rest, err := decodeUint32(b)
	if err != nil {
		return r, err
	}
	top, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	width, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	height, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	n, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	if uint32(len(rest)) < n {
		return r, errShortPayload
	}
	cells := make([]bridge.BrailleCell, n)
	for i := range cells {
		cells[i] = bridge.BrailleCell(rest[i])
	}
	rest = rest[n:]
	text, rest, err := decodeString(rest)
	if err != nil {
		return r, err
	}
	cursorCol, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	cursorRow, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	charset, _, err := decodeString(rest)
	if err != nil {
		return r, err
	}
	r.Region = bridge.Box{Left: int(left), Top: int(top), Width: int(width), Height: int(height)}
	r.Cells = cells
	r.Text = text
	r.CursorCol = int(cursorCol)
	r.CursorRow = int(cursorRow)
	r.Charset = charset
	return r, nil
}

// encodeRangeList/decodeRangeList implement acceptKeys/ignoreKeys' range
// list payload (spec §4.5.3, §4.5.5).
func encodeRangeList(ranges []KeyRange) []byte {
	out := encodeUint32(uint32(len(ranges)))
	for _, r := range ranges {
		var min, max [8]byte
		binary.BigEndian.PutUint64(min[:], r.Min)
		binary.BigEndian.PutUint64(max[:], r.Max)
		out = append(out, min[:]...)
		out = append(out, max[:]...)
	}
	return out
}

func decodeRangeList(b []byte) ([]KeyRange, error) {
	n, rest, err := decodeUint32(b)
	if err != nil {
		return nil, err
	}
	ranges := make([]KeyRange, 0, n)
	for i := uint32(0); i < n; i++ {
		if len(rest) < 16 {
			return nil, errShortPayload
		}
		min := binary.BigEndian.Uint64(rest[0:8])
		max := binary.BigEndian.Uint64(rest[8:16])
		rest = rest[16:]
		ranges = append(ranges, KeyRange{Min: min, Max: max})
	}
	return ranges, nil
}

// EncodeVersion/DecodeVersion implement the FrameVersion payload.
func EncodeVersion(v uint32) []byte { return encodeUint32(v) }

func DecodeVersion(b []byte) (uint32, error) {
	v, _, err := decodeUint32(b)
	return v, err
}

// EncodeAuthTypes encodes the list of supported AuthKinds as a sequence
// of uint32 values (spec §4.5.2's auth-types frame).
func EncodeAuthTypes(kinds []AuthKind) []byte {
	out := encodeUint32(uint32(len(kinds)))
	for _, k := range kinds {
		out = append(out, encodeUint32(uint32(k))...)
	}
	return out
}

func DecodeAuthTypes(b []byte) ([]AuthKind, error) {
	n, rest, err := decodeUint32(b)
	if err != nil {
		return nil, err
	}
	kinds := make([]AuthKind, 0, n)
	for i := uint32(0); i < n; i++ {
		var v uint32
		v, rest, err = decodeUint32(rest)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, AuthKind(v))
	}
	return kinds, nil
}

// EncodeParameterRequest/DecodeParameterRequest implement
// watchParameter/getParameter/setParameter's shared payload shape.
func EncodeParameterRequest(r ParameterRequest) []byte {
	out := encodeUint32(uint32(r.ID))
	out = append(out, encodeUint32(uint32(r.Subparam))...)
	selfNotify := uint32(0)
	if r.SelfNotify {
		selfNotify = 1
	}
	out = append(out, encodeUint32(selfNotify)...)
	out = append(out, encodeUint32(uint32(r.Value.Kind))...)
	out = append(out, encodeString(r.Value.String())...)
	return out
}

func DecodeParameterRequest(b []byte) (ParameterRequest, error) {
	var r ParameterRequest
	id, rest, err := decodeUint32(b)
	if err != nil {
		return r, err
	}
	sub, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	selfNotify, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	kind, rest, err := decodeUint32(rest)
	if err != nil {
		return r, err
	}
	s, _, err := decodeString(rest)
	if err != nil {
		return r, err
	}
	r.ID = bridge.ParamID(id)
	r.Subparam = int(sub)
	r.SelfNotify = selfNotify != 0
	switch bridge.ValueKind(kind) {
	case bridge.ValueBool:
		r.Value = bridge.BoolValue(s == "true")
	case bridge.ValueInt:
		n, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			return r, bridge.NewError(bridge.KindProtocol, "protocol.codec", ErrParameter)
		}
		r.Value = bridge.IntValue(n)
	default:
		r.Value = bridge.StringValue(s)
	}
	return r, nil
}

// EncodeParameterUpdate/DecodeParameterUpdate implement the
// FrameParameterUpdate async payload (spec §4.5.7).
func EncodeParameterUpdate(u ParameterUpdateFrame) []byte {
	out := encodeUint32(uint32(u.ID))
	out = append(out, encodeUint32(uint32(u.Subparam))...)
	out = append(out, encodeString(u.Value.String())...)
	return out
}

func DecodeParameterUpdate(b []byte) (ParameterUpdateFrame, error) {
	var u ParameterUpdateFrame
	id, rest, err := decodeUint32(b)
	if err != nil {
		return u, err
	}
	sub, rest, err := decodeUint32(rest)
	if err != nil {
		return u, err
	}
	s, _, err := decodeString(rest)
	if err != nil {
		return u, err
	}
	u.ID = bridge.ParamID(id)
	u.Subparam = int(sub)
	u.Value = bridge.StringValue(s)
	return u, nil
}
