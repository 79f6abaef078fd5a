package bridge

import "fmt"

// ParamID identifies a Parameter family (spec §3). Subparam distinguishes
// instances within a family that is per-TTY or per-client (e.g. a cursor
// style parameter that exists once per attached client).
type ParamID int

const (
	ParamDriverName ParamID = iota
	ParamModelIdentifier
	ParamDisplaySize
	ParamCellCount
	ParamCursorDots
	ParamTextTable
	ParamContractionTable
	ParamKeyboardTable
	ParamClipboardContent
	ParamSkipIdenticalLines
	ParamAudibleAlerts
	ParamLongPressTime
	ParamAutoRepeatRate
	ParamStickyResetTime
	ParamTrackCursor
	ParamShowScreenCursor
	ParamSkipBlankWindows
	ParamSliding
)

// ValueKind tags the dynamic type carried by a Value.
type ValueKind int

const (
	ValueBool ValueKind = iota
	ValueInt
	ValueString
	ValueBytes
)

// Value is a typed parameter value. Exactly one of the fields matching
// Kind is meaningful.
type Value struct {
	Kind ValueKind
	B    bool
	I    int64
	S    string
	Buf  []byte
}

func BoolValue(b bool) Value     { return Value{Kind: ValueBool, B: b} }
func IntValue(i int64) Value     { return Value{Kind: ValueInt, I: i} }
func StringValue(s string) Value { return Value{Kind: ValueString, S: s} }
func BytesValue(b []byte) Value  { return Value{Kind: ValueBytes, Buf: append([]byte(nil), b...)} }

// Clone returns an independent copy of v, used by the parameter bus's
// copy-on-notify delivery (spec §5).
func (v Value) Clone() Value {
	c := v
	if v.Kind == ValueBytes {
		c.Buf = append([]byte(nil), v.Buf...)
	}
	return c
}

func (v Value) String() string {
	switch v.Kind {
	case ValueBool:
		return fmt.Sprintf("%v", v.B)
	case ValueInt:
		return fmt.Sprintf("%d", v.I)
	case ValueString:
		return v.S
	case ValueBytes:
		return fmt.Sprintf("% x", v.Buf)
	default:
		return "<invalid>"
	}
}

// ParamKey identifies one parameter instance: a family plus an optional
// subparam (TTY path hash, client ID, ...), per spec §3.
type ParamKey struct {
	ID      ParamID
	Subpram int
}

// ParamUpdate bundles a parameter key with its new value: the payload
// shape published on ReportParameterUpdated so a ParameterBus can mirror
// a domain-side change (e.g. the clipboard) without re-deriving the
// value from whatever happened to already be cached.
type ParamUpdate struct {
	Key   ParamKey
	Value Value
}

// paramKinds declares the ValueKind each Parameter family carries. A
// setParameter request whose Value.Kind disagrees with its family's
// declared kind is rejected rather than stored (see ParamKind).
var paramKinds = map[ParamID]ValueKind{
	ParamDriverName:         ValueString,
	ParamModelIdentifier:    ValueString,
	ParamDisplaySize:        ValueInt,
	ParamCellCount:          ValueInt,
	ParamCursorDots:         ValueInt,
	ParamTextTable:          ValueString,
	ParamContractionTable:   ValueString,
	ParamKeyboardTable:      ValueString,
	ParamClipboardContent:   ValueString,
	ParamSkipIdenticalLines: ValueBool,
	ParamAudibleAlerts:      ValueBool,
	ParamLongPressTime:      ValueInt,
	ParamAutoRepeatRate:     ValueInt,
	ParamStickyResetTime:    ValueInt,
	ParamTrackCursor:        ValueBool,
	ParamShowScreenCursor:   ValueBool,
	ParamSkipBlankWindows:   ValueBool,
	ParamSliding:            ValueBool,
}

// ParamKind reports the declared ValueKind for id, and whether id has a
// declared kind at all.
func ParamKind(id ParamID) (ValueKind, bool) {
	k, ok := paramKinds[id]
	return k, ok
}
