package bridge

import "testing"

func TestValueConstructors(t *testing.T) {
	if v := BoolValue(true); v.Kind != ValueBool || !v.B {
		t.Errorf("BoolValue(true) = %+v", v)
	}
	if v := IntValue(42); v.Kind != ValueInt || v.I != 42 {
		t.Errorf("IntValue(42) = %+v", v)
	}
	if v := StringValue("hi"); v.Kind != ValueString || v.S != "hi" {
		t.Errorf("StringValue(\"hi\") = %+v", v)
	}
	if v := BytesValue([]byte{1, 2}); v.Kind != ValueBytes || string(v.Buf) != "\x01\x02" {
		t.Errorf("BytesValue = %+v", v)
	}
}

func TestValueCloneIsIndependentForBytes(t *testing.T) {
	buf := []byte{1, 2, 3}
	v := BytesValue(buf)
	c := v.Clone()
	buf[0] = 99
	c.Buf[1] = 88

	if v.Buf[0] == 99 {
		t.Error("BytesValue did not copy its input slice")
	}
	if c.Buf[1] == v.Buf[1] {
		t.Error("Clone shares backing storage with the original")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{BoolValue(true), "true"},
		{IntValue(7), "7"},
		{StringValue("x"), "x"},
		{BytesValue([]byte{0xAB}), "ab"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}
