package protocol

import (
	"testing"

	"github.com/brltty-go/bridge"
)

func TestNewClientHasUniqueID(t *testing.T) {
	a := NewClient(nil)
	b := NewClient(nil)
	if a.ID == b.ID {
		t.Fatal("expected distinct client IDs")
	}
}

func TestClientTTYPathIsolated(t *testing.T) {
	c := NewClient(nil)
	path := []int{1, 2}
	c.SetTTYPath(path)
	path[0] = 99 // mutate caller's slice after set
	if got := c.TTYPath(); got[0] != 1 {
		t.Fatalf("SetTTYPath should copy, got %v", got)
	}

	returned := c.TTYPath()
	returned[0] = 42 // mutate the returned slice
	if got := c.TTYPath(); got[0] != 1 {
		t.Fatalf("TTYPath should return a copy, got %v", got)
	}
}

func TestEncodeKeyPacksGroupNumberAndModifiers(t *testing.T) {
	k := bridge.KeyID{Group: bridge.KeyGroupBraille, Number: 7}
	encoded := EncodeKey(k, 0x1)
	if encoded>>32 != 0x1 {
		t.Fatalf("expected modifiers in high 32 bits, got %#x", encoded)
	}
	if (encoded>>24)&0xFF != uint64(bridge.KeyGroupBraille) {
		t.Fatalf("expected group bits to match, got %#x", encoded)
	}
}

func TestClientOwnsDisplayDefaultsFalse(t *testing.T) {
	c := NewClient(nil)
	if c.OwnsDisplay() {
		t.Fatal("expected new client to not own the display")
	}
}
