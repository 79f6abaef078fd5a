package alarm

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAfterFires(t *testing.T) {
	var n int32
	After(5*time.Millisecond, func() { atomic.AddInt32(&n, 1) })
	time.Sleep(40 * time.Millisecond)
	if atomic.LoadInt32(&n) != 1 {
		t.Fatalf("fired %d times, want 1", n)
	}
}

func TestCancelIsIdempotentAndPreventsFire(t *testing.T) {
	var n int32
	h := After(10*time.Millisecond, func() { atomic.AddInt32(&n, 1) })
	h.Cancel()
	h.Cancel()
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&n) != 0 {
		t.Fatalf("cancelled alarm fired %d times, want 0", n)
	}
}

func TestRepeatingStopsOnCancel(t *testing.T) {
	var n int32
	h := Repeating(5*time.Millisecond, func() { atomic.AddInt32(&n, 1) })
	time.Sleep(27 * time.Millisecond)
	h.Cancel()
	got := atomic.LoadInt32(&n)
	time.Sleep(20 * time.Millisecond)
	if atomic.LoadInt32(&n) != got {
		t.Fatalf("repeating alarm kept firing after Cancel: %d -> %d", got, atomic.LoadInt32(&n))
	}
	if got < 2 {
		t.Fatalf("expected at least 2 ticks before cancel, got %d", got)
	}
}
