package audio

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRingFullAtCapacityMinusOne(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 3; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d unexpectedly rejected", i)
		}
	}
	if !r.Full() {
		t.Fatal("expected ring full at capacity-1 entries")
	}
	if r.Push(99) {
		t.Fatal("push into full ring should be rejected")
	}
}

func TestRingAvailableNonNegativeAndBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cap := uint32(1) << rapid.IntRange(1, 6).Draw(t, "log2cap")
		r := NewRing[int](cap)

		ops := rapid.SliceOfN(rapid.IntRange(0, 1), 0, 200).Draw(t, "ops")
		for _, op := range ops {
			if op == 0 {
				r.Push(0)
			} else {
				r.Pop()
			}
			avail := r.Available()
			if avail > cap-1 {
				t.Fatalf("available %d exceeds N-1 (%d)", avail, cap-1)
			}
		}
	})
}

func TestRingNoTornSample(t *testing.T) {
	r := NewRing[Sample](8)
	for i := 0; i < 5; i++ {
		r.Push(Sample{L: int16(i), R: int16(-i)})
	}
	for i := 0; i < 5; i++ {
		got, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d: expected ok", i)
		}
		if got.L != int16(i) || got.R != int16(-i) {
			t.Fatalf("pop %d: got %+v, want L=%d R=%d", i, got, i, -i)
		}
	}
}

func TestRingOverflowCountsNotLost(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 3; i++ {
		r.Push(i)
	}
	overflows := 0
	for i := 0; i < 3; i++ {
		if !r.Push(100 + i) {
			overflows++
		}
	}
	if overflows != 3 {
		t.Fatalf("overflows = %d, want 3", overflows)
	}
	for i := 0; i < 3; i++ {
		v, ok := r.Pop()
		if !ok || v != i {
			t.Fatalf("pop %d = %v,%v want %d,true", i, v, ok, i)
		}
	}
}
