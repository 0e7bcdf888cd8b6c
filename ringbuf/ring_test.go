package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewPanicsOnNonPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { New[int](3) })
	require.Panics(t, func() { New[int](0) })
}

func TestPushPopFIFOOrder(t *testing.T) {
	r := New[int](8)
	for i := 0; i < 5; i++ {
		require.True(t, r.Push(i))
	}
	for i := 0; i < 5; i++ {
		v, ok := r.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := r.Pop()
	require.False(t, ok)
}

func TestFullAtCapacityMinusOne(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 3; i++ {
		require.True(t, r.Push(i))
	}
	require.True(t, r.Full())
	require.False(t, r.Push(99))
}

// TestRingNeverExceedsCapacityMinusOne drives an arbitrary sequence of
// pushes and pops and checks the ring's own bookkeeping (Available, Free,
// Full) stays internally consistent at every step -- the property spec.md
// §8 calls out directly: "ring at exactly N-1 filled entries reports full".
func TestRingNeverExceedsCapacityMinusOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capExp := rapid.IntRange(1, 6).Draw(t, "capExp")
		capacity := uint32(1) << capExp
		r := New[int](capacity)

		var modelLen int
		ops := rapid.SliceOfN(rapid.Bool(), 1, 200).Draw(t, "ops")
		for i, doPush := range ops {
			if doPush {
				ok := r.Push(i)
				if modelLen < int(capacity)-1 {
					require.True(t, ok, "push should succeed: modelLen=%d cap=%d", modelLen, capacity)
					modelLen++
				} else {
					require.False(t, ok, "push should fail when full")
				}
			} else {
				_, ok := r.Pop()
				if modelLen > 0 {
					require.True(t, ok)
					modelLen--
				} else {
					require.False(t, ok)
				}
			}
			require.Equal(t, uint32(modelLen), r.Available())
			require.Equal(t, capacity-1-uint32(modelLen), r.Free())
			require.Equal(t, modelLen == int(capacity)-1, r.Full())
		}
	})
}

// TestRingPreservesFIFOOrderUnderMixedOps checks the stronger property that
// survives arbitrary interleaving of pushes and pops: whatever comes out is
// exactly the sequence of values pushed, in order, regardless of how many
// pops happened in between.
func TestRingPreservesFIFOOrderUnderMixedOps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New[int](16)
		var pushed, popped []int
		next := 0

		ops := rapid.SliceOfN(rapid.Bool(), 1, 300).Draw(t, "ops")
		for _, doPush := range ops {
			if doPush {
				if r.Push(next) {
					pushed = append(pushed, next)
				}
				next++
			} else {
				if v, ok := r.Pop(); ok {
					popped = append(popped, v)
				}
			}
		}
		require.Equal(t, pushed[:len(popped)], popped)
	})
}
