package video

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataIslandQueueFIFOOrder(t *testing.T) {
	q := NewDataIslandQueue(4)
	var a, b Block
	a.Symbols[0] = 1
	b.Symbols[0] = 2

	require.True(t, q.TryPush(a))
	require.True(t, q.TryPush(b))

	got, ok := q.PopOrSilence()
	require.True(t, ok)
	require.Equal(t, a, got)

	got, ok = q.PopOrSilence()
	require.True(t, ok)
	require.Equal(t, b, got)
}

func TestDataIslandQueuePopOrSilenceOnEmpty(t *testing.T) {
	q := NewDataIslandQueue(4)
	got, ok := q.PopOrSilence()
	require.False(t, ok)
	require.Equal(t, silentBlock, got)
}

func TestDataIslandQueueDropsOnFull(t *testing.T) {
	q := NewDataIslandQueue(2) // one live slot
	require.True(t, q.TryPush(Block{}))
	require.False(t, q.TryPush(Block{}))
}
