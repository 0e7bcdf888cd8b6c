package audio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scanbridge/scanbridge/video"
)

func TestPacketiserEmitsOnFourFrames(t *testing.T) {
	q := video.NewDataIslandQueue(8)
	p := NewPacketiser(q, 48000)

	p.PushSamples([]Sample{{L: 1, R: 2}, {L: 3, R: 4}, {L: 5, R: 6}})
	_, ok := q.PopOrSilence()
	require.False(t, ok, "no packet should be emitted before the fourth frame")

	p.PushSamples([]Sample{{L: 7, R: 8}})
	block, ok := q.PopOrSilence()
	require.True(t, ok)
	require.Equal(t, guardSymbol, block.Symbols[0])
	require.Equal(t, guardSymbol, block.Symbols[1])
	require.Equal(t, guardSymbol, block.Symbols[len(block.Symbols)-1])
}

func TestPacketiserBlockStartWrapsEvery192Frames(t *testing.T) {
	q := video.NewDataIslandQueue(64)
	p := NewPacketiser(q, 48000)

	// 192 / 4 = 48 packets per block; the 49th packet must mark a new
	// block start (B-bit set) the same way the 1st did.
	samples := make([]Sample, 192)
	p.PushSamples(samples)
	first, ok := q.PopOrSilence()
	require.True(t, ok)
	require.Equal(t, uint16(1), first.Symbols[2]&1)

	for i := 1; i < 48; i++ {
		blk, ok := q.PopOrSilence()
		require.True(t, ok)
		require.Zero(t, blk.Symbols[2]&1, "packet %d should not be a block start", i)
	}

	p.PushSamples(make([]Sample, 4))
	next, ok := q.PopOrSilence()
	require.True(t, ok)
	require.Equal(t, uint16(1), next.Symbols[2]&1)
}

func TestPacketiserDropsOnFullQueue(t *testing.T) {
	q := video.NewDataIslandQueue(2)
	p := NewPacketiser(q, 48000)

	for i := 0; i < 4; i++ {
		p.PushSamples([]Sample{{}, {}, {}, {}})
	}
	require.Greater(t, p.DroppedPackets(), uint64(0))
}

func TestAcrNCTSKnownRate(t *testing.T) {
	n, cts := acrNCTS(48000, 25_200_000)
	require.Equal(t, uint32(6144), n)
	require.Greater(t, cts, uint32(0))
}

func TestAcrNCTSUnknownRateClampsToDefault(t *testing.T) {
	n, _ := acrNCTS(96000, 25_200_000)
	require.Equal(t, uint32(6144), n)
}

func TestEmitFrameAuxPushesTwoIslands(t *testing.T) {
	q := video.NewDataIslandQueue(8)
	p := NewPacketiser(q, 48000)
	p.EmitFrameAux(25_200_000)

	_, ok1 := q.PopOrSilence()
	_, ok2 := q.PopOrSilence()
	require.True(t, ok1)
	require.True(t, ok2)
}
