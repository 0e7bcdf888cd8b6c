package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeFrameSource produces n frames then reports exhaustion.
type fakeFrameSource struct {
	n     int
	drawn int
}

func (s *fakeFrameSource) NextFrame() (Sample, bool) {
	if s.drawn >= s.n {
		return Sample{}, false
	}
	s.drawn++
	return Sample{L: int16(s.drawn), R: int16(-s.drawn)}, true
}

func TestI2SCaptureDrainsIntoRing(t *testing.T) {
	ring := NewRing[Sample](16)
	capture := NewI2SCapture(&fakeFrameSource{n: 5}, ring)

	for capture.Step() {
	}

	for i := 1; i <= 5; i++ {
		s, ok := ring.Pop()
		require.True(t, ok)
		require.Equal(t, Sample{L: int16(i), R: int16(-i)}, s)
	}
	_, ok := ring.Pop()
	require.False(t, ok)
	require.Zero(t, capture.Overflows())
}

func TestI2SCaptureCountsOverflowOnFullRing(t *testing.T) {
	ring := NewRing[Sample](4) // 3 live slots
	capture := NewI2SCapture(&fakeFrameSource{n: 10}, ring)

	for capture.Step() {
	}

	require.Equal(t, uint64(7), capture.Overflows())
}

func TestI2SCaptureRunStopsOnExhaustedSource(t *testing.T) {
	ring := NewRing[Sample](16)
	capture := NewI2SCapture(&fakeFrameSource{n: 3}, ring)

	capture.Run(context.Background())

	n := 0
	for {
		if _, ok := ring.Pop(); !ok {
			break
		}
		n++
	}
	require.Equal(t, 3, n)
}

func TestI2SCaptureRunStopsOnContextCancel(t *testing.T) {
	ring := NewRing[Sample](16)
	capture := NewI2SCapture(&fakeFrameSource{n: 1_000_000}, ring)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		capture.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly after ctx cancel")
	}
}

func TestI2SCaptureMeasuresRateAfterWindow(t *testing.T) {
	ring := NewRing[Sample](1024)
	capture := NewI2SCapture(&fakeFrameSource{n: 1000}, ring)

	fakeNow := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	capture.now = func() time.Time { return fakeNow }

	require.Zero(t, capture.MeasuredRate())

	for i := 0; i < 500; i++ {
		capture.Step()
	}
	fakeNow = fakeNow.Add(rateWindow)
	capture.Step()

	require.Greater(t, capture.MeasuredRate(), 0.0)
}
