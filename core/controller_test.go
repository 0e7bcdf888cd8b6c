package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scanbridge/scanbridge/audio"
	"github.com/scanbridge/scanbridge/config"
	"github.com/scanbridge/scanbridge/telemetry"
)

type fakeArmer struct {
	fail bool
}

func (f *fakeArmer) ArmNextLine(ctx context.Context) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func TestControllerTogglesDCFilterOnDebouncedPress(t *testing.T) {
	var counters telemetry.Counters
	cfg := config.Default()
	src := audio.NewSampleRateConverter(55500, 48000)
	c := NewCore0Controller(&fakeArmer{}, &counters, &cfg, src)

	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.Step(context.Background(), true, false, nil)
	clock = clock.Add(60 * time.Millisecond)
	c.Step(context.Background(), false, false, nil)

	require.True(t, cfg.DCFilterOn)
}

func TestControllerAdvancesSRCModeOnPress(t *testing.T) {
	var counters telemetry.Counters
	cfg := config.Default()
	src := audio.NewSampleRateConverter(55500, 48000)
	c := NewCore0Controller(&fakeArmer{}, &counters, &cfg, src)

	clock := time.Now()
	c.now = func() time.Time { return clock }

	require.Equal(t, audio.Passthrough, cfg.SRCMode)
	c.Step(context.Background(), false, true, nil)
	clock = clock.Add(60 * time.Millisecond)
	c.Step(context.Background(), false, false, nil)

	require.Equal(t, audio.Decimate, cfg.SRCMode)
	require.Equal(t, audio.Decimate, src.Mode())
}

func TestControllerMarksNoSignalOnArmFailure(t *testing.T) {
	var counters telemetry.Counters
	cfg := config.Default()
	c := NewCore0Controller(&fakeArmer{fail: true}, &counters, &cfg, nil)

	c.Step(context.Background(), false, false, nil)
	require.True(t, counters.NoSignal())
}

type fakeAudioPoll struct{ steps int }

func (f *fakeAudioPoll) Step() bool { f.steps++; return true }

func TestControllerDrainsAudioWhenCore1Starved(t *testing.T) {
	var counters telemetry.Counters
	cfg := config.Default()
	c := NewCore0Controller(&fakeArmer{}, &counters, &cfg, nil)
	poll := &fakeAudioPoll{}
	c.SetAudioFallback(poll)

	clock := time.Now()
	c.now = func() time.Time { return clock }
	c.lastCore1Seen = clock.Add(-time.Second)

	c.Step(context.Background(), false, false, nil)
	require.Equal(t, 1, poll.steps)

	c.NotifyCore1Alive()
	c.Step(context.Background(), false, false, nil)
	require.Equal(t, 1, poll.steps, "core-1 alive recently: fallback should not run again")
}
