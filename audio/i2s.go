package audio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// FrameSource stands in for the I²S PIO program's shift register output: a
// right-justified 24-bit stereo frame per call, of which only the low 16
// bits of linear PCM content matter (spec.md §4.5, §6).
type FrameSource interface {
	NextFrame() (Sample, bool)
}

// rateWindow is how often the measured source sample rate is recomputed
// (spec.md §4.5: "maintains a 500 ms window").
const rateWindow = 500 * time.Millisecond

// I2SCapture drains a FrameSource into a Ring[Sample], counting drops on
// overflow and tracking a rolling measurement of the actual source sample
// rate for the SRC and the health display.
type I2SCapture struct {
	src  FrameSource
	ring *Ring[Sample]
	now  func() time.Time

	overflows atomic.Uint64

	mu          sync.Mutex
	windowStart time.Time
	windowCount int
	measuredHz  float64
}

// NewI2SCapture binds a capture poller to its source and destination ring.
func NewI2SCapture(src FrameSource, ring *Ring[Sample]) *I2SCapture {
	return &I2SCapture{src: src, ring: ring, now: time.Now}
}

// Step pulls and ingests a single frame. It reports false once the source is
// exhausted. This is the unit tests drive directly; Run is a thin loop
// around it for production use.
func (c *I2SCapture) Step() bool {
	frame, ok := c.src.NextFrame()
	if !ok {
		return false
	}
	if !c.ring.Push(frame) {
		c.overflows.Add(1)
	}
	c.tick()
	return true
}

// Run calls Step until the source is exhausted or ctx is cancelled.
func (c *I2SCapture) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !c.Step() {
			return
		}
	}
}

func (c *I2SCapture) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.windowStart.IsZero() {
		c.windowStart = now
	}
	c.windowCount++
	if elapsed := now.Sub(c.windowStart); elapsed >= rateWindow {
		c.measuredHz = float64(c.windowCount) / elapsed.Seconds()
		c.windowCount = 0
		c.windowStart = now
	}
}

// Overflows returns the number of frames dropped because the ring was full.
func (c *I2SCapture) Overflows() uint64 {
	return c.overflows.Load()
}

// MeasuredRate returns the most recently computed source sample rate, or 0
// before the first full window has elapsed.
func (c *I2SCapture) MeasuredRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.measuredHz
}
