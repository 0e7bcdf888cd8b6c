package capture

import (
	"context"
	"errors"
)

// PixelSource stands in for the pixel-sampler PIO program's RX FIFO: each
// call returns the next sampled word on the source pixel clock. ok is false
// once the source line has ended (back porch reached, FIFO drained).
type PixelSource interface {
	NextPixel() (word RawWord, ok bool)
}

// ErrShortLine is returned by Wait when the source produced fewer than the
// armed width before signalling end-of-line.
var ErrShortLine = errors.New("capture: source line shorter than armed width")

// PixelSampler latches exactly W pixel words per active scanline into a
// caller-owned buffer, mirroring the chained-DMA "auto-rearm after each
// line" behaviour described in spec.md §4.2. A single PixelSampler instance
// is reused line over line; Arm followed by Wait is the whole contract.
type PixelSampler struct {
	src PixelSource
}

// NewPixelSampler binds a sampler to the source it will drain on each Wait.
func NewPixelSampler(src PixelSource) *PixelSampler {
	return &PixelSampler{src: src}
}

// Arm posts the destination buffer for the next line. lineBuffer must have
// length W; Wait fills it in place.
func (s *PixelSampler) Arm(lineBuffer []RawWord) *armedLine {
	return &armedLine{sampler: s, dst: lineBuffer}
}

type armedLine struct {
	sampler *PixelSampler
	dst     []RawWord
}

// Wait blocks (synchronously, in this software model) until len(dst) words
// have been written, or ctx is cancelled, or the source runs dry early.
func (a *armedLine) Wait(ctx context.Context) error {
	for i := range a.dst {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		word, ok := a.sampler.src.NextPixel()
		if !ok {
			return ErrShortLine
		}
		a.dst[i] = word
	}
	return nil
}
