package main

import (
	"math"

	"github.com/scanbridge/scanbridge/audio"
	"github.com/scanbridge/scanbridge/capture"
)

// testPatternSource is a synthetic capture.PixelSource standing in for the
// pixel-sampler PIO program: it produces a fixed 320x224 test card (vertical
// colour bars with a diagonal wipe) one line at a time, repeating forever.
// It exists purely for the bench harness -- there is no physical ADC to
// sample from when developing off the real board.
type testPatternSource struct {
	width, height int
	x, y          int
	bars          []uint16
}

// newTestPatternSource builds a source producing the native 320x224 active
// area spec.md §6 specifies for the primary source timing.
func newTestPatternSource(width, height int) *testPatternSource {
	bars := []uint16{
		0x7FFF, // white  (5:5:5 all-on)
		0x7FE0, // yellow-ish
		0x03FF, // cyan-ish
		0x03E0, // green
		0x7C1F, // magenta-ish
		0x7C00, // red
		0x001F, // blue
		0x0000, // black
	}
	return &testPatternSource{width: width, height: height, bars: bars}
}

func (s *testPatternSource) NextPixel() (capture.RawWord, bool) {
	if s.y >= s.height {
		s.y = 0
	}
	barW := s.width / len(s.bars)
	bar := s.x / maxInt(barW, 1)
	if bar >= len(s.bars) {
		bar = len(s.bars) - 1
	}
	rgb15 := s.bars[bar]
	shadow := (s.x+s.y)%37 == 0 // sprinkle a few shadow-bit pixels to exercise darken
	w := capture.NewRawWord(rgb15, shadow)

	s.x++
	if s.x >= s.width {
		s.x = 0
		s.y++
	}
	return w, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// sineFrameSource is a synthetic audio.FrameSource producing a 1kHz stereo
// sine wave at the given source sample rate, the bench-harness equivalent
// of spec.md §8 scenario S2's test input.
type sineFrameSource struct {
	sampleRate float64
	freqHz     float64
	phase      float64
}

func newSineFrameSource(sampleRateHz, freqHz float64) *sineFrameSource {
	return &sineFrameSource{sampleRate: sampleRateHz, freqHz: freqHz}
}

func (s *sineFrameSource) NextFrame() (audio.Sample, bool) {
	v := math.Sin(2 * math.Pi * s.phase)
	s.phase += s.freqHz / s.sampleRate
	if s.phase >= 1 {
		s.phase -= 1
	}
	sample := int16(v * 0.7 * math.MaxInt16) // 0dBFS-ish headroom
	return audio.Sample{L: sample, R: sample}, true
}
