package main

import (
	"context"

	"github.com/scanbridge/scanbridge/audio"
	"github.com/scanbridge/scanbridge/config"
)

// audioPipeline is the bench harness's stand-in for the audio half of
// spec.md §4.9's core-1 background task: drain the I2S ring, run the
// DC-block/low-pass/SRC chain, hand the result to both the HDMI packetiser
// and the local speaker sink.
type audioPipeline struct {
	capture *audio.I2SCapture
	in      *audio.Ring[audio.Sample]
	dc      *audio.DCBlocker
	lpf     *audio.LowPassFilter
	src     *audio.SampleRateConverter
	pkt     *audio.Packetiser
	outRing *audio.Ring[audio.Sample]
	cfg     *config.Config

	scratch []audio.Sample
	resamp  []audio.Sample
}

func newAudioPipeline(capture *audio.I2SCapture, in *audio.Ring[audio.Sample], dc *audio.DCBlocker, lpf *audio.LowPassFilter, src *audio.SampleRateConverter, pkt *audio.Packetiser, outRing *audio.Ring[audio.Sample], cfg *config.Config) *audioPipeline {
	return &audioPipeline{
		capture: capture, in: in, dc: dc, lpf: lpf, src: src, pkt: pkt, outRing: outRing, cfg: cfg,
		scratch: make([]audio.Sample, 256),
		resamp:  make([]audio.Sample, 256),
	}
}

// Step drains up to len(p.scratch) samples from the I2S ring, runs the
// filter/SRC chain, and fans the result out to the packetiser and the
// local playback ring. It never blocks: an empty input ring is simply a
// no-op pass (spec.md §4.9 background task: "may suspend by returning").
func (p *audioPipeline) Step() bool {
	p.dc.SetEnabled(p.cfg.DCFilterOn)
	p.lpf.SetEnabled(p.cfg.LPFOn)
	if p.src.Mode() != p.cfg.SRCMode {
		p.src.SetMode(p.cfg.SRCMode)
	}

	n := 0
	for n < len(p.scratch) {
		s, ok := p.in.Pop()
		if !ok {
			break
		}
		p.scratch[n] = s
		n++
	}
	if n == 0 {
		return false
	}

	batch := p.scratch[:n]
	p.dc.Process(batch)
	p.lpf.Process(batch)

	consumed := 0
	for consumed < n {
		nOut, nIn := p.src.Process(batch[consumed:], p.resamp)
		if nOut == 0 && nIn == 0 {
			break
		}
		consumed += nIn
		out := p.resamp[:nOut]
		p.pkt.PushSamples(out)
		for _, s := range out {
			p.outRing.Push(s)
		}
	}
	return true
}

// RunAudioSource pumps the synthetic FrameSource into the I2S ring until
// ctx is cancelled; in production this step is a PIO/DMA completion, not a
// goroutine loop, but the bench harness has no such interrupt to hook.
func RunAudioSource(ctx context.Context, capture *audio.I2SCapture) {
	capture.Run(ctx)
}
