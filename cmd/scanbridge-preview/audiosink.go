package main

import (
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/scanbridge/scanbridge/audio"
)

// otoSink drives local speaker playback of the packetised/resampled 48kHz
// stream, modelled on the teacher's audio_backend_oto.go OtoPlayer: oto's
// reader callback pops samples straight from a ring the pipeline's
// background task keeps topped up.
type otoSink struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *audio.Ring[audio.Sample]

	mu      sync.Mutex
	started bool
}

// newOtoSink opens an oto context at outputRateHz and wires it to drain
// ring for playback.
func newOtoSink(outputRateHz int, ring *audio.Ring[audio.Sample]) (*otoSink, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   outputRateHz,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	sink := &otoSink{ctx: ctx, ring: ring}
	sink.player = ctx.NewPlayer(sink)
	return sink, nil
}

// Read implements io.Reader for oto: each call drains available stereo
// samples from the ring into p as interleaved signed 16-bit little-endian
// PCM, and pads with silence when the ring underruns rather than blocking
// the audio callback thread.
func (s *otoSink) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		sample, ok := s.ring.Pop()
		off := i * 4
		if !ok {
			p[off], p[off+1], p[off+2], p[off+3] = 0, 0, 0, 0
			continue
		}
		p[off] = byte(sample.L)
		p[off+1] = byte(sample.L >> 8)
		p[off+2] = byte(sample.R)
		p[off+3] = byte(sample.R >> 8)
	}
	return n * 4, nil
}

// Start begins playback; idempotent.
func (s *otoSink) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.player.Play()
		s.started = true
	}
}

// Close stops playback and releases the player.
func (s *otoSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.player.Close()
		s.started = false
	}
}
