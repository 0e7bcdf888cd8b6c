package core

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scanbridge/scanbridge/audio"
	"github.com/scanbridge/scanbridge/buttons"
	"github.com/scanbridge/scanbridge/capture"
	"github.com/scanbridge/scanbridge/config"
	"github.com/scanbridge/scanbridge/selftest"
	"github.com/scanbridge/scanbridge/telemetry"
)

// CaptureArmer arms the next scanline capture and reports whether the
// source is currently in sync (spec.md §4.1, §4.2: the capture side of the
// pipeline core-0 drives every line).
type CaptureArmer interface {
	ArmNextLine(ctx context.Context) error
}

// AudioFallback is the software audio-poll path core-0 drives when core-1
// is starved (spec.md §4.9/§4.10): "may opportunistically drain the audio
// ring when core-1 is starved."
type AudioFallback interface {
	Step() bool
}

// Core0Controller is the single main loop driving capture arming,
// button/IR polling, OSD state, self-test, telemetry, and the audio-poll
// fallback (spec.md §4.10). Its scheduling model is single-threaded
// cooperative; only long, out-of-hot-path operations (firmware update,
// user-data I/O) are allowed to block.
type Core0Controller struct {
	capture    CaptureArmer
	buttonDC   *buttons.Button
	buttonSRC  *buttons.Button
	probe      *selftest.Probe
	counters   *telemetry.Counters
	audioPoll  AudioFallback
	cfg        *config.Config
	src        *audio.SampleRateConverter

	// starvedThreshold is how long core-1's last scanline callback may go
	// unobserved before core-0 starts opportunistically draining audio
	// itself (spec.md §4.9's "when core-1 is starved").
	starvedThreshold time.Duration
	lastCore1Seen    time.Time
	now              func() time.Time
}

// NewCore0Controller wires a controller to its collaborators. cfg is the
// live configuration the button handlers mutate in place.
func NewCore0Controller(capture CaptureArmer, counters *telemetry.Counters, cfg *config.Config, src *audio.SampleRateConverter) *Core0Controller {
	return &Core0Controller{
		capture:          capture,
		buttonDC:         buttons.NewButton(),
		buttonSRC:        buttons.NewButton(),
		probe:            selftest.NewProbe([]string{"csync", "pclk", "bck", "ws", "dat"}),
		counters:         counters,
		cfg:              cfg,
		src:              src,
		starvedThreshold: 50 * time.Millisecond,
		now:              time.Now,
	}
}

// SetAudioFallback installs the software poll path used when core-1 is
// starved. Optional: a controller with no fallback simply never drains
// audio itself.
func (c *Core0Controller) SetAudioFallback(a AudioFallback) { c.audioPoll = a }

// NotifyCore1Alive is called by anything observing a successful core-1
// scanline callback (the HDMI engine, in production); it resets the
// starvation clock.
func (c *Core0Controller) NotifyCore1Alive() { c.lastCore1Seen = c.now() }

// Step runs one iteration of the main loop: arm the next capture line,
// poll both buttons, sample self-test pins, and opportunistically drain
// audio if core-1 looks starved. It never blocks longer than one frame
// period (spec.md §5).
func (c *Core0Controller) Step(ctx context.Context, dcDown, srcDown bool, pins map[string]bool) {
	if err := c.capture.ArmNextLine(ctx); err != nil {
		// Transient signal loss is expected and handled by the sync
		// decoder's own NoSignal reporting; nothing else to do here.
		c.counters.SetNoSignal(true)
	} else {
		c.counters.SetNoSignal(false)
		c.counters.MarkSignalSeen(c.now().UnixNano())
	}

	now := c.now()
	if c.buttonDC.Sample(dcDown, now) {
		c.cfg.DCFilterOn = !c.cfg.DCFilterOn
		log.Info("dc filter toggled", "on", c.cfg.DCFilterOn)
	}
	if c.buttonSRC.Sample(srcDown, now) {
		c.advanceSRCMode()
	}

	for pin, high := range pins {
		c.probe.Sample(pin, high)
	}

	if c.audioPoll != nil && now.Sub(c.lastCore1Seen) > c.starvedThreshold {
		c.audioPoll.Step()
	}
}

func (c *Core0Controller) advanceSRCMode() {
	next := c.cfg.SRCMode
	switch next {
	case audio.Passthrough:
		next = audio.Decimate
	case audio.Decimate:
		next = audio.Linear
	default:
		next = audio.Passthrough
	}
	c.cfg.SRCMode = next
	if c.src != nil {
		c.src.SetMode(next)
	}
	log.Info("src mode advanced", "mode", next)
}

// SelftestResults exposes the underlying probe's accumulated state for a
// diagnostics page render.
func (c *Core0Controller) SelftestResults() []selftest.Result { return c.probe.Results() }

// syncAdapter wraps a capture.PixelSampler + capture.Framebuffer pair with
// the CaptureArmer shape Core0Controller expects, feeding a fresh line
// buffer and writing the result into the framebuffer on success.
type syncAdapter struct {
	sampler *capture.PixelSampler
	fb      *capture.Framebuffer
	row     int
	width   int
	scratch []capture.RawWord
}

// NewSyncAdapter builds a CaptureArmer that drives sampler one line at a
// time into fb, wrapping at height.
func NewSyncAdapter(sampler *capture.PixelSampler, fb *capture.Framebuffer) CaptureArmer {
	return &syncAdapter{sampler: sampler, fb: fb, width: fb.Width(), scratch: make([]capture.RawWord, fb.Width())}
}

func (a *syncAdapter) ArmNextLine(ctx context.Context) error {
	if err := a.sampler.Arm(a.scratch).Wait(ctx); err != nil {
		return err
	}
	a.fb.WriteLine(a.row, a.scratch)
	a.row = (a.row + 1) % a.fb.Height()
	return nil
}
