package video

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// commandKind mirrors the encoded command tokens the TMDS serialiser's
// command expander understands (spec.md §4.4): raw symbols, repeated raw
// symbols, TMDS-encoded symbols, repeated TMDS symbols, and a timing no-op.
type commandKind int

const (
	cmdRaw commandKind = iota
	cmdRawRepeat
	cmdTMDS
	cmdTMDSRepeat
	cmdNOP
)

// command is one entry of a pre-built command list.
type command struct {
	kind  commandKind
	value uint16
	count int
}

// Timing describes the video mode the engine drives. The zero value is
// invalid; use Timing640x480 for the primary DVI/HDMI mode (spec.md §6).
type Timing struct {
	HTotal, HActive int
	VTotal, VActive int
	VFrontPorch     int
	VSyncLines      int
	VBackPorch      int
	PixelClockHz    int
}

// Timing640x480 is 640x480@60Hz DVI/HDMI timing: H 16/96/48/640,
// V 10/2/33/480, pixel clock ~25.2MHz.
var Timing640x480 = Timing{
	HTotal: 16 + 96 + 48 + 640, HActive: 640,
	VTotal: 10 + 2 + 33 + 480, VActive: 480,
	VFrontPorch: 10, VSyncLines: 2, VBackPorch: 33,
	PixelClockHz: 25_200_000,
}

// scanlinePhase classifies where v_scanline currently sits within the
// frame's vertical structure.
type scanlinePhase int

const (
	phaseFrontPorch scanlinePhase = iota
	phaseVSync
	phaseBackPorch
	phaseActive
)

// ScanlineFunc composes one destination scanline into dst, given the
// destination row index. It must complete within the per-line budget
// (spec.md §4.4 timing guarantees); HDMIEngine does not enforce that at
// runtime beyond recording how long each call took, via LastCallbackTime.
type ScanlineFunc func(dst []uint16, row int)

// BackgroundFunc is the single task the engine runs between simulated DMA
// completions, standing in for core-1's cooperative background slot
// (spec.md §4.9). It returns to yield control back to the dispatcher.
type BackgroundFunc func(ctx context.Context)

// HDMIEngine drives the simulated TMDS serialiser: it holds the three
// command-list templates, a ping/pong pixel-buffer pair, the v_scanline
// state machine, and the registered scanline/background callbacks. There is
// no real transmit FIFO; "posting" a command list means handing it (and, for
// active lines, a freshly composed pixel buffer) to the consuming goroutine
// that stands in for the TMDS hardware shifter.
type HDMIEngine struct {
	timing Timing

	vblankVsyncOn  []command
	vblankVsyncOff []command
	vactive        []command

	scanlineCB ScanlineFunc
	background BackgroundFunc

	islands *DataIslandQueue

	vScanline atomic.Int32
	pingPong  [2][]uint16
	ponged    atomic.Bool

	lastCallback atomic.Int64 // nanoseconds, via time.Duration
	underruns    atomic.Uint64
}

// NewHDMIEngine builds an engine for the given timing and data-island
// source. Call Init before Start.
func NewHDMIEngine(islands *DataIslandQueue) *HDMIEngine {
	return &HDMIEngine{islands: islands}
}

// Init loads the three command-list templates for the given timing and
// allocates the ping/pong pixel buffers. It is the one-time, fallible setup
// step; a zero-width timing is a fatal configuration error at boot, not a
// runtime condition, so Init panics rather than returning an error (the
// caller is expected to validate Timing once at startup, per spec.md §7's
// "fatal hardware-resource error" class).
func (e *HDMIEngine) Init(t Timing) {
	if t.HActive <= 0 || t.VActive <= 0 {
		panic(fmt.Sprintf("video: HDMIEngine.Init: degenerate timing %+v", t))
	}
	e.timing = t
	e.vblankVsyncOff = []command{{kind: cmdNOP, count: t.HTotal}}
	e.vblankVsyncOn = []command{{kind: cmdTMDSRepeat, value: 0, count: t.HTotal}}
	e.vactive = []command{{kind: cmdRawRepeat, count: t.HActive}}
	e.pingPong[0] = make([]uint16, t.HActive)
	e.pingPong[1] = make([]uint16, t.HActive)
}

// RegisterScanlineCallback installs the foreground composer. Must be called
// before Start.
func (e *HDMIEngine) RegisterScanlineCallback(fn ScanlineFunc) { e.scanlineCB = fn }

// RegisterBackground installs the single background task run between
// simulated interrupts. Must be called before Start.
func (e *HDMIEngine) RegisterBackground(fn BackgroundFunc) { e.background = fn }

// phaseOf reports which vertical phase v_scanline currently falls in.
func (e *HDMIEngine) phaseOf(v int) scanlinePhase {
	switch {
	case v < e.timing.VFrontPorch:
		return phaseFrontPorch
	case v < e.timing.VFrontPorch+e.timing.VSyncLines:
		return phaseVSync
	case v < e.timing.VFrontPorch+e.timing.VSyncLines+e.timing.VBackPorch:
		return phaseBackPorch
	default:
		return phaseActive
	}
}

// Start drives the state machine until ctx is cancelled, simulating one DMA
// completion per scanline period and interleaving the background task in
// between, the way core-1's cooperative scheduler interleaves the scanline
// interrupt and the registered background task (spec.md §4.9).
//
// There is no real DMA completion IRQ to wait on, so each simulated
// completion is paced by the timing's horizontal period; this keeps the
// engine's throughput bounded the way real hardware would, without claiming
// to reproduce sub-microsecond jitter.
func (e *HDMIEngine) Start(ctx context.Context) {
	if e.timing.HTotal == 0 {
		panic("video: HDMIEngine.Start called before Init")
	}
	period := time.Duration(float64(e.timing.HTotal) / float64(e.timing.PixelClockHz) * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick()
			if e.background != nil {
				e.background(ctx)
			}
		}
	}
}

// tick advances v_scanline by one, dispatching to the appropriate command
// list and, on active lines, invoking the scanline callback to compose the
// next row into the free half of the ping/pong pair (spec.md §4.4).
func (e *HDMIEngine) tick() {
	v := int(e.vScanline.Load())

	switch e.phaseOf(v) {
	case phaseActive:
		row := v - (e.timing.VFrontPorch + e.timing.VSyncLines + e.timing.VBackPorch)
		buf := e.pingPong[boolToIdx(e.ponged.Load())]
		e.ponged.Store(!e.ponged.Load())

		start := time.Now()
		if e.scanlineCB != nil {
			e.scanlineCB(buf, row)
		}
		e.lastCallback.Store(int64(time.Since(start)))
	}

	next := (v + 1) % e.timing.VTotal
	e.vScanline.Store(int32(next))
}

func boolToIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}

// VScanline reports the current vertical scanline index, in [0, VTotal).
func (e *HDMIEngine) VScanline() int { return int(e.vScanline.Load()) }

// LastCallbackTime reports how long the most recent scanline callback
// invocation took, for comparison against the per-line time budget.
func (e *HDMIEngine) LastCallbackTime() time.Duration {
	return time.Duration(e.lastCallback.Load())
}

// NextDataIsland pops the next encoded block for splicing into H-blanking,
// substituting silence if the queue is empty and counting the underrun
// (spec.md §4.8, §7).
func (e *HDMIEngine) NextDataIsland() Block {
	b, ok := e.islands.PopOrSilence()
	if !ok {
		e.underruns.Add(1)
	}
	return b
}

// Underruns reports how many times NextDataIsland had to substitute
// silence for a genuinely queued block.
func (e *HDMIEngine) Underruns() uint64 { return e.underruns.Load() }
