// Package telemetry holds the counters and latched state spec.md §7 and
// §4.10 call out as visible on the diagnostics page and reflected into the
// OSD: frame counters, vertical-sync phase, slip-per-minute, and the
// overrun/underrun counts of the audio and video hot paths.
//
// Every field here is written from the hot path (capture, scanline
// callback, audio poll) and read from the cold path (core-0's diagnostics
// loop, the OSD renderer), so every counter is an atomic rather than behind
// a mutex — spec.md §7: "inside the hot path... no error is surfaced
// upward -- all are converted to counter increments".
package telemetry

import "sync/atomic"

// Counters aggregates every free-running counter and latched flag the
// pipeline reports. The zero value is ready to use.
type Counters struct {
	frames      atomic.Uint64
	phase       atomic.Int32
	slipFPM     atomic.Int64 // fixed-point: tenths of a frame per minute
	overflows   atomic.Uint64
	underruns   atomic.Uint64
	noSignal    atomic.Bool
	lastSignal  atomic.Int64 // unix nanos of the last confirmed sync
}

// IncFrame marks one completed video frame.
func (c *Counters) IncFrame() { c.frames.Add(1) }

// Frames reports the total number of completed video frames.
func (c *Counters) Frames() uint64 { return c.frames.Load() }

// SetPhase records the current vertical scanline / phase indicator, as
// reported by the HDMI engine's state machine.
func (c *Counters) SetPhase(v int32) { c.phase.Store(v) }

// Phase reports the last recorded vertical phase.
func (c *Counters) Phase() int32 { return c.phase.Load() }

// SetSlipFPM records the current measured clock slip, in tenths of a frame
// per minute (spec.md §7 "slip_fpm").
func (c *Counters) SetSlipFPM(tenths int64) { c.slipFPM.Store(tenths) }

// SlipFPM reports the last recorded slip-per-minute value.
func (c *Counters) SlipFPM() int64 { return c.slipFPM.Load() }

// IncOverflow counts one dropped audio sample (ring full, spec.md §7
// buffer-overrun class).
func (c *Counters) IncOverflow() { c.overflows.Add(1) }

// Overflows reports the total number of dropped audio samples.
func (c *Counters) Overflows() uint64 { return c.overflows.Load() }

// IncUnderrun counts one data-island queue starvation (silence substituted,
// spec.md §7 buffer-underrun class).
func (c *Counters) IncUnderrun() { c.underruns.Add(1) }

// Underruns reports the total number of substituted-silence events.
func (c *Counters) Underruns() uint64 { return c.underruns.Load() }

// SetNoSignal latches the loss-of-sync condition the OSD's "NO SIGNAL"
// banner reads (spec.md §4.1, §7).
func (c *Counters) SetNoSignal(v bool) {
	c.noSignal.Store(v)
}

// NoSignal reports whether the pipeline currently considers the source
// signal lost.
func (c *Counters) NoSignal() bool { return c.noSignal.Load() }

// MarkSignalSeen records the current time as the last moment sync was
// observed, for use by a caller computing "no sync for N frames" (spec.md
// §4.1 failure semantics) without this package needing to know about
// wall-clock time itself beyond storing the stamp it's handed.
func (c *Counters) MarkSignalSeen(unixNano int64) { c.lastSignal.Store(unixNano) }

// LastSignalSeen returns the unix-nanosecond timestamp of the last recorded
// sync observation, or zero if none has ever been recorded.
func (c *Counters) LastSignalSeen() int64 { return c.lastSignal.Load() }

// Snapshot is a point-in-time, non-atomic copy of Counters suitable for
// rendering to the diagnostics page or the OSD without holding any of the
// live atomics open across a render call.
type Snapshot struct {
	Frames    uint64
	Phase     int32
	SlipFPM   int64
	Overflows uint64
	Underruns uint64
	NoSignal  bool
}

// Snapshot takes a consistent-enough read of every counter for display
// purposes. Individual fields may be read a few nanoseconds apart from one
// another; that looseness is acceptable for a diagnostics display and is
// never used to drive pipeline decisions.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Frames:    c.Frames(),
		Phase:     c.Phase(),
		SlipFPM:   c.SlipFPM(),
		Overflows: c.Overflows(),
		Underruns: c.Underruns(),
		NoSignal:  c.NoSignal(),
	}
}
