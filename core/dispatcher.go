// Package core implements the two cooperative per-core schedulers spec.md
// §4.9/§4.10/§5 describes, plus the OS-thread pinning that approximates
// "core 0" and "core 1" as two dedicated threads in a userspace process
// (spec.md §9: hardware resource handles, not ambient globals).
package core

import (
	"context"

	"github.com/charmbracelet/log"
)

// Core1Dispatcher runs the scanline callback (foreground, bounded) and a
// single registered background task (cooperative, between callbacks) the
// way spec.md §4.9 describes: "no application code may run on core-1
// without going through this dispatcher." It owns no locks of its own --
// the video.HDMIEngine it wraps already drives the foreground/background
// alternation; this type exists to give that alternation a single named
// entry point core-0 can start and stop, and to log the ambient lifecycle
// events (registration, start, stop) that the hot path itself never logs.
type Core1Dispatcher struct {
	start func(ctx context.Context)
}

// NewCore1Dispatcher wraps an already-configured engine's Start method
// (video.HDMIEngine.Start, or any func(context.Context) with the same
// cooperative-loop shape) as the single entry point for core-1.
func NewCore1Dispatcher(start func(ctx context.Context)) *Core1Dispatcher {
	return &Core1Dispatcher{start: start}
}

// Run pins the calling goroutine to its own OS thread (best-effort) and
// runs the dispatcher loop until ctx is cancelled.
func (d *Core1Dispatcher) Run(ctx context.Context) {
	PinToOSThread("core1")
	log.Debug("core1 dispatcher starting")
	d.start(ctx)
	log.Debug("core1 dispatcher stopped")
}
