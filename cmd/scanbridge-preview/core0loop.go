package main

import (
	"context"
	"time"

	"github.com/scanbridge/scanbridge/core"
)

// core0Period is the bench harness's stand-in for the per-line interrupt
// that paces the real core-0 main loop (spec.md §4.10): fast enough that
// button debounce and audio-starvation fallback behave the way they would
// against a genuine scanline rate, without claiming to reproduce it exactly.
const core0Period = 2 * time.Millisecond

// runCore0Loop drives controller.Step on a fixed tick until ctx is
// cancelled, sourcing button levels from buttons and reporting no self-test
// pin transitions (the bench harness has no physical probes to sample).
func runCore0Loop(ctx context.Context, controller *core.Core0Controller, buttons *benchButtons) error {
	ticker := time.NewTicker(core0Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			dcDown, srcDown := buttons.snapshot()
			controller.Step(ctx, dcDown, srcDown, nil)
		}
	}
}
