package core

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/scanbridge/scanbridge/selftest"
	"github.com/scanbridge/scanbridge/telemetry"
)

// pinHoldRenders is how many redraws, counting the one that observed the
// toggle, a pin's "toggling" icon stays lit, so a transient signal (a single
// audio DAT bit, say) doesn't flicker in and out between redraws. Mirrors
// the neopico-hd self-test OSD's dat_hold counter, which holds the DAT
// icon for five updates after the last toggle.
const pinHoldRenders = 5

// DiagnosticsPage renders telemetry and self-test state to an attached
// service console, the way a field technician's terminal would show the
// bridge's health without needing the OSD (spec.md §4.12). It puts stdout
// into raw mode for the duration of its run so the redraw can reposition
// the cursor cleanly instead of scrolling, mirroring the teacher's
// TerminalHost raw-mode/restore pairing in terminal_host.go.
type DiagnosticsPage struct {
	out        io.Writer
	fd         int
	oldState   *term.State
	counters   *telemetry.Counters
	selftest   func() []selftest.Result
	period     time.Duration
	isTerminal bool

	renders int
	hold    map[string]int
}

// NewDiagnosticsPage builds a page rendering counters and the results of
// calling selftestFn, refreshed every period.
func NewDiagnosticsPage(counters *telemetry.Counters, selftestFn func() []selftest.Result, period time.Duration) *DiagnosticsPage {
	return &DiagnosticsPage{
		out:      os.Stdout,
		fd:       int(os.Stdout.Fd()),
		counters: counters,
		selftest: selftestFn,
		period:   period,
		hold:     make(map[string]int),
	}
}

// Run puts the terminal into raw mode, if attached to one, and redraws the
// page every period until stop is closed, restoring the terminal on exit
// (spec.md: diagnostics must never leave a field console in raw mode after
// the process stops).
func (d *DiagnosticsPage) Run(stop <-chan struct{}) {
	d.isTerminal = term.IsTerminal(d.fd)
	if d.isTerminal {
		oldState, err := term.MakeRaw(d.fd)
		if err == nil {
			d.oldState = oldState
			defer term.Restore(d.fd, d.oldState)
		}
	}

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		d.render()
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

var spinnerFrames = [4]byte{'|', '/', '-', '\\'}

func (d *DiagnosticsPage) render() {
	snap := d.counters.Snapshot()
	d.renders++

	if d.isTerminal {
		fmt.Fprint(d.out, "\x1b[H\x1b[2J")
	}

	spin := spinnerFrames[(d.renders/4)&3]
	fmt.Fprintf(d.out, "scanbridge diagnostics %c\r\n", spin)

	if snap.NoSignal {
		fmt.Fprint(d.out, "*** NO SIGNAL ***\r\n")
	}
	fmt.Fprintf(d.out, "frames=%d phase=%d slip=%d/min overflows=%d underruns=%d\r\n",
		snap.Frames, snap.Phase, snap.SlipFPM, snap.Overflows, snap.Underruns)

	if d.selftest != nil {
		for _, r := range d.selftest() {
			if r.Toggling {
				d.hold[r.Pin] = pinHoldRenders
			} else if d.hold[r.Pin] > 0 {
				d.hold[r.Pin]--
			}

			state := "idle"
			switch {
			case d.hold[r.Pin] > 0:
				state = "toggling"
			case r.SeenHigh && !r.SeenLow:
				state = "stuck-high"
			case r.SeenLow && !r.SeenHigh:
				state = "stuck-low"
			}
			fmt.Fprintf(d.out, "  %-8s %s\r\n", r.Pin, state)
		}
	}
}
