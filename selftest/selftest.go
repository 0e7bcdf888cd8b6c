// Package selftest implements the GPIO-activity probe described in
// spec.md §4.12: for each monitored pin, accumulate OR(sampled_high) and
// OR(sampled_low) over a fixed window and report whether the pin actually
// toggled during that window. This lets a bench technician confirm wiring
// without an external logic analyser.
package selftest

// Probe accumulates per-pin high/low observations over a reporting window.
// It is driven by repeated calls to Sample, one per polled edge, and reset
// at the start of each window (spec.md §3.1 "Self-test snapshot").
type Probe struct {
	pins        []string
	index       map[string]int
	observedHi  []bool
	observedLo  []bool
}

// NewProbe builds a probe tracking exactly the named pins, in the given
// order; Toggling and Results report in that same order.
func NewProbe(pins []string) *Probe {
	p := &Probe{
		pins:       append([]string(nil), pins...),
		index:      make(map[string]int, len(pins)),
		observedHi: make([]bool, len(pins)),
		observedLo: make([]bool, len(pins)),
	}
	for i, name := range pins {
		p.index[name] = i
	}
	return p
}

// Sample records one observation of pin's level. Unknown pin names are
// silently ignored: a self-test wiring mistake should never crash the
// appliance, per spec.md §7's "no error surfaced in the hot path" policy
// applied to a diagnostic aid as well.
func (p *Probe) Sample(pin string, high bool) {
	i, ok := p.index[pin]
	if !ok {
		return
	}
	if high {
		p.observedHi[i] = true
	} else {
		p.observedLo[i] = true
	}
}

// Reset clears the accumulated OR state, starting a new reporting window
// (spec.md §3.1: "reset each reporting interval").
func (p *Probe) Reset() {
	for i := range p.observedHi {
		p.observedHi[i] = false
		p.observedLo[i] = false
	}
}

// Toggling reports whether pin was observed at both levels during the
// current window -- the "wiring is live" signal spec.md §4.12 calls for.
// An unknown pin name reports false.
func (p *Probe) Toggling(pin string) bool {
	i, ok := p.index[pin]
	if !ok {
		return false
	}
	return p.observedHi[i] && p.observedLo[i]
}

// Result is one pin's accumulated state, returned by Results for rendering
// onto a diagnostics page.
type Result struct {
	Pin       string
	Toggling  bool
	SeenHigh  bool
	SeenLow   bool
}

// Results returns every tracked pin's current accumulated state, in the
// order given to NewProbe.
func (p *Probe) Results() []Result {
	out := make([]Result, len(p.pins))
	for i, name := range p.pins {
		out[i] = Result{
			Pin:      name,
			Toggling: p.observedHi[i] && p.observedLo[i],
			SeenHigh: p.observedHi[i],
			SeenLow:  p.observedLo[i],
		}
	}
	return out
}
