package audio

// SRCMode selects the sample-rate conversion algorithm (spec.md §4.7).
type SRCMode int

const (
	// Passthrough copies input straight to output: fast, lossless in
	// sample count, but not clocked to any particular output rate.
	Passthrough SRCMode = iota
	// Decimate uses integer-only Bresenham accumulation: minimal CPU,
	// minimal fidelity, no interpolation.
	Decimate
	// Linear interpolates channel-wise between the straddling input pair
	// using a 16.16 phase accumulator.
	Linear
)

const oneQ16 = 1 << 16

// SampleRateConverter converts a stream of input-rate stereo samples to a
// target output rate using one of three runtime-selectable algorithms. All
// three share the same (inputRate, outputRate, mode) configuration and the
// same streaming Process contract: callers may invoke it repeatedly with
// the unconsumed suffix of their input.
type SampleRateConverter struct {
	mode            SRCMode
	inRate, outRate uint32

	// Decimate state.
	acc uint32

	// Linear state.
	phase      uint32
	prevSample Sample
	havePrev   bool
}

// NewSampleRateConverter builds a converter for the given rates, starting in
// Passthrough mode.
func NewSampleRateConverter(inRate, outRate uint32) *SampleRateConverter {
	return &SampleRateConverter{inRate: inRate, outRate: outRate, mode: Passthrough}
}

// SetMode selects the conversion algorithm and resets all per-mode state
// (acc, phase, the "have previous sample" flag), per spec.md §4.7. Calling
// SetMode twice with the same mode is idempotent: both calls reset to the
// same zeroed state.
func (c *SampleRateConverter) SetMode(m SRCMode) {
	c.mode = m
	c.acc = 0
	c.phase = 0
	c.prevSample = Sample{}
	c.havePrev = false
}

// Mode reports the currently selected algorithm.
func (c *SampleRateConverter) Mode() SRCMode { return c.mode }

// SetRates updates the input/output rates. Conceptually a mode change too:
// it resets the same per-mode state SetMode does.
func (c *SampleRateConverter) SetRates(inRate, outRate uint32) {
	c.inRate, c.outRate = inRate, outRate
	c.SetMode(c.mode)
}

// Process converts as much of in as fits into out, in the currently
// selected mode. It returns the number of samples written to out and the
// number consumed from in; the caller is expected to resubmit any
// unconsumed suffix of in on the next call. Process is pure with respect to
// (state_before, in) -> (state_after, out): given the same converter state
// and the same input, it always produces the same output (spec.md §8).
func (c *SampleRateConverter) Process(in []Sample, out []Sample) (nOut, nIn int) {
	if len(out) == 0 || len(in) == 0 {
		return 0, 0
	}

	// At equal rates every mode must behave as bit-identical passthrough
	// (spec.md §8 boundary behaviour); special-casing it here avoids the
	// one-sample pipeline lag an interpolator would otherwise introduce.
	if c.inRate == c.outRate {
		n := len(in)
		if len(out) < n {
			n = len(out)
		}
		copy(out[:n], in[:n])
		return n, n
	}

	switch c.mode {
	case Decimate:
		return c.processDecimate(in, out)
	case Linear:
		return c.processLinear(in, out)
	default: // Passthrough
		n := len(in)
		if len(out) < n {
			n = len(out)
		}
		copy(out[:n], in[:n])
		return n, n
	}
}

func (c *SampleRateConverter) processDecimate(in []Sample, out []Sample) (nOut, nIn int) {
	for nIn < len(in) && nOut < len(out) {
		c.acc += c.outRate
		emit := c.acc >= c.inRate
		if emit {
			out[nOut] = in[nIn]
			nOut++
			c.acc -= c.inRate
		}
		nIn++
	}
	return nOut, nIn
}

func (c *SampleRateConverter) processLinear(in []Sample, out []Sample) (nOut, nIn int) {
	phaseInc := uint32((uint64(c.inRate) << 16) / uint64(c.outRate))
	iIdx := 0

outer:
	for nOut < len(out) {
		for c.phase >= oneQ16 {
			if iIdx >= len(in) {
				break outer
			}
			c.prevSample = in[iIdx]
			iIdx++
			c.phase -= oneQ16
			c.havePrev = true
		}
		if !c.havePrev {
			if iIdx >= len(in) {
				break outer
			}
			c.prevSample = in[iIdx]
			iIdx++
			c.havePrev = true
			continue
		}
		if iIdx >= len(in) {
			break outer
		}
		next := in[iIdx]
		out[nOut] = Sample{
			L: lerp16(c.prevSample.L, next.L, c.phase),
			R: lerp16(c.prevSample.R, next.R, c.phase),
		}
		nOut++
		c.phase += phaseInc
	}
	return nOut, iIdx
}

func lerp16(a, b int16, fracQ16 uint32) int16 {
	diff := int64(b) - int64(a)
	return int16(int64(a) + (diff*int64(fracQ16))>>16)
}
