package audio

import "math"

// Q16 fixed-point: one sign bit implicit in the machine word, 16 fractional
// bits. shiftQ16 is the number of bits a Q16*Q16 product must be shifted
// right by to land back in Q16 (spec.md §4.6, §9 "all filter math is Q16").
const shiftQ16 = 16

func q16(f float64) int64 {
	return int64(math.Round(f * (1 << shiftQ16)))
}

func saturateInt16(v int64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}

// dcAlphaQ16 is the DC blocker's pole, α≈0.9995 in Q16 (spec.md §4.6: fixed
// value 65503, ≈10 Hz cutoff at the source sample rate).
const dcAlphaQ16 int64 = 65503

// DCBlocker is a first-order IIR per stereo channel:
//
//	y[n] = x[n] - x[n-1] + α·y[n-1]
//
// implemented in Q16 fixed point. Disabling it resets history to zero so a
// later re-enable does not produce a startup thump from stale state
// (spec.md §4.6).
type DCBlocker struct {
	enabled bool
	prevX   [2]int64
	prevY   [2]int64
}

// NewDCBlocker returns a blocker that starts disabled (a no-op on Process).
func NewDCBlocker() *DCBlocker { return &DCBlocker{} }

// SetEnabled toggles the filter. Transitioning from on to off zeroes the
// delay line.
func (f *DCBlocker) SetEnabled(on bool) {
	if f.enabled && !on {
		f.prevX = [2]int64{}
		f.prevY = [2]int64{}
	}
	f.enabled = on
}

// Enabled reports the filter's current on/off state.
func (f *DCBlocker) Enabled() bool { return f.enabled }

// Process filters buf in place. When disabled it is a true no-op: it does
// not even copy the buffer (spec.md §4.6 "Processing contract").
func (f *DCBlocker) Process(buf []Sample) {
	if !f.enabled {
		return
	}
	for i := range buf {
		buf[i].L = f.step(0, buf[i].L)
		buf[i].R = f.step(1, buf[i].R)
	}
}

func (f *DCBlocker) step(ch int, in int16) int16 {
	x := int64(in)
	// Divide rather than shift so negative history truncates toward zero
	// the same way positive history does, letting both signs decay to 0.
	y := x - f.prevX[ch] + (dcAlphaQ16*f.prevY[ch])/(1<<shiftQ16)
	f.prevX[ch] = x
	f.prevY[ch] = y
	return saturateInt16(y)
}

// lpfB0Q16, lpfB1Q16, ... are a Butterworth-style biquad lowpass tuned for a
// 20 kHz cutoff at a 49 kHz design sample rate (spec.md §4.6), derived once
// via the standard RBJ cookbook transform and quantised to Q16. The
// derivation runs at package init, not in the hot path; only the resulting
// integer taps are ever touched per sample.
var (
	lpfB0Q16, lpfB1Q16, lpfB2Q16 int64
	lpfA1Q16, lpfA2Q16           int64
)

func init() {
	const (
		cutoffHz     = 20000.0
		designRateHz = 49000.0
		q            = 0.70710678 // Butterworth Q
	)
	w0 := 2 * math.Pi * cutoffHz / designRateHz
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)

	b0 := (1 - cosW0) / 2
	b1 := 1 - cosW0
	b2 := (1 - cosW0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	lpfB0Q16 = q16(b0 / a0)
	lpfB1Q16 = q16(b1 / a0)
	lpfB2Q16 = q16(b2 / a0)
	lpfA1Q16 = q16(a1 / a0)
	lpfA2Q16 = q16(a2 / a0)
}

// LowPassFilter is a biquad anti-alias filter run in direct-form I, per
// stereo channel, ahead of decimation (spec.md §4.6).
type LowPassFilter struct {
	enabled bool
	x1, x2  [2]int64
	y1, y2  [2]int64
}

// NewLowPassFilter returns a filter that starts disabled.
func NewLowPassFilter() *LowPassFilter { return &LowPassFilter{} }

// SetEnabled toggles the filter, zeroing all delay elements on disable.
func (f *LowPassFilter) SetEnabled(on bool) {
	if f.enabled && !on {
		f.x1, f.x2 = [2]int64{}, [2]int64{}
		f.y1, f.y2 = [2]int64{}, [2]int64{}
	}
	f.enabled = on
}

// Enabled reports the filter's current on/off state.
func (f *LowPassFilter) Enabled() bool { return f.enabled }

// Process filters buf in place; disabled is a true no-op.
func (f *LowPassFilter) Process(buf []Sample) {
	if !f.enabled {
		return
	}
	for i := range buf {
		buf[i].L = f.step(0, buf[i].L)
		buf[i].R = f.step(1, buf[i].R)
	}
}

func (f *LowPassFilter) step(ch int, in int16) int16 {
	x0 := int64(in)
	y0 := (lpfB0Q16*x0+lpfB1Q16*f.x1[ch]+lpfB2Q16*f.x2[ch]-
		lpfA1Q16*f.y1[ch]-lpfA2Q16*f.y2[ch]) >> shiftQ16

	f.x2[ch] = f.x1[ch]
	f.x1[ch] = x0
	f.y2[ch] = f.y1[ch]
	f.y1[ch] = y0

	return saturateInt16(y0)
}
