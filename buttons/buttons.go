// Package buttons implements the debounce state machine for the two
// physical push-buttons described in spec.md §6: DC filter toggle and SRC
// mode toggle. spec.md §8 scenario S6 is the governing test: a single press
// held at least the debounce window toggles state exactly once, and
// repeated presses inside the window are ignored.
package buttons

import "time"

// debounceWindow is the minimum time a button must stay pressed before a
// release is accepted as a genuine press-and-release (spec.md §8 S6:
// "press >= 50ms").
const debounceWindow = 50 * time.Millisecond

// Button tracks the raw/level input of one physical button and turns it
// into debounced press events. It is driven by repeated calls to Sample
// with the current raw level and timestamp, the way a core-0 main-loop
// poll would read a GPIO each iteration.
type Button struct {
	pressedAt   time.Time
	wasDown     bool
	lastAccepted time.Time
	armed       bool
}

// NewButton returns a button with no press in progress.
func NewButton() *Button { return &Button{} }

// Sample records one poll of the raw input level at the given time. It
// returns true exactly once per qualifying press: the level transitioned
// low->high->low with the held duration at least debounceWindow, and the
// rising edge did not arrive within debounceWindow of the last accepted
// press (spec.md §8 S6: presses <50ms apart are ignored as bounce,
// independent of how long the bouncing edge itself stays high).
func (b *Button) Sample(down bool, now time.Time) (pressed bool) {
	switch {
	case down && !b.wasDown:
		// Rising edge. If it arrives too soon after the last accepted
		// press, treat it as bounce and never arm a candidate for it.
		if now.Sub(b.lastAccepted) < debounceWindow {
			b.armed = false
		} else {
			b.pressedAt = now
			b.armed = true
		}
	case !down && b.wasDown:
		// Falling edge: a candidate press just ended.
		if b.armed && now.Sub(b.pressedAt) >= debounceWindow {
			b.lastAccepted = now
			pressed = true
		}
		b.armed = false
	}
	b.wasDown = down
	return pressed
}
