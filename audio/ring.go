// Package audio implements the I²S capture path, the DC-block/low-pass
// filter pair, the sample-rate converter, and the HDMI audio packetiser
// described in spec.md §4.5-§4.8.
package audio

import "github.com/scanbridge/scanbridge/ringbuf"

// Ring is the audio SPSC ring (spec.md §3.1 "Audio ring"): an instance of
// the same generic primitive the HDMI data-island queue uses, specialised
// here for Sample payloads (and, in tests, for plain integers to exercise
// its invariants generically).
type Ring[T any] = ringbuf.Ring[T]

// NewRing allocates a ring of the given power-of-two capacity. One slot is
// always reserved to distinguish full from empty, so the ring holds at most
// capacity-1 live elements (spec.md §8: "ring at exactly N-1 filled entries
// reports full").
func NewRing[T any](capacity uint32) *Ring[T] {
	return ringbuf.New[T](capacity)
}
