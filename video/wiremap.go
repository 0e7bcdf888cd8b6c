package video

// WireMap is a board-specific permutation from the 15 colour bits of a
// capture.RawWord to the five-bit R, G, and B fields the compositor packs
// into RGB565. Different boards wire their ADC outputs to different PIO
// input pins in different orders; rather than hand-coding one fixed
// unpacking, each board variant supplies its own WireMap literal.
//
// R[i] names the capture bit that supplies bit i of the five-bit red field
// (R[0] feeds the least significant bit), and likewise for G and B.
type WireMap struct {
	R [5]uint8
	G [5]uint8
	B [5]uint8
}

// DefaultWireMap is the reference board's wiring: bits 0-4 are red, 5-9 are
// green, 10-14 are blue, in ascending order. A board with swapped or
// reversed lines supplies its own WireMap with the same shape.
var DefaultWireMap = WireMap{
	R: [5]uint8{0, 1, 2, 3, 4},
	G: [5]uint8{5, 6, 7, 8, 9},
	B: [5]uint8{10, 11, 12, 13, 14},
}

// Unpack converts a 15-bit raw colour field through the map into three
// 5-bit channel values.
func (w WireMap) Unpack(rgb15 uint16) (r, g, b uint8) {
	for i := 0; i < 5; i++ {
		if rgb15&(1<<w.R[i]) != 0 {
			r |= 1 << i
		}
		if rgb15&(1<<w.G[i]) != 0 {
			g |= 1 << i
		}
		if rgb15&(1<<w.B[i]) != 0 {
			b |= 1 << i
		}
	}
	return r, g, b
}

// pack565 packs a 5-bit R, an already-widened 6-bit G and a 5-bit B into
// RGB565. It does no widening itself: Compose turns the 5-bit green field
// into 6 bits before calling it.
func pack565(r, g, b uint8) uint16 {
	return uint16(r)<<11 | uint16(g)<<5 | uint16(b)
}
