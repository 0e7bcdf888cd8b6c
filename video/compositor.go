package video

import "github.com/scanbridge/scanbridge/capture"

// scanlineDarkenMask halves each RGB565 channel by shifting it right one bit
// while keeping the channels from bleeding into each other (spec.md §4.3).
const scanlineDarkenMask = 0xF7DE

// Effects selects the optional compositor stages. ShadowCompounds resolves
// the open question of whether a shadow-bit pixel on an already-darkened
// scanline is halved twice: when true the two halvings compound, when false
// whichever effect applies is allowed to be the only one taken — each board
// profile picks the behaviour it wants rather than the compositor guessing.
type Effects struct {
	PixelDouble     bool
	ScanlineDarken  bool
	ShadowCompounds bool
}

// OsdView is a read-only window onto the OSD's rasterised pixel grid,
// positioned in destination (post-doubling) coordinates. Pixels are always
// treated as opaque, per spec.md §4.3.
type OsdView struct {
	X, Y, W, H int
	Pixels     []uint16 // row-major, W*H, one row at a time addressable via Row
}

// Row returns the OSD pixel row corresponding to destination row dstY, or
// nil if dstY falls outside the view.
func (v *OsdView) Row(dstY int) []uint16 {
	if v == nil || dstY < v.Y || dstY >= v.Y+v.H {
		return nil
	}
	r := dstY - v.Y
	return v.Pixels[r*v.W : (r+1)*v.W]
}

// Compositor turns one line of raw captured words into one line of RGB565
// output pixels: unpack through a WireMap, optional pixel-doubling,
// optional scanline darkening on odd destination rows, and an opaque OSD
// blend. It is invoked once per output scanline, from the HDMI engine's
// scanline callback (spec.md §4.3, §4.4) — it owns no state of its own
// beyond the wiring table, so the same Compositor can be shared safely
// across scanlines as long as calls are not concurrent.
type Compositor struct {
	wires WireMap
}

// NewCompositor builds a compositor using the given board wiring table.
func NewCompositor(wires WireMap) *Compositor {
	return &Compositor{wires: wires}
}

// Compose writes one destination scanline into dst. src is the captured raw
// word line at source resolution; dstY is the destination row index (used
// to decide whether scanline darken applies); osd, if non-nil, is blended
// in wherever it overlaps dstY.
//
// len(dst) must be either len(src) (1:1) or 2*len(src) (pixel-doubled,
// effects.PixelDouble must agree); Compose panics on any other combination,
// since that mismatch can only be a caller programming error, not a
// transient hardware condition.
func (c *Compositor) Compose(dst []uint16, src []capture.RawWord, dstY int, effects Effects, osd *OsdView) {
	srcW := len(src)
	switch {
	case !effects.PixelDouble && len(dst) != srcW:
		panic("video: Compose: dst/src width mismatch with doubling disabled")
	case effects.PixelDouble && len(dst) != 2*srcW:
		panic("video: Compose: dst/src width mismatch with doubling enabled")
	}

	darken := effects.ScanlineDarken && dstY%2 == 1

	for i, w := range src {
		r, g, b := c.wires.Unpack(w.RGB15())
		// Widen the 5-bit green field to RGB565's 6 bits by replicating its
		// top bit into the new low bit, rather than leaving it zero.
		g6 := g<<1 | (g>>4)&1
		px := pack565(r, g6, b)

		halvings := 0
		if darken {
			halvings++
		}
		if w.Shadow() {
			if halvings == 0 || effects.ShadowCompounds {
				halvings++
			}
		}
		for ; halvings > 0; halvings-- {
			px = (px & scanlineDarkenMask) >> 1
		}

		if effects.PixelDouble {
			dst[2*i] = px
			dst[2*i+1] = px
		} else {
			dst[i] = px
		}
	}

	if row := osd.Row(dstY); row != nil {
		copy(dst[osd.X:osd.X+len(row)], row)
	}
}
