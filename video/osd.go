package video

// OSD is a fixed character-grid overlay: cols x rows cells, each an
// osdGlyphW x osdGlyphH glyph, rasterised into a pixel buffer the
// compositor reads through an OsdView (spec.md §4.11). A shadow copy of
// each cell's (character, colour) lets Put skip rerendering a cell whose
// content hasn't actually changed.
type OSD struct {
	cols, rows int
	cellChar   []byte
	cellColour []uint16
	pixels     []uint16
	x, y       int
}

// NewOSD builds a cols x rows character grid positioned at (x, y) in
// destination pixel coordinates, starting blank (space, colour 0).
func NewOSD(cols, rows, x, y int) *OSD {
	o := &OSD{
		cols: cols, rows: rows, x: x, y: y,
		cellChar:   make([]byte, cols*rows),
		cellColour: make([]uint16, cols*rows),
		pixels:     make([]uint16, cols*osdGlyphW*rows*osdGlyphH),
	}
	for i := range o.cellChar {
		o.cellChar[i] = ' '
	}
	return o
}

// Put draws character ch in colour at (row, col), or no-ops if that cell
// already holds the same character and colour (spec.md §8 round-trip
// property: repeated identical Put calls are idempotent after the first).
func (o *OSD) Put(row, col int, ch byte, colour uint16) {
	if row < 0 || row >= o.rows || col < 0 || col >= o.cols {
		return
	}
	idx := row*o.cols + col
	if o.cellChar[idx] == ch && o.cellColour[idx] == colour {
		return
	}
	o.cellChar[idx] = ch
	o.cellColour[idx] = colour
	o.renderCell(row, col)
}

func (o *OSD) renderCell(row, col int) {
	idx := row*o.cols + col
	ch := o.cellChar[idx]
	colour := o.cellColour[idx]
	stride := o.cols * osdGlyphW

	baseX := col * osdGlyphW
	baseY := row * osdGlyphH
	for gy := 0; gy < osdGlyphH; gy++ {
		bits := glyphRow(ch, gy)
		rowOff := (baseY+gy)*stride + baseX
		for gx := 0; gx < osdGlyphW; gx++ {
			if bits&(0x80>>gx) != 0 {
				o.pixels[rowOff+gx] = colour
			} else {
				o.pixels[rowOff+gx] = 0
			}
		}
	}
}

// View returns a read-only OsdView over the current pixel buffer for the
// compositor to blend (spec.md §4.3).
func (o *OSD) View() *OsdView {
	return &OsdView{
		X: o.x, Y: o.y,
		W: o.cols * osdGlyphW,
		H: o.rows * osdGlyphH,
		Pixels: o.pixels,
	}
}
