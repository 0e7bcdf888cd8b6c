package capture

import "sync/atomic"

// Framebuffer is the single source-resolution buffer shared between the
// capture stage (writer) and the compositor (reader), spec.md §3.1/§3.3.
//
// It deliberately carries the captured raw words (15-bit colour + shadow
// bit, not yet unpacked to RGB565) rather than a pre-converted RGB565 copy:
// the unpack, pixel-doubling, scanline-darken and OSD blend are all done
// once, at output-scanline time, by video.Compositor reading straight out of
// this buffer (spec.md §4.3's compose() takes its source line directly from
// here). Storing a second, already-converted copy would buy nothing and
// would double the per-line write cost on the capture side.
//
// The buffer is intentionally unsynchronised beyond natural alignment: a
// reader may observe a torn line (a mix of an old and a new frame) but never
// a torn pixel, because each element is written and read as a whole RawWord.
// A per-line "generation" counter lets a reader notice it raced the writer,
// without ever needing to block it.
type Framebuffer struct {
	width, height int
	pixels        []RawWord // len == width*height

	// lineGen[y] increments every time line y finishes being written. A
	// reader that samples lineGen before and after reading a line and
	// finds it changed, or odd (write in progress), knows the line may be
	// torn and can choose to keep the previous frame's copy instead.
	lineGen []atomic.Uint32
}

// NewFramebuffer allocates a framebuffer at the given source resolution. It
// is allocated once, for the lifetime of the process, per spec.md §3.2.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:   width,
		height:  height,
		pixels:  make([]RawWord, width*height),
		lineGen: make([]atomic.Uint32, height),
	}
}

// Width and Height report the buffer's fixed source resolution.
func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

// WriteLine stores one fully-sampled scanline. It is the capture stage's
// only entry point into the framebuffer (spec.md §3.3: capture exclusively
// owns the buffer for writing).
func (f *Framebuffer) WriteLine(y int, line []RawWord) {
	if y < 0 || y >= f.height || len(line) != f.width {
		return
	}
	gen := &f.lineGen[y]
	gen.Add(1) // odd: write in progress
	copy(f.pixels[y*f.width:(y+1)*f.width], line)
	gen.Add(1) // even: write complete, new generation visible
}

// ReadLine copies one scanline into dst and reports the generation it was
// read at. A caller comparing generations across two ReadLine calls for the
// same y can detect that the line changed underneath it; it never needs to
// detect a torn pixel because none can occur.
func (f *Framebuffer) ReadLine(y int, dst []RawWord) (generation uint32) {
	if y < 0 || y >= f.height || len(dst) != f.width {
		return 0
	}
	copy(dst, f.pixels[y*f.width:(y+1)*f.width])
	return f.lineGen[y].Load()
}

// LineGeneration reports the current generation counter for line y without
// copying pixel data.
func (f *Framebuffer) LineGeneration(y int) uint32 {
	if y < 0 || y >= f.height {
		return 0
	}
	return f.lineGen[y].Load()
}
