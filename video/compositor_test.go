package video

import (
	"testing"

	"github.com/scanbridge/scanbridge/capture"
)

func TestComposeWhiteLineProducesAllOnes(t *testing.T) {
	c := NewCompositor(DefaultWireMap)
	src := make([]capture.RawWord, 320)
	for i := range src {
		src[i] = capture.NewRawWord(0x7FFF, false)
	}
	dst := make([]uint16, 320)
	c.Compose(dst, src, 0, Effects{}, nil)
	for i, px := range dst {
		if px != 0xFFFF {
			t.Fatalf("pixel %d = %#04x, want 0xFFFF", i, px)
		}
	}
}

func TestComposePixelDoubling(t *testing.T) {
	c := NewCompositor(DefaultWireMap)
	src := []capture.RawWord{capture.NewRawWord(0x7FFF, false), capture.NewRawWord(0, false)}
	dst := make([]uint16, 4)
	c.Compose(dst, src, 0, Effects{PixelDouble: true}, nil)
	if dst[0] != dst[1] || dst[2] != dst[3] {
		t.Fatalf("doubled pixels not equal: %+v", dst)
	}
	if dst[0] != 0xFFFF || dst[2] != 0 {
		t.Fatalf("unexpected doubled values: %+v", dst)
	}
}

func TestComposeScanlineDarkenOnlyOddRows(t *testing.T) {
	c := NewCompositor(DefaultWireMap)
	src := []capture.RawWord{capture.NewRawWord(0x7FFF, false)}

	evenDst := make([]uint16, 1)
	c.Compose(evenDst, src, 0, Effects{ScanlineDarken: true}, nil)
	if evenDst[0] != 0xFFFF {
		t.Fatalf("even row was darkened: %#04x", evenDst[0])
	}

	oddDst := make([]uint16, 1)
	c.Compose(oddDst, src, 1, Effects{ScanlineDarken: true}, nil)
	if oddDst[0] != (0xFFFF&scanlineDarkenMask)>>1 {
		t.Fatalf("odd row not darkened correctly: %#04x", oddDst[0])
	}
}

func TestComposeShadowAndDarkenCompoundWhenConfigured(t *testing.T) {
	c := NewCompositor(DefaultWireMap)
	src := []capture.RawWord{capture.NewRawWord(0x7FFF, true)}

	compounding := make([]uint16, 1)
	c.Compose(compounding, src, 1, Effects{ScanlineDarken: true, ShadowCompounds: true}, nil)

	independent := make([]uint16, 1)
	c.Compose(independent, src, 1, Effects{ScanlineDarken: true, ShadowCompounds: false}, nil)

	if compounding[0] >= independent[0] {
		t.Fatalf("compounding halving (%#04x) should be darker than single halving (%#04x)",
			compounding[0], independent[0])
	}
}

func TestComposeOsdBlendIsOpaque(t *testing.T) {
	c := NewCompositor(DefaultWireMap)
	src := make([]capture.RawWord, 4)
	dst := make([]uint16, 4)
	osd := &OsdView{X: 1, Y: 0, W: 2, H: 1, Pixels: []uint16{0xABCD, 0xEF01}}
	c.Compose(dst, src, 0, Effects{}, osd)
	want := []uint16{0, 0xABCD, 0xEF01, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("pixel %d = %#04x, want %#04x", i, dst[i], want[i])
		}
	}
}

func TestComposePanicsOnWidthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on width mismatch")
		}
	}()
	c := NewCompositor(DefaultWireMap)
	c.Compose(make([]uint16, 3), make([]capture.RawWord, 4), 0, Effects{}, nil)
}
