package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/draw"

	"github.com/scanbridge/scanbridge/capture"
	"github.com/scanbridge/scanbridge/config"
	"github.com/scanbridge/scanbridge/video"
)

// PreviewGame implements ebiten.Game, rendering the live framebuffer the
// way the teacher's EbitenOutput renders its emulated chip's output: a
// plain RGBA byte buffer rebuilt each frame and blitted to the screen via
// WritePixels. There is no physical HDMI sink to watch in CI or on a dev
// machine, so this window is the bench-verification surface spec.md's
// design notes call for.
type PreviewGame struct {
	fb         *capture.Framebuffer
	compositor *video.Compositor
	osd        *video.OSD
	cfg        *config.Config

	outW, outH int
	rgba       []byte // full outW*outH*4 backing buffer, rebuilt every Draw
	windowImg  *ebiten.Image
	scale      int

	dstLine []uint16
	srcLine []capture.RawWord

	buttons *benchButtons
}

// NewPreviewGame builds a preview window rendering fb through compositor at
// scale x magnification, overlaying osd.
func NewPreviewGame(fb *capture.Framebuffer, compositor *video.Compositor, osd *video.OSD, cfg *config.Config, scale int, buttons *benchButtons) *PreviewGame {
	outW := fb.Width()
	if cfg.EffectsPixelDouble() {
		outW *= 2
	}
	outH := fb.Height()
	return &PreviewGame{
		fb:         fb,
		compositor: compositor,
		osd:        osd,
		cfg:        cfg,
		outW:       outW,
		outH:       outH,
		scale:      scale,
		rgba:       make([]byte, outW*outH*4),
		windowImg:  ebiten.NewImage(outW, outH),
		dstLine:    make([]uint16, outW),
		srcLine:    make([]capture.RawWord, fb.Width()),
		buttons:    buttons,
	}
}

// Update handles the bench harness's own keyboard shortcuts: F1 toggles
// scanline darken, Escape quits, and the D/S keys stand in for the DC
// filter and SRC mode physical buttons, held down the way a real GPIO would
// read high for the duration of a press.
func (g *PreviewGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.cfg.ScanlinesOn = !g.cfg.ScanlinesOn
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.buttons != nil {
		g.buttons.setDC(ebiten.IsKeyPressed(ebiten.KeyD))
		g.buttons.setSRC(ebiten.IsKeyPressed(ebiten.KeyS))
	}
	return nil
}

func (g *PreviewGame) effects() video.Effects {
	return video.Effects{
		PixelDouble:     g.cfg.EffectsPixelDouble(),
		ScanlineDarken:  g.cfg.ScanlinesOn,
		ShadowCompounds: false,
	}
}

// Draw composes every destination scanline through the compositor into the
// backing RGBA buffer, uploads it in one WritePixels call, and scales the
// result up to the window's logical size with an ebiten GeoM scale.
func (g *PreviewGame) Draw(screen *ebiten.Image) {
	effects := g.effects()
	var osdView *video.OsdView
	if g.osd != nil {
		osdView = g.osd.View()
	}

	for y := 0; y < g.outH; y++ {
		g.fb.ReadLine(y, g.srcLine)
		g.compositor.Compose(g.dstLine, g.srcLine, y, effects, osdView)
		packRGB565Row(g.rgba[y*g.outW*4:(y+1)*g.outW*4], g.dstLine)
	}
	g.windowImg.WritePixels(g.rgba)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.windowImg, op)
}

// Layout reports the window's logical size.
func (g *PreviewGame) Layout(_, _ int) (int, int) {
	return g.outW * g.scale, g.outH * g.scale
}

// packRGB565Row expands one row of RGB565 pixels into 8-bit RGBA, written
// into dst (len(dst) must be 4*len(row)).
func packRGB565Row(dst []byte, row []uint16) {
	for i, px := range row {
		r := uint8((px >> 11) & 0x1F)
		g := uint8((px >> 5) & 0x3F)
		b := uint8(px & 0x1F)
		dst[i*4+0] = expand5(r)
		dst[i*4+1] = expand6(g)
		dst[i*4+2] = expand5(b)
		dst[i*4+3] = 0xFF
	}
}

func expand5(v uint8) uint8 { return uint8(uint32(v) * 255 / 31) }
func expand6(v uint8) uint8 { return uint8(uint32(v) * 255 / 63) }

// scaleTestPattern uses golang.org/x/image/draw to rescale a synthetic
// source image to the active resolution before it's fed into a
// testPatternSource-style capture.PixelSource -- the same rescale the
// teacher's video_chip.go performs on its splash image, reused here for
// loading a user-supplied reference still image instead of the built-in
// colour-bar generator.
func scaleTestPattern(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
