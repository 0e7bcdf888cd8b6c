// Command scanbridge-preview is the host-side bench harness for the
// scanbridge capture/retransmit pipeline: it stands in for the physical
// ADC and I²S hardware with synthetic sources, renders the live
// framebuffer in an Ebiten window, and plays the processed audio stream
// through the local speakers via oto. It is the external, out-of-CORE
// harness the appliance's own firmware boots into when no real hardware is
// present (spec.md §1 scopes the real hardware pipeline; this is the
// collaborator that exercises it).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/scanbridge/scanbridge/audio"
	"github.com/scanbridge/scanbridge/capture"
	"github.com/scanbridge/scanbridge/config"
	"github.com/scanbridge/scanbridge/core"
	"github.com/scanbridge/scanbridge/telemetry"
	"github.com/scanbridge/scanbridge/video"
)

const (
	sourceWidth   = 320
	sourceHeight  = 224
	sourceRateHz  = 55_500
	outputRateHz  = 48_000
	audioRingSize = 8192
)

func main() {
	var (
		scale       = pflag.IntP("scale", "s", 2, "window magnification")
		profile     = pflag.StringP("profile", "p", "", "YAML factory-defaults profile to load (default: built-in defaults)")
		logLevel    = pflag.String("log-level", "info", "log level: debug, info, warn, error")
		diagnostics = pflag.Bool("diagnostics", false, "print a terminal diagnostics page instead of the window's log output")
		help        = pflag.Bool("help", false, "display help text")
	)
	pflag.Usage = func() {
		os.Stderr.WriteString("scanbridge-preview: bench harness for the scanbridge capture/retransmit pipeline\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		log.SetLevel(lvl)
	}

	cfg := config.Default()
	if *profile != "" {
		loaded, err := config.LoadYAMLProfile(*profile)
		if err != nil {
			log.Fatal("failed to load profile", "path", *profile, "err", err)
		}
		cfg = loaded
	}

	fb := capture.NewFramebuffer(sourceWidth, sourceHeight)
	pixelSrc := newTestPatternSource(sourceWidth, sourceHeight)
	sampler := capture.NewPixelSampler(pixelSrc)
	armer := core.NewSyncAdapter(sampler, fb)

	var counters telemetry.Counters

	ring := audio.NewRing[audio.Sample](audioRingSize)
	outRing := audio.NewRing[audio.Sample](audioRingSize)
	i2sCapture := audio.NewI2SCapture(newSineFrameSource(sourceRateHz, 1000), ring)
	dc := audio.NewDCBlocker()
	lpf := audio.NewLowPassFilter()
	src := audio.NewSampleRateConverter(sourceRateHz, outputRateHz)
	src.SetMode(cfg.SRCMode)

	islands := video.NewDataIslandQueue(256)
	pkt := audio.NewPacketiser(islands, outputRateHz)
	pipeline := newAudioPipeline(i2sCapture, ring, dc, lpf, src, pkt, outRing, &cfg)

	controller := core.NewCore0Controller(armer, &counters, &cfg, src)
	controller.SetAudioFallback(pipeline)
	buttons := &benchButtons{}

	compositor := video.NewCompositor(video.DefaultWireMap)
	osd := video.NewOSD(16, 8, 8, 8)
	osd.Put(0, 0, 'S', 0xFFFF)
	osd.Put(0, 1, 'B', 0xFFFF)

	engine := video.NewHDMIEngine(islands)
	engine.Init(video.Timing640x480)
	engine.RegisterScanlineCallback(func(dst []uint16, row int) {
		var srcLine [sourceWidth]capture.RawWord
		fb.ReadLine(row%sourceHeight, srcLine[:])
		effects := video.Effects{PixelDouble: cfg.EffectsPixelDouble(), ScanlineDarken: cfg.ScanlinesOn}
		compositor.Compose(dst, srcLine[:], row, effects, osd.View())
		controller.NotifyCore1Alive()
		if row == 0 {
			counters.IncFrame()
			pkt.EmitFrameAux(uint32(video.Timing640x480.PixelClockHz))
		}
	})
	engine.RegisterBackground(func(ctx context.Context) {
		pipeline.Step()
	})

	dispatcher := core.NewCore1Dispatcher(engine.Start)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cancel()
	}()

	go func() { RunAudioSource(ctx, i2sCapture) }()

	sink, err := newOtoSink(outputRateHz, outRing)
	if err != nil {
		log.Fatal("failed to open audio output", "err", err)
	}
	sink.Start()
	defer sink.Close()

	go func() {
		_ = core.Run(ctx, dispatcher, func(ctx context.Context) error {
			return runCore0Loop(ctx, controller, buttons)
		})
	}()

	if *diagnostics {
		page := core.NewDiagnosticsPage(&counters, controller.SelftestResults, 500*time.Millisecond)
		stop := make(chan struct{})
		go func() {
			<-ctx.Done()
			close(stop)
		}()
		go page.Run(stop)
	}

	ebiten.SetWindowSize(sourceWidth*2*(*scale), sourceHeight*(*scale))
	ebiten.SetWindowTitle("scanbridge preview")

	game := NewPreviewGame(fb, compositor, osd, &cfg, *scale, buttons)
	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal("ebiten exited with error", "err", err)
	}
}
