// Package config holds the runtime effect-toggle set spec.md §3.1 calls
// "Configuration" and the two ways it is loaded: the hardware's own
// big-endian USRDATA binary blob (§6), and a human-editable YAML
// factory-defaults profile used by host-side bench tooling.
package config

import (
	"github.com/scanbridge/scanbridge/audio"
)

// SRCMode is an alias of audio.SRCMode, so a Config value can be handed
// straight to the sample-rate converter; out-of-range values are caught
// by Clamp.
type SRCMode = audio.SRCMode

// Config is the mutable set of effect toggles spec.md §3.1 describes,
// changed from core-0 (buttons, remote, OSD) between frames.
type Config struct {
	DCFilterOn   bool
	LPFOn        bool
	SRCMode      SRCMode
	ScanlinesOn  bool
	OutputTiming string // names a video.Timing variant, e.g. "640x480p60"
}

// Default returns the factory-default configuration: both filters off,
// passthrough SRC, scanlines off, primary output timing (spec.md §6).
func Default() Config {
	return Config{
		DCFilterOn:   false,
		LPFOn:        false,
		SRCMode:      audio.Passthrough,
		ScanlinesOn:  false,
		OutputTiming: "640x480p60",
	}
}

// EffectsPixelDouble reports whether the currently selected output timing
// requires pixel-doubling the natural 320-wide source line (spec.md §4.3:
// "when OUT_W == 2 * SRC_W, emit each source pixel twice"). The only
// primary timing this design supports, 640x480p60, always doubles; a board
// profile selecting a 1:1 timing would report false here instead.
func (c Config) EffectsPixelDouble() bool {
	return c.OutputTiming != "320x224p60"
}

// Clamp resolves spec.md §7's "configuration error: invalid SRC mode,
// invalid effect toggle: clamp to default" policy. Booleans can't be
// invalid, so only SRCMode and OutputTiming are checked.
func (c *Config) Clamp() {
	if c.SRCMode != audio.Passthrough && c.SRCMode != audio.Decimate && c.SRCMode != audio.Linear {
		c.SRCMode = audio.Passthrough
	}
	if c.OutputTiming == "" {
		c.OutputTiming = "640x480p60"
	}
}
