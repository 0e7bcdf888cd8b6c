package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlProfile is the human-editable factory-defaults shape the bench
// harness loads; it mirrors Config field-for-field but keeps its own type
// so the wire-facing Config struct never grows yaml struct tags it doesn't
// need in production.
type yamlProfile struct {
	DCFilterOn   bool   `yaml:"dc_filter_on"`
	LPFOn        bool   `yaml:"lpf_on"`
	SRCMode      string `yaml:"src_mode"`
	ScanlinesOn  bool   `yaml:"scanlines_on"`
	OutputTiming string `yaml:"output_timing"`
}

// LoadYAMLProfile reads a factory-defaults profile from path, for the
// host-side bench harness only -- the appliance itself always loads its
// configuration from the USRDATA blob (spec.md §6).
func LoadYAMLProfile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var p yamlProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DCFilterOn:   p.DCFilterOn,
		LPFOn:        p.LPFOn,
		SRCMode:      srcModeFromName(p.SRCMode),
		ScanlinesOn:  p.ScanlinesOn,
		OutputTiming: p.OutputTiming,
	}
	cfg.Clamp()
	return cfg, nil
}

func srcModeFromName(name string) SRCMode {
	switch name {
	case "decimate":
		return modeFromWire(1)
	case "linear":
		return modeFromWire(2)
	default:
		return modeFromWire(0)
	}
}
