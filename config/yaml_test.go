package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scanbridge/scanbridge/audio"
)

func TestLoadYAMLProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	contents := "dc_filter_on: true\nlpf_on: true\nsrc_mode: linear\nscanlines_on: false\noutput_timing: 640x480p60\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadYAMLProfile(path)
	require.NoError(t, err)
	require.True(t, cfg.DCFilterOn)
	require.True(t, cfg.LPFOn)
	require.Equal(t, audio.Linear, cfg.SRCMode)
	require.False(t, cfg.ScanlinesOn)
	require.Equal(t, "640x480p60", cfg.OutputTiming)
}

func TestLoadYAMLProfileMissingFile(t *testing.T) {
	_, err := LoadYAMLProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
