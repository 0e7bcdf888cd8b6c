package selftest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbeReportsTogglingOnlyWithBothLevels(t *testing.T) {
	p := NewProbe([]string{"csync", "pclk", "bck"})

	p.Sample("csync", true)
	require.False(t, p.Toggling("csync"))

	p.Sample("csync", false)
	require.True(t, p.Toggling("csync"))

	require.False(t, p.Toggling("pclk"))
	require.False(t, p.Toggling("bck"))
}

func TestProbeUnknownPinIsIgnored(t *testing.T) {
	p := NewProbe([]string{"csync"})
	p.Sample("nonexistent", true)
	p.Sample("nonexistent", false)
	require.False(t, p.Toggling("nonexistent"))
}

func TestProbeResetClearsState(t *testing.T) {
	p := NewProbe([]string{"csync"})
	p.Sample("csync", true)
	p.Sample("csync", false)
	require.True(t, p.Toggling("csync"))

	p.Reset()
	require.False(t, p.Toggling("csync"))

	results := p.Results()
	require.Len(t, results, 1)
	require.Equal(t, "csync", results[0].Pin)
	require.False(t, results[0].Toggling)
}
