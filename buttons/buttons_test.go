package buttons

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSinglePressRegistersOnce(t *testing.T) {
	b := NewButton()
	t0 := time.Now()

	require.False(t, b.Sample(true, t0))
	require.False(t, b.Sample(true, t0.Add(30*time.Millisecond)))
	require.True(t, b.Sample(false, t0.Add(60*time.Millisecond)))
}

func TestShortBounceIsIgnored(t *testing.T) {
	b := NewButton()
	t0 := time.Now()

	b.Sample(true, t0)
	require.False(t, b.Sample(false, t0.Add(10*time.Millisecond)), "a press shorter than the debounce window must not register")
}

func TestRepeatPressWithinWindowIgnored(t *testing.T) {
	b := NewButton()
	t0 := time.Now()

	b.Sample(true, t0)
	require.True(t, b.Sample(false, t0.Add(60*time.Millisecond)))

	// A second full press that starts only 10ms after the first was
	// accepted must be ignored even though it individually satisfies the
	// hold-time requirement.
	b.Sample(true, t0.Add(70*time.Millisecond))
	require.False(t, b.Sample(false, t0.Add(130*time.Millisecond)))
}

func TestPressAfterWindowElapsesRegisters(t *testing.T) {
	b := NewButton()
	t0 := time.Now()

	b.Sample(true, t0)
	require.True(t, b.Sample(false, t0.Add(60*time.Millisecond)))

	b.Sample(true, t0.Add(200*time.Millisecond))
	require.True(t, b.Sample(false, t0.Add(260*time.Millisecond)))
}
