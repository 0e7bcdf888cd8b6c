package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	dispatcher := NewCore1Dispatcher(func(ctx context.Context) {
		<-ctx.Done()
	})

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, dispatcher, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
