package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run launches core-1's dispatcher loop and a caller-supplied core-0 loop
// as two goroutines, each pinned to its own OS thread, coordinated by an
// errgroup rather than ad-hoc go func + WaitGroup bookkeeping (spec.md §5:
// "two parallel hardware threads"). It returns once both loops have exited.
// The first non-nil error from either side cancels the other side's
// context and is returned, except that cancellation or expiry of ctx
// itself is reported as a clean stop (nil).
func Run(ctx context.Context, dispatcher *Core1Dispatcher, core0 func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dispatcher.Run(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		PinToOSThread("core0")
		return core0(gctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return err
	}
	return nil
}
