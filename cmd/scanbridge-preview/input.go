package main

import "sync/atomic"

// benchButtons stands in for the two physical push-buttons spec.md §6
// describes: PreviewGame.Update, running on ebiten's own goroutine, records
// raw key levels here; the core-0 loop, running on its own goroutine, polls
// them each iteration the way it would poll real GPIOs.
type benchButtons struct {
	dcDown  atomic.Bool
	srcDown atomic.Bool
}

func (b *benchButtons) setDC(down bool)  { b.dcDown.Store(down) }
func (b *benchButtons) setSRC(down bool) { b.srcDown.Store(down) }

func (b *benchButtons) snapshot() (dcDown, srcDown bool) {
	return b.dcDown.Load(), b.srcDown.Load()
}
