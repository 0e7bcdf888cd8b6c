package video

import "github.com/scanbridge/scanbridge/ringbuf"

// blockSymbols is the fixed width of an encoded HDMI data-island block:
// a 2-symbol leading guardband, 32 data symbols, a 2-symbol trailing
// guardband (spec.md §4.8).
const blockSymbols = 36

// Block is one pre-encoded data-island ready for splicing into horizontal
// blanking. Symbols are opaque to this package; the TMDS driver is the only
// consumer that interprets them.
type Block struct {
	Symbols [blockSymbols]uint16
}

// silentBlock is substituted whenever the queue is drained empty, so the
// serialiser never stalls waiting on a producer (spec.md §4.4, §4.8).
var silentBlock = Block{}

// DataIslandQueue is the bounded SPSC ring shared by the audio packetiser
// (producer) and the HDMI scanline callback (consumer). It never blocks
// either side: a full queue drops the newest block, an empty queue yields
// silence.
type DataIslandQueue struct {
	ring *ringbuf.Ring[Block]
}

// NewDataIslandQueue allocates a queue of the given power-of-two capacity.
func NewDataIslandQueue(capacity uint32) *DataIslandQueue {
	return &DataIslandQueue{ring: ringbuf.New[Block](capacity)}
}

// TryPush enqueues a block, reporting false (and dropping it) if the queue
// is full. The packetiser treats a false return as a dropped packet, never
// as an error to propagate (spec.md §4.8, §7).
func (q *DataIslandQueue) TryPush(b Block) bool {
	return q.ring.Push(b)
}

// PopOrSilence dequeues the next block, or returns silentBlock if none is
// available. The bool return distinguishes the two cases for telemetry
// (an empty pop counts as an underrun).
func (q *DataIslandQueue) PopOrSilence() (Block, bool) {
	b, ok := q.ring.Pop()
	if !ok {
		return silentBlock, false
	}
	return b, true
}
