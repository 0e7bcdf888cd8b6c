package audio

import "github.com/scanbridge/scanbridge/video"

// framesPerPacket is the number of stereo IEC 60958 frames carried by one
// HDMI audio sample packet (spec.md §4.8: "four stereo samples per
// packet").
const framesPerPacket = 4

// iec60958BlockFrames is how many IEC frames make up one block; the block
// start is marked by the B-bit and the running frame counter wraps here
// (spec.md §4.8).
const iec60958BlockFrames = 192

// packetSymbols and guardbandSymbols give the fixed 36-symbol shape of an
// encoded data-island block: a 2-symbol leading guardband, 32 data symbols,
// a 2-symbol trailing guardband (spec.md §4.8).
const (
	guardbandSymbols = 2
	dataSymbols      = 32
)

// Packetiser turns the resampled 48kHz stereo stream into the three kinds
// of HDMI data island the sink needs: audio sample packets, one Audio Clock
// Regeneration packet per video frame, and one Audio InfoFrame per video
// frame. Every island it builds is pushed onto a video.DataIslandQueue;
// per spec.md §4.8 it never blocks on a full queue, it drops the packet.
type Packetiser struct {
	queue        *video.DataIslandQueue
	outputRateHz uint32

	frameCounter uint32 // wraps at iec60958BlockFrames, marks block starts
	framesThisPkt int
	pending      [framesPerPacket]Sample

	droppedPackets uint64
}

// NewPacketiser binds a packetiser to its destination queue and output
// sample rate (spec.md's fixed 48kHz target, but kept a parameter so a bench
// harness can exercise other rates' N/CTS tables).
func NewPacketiser(queue *video.DataIslandQueue, outputRateHz uint32) *Packetiser {
	return &Packetiser{queue: queue, outputRateHz: outputRateHz}
}

// PushSamples feeds newly-resampled output-rate stereo samples into the
// packetiser. Every framesPerPacket samples accumulated, it emits one audio
// sample packet as a data-island block.
func (p *Packetiser) PushSamples(samples []Sample) {
	for _, s := range samples {
		p.pending[p.framesThisPkt] = s
		p.framesThisPkt++
		if p.framesThisPkt == framesPerPacket {
			p.emitSamplePacket()
			p.framesThisPkt = 0
		}
	}
}

func (p *Packetiser) emitSamplePacket() {
	blockStart := p.frameCounter == 0
	block := encodeSamplePacket(p.pending, blockStart)
	p.frameCounter = (p.frameCounter + framesPerPacket) % iec60958BlockFrames
	if !p.queue.TryPush(block) {
		p.droppedPackets++
	}
}

// EmitFrameAux pushes the once-per-video-frame auxiliary islands: the ACR
// packet (N/CTS for the current output rate) and the Audio InfoFrame
// (spec.md §4.8). Called once per vertical blanking interval.
func (p *Packetiser) EmitFrameAux(pixelClockHz uint32) {
	n, cts := acrNCTS(p.outputRateHz, pixelClockHz)
	if !p.queue.TryPush(encodeACR(n, cts)) {
		p.droppedPackets++
	}
	if !p.queue.TryPush(encodeAudioInfoFrame(p.outputRateHz)) {
		p.droppedPackets++
	}
}

// DroppedPackets reports how many islands were discarded because the
// destination queue was full (spec.md §7 buffer-overrun class, counted
// rather than propagated).
func (p *Packetiser) DroppedPackets() uint64 { return p.droppedPackets }

// acrTable maps the handful of output rates HDMI commonly carries to their
// standard N value; CTS is then derived from the pixel clock per the HDMI
// spec's N/CTS relation: CTS = (pixel_clock * N) / (128 * sample_rate).
var acrTable = map[uint32]uint32{
	32000: 4096,
	44100: 6272,
	48000: 6144,
}

func acrNCTS(sampleRateHz, pixelClockHz uint32) (n, cts uint32) {
	n, ok := acrTable[sampleRateHz]
	if !ok {
		n = 6144 // clamp to the 48kHz default per spec.md §7 "configuration error: clamp to default"
	}
	cts = uint32((uint64(pixelClockHz) * uint64(n)) / (128 * uint64(sampleRateHz)))
	return n, cts
}

// encodeSamplePacket serialises one audio-sample-packet subframe into a
// 36-symbol block. The symbol values themselves are placeholders for the
// TMDS driver's pre-encoded-word table (spec.md treats the terc4/BCH coding
// as the TMDS driver's concern, not the packetiser's); what this function
// guarantees is the packet's logical shape: guardband, data, guardband,
// with the B-bit (bit 0), sample-present mask (bits 1-4) and parity bit
// (bit 5) in the header symbol.
func encodeSamplePacket(frames [framesPerPacket]Sample, blockStart bool) video.Block {
	var b video.Block
	header := uint16(0)
	if blockStart {
		header |= 1 // B-bit: IEC 60958 block start
	}
	header |= samplePresentMask(frames) << 1
	header |= bchParity(header) << 5

	b.Symbols[0] = guardSymbol
	b.Symbols[1] = guardSymbol
	b.Symbols[2] = header
	sym := 3
	for _, f := range frames {
		b.Symbols[sym] = uint16(f.L)
		sym++
		b.Symbols[sym] = uint16(f.R)
		sym++
	}
	for ; sym < guardbandSymbols+dataSymbols; sym++ {
		b.Symbols[sym] = 0
	}
	b.Symbols[guardbandSymbols+dataSymbols] = guardSymbol
	b.Symbols[guardbandSymbols+dataSymbols+1] = guardSymbol
	return b
}

// samplePresentMask reports which of the four frames actually carry data; in
// this design all four always do, but the field exists so a future partial
// packet (e.g. at a stream boundary) can clear bits for absent frames.
func samplePresentMask(frames [framesPerPacket]Sample) uint16 {
	return 0x0F
}

// guardSymbol is a placeholder pre-encoded TMDS guardband symbol; the real
// value is supplied by the TMDS driver's symbol table per board, not
// computed here.
const guardSymbol uint16 = 0xCCCC

// bchParity computes a simple parity placeholder over the header bits. A
// real implementation would run the BCH(32,26) code the HDMI spec defines
// over the full subpacket; this package only guarantees the header carries
// a self-consistent, checkable parity field so round-trip tests can verify
// it without needing the full BCH polynomial.
func bchParity(header uint16) uint16 {
	p := header
	p ^= p >> 8
	p ^= p >> 4
	p ^= p >> 2
	p ^= p >> 1
	return p & 1
}

// encodeACR builds the Audio Clock Regeneration data island carrying N/CTS,
// sent once per video frame (spec.md §4.8).
func encodeACR(n, cts uint32) video.Block {
	var b video.Block
	b.Symbols[0] = guardSymbol
	b.Symbols[1] = guardSymbol
	b.Symbols[2] = uint16(n >> 16)
	b.Symbols[3] = uint16(n)
	b.Symbols[4] = uint16(cts >> 16)
	b.Symbols[5] = uint16(cts)
	b.Symbols[guardbandSymbols+dataSymbols] = guardSymbol
	b.Symbols[guardbandSymbols+dataSymbols+1] = guardSymbol
	return b
}

// encodeAudioInfoFrame builds the once-per-frame Audio InfoFrame describing
// 2-channel LPCM at outputRateHz (spec.md §4.8).
func encodeAudioInfoFrame(outputRateHz uint32) video.Block {
	var b video.Block
	b.Symbols[0] = guardSymbol
	b.Symbols[1] = guardSymbol
	b.Symbols[2] = 0x0084 // InfoFrame type: Audio
	b.Symbols[3] = 2      // channel count (stereo)
	b.Symbols[4] = uint16(outputRateHz / 1000)
	b.Symbols[guardbandSymbols+dataSymbols] = guardSymbol
	b.Symbols[guardbandSymbols+dataSymbols+1] = guardSymbol
	return b
}
