package config

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/scanbridge/scanbridge/audio"
)

// usrdataKey is the fixed 8-byte key identifying a USRDATA blob at its known
// flash offset (spec.md §6).
var usrdataKey = [8]byte{'U', 'S', 'R', 'D', 'A', 'T', 'A', 0}

// Known item IDs the CORE reads out of an otherwise opaque USRDATA blob
// (spec.md §6: "The CORE consumes the subset {dc_filter_on, lpf_on,
// src_mode, scanlines_on, output_timing}; all other items are opaque").
const (
	itemDCFilterOn  uint16 = 0x0001
	itemLPFOn       uint16 = 0x0002
	itemSRCMode     uint16 = 0x0003
	itemScanlinesOn uint16 = 0x0004
	itemOutputTiming uint16 = 0x0005
)

// usrdataHeader is the fixed-width header preceding the item list: key,
// type, item count, name. All multi-byte fields are big-endian (spec.md §6
// "Byte order for integer fields is big-endian on the wire").
type usrdataHeader struct {
	Key       [8]byte
	Type      uint16
	ItemCount uint16
	Name      [16]byte
}

// usrdataItemHeader precedes each item's payload.
type usrdataItemHeader struct {
	ID      uint16
	Version uint8
	Size    uint16
}

// rawItem is an opaque item this package doesn't interpret but must
// preserve across a decode/re-encode round trip.
type rawItem struct {
	id      uint16
	version uint8
	payload []byte
}

// Blob is a decoded USRDATA structure: the Config fields the CORE cares
// about, plus every other item preserved opaquely so EncodeUSRDATA can
// write back a blob that still carries settings pages the CORE doesn't
// understand (spec.md §6: "all other items are opaque").
type Blob struct {
	Name    string
	Config  Config
	opaque  []rawItem
}

// DecodeUSRDATA parses a USRDATA blob, per spec.md §6. It returns a non-nil
// error (never a fatal process abort: this is outside the hot path and
// outside init, so spec.md §7's "signed result code" policy for firmware
// and user-data load applies) if the key doesn't match or the stream is
// truncated.
func DecodeUSRDATA(data []byte) (*Blob, error) {
	r := bytes.NewReader(data)

	var hdr usrdataHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("config: USRDATA header: %w", err)
	}
	if hdr.Key != usrdataKey {
		return nil, fmt.Errorf("config: USRDATA key mismatch: got %q", hdr.Key)
	}

	b := &Blob{
		Name:   cStringTrim(hdr.Name[:]),
		Config: Default(),
	}

	for i := 0; i < int(hdr.ItemCount); i++ {
		var ih usrdataItemHeader
		if err := binary.Read(r, binary.BigEndian, &ih); err != nil {
			return nil, fmt.Errorf("config: USRDATA item %d header: %w", i, err)
		}
		payload := make([]byte, ih.Size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("config: USRDATA item %d payload: %w", i, err)
		}
		if !b.applyKnownItem(ih.ID, payload) {
			b.opaque = append(b.opaque, rawItem{id: ih.ID, version: ih.Version, payload: payload})
		}
	}

	b.Config.Clamp()
	return b, nil
}

// applyKnownItem populates Config from a recognised item ID, reporting
// whether it did so. Unrecognised or malformed items are left for the
// opaque list rather than aborting the whole decode.
func (b *Blob) applyKnownItem(id uint16, payload []byte) bool {
	switch id {
	case itemDCFilterOn:
		if len(payload) >= 1 {
			b.Config.DCFilterOn = payload[0] != 0
		}
	case itemLPFOn:
		if len(payload) >= 1 {
			b.Config.LPFOn = payload[0] != 0
		}
	case itemSRCMode:
		if len(payload) >= 1 {
			b.Config.SRCMode = modeFromWire(payload[0])
		}
	case itemScanlinesOn:
		if len(payload) >= 1 {
			b.Config.ScanlinesOn = payload[0] != 0
		}
	case itemOutputTiming:
		b.Config.OutputTiming = cStringTrim(payload)
	default:
		return false
	}
	return true
}

func modeFromWire(v byte) SRCMode {
	switch v {
	case 1:
		return audio.Decimate
	case 2:
		return audio.Linear
	default:
		return audio.Passthrough
	}
}

func modeToWire(m SRCMode) byte {
	switch m {
	case audio.Decimate:
		return 1
	case audio.Linear:
		return 2
	default:
		return 0
	}
}

// EncodeUSRDATA serialises the blob's known Config fields plus every
// preserved opaque item back into a USRDATA binary blob.
func (b *Blob) EncodeUSRDATA() []byte {
	var buf bytes.Buffer

	items := []rawItem{
		{id: itemDCFilterOn, version: 1, payload: []byte{boolByte(b.Config.DCFilterOn)}},
		{id: itemLPFOn, version: 1, payload: []byte{boolByte(b.Config.LPFOn)}},
		{id: itemSRCMode, version: 1, payload: []byte{modeToWire(b.Config.SRCMode)}},
		{id: itemScanlinesOn, version: 1, payload: []byte{boolByte(b.Config.ScanlinesOn)}},
		{id: itemOutputTiming, version: 1, payload: []byte(b.Config.OutputTiming)},
	}

	hdr := usrdataHeader{Key: usrdataKey, Type: 1, ItemCount: uint16(len(items) + len(b.opaque))}
	copy(hdr.Name[:], b.Name)
	binary.Write(&buf, binary.BigEndian, hdr)

	for _, it := range items {
		binary.Write(&buf, binary.BigEndian, usrdataItemHeader{ID: it.id, Version: it.version, Size: uint16(len(it.payload))})
		buf.Write(it.payload)
	}
	for _, it := range b.opaque {
		binary.Write(&buf, binary.BigEndian, usrdataItemHeader{ID: it.id, Version: it.version, Size: uint16(len(it.payload))})
		buf.Write(it.payload)
	}

	return buf.Bytes()
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func cStringTrim(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
