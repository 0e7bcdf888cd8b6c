// Package firmware validates the OSSC/OSS2 firmware image format described
// in spec.md §6: a fixed four-byte key, version triple, header/data length
// bounds, and two CRC32 checks, all big-endian on the wire. This is
// explicitly outside the hot path (spec.md §7): validation failures return
// a signed result code, never a panic or a counter increment.
package firmware

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Key identifies the two accepted image formats (spec.md §6: "four-byte
// key OSSC or OSS2").
type Key [4]byte

var (
	KeyOSSC = Key{'O', 'S', 'S', 'C'}
	KeyOSS2 = Key{'O', 'S', 'S', '2'}
)

// sectorSize and maxSectors bound the total accepted image size (spec.md
// §6: "image size < 16 flash sectors").
const (
	sectorSize = 4096
	maxSectors = 16
	maxImageSize = maxSectors * sectorSize

	minHeaderLen = 26
	maxHeaderLen = 508
)

// header is the fixed portion of an image preceding its data payload. All
// integer fields are big-endian on the wire (spec.md §6).
type header struct {
	Key         Key
	VersionMaj  uint8
	VersionMin  uint8
	VersionSuf  uint8
	_           uint8 // padding to keep the struct word-aligned for binary.Read
	HeaderLen   uint16
	DataLen     uint32
	DataCRC     uint32
	HeaderCRC   uint32
}

// Result is a decoded, validated image ready for flashing.
type Result struct {
	Key            Key
	Major, Minor   uint8
	Suffix         uint8
	Data           []byte
}

// Error codes returned by Validate, per spec.md §7's "errors return a
// signed result code; negative codes mean failure with no change to
// persistent state" -- callers compare against these sentinels rather than
// a numeric code directly, which is the idiomatic Go equivalent of the same
// contract.
var (
	ErrBadKey         = fmt.Errorf("firmware: key does not match OSSC or OSS2")
	ErrHeaderLenRange = fmt.Errorf("firmware: header length out of [%d, %d]", minHeaderLen, maxHeaderLen)
	ErrTruncated      = fmt.Errorf("firmware: image shorter than header+data length declares")
	ErrImageTooLarge  = fmt.Errorf("firmware: image size exceeds %d flash sectors", maxSectors)
	ErrDataCRC        = fmt.Errorf("firmware: data CRC32 mismatch")
	ErrHeaderCRC      = fmt.Errorf("firmware: header CRC32 mismatch")
)

// fixedHeaderBytes is the wire size of the portion of header covered by
// binary.Read above (key + 3 version bytes + padding + HeaderLen + DataLen
// + DataCRC + HeaderCRC, all big-endian):
// 4+1+1+1+1+2+4+4+4 = 22 bytes. HeaderLen in the image includes this fixed
// part plus any board-specific extension fields the CRC32 must also cover;
// validation recomputes HeaderCRC over exactly HeaderLen bytes starting at
// the image's beginning, per spec.md §6.
const fixedHeaderBytes = 22

// Validate parses and validates a complete firmware image per spec.md §6:
// key match, header length bounds, both CRC32s, and the total-size-vs-
// sector-count check. It never panics on malformed input; every failure
// mode returns one of the sentinel errors above.
func Validate(image []byte) (*Result, error) {
	if len(image) < fixedHeaderBytes {
		return nil, ErrTruncated
	}

	var h header
	if err := binary.Read(bytes.NewReader(image[:fixedHeaderBytes]), binary.BigEndian, &h); err != nil {
		return nil, ErrTruncated
	}

	if h.Key != KeyOSSC && h.Key != KeyOSS2 {
		return nil, ErrBadKey
	}
	if int(h.HeaderLen) < minHeaderLen || int(h.HeaderLen) > maxHeaderLen {
		return nil, ErrHeaderLenRange
	}

	totalLen := int(h.HeaderLen) + int(h.DataLen)
	if totalLen >= maxImageSize {
		return nil, ErrImageTooLarge
	}
	if len(image) < totalLen {
		return nil, ErrTruncated
	}

	data := image[h.HeaderLen:totalLen]
	if crc32.ChecksumIEEE(data) != h.DataCRC {
		return nil, ErrDataCRC
	}

	// The header CRC covers the header bytes with the HeaderCRC field
	// itself zeroed, the conventional self-referential CRC placement.
	headerCopy := make([]byte, h.HeaderLen)
	copy(headerCopy, image[:h.HeaderLen])
	zeroHeaderCRCField(headerCopy)
	if crc32.ChecksumIEEE(headerCopy) != h.HeaderCRC {
		return nil, ErrHeaderCRC
	}

	return &Result{
		Key:    h.Key,
		Major:  h.VersionMaj,
		Minor:  h.VersionMin,
		Suffix: h.VersionSuf,
		Data:   data,
	}, nil
}

// headerCRCFieldOffset is where the HeaderCRC field sits in the fixed
// header layout: key(4)+maj(1)+min(1)+suf(1)+pad(1)+hlen(2)+dlen(4)+
// dcrc(4) = 18, so HeaderCRC occupies bytes [18:22].
const headerCRCFieldOffset = 18

func zeroHeaderCRCField(b []byte) {
	if len(b) < headerCRCFieldOffset+4 {
		return
	}
	for i := headerCRCFieldOffset; i < headerCRCFieldOffset+4; i++ {
		b[i] = 0
	}
}
