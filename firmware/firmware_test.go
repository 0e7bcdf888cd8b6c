package firmware

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildImage constructs a well-formed image for testing: a header of
// headerLen bytes (padded with zero extension bytes beyond the fixed 22)
// followed by data, with both CRCs computed correctly.
func buildImage(t *testing.T, key Key, headerLen int, data []byte) []byte {
	t.Helper()
	image := make([]byte, headerLen+len(data))

	copy(image[0:4], key[:])
	image[4] = 1 // major
	image[5] = 2 // minor
	image[6] = 3 // suffix
	binary.BigEndian.PutUint16(image[8:10], uint16(headerLen))
	binary.BigEndian.PutUint32(image[10:14], uint32(len(data)))
	binary.BigEndian.PutUint32(image[14:18], crc32.ChecksumIEEE(data))
	// HeaderCRC at [18:22] left zero for the checksum computation, then
	// filled in.
	copy(image[headerLen:], data)
	crc := crc32.ChecksumIEEE(image[:headerLen])
	binary.BigEndian.PutUint32(image[18:22], crc)

	return image
}

func TestValidateAcceptsWellFormedImage(t *testing.T) {
	data := []byte("firmware payload bytes")
	image := buildImage(t, KeyOSSC, 26, data)

	res, err := Validate(image)
	require.NoError(t, err)
	require.Equal(t, KeyOSSC, res.Key)
	require.Equal(t, uint8(1), res.Major)
	require.Equal(t, uint8(2), res.Minor)
	require.Equal(t, uint8(3), res.Suffix)
	require.Equal(t, data, res.Data)
}

func TestValidateAcceptsOSS2Key(t *testing.T) {
	image := buildImage(t, KeyOSS2, 26, []byte("x"))
	_, err := Validate(image)
	require.NoError(t, err)
}

func TestValidateRejectsBadKey(t *testing.T) {
	image := buildImage(t, Key{'N', 'O', 'P', 'E'}, 26, []byte("x"))
	_, err := Validate(image)
	require.ErrorIs(t, err, ErrBadKey)
}

func TestValidateRejectsHeaderLenTooSmall(t *testing.T) {
	image := buildImage(t, KeyOSSC, 26, []byte("x"))
	binary.BigEndian.PutUint16(image[8:10], 20)
	_, err := Validate(image)
	require.ErrorIs(t, err, ErrHeaderLenRange)
}

func TestValidateRejectsHeaderLenTooLarge(t *testing.T) {
	image := buildImage(t, KeyOSSC, 26, []byte("x"))
	binary.BigEndian.PutUint16(image[8:10], 600)
	_, err := Validate(image)
	require.ErrorIs(t, err, ErrHeaderLenRange)
}

func TestValidateRejectsTruncatedImage(t *testing.T) {
	image := buildImage(t, KeyOSSC, 26, []byte("firmware payload"))
	_, err := Validate(image[:len(image)-5])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestValidateRejectsBadDataCRC(t *testing.T) {
	image := buildImage(t, KeyOSSC, 26, []byte("firmware payload"))
	image[len(image)-1] ^= 0xFF
	_, err := Validate(image)
	require.ErrorIs(t, err, ErrDataCRC)
}

func TestValidateRejectsBadHeaderCRC(t *testing.T) {
	image := buildImage(t, KeyOSSC, 26, []byte("firmware payload"))
	image[18] ^= 0xFF
	_, err := Validate(image)
	require.ErrorIs(t, err, ErrHeaderCRC)
}

func TestValidateRejectsOversizedImage(t *testing.T) {
	data := make([]byte, maxImageSize)
	image := buildImage(t, KeyOSSC, 26, data)
	_, err := Validate(image)
	require.ErrorIs(t, err, ErrImageTooLarge)
}
