package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarByteIntRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, MaxVarByteInt}
	for _, v := range values {
		var buf [4]byte
		n := encodeVarByteInt(v, buf[:])
		assert.Equal(t, varByteIntSize(v), n)
		got, read, err := decodeVarByteInt(buf[:])
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, n, read)
	}
}

func TestVarByteIntAcceptsNonMinimalEncoding(t *testing.T) {
	// 0 encoded in 4 bytes instead of the minimal 1.
	b := []byte{0x80, 0x80, 0x80, 0x00}
	got, n, err := decodeVarByteInt(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)
	assert.Equal(t, 4, n)
}

func TestVarByteIntRejectsTooLong(t *testing.T) {
	b := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	_, _, err := decodeVarByteInt(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMalformedVarByteInt)
}

func TestVarByteIntRejectsOverflow(t *testing.T) {
	// A fourth byte that still sets the continuation bit would carry the
	// value past MaxVarByteInt; the decoder rejects it as malformed.
	b := []byte{0x80, 0x80, 0x80, 0x80}
	_, _, err := decodeVarByteInt(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMalformedVarByteInt)
}

func TestVarByteIntTruncated(t *testing.T) {
	_, _, err := decodeVarByteInt([]byte{0x80})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInsufficientData)
}

func TestEncodeVarByteIntPanicsOnOutOfRange(t *testing.T) {
	assert.Panics(t, func() {
		var buf [4]byte
		encodeVarByteInt(MaxVarByteInt+1, buf[:])
	})
}

func FuzzVarByteIntRoundTrip(f *testing.F) {
	seeds := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, 268435455}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, v uint32) {
		v %= MaxVarByteInt + 1
		var buf [4]byte
		n := encodeVarByteInt(v, buf[:])
		got, read, err := decodeVarByteInt(buf[:])
		if err != nil {
			t.Fatalf("decode of just-encoded value failed: %v", err)
		}
		if got != v || read != n {
			t.Fatalf("round trip mismatch: got %d/%d want %d/%d", got, read, v, n)
		}
	})
}
