package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTripScalars(t *testing.T) {
	buf := make([]byte, 64)
	w := NewWriter(buf)
	require.NoError(t, w.WriteByte(0x42))
	require.NoError(t, w.WriteUint16(0x1234))
	require.NoError(t, w.WriteUint32(0xDEADBEEF))
	require.NoError(t, w.WriteVarByteInt(16384))

	r := NewReader(w.Bytes())
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), b)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	vbi, err := r.ReadVarByteInt()
	require.NoError(t, err)
	assert.Equal(t, uint32(16384), vbi)
	assert.Equal(t, 0, r.Remaining())
}

func TestWriterRejectsInsufficientCapacity(t *testing.T) {
	buf := make([]byte, 1)
	w := NewWriter(buf)
	err := w.WriteUint16(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInsufficientCapacity)
}

func TestReaderTakeAliasesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	r := NewReader(buf)
	got, err := r.Take(4)
	require.NoError(t, err)
	got[0] = 0xFF
	assert.Equal(t, byte(0xFF), buf[0], "Take must alias, not copy")
}

func TestUTF8StringRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	w := NewWriter(buf)
	require.NoError(t, w.WriteUTF8String([]byte("hello/topic")))
	r := NewReader(w.Bytes())
	s, err := r.ReadUTF8String()
	require.NoError(t, err)
	assert.Equal(t, "hello/topic", string(s))
}

func TestUTF8StringRejectsNulByte(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x00}
	r := NewReader(buf)
	_, err := r.ReadUTF8String()
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidUTF8)
}

func TestUTF8StringRejectsSurrogate(t *testing.T) {
	// U+D800 encoded as raw bytes ED A0 80. These are not valid UTF-8, so
	// the utf8.Valid check rejects them before the explicit surrogate check.
	buf := []byte{0x00, 0x03, 0xED, 0xA0, 0x80}
	r := NewReader(buf)
	_, err := r.ReadUTF8String()
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidUTF8)
}

func TestBinaryDataRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	w := NewWriter(buf)
	payload := []byte{0x00, 0x01, 0xFF, 0xFE}
	require.NoError(t, w.WriteBinary(payload))
	r := NewReader(w.Bytes())
	got, err := r.ReadBinary()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestUTF8PairRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	w := NewWriter(buf)
	require.NoError(t, w.WriteUTF8Pair([]byte("key"), []byte("value")))
	r := NewReader(w.Bytes())
	k, v, err := r.ReadUTF8Pair()
	require.NoError(t, err)
	assert.Equal(t, "key", string(k))
	assert.Equal(t, "value", string(v))
}

func TestReaderInsufficientData(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint16()
	require.Error(t, err)
	assert.ErrorIs(t, err, errInsufficientData)
}
