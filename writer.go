package mqtt

// Writer is a cursor over a caller-owned byte buffer. It never allocates;
// every typed writer method either copies the caller's bytes into the
// buffer or returns a CodecError. Put and the fixed-size writers check
// capacity before writing anything; the length-prefixed writers
// (WriteUTF8String, WriteBinary, WriteUTF8Pair) may leave a length prefix or
// a pair's name written when the rest does not fit.
type Writer struct {
	buf      []byte
	position int
}

// NewWriter wraps buf for writing from position 0.
func NewWriter(buf []byte) *Writer { return &Writer{buf: buf} }

// Position returns the number of bytes written so far.
func (w *Writer) Position() int { return w.position }

// Remaining returns the number of bytes of spare capacity.
func (w *Writer) Remaining() int { return len(w.buf) - w.position }

// Bytes returns the portion of the buffer written so far.
func (w *Writer) Bytes() []byte { return w.buf[:w.position] }

// Put copies b into the buffer at the cursor and advances past it.
func (w *Writer) Put(b []byte) error {
	if w.Remaining() < len(b) {
		return newCodecError(errInsufficientCapacity, "not enough capacity remaining")
	}
	copy(w.buf[w.position:], b)
	w.position += len(b)
	return nil
}

// WriteByte writes a single Byte.
func (w *Writer) WriteByte(b byte) error {
	if w.Remaining() < 1 {
		return newCodecError(errInsufficientCapacity, "not enough capacity remaining")
	}
	w.buf[w.position] = b
	w.position++
	return nil
}

// WriteUint16 writes a Two Byte Integer, big-endian.
func (w *Writer) WriteUint16(v uint16) error {
	if w.Remaining() < 2 {
		return newCodecError(errInsufficientCapacity, "not enough capacity remaining")
	}
	w.buf[w.position] = byte(v >> 8)
	w.buf[w.position+1] = byte(v)
	w.position += 2
	return nil
}

// WriteUint32 writes a Four Byte Integer, big-endian.
func (w *Writer) WriteUint32(v uint32) error {
	if w.Remaining() < 4 {
		return newCodecError(errInsufficientCapacity, "not enough capacity remaining")
	}
	w.buf[w.position] = byte(v >> 24)
	w.buf[w.position+1] = byte(v >> 16)
	w.buf[w.position+2] = byte(v >> 8)
	w.buf[w.position+3] = byte(v)
	w.position += 4
	return nil
}

// WriteVarByteInt writes v as a Variable Byte Integer using the minimum
// number of bytes.
func (w *Writer) WriteVarByteInt(v uint32) error {
	if v > MaxVarByteInt {
		return newCodecError(errMalformedVarByteInt, "value exceeds variable byte integer range")
	}
	need := varByteIntSize(v)
	if w.Remaining() < need {
		return newCodecError(errInsufficientCapacity, "not enough capacity remaining")
	}
	n := encodeVarByteInt(v, w.buf[w.position:])
	w.position += n
	return nil
}

// WriteUTF8String writes a UTF-8 String: a two-byte length prefix followed
// by s. It assumes s is valid UTF-8 already (the caller's responsibility per
// MQTT v5 §1.5.4); it only rejects s that is too long to represent.
func (w *Writer) WriteUTF8String(s []byte) error {
	if len(s) > MaxStringLen {
		return newCodecError(errStringTooLong, "string exceeds 65535 bytes")
	}
	if err := w.WriteUint16(uint16(len(s))); err != nil {
		return err
	}
	return w.Put(s)
}

// WriteBinary writes Binary Data: a two-byte length prefix followed by b.
func (w *Writer) WriteBinary(b []byte) error {
	if len(b) > MaxStringLen {
		return newCodecError(errBinaryTooLong, "binary data exceeds 65535 bytes")
	}
	if err := w.WriteUint16(uint16(len(b))); err != nil {
		return err
	}
	return w.Put(b)
}

// WriteUTF8Pair writes a UTF-8 String Pair: name then value.
func (w *Writer) WriteUTF8Pair(name, value []byte) error {
	if err := w.WriteUTF8String(name); err != nil {
		return err
	}
	return w.WriteUTF8String(value)
}
