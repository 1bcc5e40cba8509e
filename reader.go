package mqtt

import "unicode/utf8"

// Reader is a cursor over a caller-owned byte buffer. It never allocates and
// never copies more than the typed accessor being called requires; strings
// and binary payloads are returned as subslices that borrow into the
// underlying buffer and are valid only until the buffer is next written to.
type Reader struct {
	buf      []byte
	position int
}

// NewReader wraps buf for reading from position 0.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.position }

// Position returns the current read offset into the underlying buffer.
func (r *Reader) Position() int { return r.position }

// PeekByte returns the next byte without advancing the cursor.
func (r *Reader) PeekByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, newCodecError(errInsufficientData, "peek past end of buffer")
	}
	return r.buf[r.position], nil
}

// Take returns the next n bytes and advances the cursor past them. The
// returned slice aliases the underlying buffer.
func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, newCodecError(errInsufficientData, "not enough bytes remaining")
	}
	b := r.buf[r.position : r.position+n]
	r.position += n
	return b, nil
}

// ReadByte reads a single byte (Byte, MQTT v5 §1.5.1).
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a Two Byte Integer, big-endian (MQTT v5 §1.5.2).
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.Take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadUint32 reads a Four Byte Integer, big-endian (MQTT v5 §1.5.3).
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.Take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadVarByteInt reads a Variable Byte Integer (MQTT v5 §1.5.5).
func (r *Reader) ReadVarByteInt() (uint32, error) {
	v, n, err := decodeVarByteInt(r.buf[r.position:])
	if err != nil {
		return 0, err
	}
	r.position += n
	return v, nil
}

// ReadUTF8String reads a UTF-8 String (MQTT v5 §1.5.4): a two-byte length
// prefix followed by that many bytes of UTF-8 text. It validates the bytes
// are well-formed UTF-8 containing neither U+0000 nor any surrogate code
// point, rejecting otherwise. The returned slice aliases the buffer.
func (r *Reader) ReadUTF8String() ([]byte, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	b, err := r.Take(int(n))
	if err != nil {
		return nil, err
	}
	if err := validateUTF8String(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadBinary reads Binary Data (MQTT v5 §1.5.6): a two-byte length prefix
// followed by that many raw bytes, with no validation of content. The
// returned slice aliases the buffer.
func (r *Reader) ReadBinary() ([]byte, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	return r.Take(int(n))
}

// ReadUTF8Pair reads a UTF-8 String Pair (MQTT v5 §1.5.7): a name followed by
// a value, each a UTF-8 String.
func (r *Reader) ReadUTF8Pair() (name, value []byte, err error) {
	name, err = r.ReadUTF8String()
	if err != nil {
		return nil, nil, err
	}
	value, err = r.ReadUTF8String()
	if err != nil {
		return nil, nil, err
	}
	return name, value, nil
}

// validateUTF8String enforces the MQTT v5 §1.5.4 restrictions on top of
// well-formedness: no U+0000, no lone or paired surrogate code points
// (U+D800..=U+DFFF, which a valid UTF-8 encoding can never actually contain,
// but utf8.DecodeRune reports U+FFFD for such bytes so we check explicitly).
func validateUTF8String(b []byte) error {
	if !utf8.Valid(b) {
		return newCodecError(errInvalidUTF8, "not valid UTF-8")
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == 0 {
			return newCodecError(errInvalidUTF8, "contains U+0000")
		}
		if r >= 0xD800 && r <= 0xDFFF {
			return newCodecError(errInvalidUTF8, "contains a surrogate code point")
		}
		i += size
	}
	return nil
}
