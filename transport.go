package mqtt

import (
	"context"
	"errors"
	"io"
)

// Connection is the duplex byte stream capability the session transport is
// built on. Implementations for hosted (TCP/TLS/WebSocket) and embedded
// (UART, lwIP) transports are external collaborators; this package only
// consumes the interface.
//
// Not safe for concurrent use: a Connection is owned by one session at a time.
type Connection interface {
	// ReadFull blocks until len(p) bytes have been read into p, or ctx is
	// done, or the stream reports an error.
	ReadFull(ctx context.Context, p []byte) error
	// WriteAll blocks until all of p has been written, or ctx is done, or
	// the stream reports an error.
	WriteAll(ctx context.Context, p []byte) error
	// ReadReady reports whether bytes are currently available to read
	// without blocking. Connections that cannot answer this cheaply may
	// always return false; keep-alive then falls back to elapsed write time.
	ReadReady(ctx context.Context) (bool, error)
}

// PacketView borrows a just-received packet out of an rx buffer: the fixed
// header's type/flags byte, plus the body (everything after Remaining
// Length). Valid only until the next receiveInto call reusing the same buffer.
type PacketView struct {
	Kind  PacketKind
	Flags PacketFlags
	Body  []byte
}

// readErr maps a Connection read failure onto the package's transport error
// taxonomy, recognizing the stream-ended-mid-packet class (io.EOF/
// io.ErrUnexpectedEOF, and anything wrapping them) as ErrUnexpectedEOF so
// callers can errors.Is against it per the documented error taxonomy rather
// than the raw I/O error.
func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newTransportError("read", ErrUnexpectedEOF)
	}
	return newTransportError("read", err)
}

// send encodes packet into txBuf and writes exactly the encoded bytes to conn.
// encode must behave like the packet Encode methods: write the full packet
// (fixed header included) starting at txBuf[0] and return the byte count.
func send(ctx context.Context, conn Connection, txBuf []byte, encode func([]byte) (int, error)) error {
	n, err := encode(txBuf)
	if err != nil {
		return err
	}
	if err := conn.WriteAll(ctx, txBuf[:n]); err != nil {
		return newTransportError("write", err)
	}
	return nil
}

// receiveInto reads one packet's fixed header and body off conn into rxBuf,
// returning a view of it. rxBuf must be large enough to hold the Remaining
// Length body; ErrBufferTooSmall is returned otherwise without consuming
// more of the stream than the header.
func receiveInto(ctx context.Context, conn Connection, rxBuf []byte) (PacketView, error) {
	var headerByte [1]byte
	if err := conn.ReadFull(ctx, headerByte[:]); err != nil {
		return PacketView{}, readErr(err)
	}
	kind, flags, err := decodeFixedHeaderByte(headerByte[0])
	if err != nil {
		return PacketView{}, err
	}

	remainingLength, err := readVarByteIntFromConn(ctx, conn)
	if err != nil {
		return PacketView{}, err
	}
	if remainingLength > uint32(len(rxBuf)) {
		return PacketView{}, ErrBufferTooSmall
	}
	body := rxBuf[:remainingLength]
	if remainingLength > 0 {
		if err := conn.ReadFull(ctx, body); err != nil {
			return PacketView{}, readErr(err)
		}
	}
	return PacketView{Kind: kind, Flags: flags, Body: body}, nil
}

// readVarByteIntFromConn reads a Variable Byte Integer one byte at a time
// directly off the connection, since its length (1-4 bytes) isn't known
// up front. Mirrors decodeVarByteInt's continuation-bit and overflow rules.
func readVarByteIntFromConn(ctx context.Context, conn Connection) (uint32, error) {
	var value uint32
	var multiplier uint32 = 1
	var b [1]byte
	for i := 0; i < maxVarByteIntBytes; i++ {
		if err := conn.ReadFull(ctx, b[:]); err != nil {
			return 0, readErr(err)
		}
		value += uint32(b[0]&0x7F) * multiplier
		if b[0]&0x80 == 0 {
			if value > MaxVarByteInt {
				return 0, newCodecError(errMalformedVarByteInt, "remaining length exceeds maximum")
			}
			return value, nil
		}
		multiplier *= 128
	}
	return 0, newCodecError(errMalformedVarByteInt, "remaining length longer than 4 bytes")
}
