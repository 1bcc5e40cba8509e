package mqtt

import (
	"context"
	"io"
	"time"
)

// fakeConn is an in-memory Connection backed by a byte queue for inbound
// data and a byte buffer recording everything written, enough to drive a
// Session through a full encode/decode round trip without a real socket.
type fakeConn struct {
	in           []byte
	out          []byte
	forceReadErr error
}

func (c *fakeConn) feed(p []byte) { c.in = append(c.in, p...) }

func (c *fakeConn) ReadFull(ctx context.Context, p []byte) error {
	if c.forceReadErr != nil {
		return c.forceReadErr
	}
	if len(c.in) < len(p) {
		return io.ErrUnexpectedEOF
	}
	copy(p, c.in[:len(p)])
	c.in = c.in[len(p):]
	return nil
}

func (c *fakeConn) WriteAll(ctx context.Context, p []byte) error {
	c.out = append(c.out, p...)
	return nil
}

func (c *fakeConn) ReadReady(ctx context.Context) (bool, error) {
	return len(c.in) > 0, nil
}

// fakeClock is a manually-advanced Clock for deterministic keep-alive tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(0, 0)} }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// encodePacket runs enc into a scratch buffer and returns the encoded bytes,
// for feeding canned server replies into a fakeConn.
func encodePacket(enc func([]byte) (int, error)) []byte {
	buf := make([]byte, 256)
	n, err := enc(buf)
	if err != nil {
		panic(err)
	}
	return buf[:n]
}
