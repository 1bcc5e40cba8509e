package mqtt

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(conn *fakeConn, clock Clock) *Session {
	return NewSession(conn, clock, nil, make([]byte, 512), make([]byte, 512))
}

func TestSessionConnectSuccess(t *testing.T) {
	conn := &fakeConn{}
	ca := Connack{ReasonCode: ConnectSuccess, SessionPresent: true}
	conn.feed(encodePacket(ca.Encode))

	s := newTestSession(conn, newFakeClock())
	err := s.Connect(context.Background(), &ConnectOptions{ClientID: []byte("c1"), CleanStart: true})
	require.NoError(t, err)
	assert.True(t, s.Connected())

	kind, _, err := decodeFixedHeaderByte(conn.out[0])
	require.NoError(t, err)
	assert.Equal(t, PacketConnect, kind)
}

func TestSessionConnectRefused(t *testing.T) {
	conn := &fakeConn{}
	ca := Connack{ReasonCode: ConnectBadUsernameOrPassword}
	conn.feed(encodePacket(ca.Encode))

	s := newTestSession(conn, newFakeClock())
	err := s.Connect(context.Background(), &ConnectOptions{ClientID: []byte("c1")})
	require.Error(t, err)
	var rcErr *ConnackReasonCodeError
	require.ErrorAs(t, err, &rcErr)
	assert.Equal(t, ConnectBadUsernameOrPassword, rcErr.Code)
	assert.False(t, s.Connected())
}

func TestSessionPublishQoS1AckFlow(t *testing.T) {
	conn := &fakeConn{}
	ca := Connack{ReasonCode: ConnectSuccess}
	conn.feed(encodePacket(ca.Encode))
	s := newTestSession(conn, newFakeClock())
	require.NoError(t, s.Connect(context.Background(), &ConnectOptions{ClientID: []byte("c1")}))

	id, err := s.Publish(context.Background(), []byte("a/b"), []byte("payload"), QoS1, false)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.True(t, s.WaitingForResponses())

	ack := PublishAck{Kind: PacketPuback, PacketIdentifier: id, ReasonCode: PublishSuccess}
	conn.feed(encodePacket(ack.Encode))

	ev, ok, err := s.Poll(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventAck, ev.Kind)
	assert.Equal(t, IdentifierKindPublishQoS1, ev.Ack.Kind)
	assert.Equal(t, PublishSuccess, ev.Ack.PublishReason)
	assert.False(t, s.WaitingForResponses())
}

func TestSessionPublishRejectsQoS2(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	_, err := s.Publish(context.Background(), []byte("a"), nil, QoS2, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnsupportedQoS2)
}

func TestSessionIdentifierSpaceExhaustion(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	for i := 0; i < MaxOutstandingIdentifiers; i++ {
		_, err := s.Publish(context.Background(), []byte("a"), nil, QoS1, false)
		require.NoError(t, err, "publish %d", i)
	}
	_, err := s.Publish(context.Background(), []byte("a"), nil, QoS1, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIdentifierSpaceExhausted)
}

func TestSessionSubscribeDowngradeEvent(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	id, err := s.Subscribe(context.Background(), []SubscriptionFilter{
		{Filter: []byte("a/b"), Options: SubscribeOptions{MaxQoS: QoS1}},
	})
	require.NoError(t, err)

	sb := Suback{PacketIdentifier: id}
	require.NoError(t, sb.AddReasonCode(SubackGrantedQoS0))
	conn.feed(encodePacket(sb.Encode))

	ev, ok, err := s.Poll(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventSubscriptionGrantedBelowRequestedQoS, ev.Kind)
	require.Equal(t, 1, ev.Ack.NumSubackReasons)
	assert.Equal(t, SubackGrantedQoS0, ev.Ack.SubackReasons[0])
}

func TestSessionSubscribeMatchedQoSNoDowngradeEvent(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	id, err := s.Subscribe(context.Background(), []SubscriptionFilter{
		{Filter: []byte("a/b"), Options: SubscribeOptions{MaxQoS: QoS0}},
	})
	require.NoError(t, err)

	sb := Suback{PacketIdentifier: id}
	require.NoError(t, sb.AddReasonCode(SubackGrantedQoS0))
	conn.feed(encodePacket(sb.Encode))

	ev, ok, err := s.Poll(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventAck, ev.Kind)
}

func TestSessionPollReturnsApplicationMessageAndTracksAck(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	pub := Publish{QoS: QoS1, Topic: []byte("t"), Payload: []byte("hi"), PacketIdentifier: 5}
	conn.feed(encodePacket(pub.Encode))

	ev, ok, err := s.Poll(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventApplicationMessage, ev.Kind)
	assert.Equal(t, "t", string(ev.Message.Topic))
	assert.Equal(t, PacketIdentifier(5), ev.Ack.PacketIdentifier)

	require.NoError(t, s.AckPublish(context.Background(), ev.Ack.PacketIdentifier, PublishSuccess))
}

func TestSessionPollWithoutWaitReturnsNotOkWhenNothingReady(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	_, ok, err := s.Poll(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionPollTransportErrorClosesSession(t *testing.T) {
	conn := &fakeConn{forceReadErr: io.ErrClosedPipe}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	ev, ok, err := s.Poll(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventConnectionClosed, ev.Kind)
	assert.Error(t, ev.ClosedErr)
	assert.False(t, s.Connected())
}

func TestSessionPollStreamEndedMidPacketMapsToErrUnexpectedEOF(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	// Feed a fixed header announcing a body longer than what actually
	// follows, so the read underruns mid-packet.
	conn.feed([]byte{byte(PacketPingresp) << 4, 0x02, 0x00})

	ev, ok, err := s.Poll(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventConnectionClosed, ev.Kind)
	assert.ErrorIs(t, ev.ClosedErr, ErrUnexpectedEOF)
}

func TestSessionPingRoundTrip(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	require.NoError(t, s.SendPing(context.Background()))
	assert.True(t, s.WaitingForResponses())

	var resp Pingresp
	conn.feed(encodePacket(resp.Encode))

	ev, ok, err := s.Poll(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, EventAck, ev.Kind)
	assert.False(t, s.WaitingForResponses())
}

func TestSessionKeepAliveDueAndExpired(t *testing.T) {
	conn := &fakeConn{}
	clock := newFakeClock()
	s := newTestSession(conn, clock)
	s.state = stateConnected
	s.keepAliveSeconds = 10
	s.lastWriteAt = clock.Now()

	assert.False(t, s.KeepAliveDue())
	clock.advance(7 * time.Second)
	assert.False(t, s.KeepAliveDue(), "below the 0.8 fraction threshold")
	clock.advance(1 * time.Second)
	assert.True(t, s.KeepAliveDue())

	require.NoError(t, s.SendPing(context.Background()))
	assert.False(t, s.KeepAliveExpired())
	clock.advance(11 * time.Second)
	assert.True(t, s.KeepAliveExpired())
}

func TestSessionDisconnectTransitionsState(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())
	s.state = stateConnected

	require.NoError(t, s.Disconnect(context.Background()))
	assert.False(t, s.Connected())

	kind, _, err := decodeFixedHeaderByte(conn.out[0])
	require.NoError(t, err)
	assert.Equal(t, PacketDisconnect, kind)
}

func TestSessionOperationsRequireConnectedState(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn, newFakeClock())

	_, err := s.Publish(context.Background(), []byte("a"), nil, QoS0, false)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = s.Subscribe(context.Background(), []SubscriptionFilter{{Filter: []byte("a")}})
	assert.ErrorIs(t, err, ErrNotConnected)

	err = s.Disconnect(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}
