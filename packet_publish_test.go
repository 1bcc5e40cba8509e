package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishEncodeDecodeRoundTripQoS0(t *testing.T) {
	p := Publish{QoS: QoS0, Retain: false, Topic: []byte("a/b"), Payload: []byte("hello")}
	buf := make([]byte, 64)
	n, err := p.Encode(buf)
	require.NoError(t, err)

	_, flags, err := decodeFixedHeaderByte(buf[0])
	require.NoError(t, err)
	_, hn, err := decodeVarByteInt(buf[1:])
	require.NoError(t, err)

	got, err := DecodePublish(flags, buf[1+hn:n])
	require.NoError(t, err)
	assert.Equal(t, p.Topic, got.Topic)
	assert.Equal(t, p.Payload, got.Payload)
	assert.Equal(t, QoS0, got.QoS)
	assert.Equal(t, PacketIdentifier(0), got.PacketIdentifier)
}

func TestPublishEncodeDecodeRoundTripQoS1(t *testing.T) {
	p := Publish{QoS: QoS1, Retain: true, Topic: []byte("a/b"), PacketIdentifier: 42, Payload: []byte("hi")}
	buf := make([]byte, 64)
	n, err := p.Encode(buf)
	require.NoError(t, err)

	_, flags, err := decodeFixedHeaderByte(buf[0])
	require.NoError(t, err)
	_, hn, err := decodeVarByteInt(buf[1:])
	require.NoError(t, err)

	got, err := DecodePublish(flags, buf[1+hn:n])
	require.NoError(t, err)
	assert.Equal(t, PacketIdentifier(42), got.PacketIdentifier)
	assert.True(t, got.Retain)
}

func TestPublishRejectsDupOnQoS0(t *testing.T) {
	p := Publish{QoS: QoS0, Dup: true, Topic: []byte("a")}
	buf := make([]byte, 32)
	_, err := p.Encode(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpectedPacket)
}

func TestPublishRejectsWildcardTopic(t *testing.T) {
	p := Publish{QoS: QoS0, Topic: []byte("a/+/c")}
	buf := make([]byte, 32)
	_, err := p.Encode(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpectedPacket)
}

func TestPublishRejectsZeroIdentifierOnQoS1(t *testing.T) {
	p := Publish{QoS: QoS1, Topic: []byte("a")}
	buf := make([]byte, 32)
	_, err := p.Encode(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknownPacketIdentifier)
}

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	sub := Subscribe{PacketIdentifier: 7}
	require.NoError(t, sub.AddFilter([]byte("a/#"), SubscribeOptions{MaxQoS: QoS1}))
	require.NoError(t, sub.AddFilter([]byte("b/+"), SubscribeOptions{MaxQoS: QoS0, NoLocal: true}))
	buf := make([]byte, 128)
	n, err := sub.Encode(buf)
	require.NoError(t, err)
	_, _, hn := decodeHeaderForTest(t, buf[:n])
	got, err := DecodeSubscribe(buf[hn:n])
	require.NoError(t, err)
	assert.Equal(t, PacketIdentifier(7), got.PacketIdentifier)
	require.Equal(t, 2, got.NumFilters)
	assert.Equal(t, "a/#", string(got.Filters[0].Filter))
	assert.Equal(t, QoS1, got.Filters[0].Options.MaxQoS)
	assert.True(t, got.Filters[1].Options.NoLocal)

	unsub := Unsubscribe{PacketIdentifier: 7}
	require.NoError(t, unsub.AddFilter([]byte("a/#")))
	n, err = unsub.Encode(buf)
	require.NoError(t, err)
	_, _, hn = decodeHeaderForTest(t, buf[:n])
	gotU, err := DecodeUnsubscribe(buf[hn:n])
	require.NoError(t, err)
	assert.Equal(t, 1, gotU.NumFilters)
}

func TestDecodeSubscribeRejectsEmptyList(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWriter(buf)
	require.NoError(t, w.WriteUint16(1))
	require.NoError(t, w.WriteVarByteInt(0))
	_, err := DecodeSubscribe(w.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptySubscriptionList)
}

func TestSubackUnsubackRoundTrip(t *testing.T) {
	sb := Suback{PacketIdentifier: 3}
	require.NoError(t, sb.AddReasonCode(SubackGrantedQoS1))
	require.NoError(t, sb.AddReasonCode(SubackNotAuthorized))
	buf := make([]byte, 64)
	n, err := sb.Encode(buf)
	require.NoError(t, err)
	_, _, hn := decodeHeaderForTest(t, buf[:n])
	got, err := DecodeSuback(buf[hn:n])
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumReasonCodes)
	assert.Equal(t, SubackGrantedQoS1, got.ReasonCodes[0])
	assert.True(t, got.ReasonCodes[1].IsFailure())

	usb := Unsuback{PacketIdentifier: 3}
	require.NoError(t, usb.AddReasonCode(UnsubackSuccess))
	n, err = usb.Encode(buf)
	require.NoError(t, err)
	_, _, hn = decodeHeaderForTest(t, buf[:n])
	gotU, err := DecodeUnsuback(buf[hn:n])
	require.NoError(t, err)
	assert.Equal(t, 1, gotU.NumReasonCodes)
}
