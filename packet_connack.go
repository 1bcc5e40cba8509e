package mqtt

func connackPropertyAllowed(id PropertyID) bool {
	switch id {
	case PropSessionExpiryInterval, PropReceiveMaximum, PropMaximumQoS, PropRetainAvailable, PropMaximumPacketSize,
		PropAssignedClientIdentifier, PropTopicAliasMaximum, PropReasonString, PropUserProperty,
		PropWildcardSubAvailable, PropSubIDsAvailable, PropSharedSubAvailable, PropServerKeepAlive,
		PropResponseInformation, PropServerReference, PropAuthenticationMethod, PropAuthenticationData:
		return true
	default:
		return false
	}
}

// Connack is the MQTT v5 CONNACK packet: the broker's response to CONNECT.
type Connack struct {
	SessionPresent bool
	ReasonCode     ConnectReasonCode
	Properties     PropertyList
}

func (c *Connack) bodySize() int {
	propsSize := c.Properties.size()
	return 1 + 1 + varByteIntSize(uint32(propsSize)) + propsSize
}

// Encode writes the full CONNACK packet into buf.
func (c *Connack) Encode(buf []byte) (int, error) {
	bodySize := c.bodySize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode CONNACK")
	}
	encodeFixedHeader(buf, PacketConnack, 0, uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	var ackFlags byte
	if c.SessionPresent {
		ackFlags = 1
	}
	if err := w.WriteByte(ackFlags); err != nil {
		return 0, err
	}
	if err := w.WriteByte(byte(c.ReasonCode)); err != nil {
		return 0, err
	}
	if err := c.Properties.encode(w); err != nil {
		return 0, err
	}
	return headerLen + bodySize, nil
}

// DecodeConnack decodes a CONNACK packet body.
func DecodeConnack(body []byte) (Connack, error) {
	r := NewReader(body)
	ackFlags, err := r.ReadByte()
	if err != nil {
		return Connack{}, err
	}
	if ackFlags&^1 != 0 {
		return Connack{}, newCodecError(errReservedFlagSet, "reserved bits set in CONNACK ack flags")
	}
	rc, err := r.ReadByte()
	if err != nil {
		return Connack{}, err
	}
	code := ConnectReasonCode(rc)
	if !code.valid() {
		return Connack{}, newCodecError(errUnknownReasonCode, "unknown CONNACK reason code")
	}
	props, err := decodePropertyList(r, connackPropertyAllowed)
	if err != nil {
		return Connack{}, err
	}
	return Connack{SessionPresent: ackFlags&1 != 0, ReasonCode: code, Properties: props}, nil
}
