package mqtt

// Will describes the Will Message a broker publishes on the client's behalf
// if the connection drops uncleanly.
type Will struct {
	Topic      []byte
	Payload    []byte
	QoS        QoS
	Retain     bool
	Properties PropertyList
}

func willPropertyAllowed(id PropertyID) bool {
	switch id {
	case PropWillDelayInterval, PropPayloadFormatIndicator, PropMessageExpiryInterval, PropContentType,
		PropResponseTopic, PropCorrelationData, PropUserProperty:
		return true
	default:
		return false
	}
}

func connectPropertyAllowed(id PropertyID) bool {
	switch id {
	case PropSessionExpiryInterval, PropAuthenticationMethod, PropAuthenticationData, PropRequestProblemInformation,
		PropRequestResponseInformation, PropReceiveMaximum, PropTopicAliasMaximum, PropUserProperty, PropMaximumPacketSize:
		return true
	default:
		return false
	}
}

// Connect is the MQTT v5 CONNECT packet, sent once by the client at the
// start of a Network Connection.
type Connect struct {
	CleanStart  bool
	KeepAlive   uint16
	ClientID    []byte
	Will        *Will
	HasUsername bool
	Username    []byte
	HasPassword bool
	Password    []byte
	Properties  PropertyList
}

func (c *Connect) connectFlags() byte {
	var f byte
	if c.HasUsername {
		f |= 1 << 7
	}
	if c.HasPassword {
		f |= 1 << 6
	}
	if c.Will != nil {
		if c.Will.Retain {
			f |= 1 << 5
		}
		f |= byte(c.Will.QoS&0b11) << 3
		f |= 1 << 2
	}
	if c.CleanStart {
		f |= 1 << 1
	}
	return f
}

func (c *Connect) variableHeaderAndPayloadSize() int {
	n := 2 + len(ProtocolName) + 1 + 1 + 2 // protocol name + version + flags + keepalive
	propsSize := c.Properties.size()
	n += varByteIntSize(uint32(propsSize)) + propsSize
	n += 2 + len(c.ClientID)
	if c.Will != nil {
		wpropsSize := c.Will.Properties.size()
		n += varByteIntSize(uint32(wpropsSize)) + wpropsSize
		n += 2 + len(c.Will.Topic)
		n += 2 + len(c.Will.Payload)
	}
	if c.HasUsername {
		n += 2 + len(c.Username)
	}
	if c.HasPassword {
		n += 2 + len(c.Password)
	}
	return n
}

// Encode writes the full CONNECT packet, including fixed header, into buf.
func (c *Connect) Encode(buf []byte) (int, error) {
	bodySize := c.variableHeaderAndPayloadSize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode CONNECT")
	}
	encodeFixedHeader(buf, PacketConnect, 0, uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	if err := w.WriteUTF8String([]byte(ProtocolName)); err != nil {
		return 0, err
	}
	if err := w.WriteByte(ProtocolVersion); err != nil {
		return 0, err
	}
	if err := w.WriteByte(c.connectFlags()); err != nil {
		return 0, err
	}
	if err := w.WriteUint16(c.KeepAlive); err != nil {
		return 0, err
	}
	if err := c.Properties.encode(w); err != nil {
		return 0, err
	}
	if err := w.WriteUTF8String(c.ClientID); err != nil {
		return 0, err
	}
	if c.Will != nil {
		if err := c.Will.Properties.encode(w); err != nil {
			return 0, err
		}
		if err := w.WriteUTF8String(c.Will.Topic); err != nil {
			return 0, err
		}
		if err := w.WriteBinary(c.Will.Payload); err != nil {
			return 0, err
		}
	}
	if c.HasUsername {
		if err := w.WriteUTF8String(c.Username); err != nil {
			return 0, err
		}
	}
	if c.HasPassword {
		if err := w.WriteBinary(c.Password); err != nil {
			return 0, err
		}
	}
	return headerLen + bodySize, nil
}

// DecodeConnect decodes a CONNECT packet body. flags must be 0 (validated by
// the caller via decodeFixedHeaderByte before this is reached).
func DecodeConnect(body []byte) (Connect, error) {
	r := NewReader(body)
	protocol, err := r.ReadUTF8String()
	if err != nil {
		return Connect{}, err
	}
	if string(protocol) != ProtocolName {
		return Connect{}, newProtocolError(errProtocolNameMismatch, "expected \"MQTT\"")
	}
	version, err := r.ReadByte()
	if err != nil {
		return Connect{}, err
	}
	if version != ProtocolVersion {
		return Connect{}, newProtocolError(errUnsupportedVersion, "only MQTT v5 is supported")
	}
	flagsByte, err := r.ReadByte()
	if err != nil {
		return Connect{}, err
	}
	if flagsByte&1 != 0 {
		return Connect{}, newCodecError(errReservedFlagSet, "reserved bit set in CONNECT flags")
	}
	hasUsername := flagsByte&(1<<7) != 0
	hasPassword := flagsByte&(1<<6) != 0
	willRetain := flagsByte&(1<<5) != 0
	willQoS := QoS((flagsByte >> 3) & 0b11)
	willFlag := flagsByte&(1<<2) != 0
	cleanStart := flagsByte&(1<<1) != 0
	if !willFlag && (willRetain || willQoS != QoS0) {
		return Connect{}, newProtocolError(errUnexpectedPacket, "will QoS/retain set without will flag")
	}
	if willQoS == qosReserved3 {
		return Connect{}, newCodecError(errReservedFlagSet, "invalid will QoS")
	}
	if hasPassword && !hasUsername {
		return Connect{}, newProtocolError(errUnexpectedPacket, "password flag set without username flag")
	}
	keepAlive, err := r.ReadUint16()
	if err != nil {
		return Connect{}, err
	}
	props, err := decodePropertyList(r, connectPropertyAllowed)
	if err != nil {
		return Connect{}, err
	}
	clientID, err := r.ReadUTF8String()
	if err != nil {
		return Connect{}, err
	}
	c := Connect{
		CleanStart:  cleanStart,
		KeepAlive:   keepAlive,
		ClientID:    clientID,
		HasUsername: hasUsername,
		HasPassword: hasPassword,
		Properties:  props,
	}
	if willFlag {
		wprops, err := decodePropertyList(r, willPropertyAllowed)
		if err != nil {
			return Connect{}, err
		}
		topic, err := r.ReadUTF8String()
		if err != nil {
			return Connect{}, err
		}
		payload, err := r.ReadBinary()
		if err != nil {
			return Connect{}, err
		}
		c.Will = &Will{Topic: topic, Payload: payload, QoS: willQoS, Retain: willRetain, Properties: wprops}
	}
	if hasUsername {
		c.Username, err = r.ReadUTF8String()
		if err != nil {
			return Connect{}, err
		}
	}
	if hasPassword {
		c.Password, err = r.ReadBinary()
		if err != nil {
			return Connect{}, err
		}
	}
	return c, nil
}
