package mqtt

func publishPropertyAllowed(id PropertyID) bool {
	switch id {
	case PropPayloadFormatIndicator, PropMessageExpiryInterval, PropTopicAlias, PropResponseTopic,
		PropCorrelationData, PropUserProperty, PropSubscriptionIdentifier, PropContentType:
		return true
	default:
		return false
	}
}

// Publish is the MQTT v5 PUBLISH packet, carrying an application message.
// Topic and Payload borrow directly into the buffer they were decoded from
// and are only valid until that buffer is next written to.
type Publish struct {
	Dup              bool
	QoS              QoS
	Retain           bool
	Topic            []byte
	PacketIdentifier PacketIdentifier // present iff QoS > 0
	Properties       PropertyList
	Payload          []byte
}

func (p *Publish) variableHeaderSize() int {
	n := 2 + len(p.Topic)
	if p.QoS != QoS0 {
		n += 2
	}
	propsSize := p.Properties.size()
	n += varByteIntSize(uint32(propsSize)) + propsSize
	return n
}

// Encode writes the full PUBLISH packet into buf.
func (p *Publish) Encode(buf []byte) (int, error) {
	if !p.QoS.IsValid() {
		return 0, newCodecError(errReservedFlagSet, "invalid QoS")
	}
	if p.QoS == QoS0 && p.Dup {
		return 0, newProtocolError(errUnexpectedPacket, "DUP must be 0 for QoS 0 publish")
	}
	if containsWildcard(p.Topic) {
		return 0, newProtocolError(errUnexpectedPacket, "topic name must not contain wildcards")
	}
	bodySize := p.variableHeaderSize() + len(p.Payload)
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode PUBLISH")
	}
	flags := publishFlags(p.Dup, p.QoS, p.Retain)
	encodeFixedHeader(buf, PacketPublish, flags, uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	if err := w.WriteUTF8String(p.Topic); err != nil {
		return 0, err
	}
	if p.QoS != QoS0 {
		if p.PacketIdentifier == 0 {
			return 0, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero for QoS > 0")
		}
		if err := w.WriteUint16(uint16(p.PacketIdentifier)); err != nil {
			return 0, err
		}
	}
	if err := p.Properties.encode(w); err != nil {
		return 0, err
	}
	if err := w.Put(p.Payload); err != nil {
		return 0, err
	}
	return headerLen + bodySize, nil
}

// DecodePublish decodes a PUBLISH packet body. flags carries DUP/QoS/RETAIN
// as read from the fixed header.
func DecodePublish(flags PacketFlags, body []byte) (Publish, error) {
	qos := flags.QoS()
	if qos == qosReserved3 {
		return Publish{}, newCodecError(errReservedFlagSet, "invalid QoS in PUBLISH flags")
	}
	dup := flags.Dup()
	if qos == QoS0 && dup {
		return Publish{}, newProtocolError(errUnexpectedPacket, "DUP must be 0 for QoS 0 publish")
	}
	r := NewReader(body)
	topic, err := r.ReadUTF8String()
	if err != nil {
		return Publish{}, err
	}
	if containsWildcard(topic) {
		return Publish{}, newProtocolError(errUnexpectedPacket, "topic name must not contain wildcards")
	}
	var pi PacketIdentifier
	if qos != QoS0 {
		v, err := r.ReadUint16()
		if err != nil {
			return Publish{}, err
		}
		if v == 0 {
			return Publish{}, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero")
		}
		pi = PacketIdentifier(v)
	}
	props, err := decodePropertyList(r, publishPropertyAllowed)
	if err != nil {
		return Publish{}, err
	}
	payload, err := r.Take(r.Remaining())
	if err != nil {
		return Publish{}, err
	}
	return Publish{
		Dup: dup, QoS: qos, Retain: flags.Retain(),
		Topic: topic, PacketIdentifier: pi, Properties: props, Payload: payload,
	}, nil
}

func containsWildcard(topic []byte) bool {
	for _, b := range topic {
		if b == '+' || b == '#' {
			return true
		}
	}
	return false
}
