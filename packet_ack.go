package mqtt

func ackPropertyAllowed(id PropertyID) bool {
	switch id {
	case PropReasonString, PropUserProperty:
		return true
	default:
		return false
	}
}

// PublishAck is the shared shape of PUBACK, PUBREC, PUBREL and PUBCOMP: a
// packet identifier, a reason code, and an optional property list. MQTT v5
// §3.4.2.1 permits omitting the reason code and properties entirely when the
// reason code is Success and there are no properties; encode emits that
// 2-byte shorthand in exactly that case, and decode accepts it.
type PublishAck struct {
	Kind             PacketKind // one of PacketPuback, PacketPubrec, PacketPubrel, PacketPubcomp
	PacketIdentifier PacketIdentifier
	ReasonCode       PublishReasonCode
	Properties       PropertyList
}

func (a *PublishAck) bodySize() int {
	if a.ReasonCode == PublishSuccess && a.Properties.Len() == 0 {
		return 2
	}
	propsSize := a.Properties.size()
	return 2 + 1 + varByteIntSize(uint32(propsSize)) + propsSize
}

// Encode writes the full ack packet into buf.
func (a *PublishAck) Encode(buf []byte) (int, error) {
	bodySize := a.bodySize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode "+a.Kind.String())
	}
	flags := PacketFlags(reservedFlagsFor(a.Kind))
	encodeFixedHeader(buf, a.Kind, flags, uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	if a.PacketIdentifier == 0 {
		return 0, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero")
	}
	if err := w.WriteUint16(uint16(a.PacketIdentifier)); err != nil {
		return 0, err
	}
	if bodySize > 2 {
		if err := w.WriteByte(byte(a.ReasonCode)); err != nil {
			return 0, err
		}
		if err := a.Properties.encode(w); err != nil {
			return 0, err
		}
	}
	return headerLen + bodySize, nil
}

// DecodePublishAck decodes a PUBACK/PUBREC/PUBREL/PUBCOMP packet body.
func DecodePublishAck(kind PacketKind, body []byte) (PublishAck, error) {
	r := NewReader(body)
	pi, err := r.ReadUint16()
	if err != nil {
		return PublishAck{}, err
	}
	if pi == 0 {
		return PublishAck{}, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero")
	}
	a := PublishAck{Kind: kind, PacketIdentifier: PacketIdentifier(pi), ReasonCode: PublishSuccess}
	if r.Remaining() == 0 {
		return a, nil
	}
	rc, err := r.ReadByte()
	if err != nil {
		return PublishAck{}, err
	}
	code := PublishReasonCode(rc)
	if !code.valid() {
		return PublishAck{}, newCodecError(errUnknownReasonCode, "unknown reason code in "+kind.String())
	}
	a.ReasonCode = code
	if r.Remaining() == 0 {
		return a, nil
	}
	props, err := decodePropertyList(r, ackPropertyAllowed)
	if err != nil {
		return PublishAck{}, err
	}
	a.Properties = props
	return a, nil
}
