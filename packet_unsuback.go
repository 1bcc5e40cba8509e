package mqtt

// Unsuback is the MQTT v5 UNSUBACK packet: one reason code per filter named
// in the corresponding UNSUBSCRIBE, in the same order.
type Unsuback struct {
	PacketIdentifier PacketIdentifier
	ReasonCodes      [MaxTopicFilters]UnsubackReasonCode
	NumReasonCodes   int
	Properties       PropertyList
}

// AddReasonCode appends a reason code, returning an insufficient-capacity CodecError if full.
func (u *Unsuback) AddReasonCode(code UnsubackReasonCode) error {
	if u.NumReasonCodes >= MaxTopicFilters {
		return newCodecError(errInsufficientCapacity, "too many reason codes")
	}
	u.ReasonCodes[u.NumReasonCodes] = code
	u.NumReasonCodes++
	return nil
}

func (u *Unsuback) bodySize() int {
	propsSize := u.Properties.size()
	return 2 + varByteIntSize(uint32(propsSize)) + propsSize + u.NumReasonCodes
}

// Encode writes the full UNSUBACK packet into buf.
func (u *Unsuback) Encode(buf []byte) (int, error) {
	if u.NumReasonCodes == 0 {
		return 0, newProtocolError(errEmptySubscriptionList, "UNSUBACK must contain at least one reason code")
	}
	bodySize := u.bodySize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode UNSUBACK")
	}
	encodeFixedHeader(buf, PacketUnsuback, 0, uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	if err := w.WriteUint16(uint16(u.PacketIdentifier)); err != nil {
		return 0, err
	}
	if err := u.Properties.encode(w); err != nil {
		return 0, err
	}
	for i := 0; i < u.NumReasonCodes; i++ {
		if err := w.WriteByte(byte(u.ReasonCodes[i])); err != nil {
			return 0, err
		}
	}
	return headerLen + bodySize, nil
}

// DecodeUnsuback decodes an UNSUBACK packet body.
func DecodeUnsuback(body []byte) (Unsuback, error) {
	r := NewReader(body)
	pi, err := r.ReadUint16()
	if err != nil {
		return Unsuback{}, err
	}
	props, err := decodePropertyList(r, ackPropertyAllowed)
	if err != nil {
		return Unsuback{}, err
	}
	u := Unsuback{PacketIdentifier: PacketIdentifier(pi), Properties: props}
	for r.Remaining() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			return Unsuback{}, err
		}
		code := UnsubackReasonCode(b)
		if !code.valid() {
			return Unsuback{}, newCodecError(errUnknownReasonCode, "unknown UNSUBACK reason code")
		}
		if err := u.AddReasonCode(code); err != nil {
			return Unsuback{}, err
		}
	}
	if u.NumReasonCodes == 0 {
		return Unsuback{}, newProtocolError(errEmptySubscriptionList, "UNSUBACK must contain at least one reason code")
	}
	return u, nil
}
