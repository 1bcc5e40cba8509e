package mqtt

func subackPropertyAllowed(id PropertyID) bool {
	switch id {
	case PropReasonString, PropUserProperty:
		return true
	default:
		return false
	}
}

// Suback is the MQTT v5 SUBACK packet: one reason code per filter requested
// in the corresponding SUBSCRIBE, in the same order.
type Suback struct {
	PacketIdentifier PacketIdentifier
	ReasonCodes      [MaxTopicFilters]SubackReasonCode
	NumReasonCodes   int
	Properties       PropertyList
}

// AddReasonCode appends a reason code, returning an insufficient-capacity CodecError if full.
func (s *Suback) AddReasonCode(code SubackReasonCode) error {
	if s.NumReasonCodes >= MaxTopicFilters {
		return newCodecError(errInsufficientCapacity, "too many reason codes")
	}
	s.ReasonCodes[s.NumReasonCodes] = code
	s.NumReasonCodes++
	return nil
}

func (s *Suback) bodySize() int {
	propsSize := s.Properties.size()
	return 2 + varByteIntSize(uint32(propsSize)) + propsSize + s.NumReasonCodes
}

// Encode writes the full SUBACK packet into buf.
func (s *Suback) Encode(buf []byte) (int, error) {
	if s.NumReasonCodes == 0 {
		return 0, newProtocolError(errEmptySubscriptionList, "SUBACK must contain at least one reason code")
	}
	bodySize := s.bodySize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode SUBACK")
	}
	encodeFixedHeader(buf, PacketSuback, 0, uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	if err := w.WriteUint16(uint16(s.PacketIdentifier)); err != nil {
		return 0, err
	}
	if err := s.Properties.encode(w); err != nil {
		return 0, err
	}
	for i := 0; i < s.NumReasonCodes; i++ {
		if err := w.WriteByte(byte(s.ReasonCodes[i])); err != nil {
			return 0, err
		}
	}
	return headerLen + bodySize, nil
}

// DecodeSuback decodes a SUBACK packet body.
func DecodeSuback(body []byte) (Suback, error) {
	r := NewReader(body)
	pi, err := r.ReadUint16()
	if err != nil {
		return Suback{}, err
	}
	props, err := decodePropertyList(r, subackPropertyAllowed)
	if err != nil {
		return Suback{}, err
	}
	s := Suback{PacketIdentifier: PacketIdentifier(pi), Properties: props}
	for r.Remaining() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			return Suback{}, err
		}
		code := SubackReasonCode(b)
		if !code.valid() {
			return Suback{}, newCodecError(errUnknownReasonCode, "unknown SUBACK reason code")
		}
		if err := s.AddReasonCode(code); err != nil {
			return Suback{}, err
		}
	}
	if s.NumReasonCodes == 0 {
		return Suback{}, newProtocolError(errEmptySubscriptionList, "SUBACK must contain at least one reason code")
	}
	return s, nil
}
