package mqtt

func disconnectPropertyAllowed(id PropertyID) bool {
	switch id {
	case PropSessionExpiryInterval, PropReasonString, PropUserProperty, PropServerReference:
		return true
	default:
		return false
	}
}

// Disconnect is the MQTT v5 DISCONNECT packet, sent by either side to close
// the connection cleanly and optionally report why.
type Disconnect struct {
	ReasonCode DisconnectReasonCode
	Properties PropertyList
}

func (d *Disconnect) bodySize() int {
	propsSize := d.Properties.size()
	if d.ReasonCode == DisconnectNormal && propsSize == 0 {
		return 0
	}
	return 1 + varByteIntSize(uint32(propsSize)) + propsSize
}

// Encode writes the full DISCONNECT packet into buf.
func (d *Disconnect) Encode(buf []byte) (int, error) {
	bodySize := d.bodySize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode DISCONNECT")
	}
	encodeFixedHeader(buf, PacketDisconnect, 0, uint32(bodySize))
	if bodySize == 0 {
		return headerLen, nil
	}
	w := NewWriter(buf[headerLen:])
	if err := w.WriteByte(byte(d.ReasonCode)); err != nil {
		return 0, err
	}
	if err := d.Properties.encode(w); err != nil {
		return 0, err
	}
	return headerLen + bodySize, nil
}

// DecodeDisconnect decodes a DISCONNECT packet body. A zero-length body
// means ReasonCode 0x00 (Normal disconnection) with no properties.
func DecodeDisconnect(body []byte) (Disconnect, error) {
	if len(body) == 0 {
		return Disconnect{ReasonCode: DisconnectNormal}, nil
	}
	r := NewReader(body)
	b, err := r.ReadByte()
	if err != nil {
		return Disconnect{}, err
	}
	code := DisconnectReasonCode(b)
	if !code.valid() {
		return Disconnect{}, newCodecError(errUnknownReasonCode, "unknown DISCONNECT reason code")
	}
	d := Disconnect{ReasonCode: code}
	if r.Remaining() == 0 {
		return d, nil
	}
	props, err := decodePropertyList(r, disconnectPropertyAllowed)
	if err != nil {
		return Disconnect{}, err
	}
	d.Properties = props
	return d, nil
}
