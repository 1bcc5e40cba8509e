package mqtt

// Pingreq is the MQTT v5 PINGREQ packet: no variable header, no payload.
type Pingreq struct{}

// Encode writes the 2-byte PINGREQ packet into buf.
func (Pingreq) Encode(buf []byte) (int, error) { return encodeSimple(buf, PacketPingreq) }

// Pingresp is the MQTT v5 PINGRESP packet: no variable header, no payload.
type Pingresp struct{}

// Encode writes the 2-byte PINGRESP packet into buf.
func (Pingresp) Encode(buf []byte) (int, error) { return encodeSimple(buf, PacketPingresp) }

func encodeSimple(buf []byte, kind PacketKind) (int, error) {
	if len(buf) < 2 {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode "+kind.String())
	}
	return encodeFixedHeader(buf, kind, 0, 0), nil
}

// decodeSimple validates that a PINGREQ/PINGRESP body is empty, per MQTT v5
// §3.12.1/§3.13.1 ("The Remaining Length MUST be 0").
func decodeSimple(body []byte) error {
	if len(body) != 0 {
		return newCodecError(errMalformedVarByteInt, "expected zero-length body")
	}
	return nil
}

// DecodePingreq validates a PINGREQ packet body.
func DecodePingreq(body []byte) (Pingreq, error) {
	if err := decodeSimple(body); err != nil {
		return Pingreq{}, err
	}
	return Pingreq{}, nil
}

// DecodePingresp validates a PINGRESP packet body.
func DecodePingresp(body []byte) (Pingresp, error) {
	if err := decodeSimple(body); err != nil {
		return Pingresp{}, err
	}
	return Pingresp{}, nil
}
