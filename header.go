package mqtt

// FixedHeader is the first 2-5 bytes of every MQTT control packet: a type
// and flags byte, followed by the Remaining Length Variable Byte Integer.
type FixedHeader struct {
	Kind            PacketKind
	Flags           PacketFlags
	RemainingLength uint32
}

// maxFixedHeaderLen is the largest a fixed header (type+flags byte plus up
// to 4 bytes of Remaining Length) can be.
const maxFixedHeaderLen = 1 + maxVarByteIntBytes

func decodeFixedHeaderByte(b byte) (PacketKind, PacketFlags, error) {
	kind := PacketKind(b >> 4)
	flags := PacketFlags(b & 0x0F)
	if kind == 0 || kind > PacketAuth {
		return 0, 0, newCodecError(errReservedFlagSet, "reserved or invalid packet type")
	}
	if kind == PacketPublish {
		if flags.QoS() == qosReserved3 {
			return 0, 0, newCodecError(errReservedFlagSet, "invalid QoS value 3 in PUBLISH flags")
		}
		return kind, flags, nil
	}
	want := reservedFlagsFor(kind)
	if byte(flags) != want {
		return 0, 0, newCodecError(errReservedFlagSet, "reserved flag bits must match fixed value for "+kind.String())
	}
	return kind, flags, nil
}

// encodeFixedHeader writes the type+flags byte and Remaining Length into buf,
// returning the number of bytes written. buf must have at least maxFixedHeaderLen bytes.
func encodeFixedHeader(buf []byte, kind PacketKind, flags PacketFlags, remainingLength uint32) int {
	buf[0] = byte(kind)<<4 | byte(flags)
	n := encodeVarByteInt(remainingLength, buf[1:])
	return n + 1
}
