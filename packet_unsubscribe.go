package mqtt

// Unsubscribe is the MQTT v5 UNSUBSCRIBE packet: a non-empty list of topic
// filters the client wishes to stop receiving.
type Unsubscribe struct {
	PacketIdentifier PacketIdentifier
	Filters          [MaxTopicFilters][]byte
	NumFilters       int
	Properties       PropertyList
}

// AddFilter appends a filter, returning an insufficient-capacity CodecError if full.
func (u *Unsubscribe) AddFilter(filter []byte) error {
	if u.NumFilters >= MaxTopicFilters {
		return newCodecError(errInsufficientCapacity, "too many topic filters")
	}
	u.Filters[u.NumFilters] = filter
	u.NumFilters++
	return nil
}

func (u *Unsubscribe) bodySize() int {
	propsSize := u.Properties.size()
	n := 2 + varByteIntSize(uint32(propsSize)) + propsSize
	for i := 0; i < u.NumFilters; i++ {
		n += 2 + len(u.Filters[i])
	}
	return n
}

// Encode writes the full UNSUBSCRIBE packet into buf.
func (u *Unsubscribe) Encode(buf []byte) (int, error) {
	if u.NumFilters == 0 {
		return 0, newProtocolError(errEmptySubscriptionList, "UNSUBSCRIBE must contain at least one filter")
	}
	if u.PacketIdentifier == 0 {
		return 0, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero")
	}
	bodySize := u.bodySize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode UNSUBSCRIBE")
	}
	encodeFixedHeader(buf, PacketUnsubscribe, PacketFlags(reservedFlagsFor(PacketUnsubscribe)), uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	if err := w.WriteUint16(uint16(u.PacketIdentifier)); err != nil {
		return 0, err
	}
	if err := u.Properties.encode(w); err != nil {
		return 0, err
	}
	for i := 0; i < u.NumFilters; i++ {
		if err := w.WriteUTF8String(u.Filters[i]); err != nil {
			return 0, err
		}
	}
	return headerLen + bodySize, nil
}

// DecodeUnsubscribe decodes an UNSUBSCRIBE packet body.
func DecodeUnsubscribe(body []byte) (Unsubscribe, error) {
	r := NewReader(body)
	pi, err := r.ReadUint16()
	if err != nil {
		return Unsubscribe{}, err
	}
	if pi == 0 {
		return Unsubscribe{}, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero")
	}
	props, err := decodePropertyList(r, subscribePropertyAllowed)
	if err != nil {
		return Unsubscribe{}, err
	}
	u := Unsubscribe{PacketIdentifier: PacketIdentifier(pi), Properties: props}
	for r.Remaining() > 0 {
		filter, err := r.ReadUTF8String()
		if err != nil {
			return Unsubscribe{}, err
		}
		if err := u.AddFilter(filter); err != nil {
			return Unsubscribe{}, err
		}
	}
	if u.NumFilters == 0 {
		return Unsubscribe{}, newProtocolError(errEmptySubscriptionList, "UNSUBSCRIBE must contain at least one filter")
	}
	return u, nil
}
