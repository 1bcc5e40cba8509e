package mqtt

// MaxTopicFilters bounds the number of topic filters this client will
// encode or decode in a single SUBSCRIBE or UNSUBSCRIBE packet.
const MaxTopicFilters = 8

func subscribePropertyAllowed(id PropertyID) bool {
	switch id {
	case PropSubscriptionIdentifier, PropUserProperty:
		return true
	default:
		return false
	}
}

// SubscriptionFilter pairs a topic filter with its per-filter options, one
// entry of a SUBSCRIBE packet's payload.
type SubscriptionFilter struct {
	Filter  []byte
	Options SubscribeOptions
}

// Subscribe is the MQTT v5 SUBSCRIBE packet: a non-empty list of topic
// filters the client wishes to receive matching PUBLISH packets for.
type Subscribe struct {
	PacketIdentifier PacketIdentifier
	Filters          [MaxTopicFilters]SubscriptionFilter
	NumFilters       int
	Properties       PropertyList
}

// AddFilter appends a filter, returning an insufficient-capacity CodecError if full.
func (s *Subscribe) AddFilter(filter []byte, opts SubscribeOptions) error {
	if s.NumFilters >= MaxTopicFilters {
		return newCodecError(errInsufficientCapacity, "too many topic filters")
	}
	s.Filters[s.NumFilters] = SubscriptionFilter{Filter: filter, Options: opts}
	s.NumFilters++
	return nil
}

func (s *Subscribe) bodySize() int {
	propsSize := s.Properties.size()
	n := 2 + varByteIntSize(uint32(propsSize)) + propsSize
	for i := 0; i < s.NumFilters; i++ {
		n += 2 + len(s.Filters[i].Filter) + 1
	}
	return n
}

// Encode writes the full SUBSCRIBE packet into buf.
func (s *Subscribe) Encode(buf []byte) (int, error) {
	if s.NumFilters == 0 {
		return 0, newProtocolError(errEmptySubscriptionList, "SUBSCRIBE must contain at least one filter")
	}
	if s.PacketIdentifier == 0 {
		return 0, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero")
	}
	bodySize := s.bodySize()
	headerLen := 1 + varByteIntSize(uint32(bodySize))
	if len(buf) < headerLen+bodySize {
		return 0, newCodecError(errInsufficientCapacity, "buffer too small to encode SUBSCRIBE")
	}
	encodeFixedHeader(buf, PacketSubscribe, PacketFlags(reservedFlagsFor(PacketSubscribe)), uint32(bodySize))
	w := NewWriter(buf[headerLen:])
	if err := w.WriteUint16(uint16(s.PacketIdentifier)); err != nil {
		return 0, err
	}
	if err := s.Properties.encode(w); err != nil {
		return 0, err
	}
	for i := 0; i < s.NumFilters; i++ {
		f := s.Filters[i]
		if err := w.WriteUTF8String(f.Filter); err != nil {
			return 0, err
		}
		if err := w.WriteByte(f.Options.encode()); err != nil {
			return 0, err
		}
	}
	return headerLen + bodySize, nil
}

// DecodeSubscribe decodes a SUBSCRIBE packet body.
func DecodeSubscribe(body []byte) (Subscribe, error) {
	r := NewReader(body)
	pi, err := r.ReadUint16()
	if err != nil {
		return Subscribe{}, err
	}
	if pi == 0 {
		return Subscribe{}, newProtocolError(errUnknownPacketIdentifier, "packet identifier must be non-zero")
	}
	props, err := decodePropertyList(r, subscribePropertyAllowed)
	if err != nil {
		return Subscribe{}, err
	}
	s := Subscribe{PacketIdentifier: PacketIdentifier(pi), Properties: props}
	for r.Remaining() > 0 {
		filter, err := r.ReadUTF8String()
		if err != nil {
			return Subscribe{}, err
		}
		optByte, err := r.ReadByte()
		if err != nil {
			return Subscribe{}, err
		}
		opts, err := decodeSubscribeOptions(optByte)
		if err != nil {
			return Subscribe{}, err
		}
		if err := s.AddFilter(filter, opts); err != nil {
			return Subscribe{}, err
		}
	}
	if s.NumFilters == 0 {
		return Subscribe{}, newProtocolError(errEmptySubscriptionList, "SUBSCRIBE must contain at least one filter")
	}
	return s, nil
}
