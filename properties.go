package mqtt

// MaxProperties bounds the number of properties this client will encode or
// decode in a single packet's property list. It is a fixed-capacity inline
// array rather than a growable slice, per the "no unbounded growth path"
// design note: PropertyList.Add refuses a property beyond this with an
// insufficient-capacity CodecError, and decoding a list holding more fails
// with the same error.
const MaxProperties = 16

// PropertyID identifies a property's type and wire meaning. Property values
// and their encoding are fixed by this identifier (MQTT v5 §2.2.2.2, §3.1.2.11.*).
type PropertyID byte

const (
	PropPayloadFormatIndicator    PropertyID = 0x01
	PropMessageExpiryInterval     PropertyID = 0x02
	PropContentType               PropertyID = 0x03
	PropResponseTopic             PropertyID = 0x08
	PropCorrelationData           PropertyID = 0x09
	PropSubscriptionIdentifier    PropertyID = 0x0B
	PropSessionExpiryInterval     PropertyID = 0x11
	PropAssignedClientIdentifier  PropertyID = 0x12
	PropServerKeepAlive           PropertyID = 0x13
	PropAuthenticationMethod      PropertyID = 0x15
	PropAuthenticationData        PropertyID = 0x16
	PropRequestProblemInformation PropertyID = 0x17
	PropWillDelayInterval         PropertyID = 0x18
	PropRequestResponseInformation PropertyID = 0x19
	PropResponseInformation       PropertyID = 0x1A
	PropServerReference           PropertyID = 0x1C
	PropReasonString              PropertyID = 0x1F
	PropReceiveMaximum            PropertyID = 0x21
	PropTopicAliasMaximum         PropertyID = 0x22
	PropTopicAlias                PropertyID = 0x23
	PropMaximumQoS                PropertyID = 0x24
	PropRetainAvailable           PropertyID = 0x25
	PropUserProperty              PropertyID = 0x26
	PropMaximumPacketSize         PropertyID = 0x27
	PropWildcardSubAvailable      PropertyID = 0x28
	PropSubIDsAvailable           PropertyID = 0x29
	PropSharedSubAvailable        PropertyID = 0x2A
)

// propertyKind describes how a property's value is encoded on the wire.
type propertyKind uint8

const (
	kindByte propertyKind = iota
	kindU16
	kindU32
	kindVarInt
	kindUTF8String
	kindBinary
	kindUTF8Pair
)

func (id PropertyID) kind() (propertyKind, bool) {
	switch id {
	case PropPayloadFormatIndicator, PropRequestProblemInformation, PropRequestResponseInformation,
		PropMaximumQoS, PropRetainAvailable, PropWildcardSubAvailable, PropSubIDsAvailable, PropSharedSubAvailable:
		return kindByte, true
	case PropServerKeepAlive, PropReceiveMaximum, PropTopicAliasMaximum, PropTopicAlias:
		return kindU16, true
	case PropMessageExpiryInterval, PropSessionExpiryInterval, PropWillDelayInterval, PropMaximumPacketSize:
		return kindU32, true
	case PropSubscriptionIdentifier:
		return kindVarInt, true
	case PropContentType, PropResponseTopic, PropAssignedClientIdentifier, PropAuthenticationMethod,
		PropResponseInformation, PropServerReference, PropReasonString:
		return kindUTF8String, true
	case PropCorrelationData, PropAuthenticationData:
		return kindBinary, true
	case PropUserProperty:
		return kindUTF8Pair, true
	default:
		return 0, false
	}
}

// Property is a single decoded MQTT property: an identifier plus the value
// field matching that identifier's kind. Only one of the value fields is
// meaningful, selected by ID.kind().
type Property struct {
	ID      PropertyID
	Byte    byte
	U16     uint16
	U32     uint32
	VarInt  uint32
	Str     []byte
	PairKey []byte
	PairVal []byte
}

func (p Property) encode(w *Writer) error {
	if err := w.WriteVarByteInt(uint32(p.ID)); err != nil {
		return err
	}
	kind, ok := p.ID.kind()
	if !ok {
		return newCodecError(errUnknownPropertyID, "unknown property identifier")
	}
	switch kind {
	case kindByte:
		return w.WriteByte(p.Byte)
	case kindU16:
		return w.WriteUint16(p.U16)
	case kindU32:
		return w.WriteUint32(p.U32)
	case kindVarInt:
		return w.WriteVarByteInt(p.VarInt)
	case kindUTF8String:
		return w.WriteUTF8String(p.Str)
	case kindBinary:
		return w.WriteBinary(p.Str)
	case kindUTF8Pair:
		return w.WriteUTF8Pair(p.PairKey, p.PairVal)
	default:
		panic("unreachable property kind")
	}
}

func (p Property) size() int {
	n := varByteIntSize(uint32(p.ID))
	kind, ok := p.ID.kind()
	if !ok {
		return n
	}
	switch kind {
	case kindByte:
		return n + 1
	case kindU16:
		return n + 2
	case kindU32:
		return n + 4
	case kindVarInt:
		return n + varByteIntSize(p.VarInt)
	case kindUTF8String, kindBinary:
		return n + 2 + len(p.Str)
	case kindUTF8Pair:
		return n + 2 + len(p.PairKey) + 2 + len(p.PairVal)
	default:
		return n
	}
}

func decodeProperty(r *Reader) (Property, error) {
	idVal, err := r.ReadVarByteInt()
	if err != nil {
		return Property{}, err
	}
	id := PropertyID(idVal)
	kind, ok := id.kind()
	if !ok {
		return Property{}, newCodecError(errUnknownPropertyID, "unknown property identifier")
	}
	p := Property{ID: id}
	switch kind {
	case kindByte:
		p.Byte, err = r.ReadByte()
	case kindU16:
		p.U16, err = r.ReadUint16()
	case kindU32:
		p.U32, err = r.ReadUint32()
	case kindVarInt:
		p.VarInt, err = r.ReadVarByteInt()
	case kindUTF8String:
		p.Str, err = r.ReadUTF8String()
	case kindBinary:
		p.Str, err = r.ReadBinary()
	case kindUTF8Pair:
		p.PairKey, p.PairVal, err = r.ReadUTF8Pair()
	}
	if err != nil {
		return Property{}, err
	}
	return p, nil
}

// PropertyList is a fixed-capacity, ordered collection of properties
// belonging to a single packet. Capacity is MaxProperties regardless of
// packet type; packets whose spec-defined property set is narrower enforce
// that narrowness via decodePropertyList's allowed predicate, not via a
// smaller array.
type PropertyList struct {
	items [MaxProperties]Property
	n     int
}

// Len returns the number of properties currently held.
func (pl *PropertyList) Len() int { return pl.n }

// At returns the i'th property.
func (pl *PropertyList) At(i int) Property { return pl.items[i] }

// Add appends a property, returning an insufficient-capacity CodecError if the list is full.
func (pl *PropertyList) Add(p Property) error {
	if pl.n >= MaxProperties {
		return newCodecError(errInsufficientCapacity, "too many properties")
	}
	pl.items[pl.n] = p
	pl.n++
	return nil
}

// Find returns the first property with the given ID, if present.
func (pl *PropertyList) Find(id PropertyID) (Property, bool) {
	for i := 0; i < pl.n; i++ {
		if pl.items[i].ID == id {
			return pl.items[i], true
		}
	}
	return Property{}, false
}

func (pl *PropertyList) size() int {
	total := 0
	for i := 0; i < pl.n; i++ {
		total += pl.items[i].size()
	}
	return total
}

func (pl *PropertyList) encode(w *Writer) error {
	if err := w.WriteVarByteInt(uint32(pl.size())); err != nil {
		return err
	}
	for i := 0; i < pl.n; i++ {
		if err := pl.items[i].encode(w); err != nil {
			return err
		}
	}
	return nil
}

// decodePropertyList reads a property-list length prefix followed by that
// many bytes of properties, validating each against allowed (the decoding
// packet type's predicate over PropertyID, so shared code can enforce
// per-packet-type property restrictions, per MQTT v5 §2.2.2.2).
func decodePropertyList(r *Reader, allowed func(PropertyID) bool) (PropertyList, error) {
	length, err := r.ReadVarByteInt()
	if err != nil {
		return PropertyList{}, err
	}
	end := r.Position() + int(length)
	if end > len(r.buf) {
		return PropertyList{}, newCodecError(errInsufficientData, "property list length exceeds packet")
	}
	var pl PropertyList
	for r.Position() < end {
		p, err := decodeProperty(r)
		if err != nil {
			return PropertyList{}, err
		}
		if allowed != nil && !allowed(p.ID) {
			return PropertyList{}, newProtocolError(errUnexpectedPacket, "property not valid for this packet type")
		}
		if err := pl.Add(p); err != nil {
			return PropertyList{}, err
		}
	}
	if r.Position() != end {
		return PropertyList{}, newCodecError(errMalformedVarByteInt, "property encoding overran declared length")
	}
	return pl, nil
}
