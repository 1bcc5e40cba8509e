package mqtt

import (
	"context"
	"time"
)

// sessionState is the session's connection lifecycle state.
type sessionState uint8

const (
	stateDisconnected sessionState = iota
	stateConnected
)

type subscribeRecord struct {
	id           PacketIdentifier
	requestedQoS [MaxTopicFilters]QoS
	n            int
}

// Session is the core MQTT v5 client state machine: connection lifecycle,
// packet identifier bookkeeping, and receive dispatch, driven over a
// caller-supplied Connection. It is not safe for concurrent use — exactly
// one task owns a Session at a time, matching its cooperative, lock-free
// design (§5 of the design notes: no mutex inside the core).
type Session struct {
	conn   Connection
	clock  Clock
	logger Logger

	txBuf []byte
	rxBuf []byte

	state            sessionState
	connectedAt      time.Time
	lastWriteAt      time.Time
	keepAliveSeconds uint16
	pingFraction     float64

	pendingPingresp bool
	pingSentAt      time.Time

	ids        identifierAllocator
	subRecords [MaxOutstandingIdentifiers]subscribeRecord
	subRecordN int
}

// NewSession constructs a Session over conn, using txBuf/rxBuf as the
// exclusive send/receive scratch buffers for its lifetime. logger may be nil,
// in which case logging is discarded.
func NewSession(conn Connection, clock Clock, logger Logger, txBuf, rxBuf []byte) *Session {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Session{
		conn:         conn,
		clock:        clock,
		logger:       logger,
		txBuf:        txBuf,
		rxBuf:        rxBuf,
		ids:          newIdentifierAllocator(),
		pingFraction: 0.8,
	}
}

// Connected reports whether the session is in the Connected state.
func (s *Session) Connected() bool { return s.state == stateConnected }

// WaitingForResponses reports whether poll must still be driven to drain
// outstanding acks or a pending PINGRESP, per §4.5.
func (s *Session) WaitingForResponses() bool {
	return !s.ids.isEmpty() || s.pendingPingresp
}

func (s *Session) touchWrite() { s.lastWriteAt = s.clock.Now() }

// Connect sends CONNECT and awaits CONNACK. ctx governs how long the caller
// is willing to wait for the broker's reply; pass a context with a deadline
// for a bounded connect timeout.
func (s *Session) Connect(ctx context.Context, opts *ConnectOptions) error {
	if s.state != stateDisconnected {
		return ErrNotDisconnected
	}
	connect, err := opts.toConnect()
	if err != nil {
		return err
	}
	if err := send(ctx, s.conn, s.txBuf, connect.Encode); err != nil {
		return err
	}
	s.touchWrite()

	pv, err := receiveInto(ctx, s.conn, s.rxBuf)
	if err != nil {
		return err
	}
	if pv.Kind != PacketConnack {
		return newProtocolError(errUnexpectedPacket, "expected CONNACK")
	}
	connack, err := DecodeConnack(pv.Body)
	if err != nil {
		return err
	}
	if !connack.ReasonCode.IsSuccess() {
		return &ConnackReasonCodeError{Code: connack.ReasonCode}
	}

	s.state = stateConnected
	s.connectedAt = s.clock.Now()
	s.keepAliveSeconds = opts.KeepAliveSeconds
	s.ids = newIdentifierAllocator()
	s.subRecordN = 0
	s.pendingPingresp = false
	s.logger.Debugf("mqtt: connected, session present=%v", connack.SessionPresent)
	return nil
}

// Disconnect sends DISCONNECT and transitions to Disconnected regardless of
// whether the send succeeds, since a failed send leaves the wire state
// undefined anyway.
func (s *Session) Disconnect(ctx context.Context) error {
	if s.state != stateConnected {
		return ErrNotConnected
	}
	d := Disconnect{ReasonCode: DisconnectNormal}
	err := send(ctx, s.conn, s.txBuf, d.Encode)
	s.state = stateDisconnected
	if err == nil {
		s.touchWrite()
	}
	return err
}

// close transitions to Disconnected because of a fatal error encountered
// during receive dispatch, per the propagation policy in the design notes:
// codec/protocol/transport errors from a receive leave the wire unframed,
// so the session cannot continue.
func (s *Session) close() {
	s.state = stateDisconnected
	s.pendingPingresp = false
}

// Publish encodes and sends a PUBLISH. QoS2 is rejected: the session core
// implements no PUBREC/PUBREL/PUBCOMP exchange. For QoS1 the returned
// identifier is non-zero and remains outstanding until its PUBACK is polled.
func (s *Session) Publish(ctx context.Context, topic, payload []byte, qos QoS, retain bool) (PacketIdentifier, error) {
	if s.state != stateConnected {
		return 0, ErrNotConnected
	}
	if qos == QoS2 {
		return 0, newProtocolError(errUnsupportedQoS2, "Session does not implement QoS 2 publish")
	}
	if !qos.IsValid() {
		return 0, newCodecError(errReservedFlagSet, "invalid QoS")
	}
	p := Publish{QoS: qos, Retain: retain, Topic: topic, Payload: payload}
	var id PacketIdentifier
	if qos == QoS1 {
		var ok bool
		id, ok = s.ids.allocate(IdentifierKindPublishQoS1)
		if !ok {
			return 0, ErrIdentifierSpaceExhausted
		}
		p.PacketIdentifier = id
	}
	if err := send(ctx, s.conn, s.txBuf, p.Encode); err != nil {
		if qos == QoS1 {
			s.ids.release(id, IdentifierKindPublishQoS1)
		}
		return 0, err
	}
	s.touchWrite()
	return id, nil
}

// Subscribe allocates an identifier, sends SUBSCRIBE for the given filters,
// and records their requested maximum QoS so the eventual SUBACK can be
// checked for downgrades.
func (s *Session) Subscribe(ctx context.Context, filters []SubscriptionFilter) (PacketIdentifier, error) {
	if s.state != stateConnected {
		return 0, ErrNotConnected
	}
	if len(filters) == 0 {
		return 0, newProtocolError(errEmptySubscriptionList, "SUBSCRIBE must contain at least one filter")
	}
	id, ok := s.ids.allocate(IdentifierKindSubscribe)
	if !ok {
		return 0, ErrIdentifierSpaceExhausted
	}
	sub := Subscribe{PacketIdentifier: id}
	for _, f := range filters {
		if err := sub.AddFilter(f.Filter, f.Options); err != nil {
			s.ids.release(id, IdentifierKindSubscribe)
			return 0, err
		}
	}
	if err := send(ctx, s.conn, s.txBuf, sub.Encode); err != nil {
		s.ids.release(id, IdentifierKindSubscribe)
		return 0, err
	}
	s.touchWrite()
	s.recordSubscribe(id, filters)
	return id, nil
}

func (s *Session) recordSubscribe(id PacketIdentifier, filters []SubscriptionFilter) {
	rec := subscribeRecord{id: id}
	for i, f := range filters {
		if i >= MaxTopicFilters {
			break
		}
		rec.requestedQoS[i] = f.Options.MaxQoS
		rec.n++
	}
	if s.subRecordN < MaxOutstandingIdentifiers {
		s.subRecords[s.subRecordN] = rec
		s.subRecordN++
	}
}

func (s *Session) takeSubscribeRecord(id PacketIdentifier) (subscribeRecord, bool) {
	for i := 0; i < s.subRecordN; i++ {
		if s.subRecords[i].id == id {
			rec := s.subRecords[i]
			s.subRecords[i] = s.subRecords[s.subRecordN-1]
			s.subRecordN--
			return rec, true
		}
	}
	return subscribeRecord{}, false
}

// Unsubscribe allocates an identifier and sends UNSUBSCRIBE for the given filters.
func (s *Session) Unsubscribe(ctx context.Context, filters [][]byte) (PacketIdentifier, error) {
	if s.state != stateConnected {
		return 0, ErrNotConnected
	}
	if len(filters) == 0 {
		return 0, newProtocolError(errEmptySubscriptionList, "UNSUBSCRIBE must contain at least one filter")
	}
	id, ok := s.ids.allocate(IdentifierKindUnsubscribe)
	if !ok {
		return 0, ErrIdentifierSpaceExhausted
	}
	unsub := Unsubscribe{PacketIdentifier: id}
	for _, f := range filters {
		if err := unsub.AddFilter(f); err != nil {
			s.ids.release(id, IdentifierKindUnsubscribe)
			return 0, err
		}
	}
	if err := send(ctx, s.conn, s.txBuf, unsub.Encode); err != nil {
		s.ids.release(id, IdentifierKindUnsubscribe)
		return 0, err
	}
	s.touchWrite()
	return id, nil
}

// SendPing sends PINGREQ and arms pending-PINGRESP tracking for keep-alive.
func (s *Session) SendPing(ctx context.Context) error {
	if s.state != stateConnected {
		return ErrNotConnected
	}
	if s.pendingPingresp {
		return ErrDuplicatePingPending
	}
	p := Pingreq{}
	if err := send(ctx, s.conn, s.txBuf, p.Encode); err != nil {
		return err
	}
	s.touchWrite()
	s.pendingPingresp = true
	s.pingSentAt = s.clock.Now()
	return nil
}

// KeepAliveDue reports whether a PINGREQ should be sent now, per §4.5: due
// when keep-alive is enabled and no bytes have been written for at least
// keepAliveSeconds * pingFraction.
func (s *Session) KeepAliveDue() bool {
	if s.state != stateConnected || s.keepAliveSeconds == 0 {
		return false
	}
	threshold := time.Duration(float64(s.keepAliveSeconds)*s.pingFraction) * time.Second
	return s.clock.Now().Sub(s.lastWriteAt) >= threshold
}

// KeepAliveExpired reports whether a pending PINGRESP has been outstanding
// longer than keepAliveSeconds, meaning the connection is considered dead.
func (s *Session) KeepAliveExpired() bool {
	if !s.pendingPingresp || s.keepAliveSeconds == 0 {
		return false
	}
	return s.clock.Now().Sub(s.pingSentAt) > time.Duration(s.keepAliveSeconds)*time.Second
}

// AckPublish sends a PUBACK for a QoS1 PUBLISH delivered via an
// ApplicationMessage event. Callers that consume events directly (rather
// than through the handler wrapper) are responsible for calling this.
func (s *Session) AckPublish(ctx context.Context, pi PacketIdentifier, reason PublishReasonCode) error {
	if s.state != stateConnected {
		return ErrNotConnected
	}
	ack := PublishAck{Kind: PacketPuback, PacketIdentifier: pi, ReasonCode: reason}
	if err := send(ctx, s.conn, s.txBuf, ack.Encode); err != nil {
		return err
	}
	s.touchWrite()
	return nil
}

// Poll drives one receive. If wait is false and the connection reports no
// data ready, Poll returns immediately with ok=false. Otherwise it blocks
// for one packet and dispatches it, returning ok=true with the resulting event.
// If KeepAliveExpired reports true, Poll closes the session without reading
// and returns an EventConnectionClosed event carrying ErrKeepAliveTimeout.
func (s *Session) Poll(ctx context.Context, wait bool) (event ClientReceivedEvent, ok bool, err error) {
	if s.state != stateConnected {
		return ClientReceivedEvent{}, false, ErrNotConnected
	}
	if s.KeepAliveExpired() {
		s.close()
		return ClientReceivedEvent{Kind: EventConnectionClosed, ClosedErr: ErrKeepAliveTimeout}, true, nil
	}
	if !wait {
		ready, err := s.conn.ReadReady(ctx)
		if err != nil {
			return ClientReceivedEvent{}, false, newTransportError("read", err)
		}
		if !ready {
			return ClientReceivedEvent{}, false, nil
		}
	}
	pv, err := receiveInto(ctx, s.conn, s.rxBuf)
	if err != nil {
		s.close()
		return ClientReceivedEvent{Kind: EventConnectionClosed, ClosedErr: err}, true, nil
	}
	event, err = s.dispatch(ctx, pv)
	if err != nil {
		s.close()
		return ClientReceivedEvent{Kind: EventConnectionClosed, ClosedErr: err}, true, nil
	}
	return event, true, nil
}

func (s *Session) dispatch(ctx context.Context, pv PacketView) (ClientReceivedEvent, error) {
	switch pv.Kind {
	case PacketPublish:
		return s.dispatchPublish(pv)
	case PacketPuback:
		return s.dispatchPublishAck(pv)
	case PacketSuback:
		return s.dispatchSuback(pv)
	case PacketUnsuback:
		return s.dispatchUnsuback(pv)
	case PacketPingresp:
		if _, err := DecodePingresp(pv.Body); err != nil {
			return ClientReceivedEvent{}, err
		}
		if !s.pendingPingresp {
			return ClientReceivedEvent{}, newProtocolError(errUnexpectedPingresp, "no PINGREQ outstanding")
		}
		s.pendingPingresp = false
		return ClientReceivedEvent{Kind: EventAck}, nil
	default:
		return ClientReceivedEvent{}, newProtocolError(errUnexpectedPacket, "unexpected "+pv.Kind.String()+" for a client session")
	}
}

func (s *Session) dispatchPublish(pv PacketView) (ClientReceivedEvent, error) {
	pub, err := DecodePublish(pv.Flags, pv.Body)
	if err != nil {
		return ClientReceivedEvent{}, err
	}
	if pub.QoS == QoS2 {
		return ClientReceivedEvent{}, newProtocolError(errUnsupportedQoS2, "received QoS 2 PUBLISH")
	}
	// Topic/Payload borrow directly from rxBuf, same as Publish itself: valid
	// only until the next Poll. A handler that needs either to outlive that
	// copies it.
	msg := ApplicationMessage{
		Topic:      pub.Topic,
		Payload:    pub.Payload,
		QoS:        pub.QoS,
		Retain:     pub.Retain,
		Properties: pub.Properties,
	}
	ev := ClientReceivedEvent{Kind: EventApplicationMessage, Message: msg}
	if pub.QoS == QoS1 {
		ev.Ack = AckEvent{PacketIdentifier: pub.PacketIdentifier, Kind: IdentifierKindPublishQoS1}
	}
	return ev, nil
}

func (s *Session) dispatchPublishAck(pv PacketView) (ClientReceivedEvent, error) {
	ack, err := DecodePublishAck(PacketPuback, pv.Body)
	if err != nil {
		return ClientReceivedEvent{}, err
	}
	kind, found := s.ids.contains(ack.PacketIdentifier)
	if !found || kind != IdentifierKindPublishQoS1 {
		return ClientReceivedEvent{}, newProtocolError(errUnknownPacketIdentifier, "PUBACK for unknown packet identifier")
	}
	s.ids.release(ack.PacketIdentifier, IdentifierKindPublishQoS1)
	return ClientReceivedEvent{
		Kind: EventAck,
		Ack: AckEvent{
			PacketIdentifier: ack.PacketIdentifier,
			Kind:             IdentifierKindPublishQoS1,
			PublishReason:    ack.ReasonCode,
		},
	}, nil
}

func (s *Session) dispatchSuback(pv PacketView) (ClientReceivedEvent, error) {
	suback, err := DecodeSuback(pv.Body)
	if err != nil {
		return ClientReceivedEvent{}, err
	}
	kind, found := s.ids.contains(suback.PacketIdentifier)
	if !found || kind != IdentifierKindSubscribe {
		return ClientReceivedEvent{}, newProtocolError(errUnknownPacketIdentifier, "SUBACK for unknown packet identifier")
	}
	s.ids.release(suback.PacketIdentifier, IdentifierKindSubscribe)
	rec, _ := s.takeSubscribeRecord(suback.PacketIdentifier)

	downgraded := false
	for i := 0; i < suback.NumReasonCodes; i++ {
		if i < rec.n && !suback.ReasonCodes[i].IsFailure() && QoS(suback.ReasonCodes[i]) < rec.requestedQoS[i] {
			downgraded = true
		}
	}
	kindOut := EventAck
	if downgraded {
		kindOut = EventSubscriptionGrantedBelowRequestedQoS
	}
	return ClientReceivedEvent{
		Kind: kindOut,
		Ack: AckEvent{
			PacketIdentifier: suback.PacketIdentifier,
			Kind:             IdentifierKindSubscribe,
			SubackReasons:    suback.ReasonCodes,
			NumSubackReasons: suback.NumReasonCodes,
		},
	}, nil
}

func (s *Session) dispatchUnsuback(pv PacketView) (ClientReceivedEvent, error) {
	unsuback, err := DecodeUnsuback(pv.Body)
	if err != nil {
		return ClientReceivedEvent{}, err
	}
	kind, found := s.ids.contains(unsuback.PacketIdentifier)
	if !found || kind != IdentifierKindUnsubscribe {
		return ClientReceivedEvent{}, newProtocolError(errUnknownPacketIdentifier, "UNSUBACK for unknown packet identifier")
	}
	s.ids.release(unsuback.PacketIdentifier, IdentifierKindUnsubscribe)
	return ClientReceivedEvent{
		Kind: EventAck,
		Ack: AckEvent{
			PacketIdentifier:   unsuback.PacketIdentifier,
			Kind:               IdentifierKindUnsubscribe,
			UnsubackReasons:    unsuback.ReasonCodes,
			NumUnsubackReasons: unsuback.NumReasonCodes,
		},
	}, nil
}
