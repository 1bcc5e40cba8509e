package mqtt

import "context"

// HandlerError is returned by an EventHandler. It is propagated unchanged
// out of the HandlerClient operation that triggered the dispatch.
type HandlerError struct {
	Err error
}

func (e *HandlerError) Error() string { return "mqtt handler: " + e.Err.Error() }
func (e *HandlerError) Unwrap() error { return e.Err }

// EventHandler consumes events delivered by a HandlerClient. It is invoked
// synchronously from within the session's task — it must not block
// indefinitely or attempt to call back into the client that invoked it.
type EventHandler interface {
	Handle(ClientReceivedEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ClientReceivedEvent) error

func (f EventHandlerFunc) Handle(ev ClientReceivedEvent) error { return f(ev) }

// HandlerClient owns a Session and an EventHandler, and drives poll() until
// the outstanding set drains after every operation that would otherwise
// leave the caller to do so manually. It is the convenience surface of §4.6;
// the bare Session remains available for callers that want to manage acks
// and polling themselves.
type HandlerClient struct {
	Session *Session
	Handler EventHandler
}

// NewHandlerClient wraps session with handler.
func NewHandlerClient(session *Session, handler EventHandler) *HandlerClient {
	return &HandlerClient{Session: session, Handler: handler}
}

// drain polls until the session has no outstanding acks or pending pingresp,
// dispatching every received event to the handler and, for QoS1 publishes,
// sending the PUBACK the handler's outcome determines.
func (c *HandlerClient) drain(ctx context.Context) error {
	for c.Session.WaitingForResponses() {
		ev, ok, err := c.Session.Poll(ctx, true)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := c.dispatch(ctx, ev); err != nil {
			return err
		}
		if ev.Kind == EventConnectionClosed {
			return ev.ClosedErr
		}
	}
	return nil
}

func (c *HandlerClient) dispatch(ctx context.Context, ev ClientReceivedEvent) error {
	handlerErr := c.Handler.Handle(ev)
	if ev.Kind == EventApplicationMessage && ev.Message.QoS == QoS1 {
		reason := PublishSuccess
		if handlerErr != nil {
			reason = PublishUnspecifiedError
		}
		if err := c.Session.AckPublish(ctx, ev.Ack.PacketIdentifier, reason); err != nil {
			return err
		}
	}
	if handlerErr != nil {
		return &HandlerError{Err: handlerErr}
	}
	return nil
}

// Connect sends CONNECT and awaits CONNACK, as Session.Connect.
func (c *HandlerClient) Connect(ctx context.Context, opts *ConnectOptions) error {
	return c.Session.Connect(ctx, opts)
}

// Disconnect sends DISCONNECT, as Session.Disconnect.
func (c *HandlerClient) Disconnect(ctx context.Context) error {
	return c.Session.Disconnect(ctx)
}

// Publish sends a PUBLISH and, for QoS1, polls until its PUBACK is delivered
// to the handler.
func (c *HandlerClient) Publish(ctx context.Context, topic, payload []byte, qos QoS, retain bool) error {
	if _, err := c.Session.Publish(ctx, topic, payload, qos, retain); err != nil {
		return err
	}
	return c.drain(ctx)
}

// Subscribe sends a SUBSCRIBE and polls until its SUBACK is delivered to the handler.
func (c *HandlerClient) Subscribe(ctx context.Context, filters []SubscriptionFilter) error {
	if _, err := c.Session.Subscribe(ctx, filters); err != nil {
		return err
	}
	return c.drain(ctx)
}

// Unsubscribe sends an UNSUBSCRIBE and polls until its UNSUBACK is delivered to the handler.
func (c *HandlerClient) Unsubscribe(ctx context.Context, filters [][]byte) error {
	if _, err := c.Session.Unsubscribe(ctx, filters); err != nil {
		return err
	}
	return c.drain(ctx)
}

// SendPing sends a PINGREQ and polls until its PINGRESP is delivered to the handler.
func (c *HandlerClient) SendPing(ctx context.Context) error {
	if err := c.Session.SendPing(ctx); err != nil {
		return err
	}
	return c.drain(ctx)
}

// Poll drives one receive and dispatches it to the handler, returning
// whatever error the handler (wrapped) or the underlying poll produced.
func (c *HandlerClient) Poll(ctx context.Context, wait bool) error {
	ev, ok, err := c.Session.Poll(ctx, wait)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := c.dispatch(ctx, ev); err != nil {
		return err
	}
	if ev.Kind == EventConnectionClosed {
		return ev.ClosedErr
	}
	return nil
}
