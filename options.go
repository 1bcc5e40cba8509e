package mqtt

// WillMessage configures a CONNECT packet's Last Will and Testament: the
// message the broker publishes on this client's behalf if the connection is
// lost without a clean DISCONNECT.
type WillMessage struct {
	Topic      []byte
	Payload    []byte
	QoS        QoS
	Retain     bool
	Properties PropertyList
}

// ConnectOptions configures Session.Connect. Fields correspond to the
// recognized Connect options: client identifier, clean start, keep-alive,
// credentials, will, and the client's advertised session/flow-control limits.
type ConnectOptions struct {
	// ClientID identifies the session to the broker. 1-23 characters is
	// guaranteed accepted by any compliant broker; longer is permitted but
	// broker-dependent.
	ClientID []byte

	// CleanStart discards any prior session state held by the broker.
	CleanStart bool

	// KeepAliveSeconds is the maximum interval between packets sent to the
	// broker. 0 disables keep-alive pinging.
	KeepAliveSeconds uint16

	HasUsername bool
	Username    []byte
	HasPassword bool
	Password    []byte

	Will *WillMessage

	// SessionExpiryInterval, in seconds, how long the broker retains session
	// state after disconnection. 0 means the session ends with the network
	// connection. Absent (HasSessionExpiryInterval false) omits the property.
	HasSessionExpiryInterval bool
	SessionExpiryInterval    uint32

	// ReceiveMaximum caps how many QoS1/2 Publish packets the broker may
	// have outstanding toward this client at once. Absent omits the property.
	HasReceiveMaximum bool
	ReceiveMaximum    uint16

	// MaximumPacketSize caps the size of packets the broker may send this
	// client. Absent omits the property.
	HasMaximumPacketSize bool
	MaximumPacketSize    uint32

	// TopicAliasMaximum caps how many topic aliases the broker may assign
	// toward this client. Absent omits the property.
	HasTopicAliasMaximum bool
	TopicAliasMaximum    uint16
}

// toConnect builds the CONNECT packet this configuration describes.
func (o *ConnectOptions) toConnect() (Connect, error) {
	c := Connect{
		CleanStart: o.CleanStart,
		KeepAlive:  o.KeepAliveSeconds,
		ClientID:   o.ClientID,
	}
	if o.Will != nil {
		c.Will = &Will{
			Topic:      o.Will.Topic,
			Payload:    o.Will.Payload,
			QoS:        o.Will.QoS,
			Retain:     o.Will.Retain,
			Properties: o.Will.Properties,
		}
	}
	c.HasUsername = o.HasUsername
	c.Username = o.Username
	c.HasPassword = o.HasPassword
	c.Password = o.Password

	if o.HasSessionExpiryInterval {
		if err := c.Properties.Add(Property{ID: PropSessionExpiryInterval, U32: o.SessionExpiryInterval}); err != nil {
			return Connect{}, err
		}
	}
	if o.HasReceiveMaximum {
		if err := c.Properties.Add(Property{ID: PropReceiveMaximum, U16: o.ReceiveMaximum}); err != nil {
			return Connect{}, err
		}
	}
	if o.HasMaximumPacketSize {
		if err := c.Properties.Add(Property{ID: PropMaximumPacketSize, U32: o.MaximumPacketSize}); err != nil {
			return Connect{}, err
		}
	}
	if o.HasTopicAliasMaximum {
		if err := c.Properties.Add(Property{ID: PropTopicAliasMaximum, U16: o.TopicAliasMaximum}); err != nil {
			return Connect{}, err
		}
	}
	return c, nil
}
