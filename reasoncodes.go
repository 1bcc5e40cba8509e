package mqtt

import "strconv"

// ConnectReasonCode is the CONNACK reason code, byte 3 of the CONNACK
// variable header. 0x00 is the only success value.
type ConnectReasonCode uint8

const (
	ConnectSuccess                          ConnectReasonCode = 0x00
	ConnectUnspecifiedError                 ConnectReasonCode = 0x80
	ConnectMalformedPacket                  ConnectReasonCode = 0x81
	ConnectProtocolError                    ConnectReasonCode = 0x82
	ConnectImplementationSpecificError      ConnectReasonCode = 0x83
	ConnectUnsupportedProtocolVersion       ConnectReasonCode = 0x84
	ConnectClientIdentifierNotValid         ConnectReasonCode = 0x85
	ConnectBadUsernameOrPassword            ConnectReasonCode = 0x86
	ConnectNotAuthorized                    ConnectReasonCode = 0x87
	ConnectServerUnavailable                ConnectReasonCode = 0x88
	ConnectServerBusy                       ConnectReasonCode = 0x89
	ConnectBanned                           ConnectReasonCode = 0x8A
	ConnectBadAuthenticationMethod          ConnectReasonCode = 0x8C
	ConnectTopicNameInvalid                 ConnectReasonCode = 0x90
	ConnectPacketTooLarge                   ConnectReasonCode = 0x95
	ConnectQuotaExceeded                    ConnectReasonCode = 0x97
	ConnectPayloadFormatInvalid             ConnectReasonCode = 0x99
	ConnectRetainNotSupported               ConnectReasonCode = 0x9A
	ConnectQoSNotSupported                  ConnectReasonCode = 0x9B
	ConnectUseAnotherServer                 ConnectReasonCode = 0x9C
	ConnectServerMoved                      ConnectReasonCode = 0x9D
	ConnectConnectionRateExceeded           ConnectReasonCode = 0x9F
)

func (c ConnectReasonCode) IsSuccess() bool { return c == ConnectSuccess }

func (c ConnectReasonCode) String() string {
	switch c {
	case ConnectSuccess:
		return "Success"
	case ConnectUnspecifiedError:
		return "UnspecifiedError"
	case ConnectMalformedPacket:
		return "MalformedPacket"
	case ConnectProtocolError:
		return "ProtocolError"
	case ConnectImplementationSpecificError:
		return "ImplementationSpecificError"
	case ConnectUnsupportedProtocolVersion:
		return "UnsupportedProtocolVersion"
	case ConnectClientIdentifierNotValid:
		return "ClientIdentifierNotValid"
	case ConnectBadUsernameOrPassword:
		return "BadUsernameOrPassword"
	case ConnectNotAuthorized:
		return "NotAuthorized"
	case ConnectServerUnavailable:
		return "ServerUnavailable"
	case ConnectServerBusy:
		return "ServerBusy"
	case ConnectBanned:
		return "Banned"
	case ConnectBadAuthenticationMethod:
		return "BadAuthenticationMethod"
	case ConnectTopicNameInvalid:
		return "TopicNameInvalid"
	case ConnectPacketTooLarge:
		return "PacketTooLarge"
	case ConnectQuotaExceeded:
		return "QuotaExceeded"
	case ConnectPayloadFormatInvalid:
		return "PayloadFormatInvalid"
	case ConnectRetainNotSupported:
		return "RetainNotSupported"
	case ConnectQoSNotSupported:
		return "QoSNotSupported"
	case ConnectUseAnotherServer:
		return "UseAnotherServer"
	case ConnectServerMoved:
		return "ServerMoved"
	case ConnectConnectionRateExceeded:
		return "ConnectionRateExceeded"
	default:
		return "ConnectReasonCode(0x" + strconv.FormatUint(uint64(c), 16) + ")"
	}
}

func (c ConnectReasonCode) valid() bool {
	switch c {
	case ConnectSuccess, ConnectUnspecifiedError, ConnectMalformedPacket, ConnectProtocolError,
		ConnectImplementationSpecificError, ConnectUnsupportedProtocolVersion, ConnectClientIdentifierNotValid,
		ConnectBadUsernameOrPassword, ConnectNotAuthorized, ConnectServerUnavailable, ConnectServerBusy,
		ConnectBanned, ConnectBadAuthenticationMethod, ConnectTopicNameInvalid, ConnectPacketTooLarge,
		ConnectQuotaExceeded, ConnectPayloadFormatInvalid, ConnectRetainNotSupported, ConnectQoSNotSupported,
		ConnectUseAnotherServer, ConnectServerMoved, ConnectConnectionRateExceeded:
		return true
	default:
		return false
	}
}

// PublishReasonCode is used in PUBACK/PUBREC/PUBREL/PUBCOMP.
type PublishReasonCode uint8

const (
	PublishSuccess                     PublishReasonCode = 0x00
	PublishNoMatchingSubscribers       PublishReasonCode = 0x10
	PublishUnspecifiedError            PublishReasonCode = 0x80
	PublishImplementationSpecificError PublishReasonCode = 0x83
	PublishNotAuthorized               PublishReasonCode = 0x87
	PublishTopicNameInvalid            PublishReasonCode = 0x90
	PublishPacketIdentifierInUse       PublishReasonCode = 0x91
	PublishPacketIdentifierNotFound    PublishReasonCode = 0x92
	PublishQuotaExceeded               PublishReasonCode = 0x97
	PublishPayloadFormatInvalid        PublishReasonCode = 0x99
)

func (c PublishReasonCode) String() string {
	switch c {
	case PublishSuccess:
		return "Success"
	case PublishNoMatchingSubscribers:
		return "NoMatchingSubscribers"
	case PublishUnspecifiedError:
		return "UnspecifiedError"
	case PublishImplementationSpecificError:
		return "ImplementationSpecificError"
	case PublishNotAuthorized:
		return "NotAuthorized"
	case PublishTopicNameInvalid:
		return "TopicNameInvalid"
	case PublishPacketIdentifierInUse:
		return "PacketIdentifierInUse"
	case PublishPacketIdentifierNotFound:
		return "PacketIdentifierNotFound"
	case PublishQuotaExceeded:
		return "QuotaExceeded"
	case PublishPayloadFormatInvalid:
		return "PayloadFormatInvalid"
	default:
		return "PublishReasonCode(0x" + strconv.FormatUint(uint64(c), 16) + ")"
	}
}

func (c PublishReasonCode) valid() bool {
	switch c {
	case PublishSuccess, PublishNoMatchingSubscribers, PublishUnspecifiedError, PublishImplementationSpecificError,
		PublishNotAuthorized, PublishTopicNameInvalid, PublishPacketIdentifierInUse, PublishPacketIdentifierNotFound,
		PublishQuotaExceeded, PublishPayloadFormatInvalid:
		return true
	default:
		return false
	}
}

// SubackReasonCode is returned per-filter in a SUBACK packet. Values 0-2 are
// the granted maximum QoS; values >= 0x80 are failures.
type SubackReasonCode uint8

const (
	SubackGrantedQoS0          SubackReasonCode = 0x00
	SubackGrantedQoS1          SubackReasonCode = 0x01
	SubackGrantedQoS2          SubackReasonCode = 0x02
	SubackUnspecifiedError     SubackReasonCode = 0x80
	SubackImplementationSpecificError SubackReasonCode = 0x83
	SubackNotAuthorized        SubackReasonCode = 0x87
	SubackTopicFilterInvalid   SubackReasonCode = 0x8F
	SubackPacketIdentifierInUse SubackReasonCode = 0x91
	SubackQuotaExceeded        SubackReasonCode = 0x97
	SubackSharedSubNotSupported SubackReasonCode = 0x9E
	SubackSubIDsNotSupported   SubackReasonCode = 0xA1
	SubackWildcardSubNotSupported SubackReasonCode = 0xA2
)

// IsFailure reports whether the code indicates the filter was refused.
func (c SubackReasonCode) IsFailure() bool { return c >= 0x80 }

func (c SubackReasonCode) String() string {
	switch c {
	case SubackGrantedQoS0:
		return "GrantedQoS0"
	case SubackGrantedQoS1:
		return "GrantedQoS1"
	case SubackGrantedQoS2:
		return "GrantedQoS2"
	case SubackUnspecifiedError:
		return "UnspecifiedError"
	case SubackImplementationSpecificError:
		return "ImplementationSpecificError"
	case SubackNotAuthorized:
		return "NotAuthorized"
	case SubackTopicFilterInvalid:
		return "TopicFilterInvalid"
	case SubackPacketIdentifierInUse:
		return "PacketIdentifierInUse"
	case SubackQuotaExceeded:
		return "QuotaExceeded"
	case SubackSharedSubNotSupported:
		return "SharedSubscriptionsNotSupported"
	case SubackSubIDsNotSupported:
		return "SubscriptionIdentifiersNotSupported"
	case SubackWildcardSubNotSupported:
		return "WildcardSubscriptionsNotSupported"
	default:
		return "SubackReasonCode(0x" + strconv.FormatUint(uint64(c), 16) + ")"
	}
}

func (c SubackReasonCode) valid() bool {
	switch c {
	case SubackGrantedQoS0, SubackGrantedQoS1, SubackGrantedQoS2, SubackUnspecifiedError,
		SubackImplementationSpecificError, SubackNotAuthorized, SubackTopicFilterInvalid,
		SubackPacketIdentifierInUse, SubackQuotaExceeded, SubackSharedSubNotSupported,
		SubackSubIDsNotSupported, SubackWildcardSubNotSupported:
		return true
	default:
		return false
	}
}

// UnsubackReasonCode is returned per-filter in an UNSUBACK packet.
type UnsubackReasonCode uint8

const (
	UnsubackSuccess                 UnsubackReasonCode = 0x00
	UnsubackNoSubscriptionExisted   UnsubackReasonCode = 0x11
	UnsubackUnspecifiedError        UnsubackReasonCode = 0x80
	UnsubackImplementationSpecificError UnsubackReasonCode = 0x83
	UnsubackNotAuthorized           UnsubackReasonCode = 0x87
	UnsubackTopicFilterInvalid      UnsubackReasonCode = 0x8F
	UnsubackPacketIdentifierInUse   UnsubackReasonCode = 0x91
)

func (c UnsubackReasonCode) String() string {
	switch c {
	case UnsubackSuccess:
		return "Success"
	case UnsubackNoSubscriptionExisted:
		return "NoSubscriptionExisted"
	case UnsubackUnspecifiedError:
		return "UnspecifiedError"
	case UnsubackImplementationSpecificError:
		return "ImplementationSpecificError"
	case UnsubackNotAuthorized:
		return "NotAuthorized"
	case UnsubackTopicFilterInvalid:
		return "TopicFilterInvalid"
	case UnsubackPacketIdentifierInUse:
		return "PacketIdentifierInUse"
	default:
		return "UnsubackReasonCode(0x" + strconv.FormatUint(uint64(c), 16) + ")"
	}
}

func (c UnsubackReasonCode) valid() bool {
	switch c {
	case UnsubackSuccess, UnsubackNoSubscriptionExisted, UnsubackUnspecifiedError,
		UnsubackImplementationSpecificError, UnsubackNotAuthorized, UnsubackTopicFilterInvalid,
		UnsubackPacketIdentifierInUse:
		return true
	default:
		return false
	}
}

// DisconnectReasonCode is carried by DISCONNECT packets sent by either party.
type DisconnectReasonCode uint8

const (
	DisconnectNormal                      DisconnectReasonCode = 0x00
	DisconnectWithWillMessage              DisconnectReasonCode = 0x04
	DisconnectUnspecifiedError              DisconnectReasonCode = 0x80
	DisconnectMalformedPacket                DisconnectReasonCode = 0x81
	DisconnectProtocolError                  DisconnectReasonCode = 0x82
	DisconnectServerBusy                     DisconnectReasonCode = 0x89
	DisconnectKeepAliveTimeout                DisconnectReasonCode = 0x8D
	DisconnectSessionTakenOver                DisconnectReasonCode = 0x8E
	DisconnectReceiveMaximumExceeded          DisconnectReasonCode = 0x93
)

func (c DisconnectReasonCode) String() string {
	switch c {
	case DisconnectNormal:
		return "NormalDisconnection"
	case DisconnectWithWillMessage:
		return "DisconnectWithWillMessage"
	case DisconnectUnspecifiedError:
		return "UnspecifiedError"
	case DisconnectMalformedPacket:
		return "MalformedPacket"
	case DisconnectProtocolError:
		return "ProtocolError"
	case DisconnectServerBusy:
		return "ServerBusy"
	case DisconnectKeepAliveTimeout:
		return "KeepAliveTimeout"
	case DisconnectSessionTakenOver:
		return "SessionTakenOver"
	case DisconnectReceiveMaximumExceeded:
		return "ReceiveMaximumExceeded"
	default:
		return "DisconnectReasonCode(0x" + strconv.FormatUint(uint64(c), 16) + ")"
	}
}

func (c DisconnectReasonCode) valid() bool {
	switch c {
	case DisconnectNormal, DisconnectWithWillMessage, DisconnectUnspecifiedError,
		DisconnectMalformedPacket, DisconnectProtocolError, DisconnectServerBusy,
		DisconnectKeepAliveTimeout, DisconnectSessionTakenOver, DisconnectReceiveMaximumExceeded:
		return true
	default:
		return false
	}
}

// AuthReasonCode is carried by AUTH packets.
type AuthReasonCode uint8

const (
	AuthSuccess          AuthReasonCode = 0x00
	AuthContinueAuth     AuthReasonCode = 0x18
	AuthReAuth           AuthReasonCode = 0x19
)

func (c AuthReasonCode) String() string {
	switch c {
	case AuthSuccess:
		return "Success"
	case AuthContinueAuth:
		return "ContinueAuthentication"
	case AuthReAuth:
		return "ReAuthenticate"
	default:
		return "AuthReasonCode(0x" + strconv.FormatUint(uint64(c), 16) + ")"
	}
}

func (c AuthReasonCode) valid() bool {
	return c == AuthSuccess || c == AuthContinueAuth || c == AuthReAuth
}
