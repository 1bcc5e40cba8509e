/*
Package mqtt implements the core of an MQTT v5 (OASIS Standard) client:
a wire codec, a packet transport, and a session state machine, built to run
without heap allocation on the hot path so it can run on small embedded
devices as well as hosted environments.

The package is organized bottom-up:

  - definitions.go, reasoncodes.go hold the primitive MQTT types.
  - reader.go, writer.go, varint.go are the cursor-based codec.
  - properties.go and the packet_*.go files are the packet model: one value
    type per control packet, each able to encode itself into a byte buffer
    and to be decoded from a packet body.
  - transport.go frames packets on an abstract byte stream.
  - session.go is the connection client: connection lifecycle, packet
    identifier bookkeeping, QoS 0/1 publish, subscribe/unsubscribe acks,
    keep-alive, and delivery of received packets as events from Poll.
  - handler.go is a thin convenience wrapper that drives Session.Poll
    automatically and forwards events to a caller-supplied handler.

If you are new to MQTT, start by reading definitions.go.
*/
package mqtt
