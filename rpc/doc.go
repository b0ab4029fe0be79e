/*
Package rpc contains the client/server plumbing of sgc.

The sub-packages split the concerns:

  - common: the wire message, service ids, payload multiplexing and the
    shared server/client configuration
  - serializer: pluggable envelope codecs (JSON, GOB, binary)
  - transport: the transport interfaces plus the datagram (udp) and
    framed streaming (tcp) implementations
  - server: the dispatcher, the service adapters and the server wiring
  - client: the typed clients for the group and identity services

A request flows client -> serializer -> transport -> dispatcher ->
adapter -> store and back. The serializer and transport are chosen
independently on both sides; any combination interoperates as long as
client and server agree.
*/
package rpc
