/*
Package udp implements the default datagram transport.

Every request and every response travels in exactly one UDP datagram
prefixed by an 8 byte big-endian service id. The client keeps a single
connected socket and allows one request in flight at a time: it writes
the request datagram and performs one blocking read bounded by the
configured timeout. There is no polling loop and no retransmission; if
the read deadline expires the call fails with
transport.ErrServerDisconnect and the caller decides what to do.

The server answers each datagram from a dedicated goroutine and sends
the response back to the datagram's source address. Malformed datagrams
and requests the handler declines to answer are logged and dropped
without a response, so a misbehaving client can only hurt itself.

Datagrams are limited to 64 KiB (the UDP maximum). Responses that would
exceed the limit are dropped on the server side.
*/
package udp
