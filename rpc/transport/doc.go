// Package transport defines the client and server transport interfaces of
// the sgc RPC layer and the ErrServerDisconnect sentinel.
//
// Two implementations are provided as sub-packages:
//
//   - udp (default): connectionless, one datagram per request and one per
//     response, strictly no pipelining. The client performs a single
//     deadline-bounded blocking read; a timeout is a fatal disconnect for
//     the current invocation. The server tolerates malformed datagrams by
//     logging and dropping them.
//
//   - tcp: a framed stream transport multiplexing concurrent requests
//     over pooled connections via per-request IDs.
//
// Transports move opaque byte slices; serialization of the Message
// envelope is the serializer package's concern.
package transport
