/*
Package tcp implements the framed streaming transport.

Requests and responses are length-prefixed frames on persistent TCP
connections. Each frame carries the service id, a client-assigned
request id and the payload, so a single connection can multiplex many
requests: the server answers out of order and the client matches
responses to waiting callers by request id.

The client keeps a configurable pool of connections per endpoint,
distributes requests round robin and retries failed requests with
exponential backoff. When all retries are exhausted the error wraps
transport.ErrServerDisconnect. The server bounds concurrency with a
worker pool per connection.

This transport is the alternative to the default datagram transport in
package udp for deployments that need payloads beyond the datagram
limit or reliable delivery.
*/
package tcp
