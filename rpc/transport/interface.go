package transport

import (
	"errors"

	"github.com/ValentinKolb/sgc/rpc/common"
)

// ErrServerDisconnect is the transport-level failure surfaced to client
// callers: the server did not answer within the configured timeout, or a
// lower-level I/O error occurred during send/receive. Both conditions are
// deliberately indistinguishable — the caller treats them as fatal for
// the current invocation. Check with errors.Is.
var ErrServerDisconnect = errors.New("server disconnect")

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests.
// It is called by a server transport layer when a request is received,
// with the service ID the request addresses and the raw request bytes.
//
// A nil response means "send nothing": the transport drops the request.
// Datagram transports use this for malformed payloads, where no reliable
// return address can be trusted.
type ServerHandleFunc func(serviceID uint64, req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC server transport layer.
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer.
	// The transport is responsible for routing each request to the
	// handler together with its service ID.
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and blocks serving requests
	// until Close is called.
	Listen(config common.ServerConfig) error
	// Close stops the transport and releases the socket.
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport.
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and blocks, bounded by the
	// configured timeout, for the response. Timeout and I/O failures
	// wrap ErrServerDisconnect.
	Send(serviceID uint64, req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
