package udp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/transport"
)

// clientTransport implements the client side of the datagram transport.
// It keeps a single connected UDP socket to the server's well-known
// endpoint and serializes requests: exactly one datagram in flight at a
// time, answered by a single deadline-bounded blocking read.
type clientTransport struct {
	mu     sync.Mutex
	conn   *net.UDPConn
	config common.ClientConfig
	buf    []byte
}

// NewUDPClientTransport creates a new UDP client transport.
func NewUDPClientTransport() transport.IRPCClientTransport {
	return &clientTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("no endpoint configured")
	}
	t.config = config

	addr, err := net.ResolveUDPAddr("udp", config.Transport.Endpoints[0])
	if err != nil {
		return fmt.Errorf("failed to resolve endpoint %s: %v", config.Transport.Endpoints[0], err)
	}

	// connected socket: the kernel filters datagrams from other peers
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", config.Transport.Endpoints[0], err)
	}

	if config.Transport.ReadBufferSize > 0 {
		_ = conn.SetReadBuffer(config.Transport.ReadBufferSize)
	}
	if config.Transport.WriteBufferSize > 0 {
		_ = conn.SetWriteBuffer(config.Transport.WriteBufferSize)
	}

	t.conn = conn
	t.buf = make([]byte, maxDatagramSize)
	return nil
}

func (t *clientTransport) Send(serviceID uint64, req []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil, fmt.Errorf("not connected: %w", transport.ErrServerDisconnect)
	}

	out := packDatagram(serviceID, req)
	if len(out) > maxDatagramSize {
		return nil, fmt.Errorf("request exceeds datagram limit (%d bytes)", len(out))
	}

	deadline := time.Now().Add(time.Duration(t.config.TimeoutSecond) * time.Second)

	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set write deadline: %w", transport.ErrServerDisconnect)
	}
	if _, err := t.conn.Write(out); err != nil {
		return nil, fmt.Errorf("send failed: %v: %w", err, transport.ErrServerDisconnect)
	}

	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", transport.ErrServerDisconnect)
	}

	// a single blocking read bounded by the deadline; stale responses
	// from an earlier timed-out request are skipped by service id
	for {
		n, err := t.conn.Read(t.buf)
		if err != nil {
			return nil, fmt.Errorf("no response: %v: %w", err, transport.ErrServerDisconnect)
		}

		respServiceID, payload, err := unpackDatagram(t.buf[:n])
		if err != nil {
			continue
		}
		if respServiceID != serviceID {
			continue
		}

		resp := make([]byte, len(payload))
		copy(resp, payload)
		return resp, nil
	}
}

func (t *clientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
