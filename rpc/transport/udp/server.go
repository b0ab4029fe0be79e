package udp

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/udp")

var (
	datagramsReceived = metrics.NewCounter("sgc_udp_datagrams_received_total")
	datagramsDropped  = metrics.NewCounter("sgc_udp_datagrams_dropped_total")
	responsesSent     = metrics.NewCounter("sgc_udp_responses_sent_total")
)

// serverTransport implements the server side of the datagram transport.
// Each inbound datagram becomes one handler goroutine; the socket itself
// is the only shared resource and WriteToUDP is safe for concurrent use.
type serverTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig
	conn    *net.UDPConn
}

// NewUDPServerTransport creates a new UDP server transport.
func NewUDPServerTransport() transport.IRPCServerTransport {
	return &serverTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}
	t.config = config

	addr, err := net.ResolveUDPAddr("udp", config.Transport.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to resolve endpoint %s: %v", config.Transport.Endpoint, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %v", config.Transport.Endpoint, err)
	}
	t.conn = conn

	if config.Transport.ReadBufferSize > 0 {
		if err := conn.SetReadBuffer(config.Transport.ReadBufferSize); err != nil {
			Logger.Warningf("Failed to set read buffer: %v", err)
		}
	}
	if config.Transport.WriteBufferSize > 0 {
		if err := conn.SetWriteBuffer(config.Transport.WriteBufferSize); err != nil {
			Logger.Warningf("Failed to set write buffer: %v", err)
		}
	}

	Logger.Infof("Starting udp server on %s", config.Transport.Endpoint)

	buf := make([]byte, maxDatagramSize)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("Read error: %v", err)
			continue
		}
		datagramsReceived.Inc()

		// the read buffer is reused, the handler goroutine needs a copy
		data := make([]byte, n)
		copy(data, buf[:n])

		go t.handleDatagram(data, src)
	}
}

func (t *serverTransport) Close() error {
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleDatagram processes one inbound datagram and sends the response to
// its source address. Malformed datagrams and requests the handler
// declines to answer are dropped without a response.
func (t *serverTransport) handleDatagram(data []byte, src *net.UDPAddr) {
	serviceID, payload, err := unpackDatagram(data)
	if err != nil {
		datagramsDropped.Inc()
		Logger.Warningf("Dropping malformed datagram from %s: %v", src, err)
		return
	}

	start := time.Now()
	resp := t.handler(serviceID, payload)
	Logger.Debugf("Processed request for service %d from %s took %s", serviceID, src, time.Since(start))

	if resp == nil {
		datagramsDropped.Inc()
		return
	}

	out := packDatagram(serviceID, resp)
	if len(out) > maxDatagramSize {
		Logger.Errorf("Response for %s exceeds datagram limit (%d bytes), dropping", src, len(out))
		return
	}

	if t.config.TimeoutSecond > 0 {
		deadline := time.Now().Add(time.Duration(t.config.TimeoutSecond) * time.Second)
		if err := t.conn.SetWriteDeadline(deadline); err != nil {
			Logger.Errorf("Failed to set write deadline: %v", err)
			return
		}
	}
	if _, err := t.conn.WriteToUDP(out, src); err != nil {
		Logger.Errorf("Failed to write response to %s: %v", src, err)
		return
	}
	responsesSent.Inc()
}
