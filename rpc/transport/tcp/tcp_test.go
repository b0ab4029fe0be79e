package tcp

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/transport"
)

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func startServer(t *testing.T, handler transport.ServerHandleFunc) string {
	t.Helper()

	endpoint := freePort(t)
	srv := NewTCPServerTransport(4)
	srv.RegisterHandler(handler)

	go func() {
		if err := srv.Listen(common.ServerConfig{
			Transport:     common.ServerTransportConfig{Endpoint: endpoint},
			TimeoutSecond: 5,
		}); err != nil {
			t.Errorf("server exited with error: %v", err)
		}
	}()
	t.Cleanup(func() { _ = srv.Close() })

	time.Sleep(50 * time.Millisecond)
	return endpoint
}

func newClient(t *testing.T, endpoint string, timeoutSec int) transport.IRPCClientTransport {
	t.Helper()
	client := NewTCPClientTransport()
	err := client.Connect(common.ClientConfig{
		Transport: common.ClientTransportConfig{
			Endpoints:  []string{endpoint},
			RetryCount: 1,
		},
		TimeoutSecond: timeoutSec,
	})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTCPTransport(t *testing.T) {
	t.Run("Echo", func(t *testing.T) {
		endpoint := startServer(t, func(serviceID uint64, req []byte) []byte {
			return req
		})
		client := newClient(t, endpoint, 2)

		for i := 0; i < 10; i++ {
			req := []byte(fmt.Sprintf("request-%d", i))
			resp, err := client.Send(42, req)
			if err != nil {
				t.Fatalf("send %d failed: %v", i, err)
			}
			if !bytes.Equal(resp, req) {
				t.Fatalf("expected %q, got %q", req, resp)
			}
		}
	})

	t.Run("LargePayload", func(t *testing.T) {
		endpoint := startServer(t, func(serviceID uint64, req []byte) []byte {
			return req
		})
		client := newClient(t, endpoint, 5)

		// larger than a datagram could carry
		req := bytes.Repeat([]byte("x"), 1024*1024)
		resp, err := client.Send(1, req)
		if err != nil {
			t.Fatalf("send failed: %v", err)
		}
		if !bytes.Equal(resp, req) {
			t.Fatal("large payload corrupted")
		}
	})

	t.Run("ConcurrentSends", func(t *testing.T) {
		endpoint := startServer(t, func(serviceID uint64, req []byte) []byte {
			return req
		})
		client := newClient(t, endpoint, 5)

		done := make(chan error, 8)
		for w := 0; w < 8; w++ {
			go func(w int) {
				for i := 0; i < 25; i++ {
					req := []byte(fmt.Sprintf("w%d-%d", w, i))
					resp, err := client.Send(7, req)
					if err != nil {
						done <- err
						return
					}
					if !bytes.Equal(resp, req) {
						done <- fmt.Errorf("expected %q, got %q", req, resp)
						return
					}
				}
				done <- nil
			}(w)
		}
		for w := 0; w < 8; w++ {
			if err := <-done; err != nil {
				t.Fatalf("worker failed: %v", err)
			}
		}
	})

	t.Run("NoServerIsServerDisconnect", func(t *testing.T) {
		client := NewTCPClientTransport()
		err := client.Connect(common.ClientConfig{
			Transport: common.ClientTransportConfig{
				Endpoints:  []string{freePort(t)},
				RetryCount: 1,
			},
			TimeoutSecond: 1,
		})
		if err == nil {
			t.Fatal("expected connect to fail without a server")
		}
	})

	t.Run("DeclinedRequestTimesOut", func(t *testing.T) {
		endpoint := startServer(t, func(serviceID uint64, req []byte) []byte {
			return nil
		})
		client := newClient(t, endpoint, 1)

		_, err := client.Send(42, []byte("hello"))
		if err == nil {
			t.Fatal("expected error for declined request")
		}
		if !errors.Is(err, transport.ErrServerDisconnect) {
			t.Fatalf("expected ErrServerDisconnect, got: %v", err)
		}
	})
}

func TestFrameCodec(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	payload := []byte("framed payload")

	go func() {
		_ = writeFrame(client, 100, 7, payload)
	}()

	serviceID, requestID, data, err := readFrame(server, nil)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if serviceID != 100 || requestID != 7 {
		t.Fatalf("unexpected header: service=%d request=%d", serviceID, requestID)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("expected %q, got %q", payload, data)
	}
}
