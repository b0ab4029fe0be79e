package client

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/serializer"
	"github.com/ValentinKolb/sgc/rpc/server"
	"github.com/ValentinKolb/sgc/rpc/transport"
	"github.com/ValentinKolb/sgc/rpc/transport/udp"
)

func freePort(t *testing.T) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := conn.LocalAddr().String()
	_ = conn.Close()
	return addr
}

// startServer runs a full sgc server over the datagram transport and
// returns its endpoint.
func startServer(t *testing.T) string {
	t.Helper()

	endpoint := freePort(t)
	srv := server.NewRPCServer(
		common.ServerConfig{
			Transport:        common.ServerTransportConfig{Endpoint: endpoint},
			TimeoutSecond:    2,
			TokenSecret:      "test-secret",
			TokenExpiryHours: 1,
			LogLevel:         "error",
		},
		udp.NewUDPServerTransport(),
		serializer.NewJSONSerializer(),
	)

	go func() {
		if err := srv.Serve(); err != nil {
			t.Errorf("server exited with error: %v", err)
		}
	}()
	t.Cleanup(func() { _ = srv.Close() })

	time.Sleep(50 * time.Millisecond)
	return endpoint
}

func clientConfig(endpoint string) common.ClientConfig {
	return common.ClientConfig{
		Transport:     common.ClientTransportConfig{Endpoints: []string{endpoint}},
		TimeoutSecond: 2,
	}
}

// login registers and logs in an identity and returns a bound group service.
func login(t *testing.T, endpoint, name string) IGroupService {
	t.Helper()

	authSvc, err := NewRPCAuthService(clientConfig(endpoint), udp.NewUDPClientTransport(), serializer.NewJSONSerializer())
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	defer authSvc.Close()

	if err := authSvc.Register(name, "pw"); err != nil && store.CodeOf(err) != store.RetCInvalidCredential {
		t.Fatalf("register failed: %v", err)
	}
	token, err := authSvc.Login(name, "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	groupSvc, err := NewRPCGroupService(token, clientConfig(endpoint), udp.NewUDPClientTransport(), serializer.NewJSONSerializer())
	if err != nil {
		t.Fatalf("failed to create group service: %v", err)
	}
	t.Cleanup(func() { _ = groupSvc.Close() })
	return groupSvc
}

func testGroup(t *testing.T, name string) *collection.StudyGroup {
	t.Helper()
	g, err := collection.NewStudyGroup(
		name,
		collection.Coordinates{X: 1, Y: 2},
		30,
		collection.FormEvening,
		collection.SemesterFifth,
		collection.Person{
			Name:       "Sam",
			BirthDate:  time.Date(1985, 3, 2, 0, 0, 0, 0, time.UTC),
			Height:     1.75,
			PassportID: "CD-456",
		},
		"client",
	)
	if err != nil {
		t.Fatalf("failed to build group: %v", err)
	}
	return g
}

func TestEndToEnd(t *testing.T) {
	t.Run("Session", func(t *testing.T) {
		endpoint := startServer(t)
		svc := login(t, endpoint, "alice")

		// add
		id, res, err := svc.Add(testGroup(t, "algebra"))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if id <= 0 {
			t.Fatalf("expected positive id, got %d", id)
		}
		if len(res.File) != 1 || !strings.Contains(res.File[0], "algebra") {
			t.Fatalf("unexpected file payload: %v", res.File)
		}

		// has
		ok, err := svc.Has(id)
		if err != nil || !ok {
			t.Fatalf("expected has=true, got %v %v", ok, err)
		}

		// show
		res, err = svc.Show()
		if err != nil {
			t.Fatalf("show failed: %v", err)
		}
		if len(res.Console) != 1 || !strings.Contains(res.Console[0], "algebra") {
			t.Fatalf("unexpected show payload: %v", res.Console)
		}

		// remove
		if _, err := svc.Remove(id); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if ok, _ := svc.Has(id); ok {
			t.Fatal("expected has=false after remove")
		}

		// second remove fails with a recoverable error
		_, err = svc.Remove(id)
		if store.CodeOf(err) != store.RetCNotFound {
			t.Fatalf("expected NotFound, got %v", err)
		}
		if errors.Is(err, transport.ErrServerDisconnect) {
			t.Fatal("recoverable error must not be a server disconnect")
		}
	})

	t.Run("OwnershipAcrossSessions", func(t *testing.T) {
		endpoint := startServer(t)
		alice := login(t, endpoint, "alice")
		bob := login(t, endpoint, "bob")

		id, _, err := alice.Add(testGroup(t, "owned"))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}

		_, err = bob.Remove(id)
		if store.CodeOf(err) != store.RetCNotOwner {
			t.Fatalf("expected NotOwner, got %v", err)
		}
	})

	t.Run("DeadServerIsDisconnect", func(t *testing.T) {
		svc, err := NewRPCAuthService(clientConfig(freePort(t)), udp.NewUDPClientTransport(), serializer.NewJSONSerializer())
		if err != nil {
			t.Fatalf("failed to create auth service: %v", err)
		}
		defer svc.Close()

		_, err = svc.Login("alice", "pw")
		if !errors.Is(err, transport.ErrServerDisconnect) {
			t.Fatalf("expected ErrServerDisconnect, got %v", err)
		}
	})

	t.Run("BinarySerializerSession", func(t *testing.T) {
		endpoint := freePort(t)
		srv := server.NewRPCServer(
			common.ServerConfig{
				Transport:        common.ServerTransportConfig{Endpoint: endpoint},
				TimeoutSecond:    2,
				TokenSecret:      "test-secret",
				TokenExpiryHours: 1,
				LogLevel:         "error",
			},
			udp.NewUDPServerTransport(),
			serializer.NewBinarySerializer(),
		)
		go func() {
			if err := srv.Serve(); err != nil {
				t.Errorf("server exited with error: %v", err)
			}
		}()
		t.Cleanup(func() { _ = srv.Close() })
		time.Sleep(50 * time.Millisecond)

		authSvc, err := NewRPCAuthService(clientConfig(endpoint), udp.NewUDPClientTransport(), serializer.NewBinarySerializer())
		if err != nil {
			t.Fatalf("failed to create auth service: %v", err)
		}
		defer authSvc.Close()

		if err := authSvc.Register("carol", "pw"); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		token, err := authSvc.Login("carol", "pw")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}

		groupSvc, err := NewRPCGroupService(token, clientConfig(endpoint), udp.NewUDPClientTransport(), serializer.NewBinarySerializer())
		if err != nil {
			t.Fatalf("failed to create group service: %v", err)
		}
		defer groupSvc.Close()

		id, _, err := groupSvc.Add(testGroup(t, "binary"))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if ok, err := groupSvc.Has(id); err != nil || !ok {
			t.Fatalf("expected has=true, got %v %v", ok, err)
		}
	})
}
