package server

import (
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/sgc/lib/auth"
	"github.com/ValentinKolb/sgc/lib/store/memstore"
	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/serializer"
	"github.com/ValentinKolb/sgc/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

var (
	requestsTotal = metrics.NewCounter("sgc_rpc_requests_total")
	requestErrors = metrics.NewCounter("sgc_rpc_request_errors_total")
)

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		udp.NewUDPServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		adapters:   xsync.NewMapOf[uint64, IRPCServerAdapter](),
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	adapters   *xsync.MapOf[uint64, IRPCServerAdapter]
}

// registerTransportHandler wires the deserialize-route-serialize pipeline
// into the transport. Requests that cannot be deserialized are dropped
// without a response (a nil return); everything past that point answers
// with a proper failure response instead.
func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(serviceID uint64, req []byte) []byte {
		requestsTotal.Inc()

		var msg common.Message
		var respMsg *common.Message

		adapter, ok := s.adapters.Load(serviceID)

		if !ok {
			requestErrors.Inc()
			respMsg = common.NewErrorResponse(fmt.Errorf("unknown service id %d", serviceID))
		} else if err := s.serializer.Deserialize(req, &msg); err != nil {
			// not a valid request of ours, drop it
			requestErrors.Inc()
			Logger.Warningf("Dropping undecodable request for service %d: %v", serviceID, err)
			return nil
		} else {
			respMsg = adapter.Handle(&msg)
			if respMsg.Err != "" {
				requestErrors.Inc()
			}
		}

		val, err := s.serializer.Serialize(*respMsg)
		if err != nil {
			Logger.Errorf("Failed to serialize response: %v", err)
			return nil
		}
		return val
	})
}

// init creates the store, the identity services and the adapters, and
// wires the transport handler.
func (s *rpcServer) init() error {
	if s.config.LogLevel == "" {
		s.config.LogLevel = "info"
	}
	common.InitLoggers(s.config.LogLevel)

	Logger.Infof("Created RPC Server")
	Logger.Infof(s.config.String())

	if s.config.TokenSecret == "" {
		return fmt.Errorf("token secret must be configured")
	}

	groupStore := memstore.NewGroupStore()
	registry := auth.NewRegistry()
	tokens := auth.NewTokenService(
		s.config.TokenSecret,
		time.Duration(s.config.TokenExpiryHours)*time.Hour,
	)

	s.adapters.Store(common.ServiceGroups, NewGroupsServerAdapter(groupStore, tokens))
	s.adapters.Store(common.ServiceAuth, NewAuthServerAdapter(registry, tokens))

	// optional Prometheus scrape endpoint
	if s.config.MetricsEndpoint != "" {
		go func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
				metrics.WritePrometheus(w, true)
			})
			Logger.Infof("Starting metrics endpoint on %s", s.config.MetricsEndpoint)
			if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
				Logger.Errorf("Metrics endpoint failed: %v", err)
			}
		}()
	}

	s.registerTransportHandler()

	Logger.Infof("sgc setup completed successfully")
	return nil
}

// Serve initializes the server and starts the transport layer. It blocks
// until the transport is closed.
func (s *rpcServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// Close shuts down the transport layer.
func (s *rpcServer) Close() error {
	return s.transport.Close()
}
