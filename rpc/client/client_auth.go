package client

import (
	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/serializer"
	"github.com/ValentinKolb/sgc/rpc/transport"
)

// IAuthService is the client-side view of the identity service.
type IAuthService interface {
	// Register creates a new identity.
	Register(name, secret string) error
	// Login resolves a name/password pair to a credential usable with
	// NewRPCGroupService.
	Login(name, secret string) (token string, err error)
	// Close shuts down the underlying transport.
	Close() error
}

// NewRPCAuthService creates a client for the identity service. The
// transport is connected as part of construction.
func NewRPCAuthService(
	config common.ClientConfig,
	trans transport.IRPCClientTransport,
	ser serializer.IRPCSerializer,
) (IAuthService, error) {
	if err := trans.Connect(config); err != nil {
		return nil, err
	}

	return &rpcAuthService{
		rpcClientAdapter{
			serviceID:  common.ServiceAuth,
			config:     config,
			transport:  trans,
			serializer: ser,
		},
	}, nil
}

type rpcAuthService struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IAuthService)
// --------------------------------------------------------------------------

func (c *rpcAuthService) Register(name, secret string) error {
	_, err := invokeRPCRequest(c.serviceID, common.NewRegisterRequest(name, secret), c.transport, c.serializer)
	return err
}

func (c *rpcAuthService) Login(name, secret string) (string, error) {
	resp, err := invokeRPCRequest(c.serviceID, common.NewLoginRequest(name, secret), c.transport, c.serializer)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *rpcAuthService) Close() error {
	return c.transport.Close()
}
