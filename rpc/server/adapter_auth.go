package server

import (
	"github.com/ValentinKolb/sgc/lib/auth"
	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/ValentinKolb/sgc/rpc/common"
)

// NewAuthServerAdapter creates the adapter for the identity service.
func NewAuthServerAdapter(registry *auth.Registry, tokens *auth.TokenService) IRPCServerAdapter {
	return &authServerAdapterImpl{
		registry: registry,
		tokens:   tokens,
	}
}

type authServerAdapterImpl struct {
	registry *auth.Registry
	tokens   *auth.TokenService
}

func (adapter *authServerAdapterImpl) Handle(req *common.Message) *common.Message {
	switch req.MsgType {
	case common.MsgTAuthRegister:
		err := adapter.registry.Register(req.Name, req.Secret)
		return common.NewRegisterResponse(err)

	case common.MsgTAuthLogin:
		if !adapter.registry.Verify(req.Name, req.Secret) {
			return common.NewLoginResponse("", store.NewError(
				store.RetCInvalidCredential, "unknown identity or wrong password"))
		}
		token, err := adapter.tokens.Issue(req.Name)
		if err != nil {
			return common.NewLoginResponse("", store.NewError(
				store.RetCInternalError, "failed to issue credential: %v", err))
		}
		return common.NewLoginResponse(token, nil)

	default:
		return common.NewErrorResponse(store.NewError(
			store.RetCMalformedRequest,
			"auth service does not support message type: %s", req.MsgType))
	}
}
