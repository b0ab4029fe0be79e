package server

import (
	"github.com/ValentinKolb/sgc/rpc/common"
)

// IRPCServerAdapter handles the requests of one service. Adapters carry
// their dependencies (store, identity registry, token service) from
// construction, so the dispatcher only routes by service id.
//
// Handle must never panic on malformed input: validation failures are
// returned as failure responses carrying the matching return code.
type IRPCServerAdapter interface {
	// Handle processes a single decoded request and returns the response.
	Handle(req *common.Message) *common.Message
}
