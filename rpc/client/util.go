package client

import (
	"fmt"

	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/serializer"
	"github.com/ValentinKolb/sgc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// OpResult carries the demultiplexed response payload of an operation:
// the lines destined for the interactive console and the lines destined
// for the client-local output file.
type OpResult struct {
	Console []string
	File    []string
}

// rpcClientAdapter stores all data needed by an RPC client implementation.
// Used by the group and auth services with the composition pattern.
type rpcClientAdapter struct {
	serviceID  uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest is the helper used by all RPC clients to send requests.
//
// Errors split into two channels: transport failures pass through
// unchanged and wrap transport.ErrServerDisconnect (fatal, the caller
// gives up), while failure responses are reconstructed into store errors
// carrying their return code (recoverable, the caller reports and
// continues).
func invokeRPCRequest(
	serviceID uint64,
	req *common.Message,
	trans transport.IRPCClientTransport,
	ser serializer.IRPCSerializer,
) (*common.Message, error) {
	reqBytes, err := ser.Serialize(*req)
	if err != nil {
		return nil, err
	}

	respBytes, err := trans.Send(serviceID, reqBytes)
	if err != nil {
		return nil, err
	}

	resp := &common.Message{}
	if err := ser.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}

	if err := resp.AsError(); err != nil {
		return nil, err
	}

	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	return resp, nil
}

// demux converts a response payload into an OpResult.
func demux(payload string) OpResult {
	console, file := common.DemuxPayload(payload)
	return OpResult{Console: console, File: file}
}
