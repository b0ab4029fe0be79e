package client

import (
	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/serializer"
	"github.com/ValentinKolb/sgc/rpc/transport"
)

// IGroupService is the client-side view of the study group service. The
// credential obtained from IAuthService.Login is bound at construction
// and attached to every request.
type IGroupService interface {
	// Add inserts a new study group and returns its allocated ID.
	Add(g *collection.StudyGroup) (id int64, res OpResult, err error)
	// Update replaces the fields of the group with the given ID.
	Update(id int64, fields *collection.StudyGroup) (OpResult, error)
	// Remove removes the group with the given ID.
	Remove(id int64) (OpResult, error)
	// RemoveLower removes every owned group ordered lower than the pivot.
	RemoveLower(pivot *collection.StudyGroup) (removed int64, res OpResult, err error)
	// Clear removes every owned group.
	Clear() (removed int64, res OpResult, err error)
	// Show lists the whole collection in ID order.
	Show() (OpResult, error)
	// Info returns collection metadata.
	Info() (OpResult, error)
	// CountByAdmin counts the groups administered by the given person.
	CountByAdmin(admin collection.Person) (count int64, res OpResult, err error)
	// GroupCountingByID buckets the collection into ID ranges.
	GroupCountingByID() (OpResult, error)
	// Has reports whether a group with the given ID exists.
	Has(id int64) (bool, error)
	// Close shuts down the underlying transport.
	Close() error
}

// NewRPCGroupService creates a client for the study group service. The
// transport is connected as part of construction.
func NewRPCGroupService(
	token string,
	config common.ClientConfig,
	trans transport.IRPCClientTransport,
	ser serializer.IRPCSerializer,
) (IGroupService, error) {
	if err := trans.Connect(config); err != nil {
		return nil, err
	}

	return &rpcGroupService{
		rpcClientAdapter: rpcClientAdapter{
			serviceID:  common.ServiceGroups,
			config:     config,
			transport:  trans,
			serializer: ser,
		},
		token: token,
	}, nil
}

type rpcGroupService struct {
	rpcClientAdapter
	token string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IGroupService)
// --------------------------------------------------------------------------

func (c *rpcGroupService) Add(g *collection.StudyGroup) (int64, OpResult, error) {
	data, err := common.EncodeGroup(g)
	if err != nil {
		return 0, OpResult{}, store.NewError(store.RetCMalformedRequest, "failed to encode group: %v", err)
	}

	resp, err := invokeRPCRequest(c.serviceID, common.NewAddRequest(data, c.token), c.transport, c.serializer)
	if err != nil {
		return 0, OpResult{}, err
	}
	return resp.Count, demux(resp.Text), nil
}

func (c *rpcGroupService) Update(id int64, fields *collection.StudyGroup) (OpResult, error) {
	data, err := common.EncodeGroup(fields)
	if err != nil {
		return OpResult{}, store.NewError(store.RetCMalformedRequest, "failed to encode group: %v", err)
	}

	resp, err := invokeRPCRequest(c.serviceID, common.NewUpdateRequest(id, data, c.token), c.transport, c.serializer)
	if err != nil {
		return OpResult{}, err
	}
	return demux(resp.Text), nil
}

func (c *rpcGroupService) Remove(id int64) (OpResult, error) {
	resp, err := invokeRPCRequest(c.serviceID, common.NewRemoveRequest(id, c.token), c.transport, c.serializer)
	if err != nil {
		return OpResult{}, err
	}
	return demux(resp.Text), nil
}

func (c *rpcGroupService) RemoveLower(pivot *collection.StudyGroup) (int64, OpResult, error) {
	data, err := common.EncodeGroup(pivot)
	if err != nil {
		return 0, OpResult{}, store.NewError(store.RetCMalformedRequest, "failed to encode group: %v", err)
	}

	resp, err := invokeRPCRequest(c.serviceID, common.NewRemoveLowerRequest(data, c.token), c.transport, c.serializer)
	if err != nil {
		return 0, OpResult{}, err
	}
	return resp.Count, demux(resp.Text), nil
}

func (c *rpcGroupService) Clear() (int64, OpResult, error) {
	resp, err := invokeRPCRequest(c.serviceID, common.NewClearRequest(c.token), c.transport, c.serializer)
	if err != nil {
		return 0, OpResult{}, err
	}
	return resp.Count, demux(resp.Text), nil
}

func (c *rpcGroupService) Show() (OpResult, error) {
	resp, err := invokeRPCRequest(c.serviceID, common.NewShowRequest(c.token), c.transport, c.serializer)
	if err != nil {
		return OpResult{}, err
	}
	return demux(resp.Text), nil
}

func (c *rpcGroupService) Info() (OpResult, error) {
	resp, err := invokeRPCRequest(c.serviceID, common.NewInfoRequest(c.token), c.transport, c.serializer)
	if err != nil {
		return OpResult{}, err
	}
	return demux(resp.Text), nil
}

func (c *rpcGroupService) CountByAdmin(admin collection.Person) (int64, OpResult, error) {
	data, err := common.EncodePerson(admin)
	if err != nil {
		return 0, OpResult{}, store.NewError(store.RetCMalformedRequest, "failed to encode person: %v", err)
	}

	resp, err := invokeRPCRequest(c.serviceID, common.NewCountByAdminRequest(data, c.token), c.transport, c.serializer)
	if err != nil {
		return 0, OpResult{}, err
	}
	return resp.Count, demux(resp.Text), nil
}

func (c *rpcGroupService) GroupCountingByID() (OpResult, error) {
	resp, err := invokeRPCRequest(c.serviceID, common.NewGroupByIDRequest(c.token), c.transport, c.serializer)
	if err != nil {
		return OpResult{}, err
	}
	return demux(resp.Text), nil
}

func (c *rpcGroupService) Has(id int64) (bool, error) {
	resp, err := invokeRPCRequest(c.serviceID, common.NewHasRequest(id, c.token), c.transport, c.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (c *rpcGroupService) Close() error {
	return c.transport.Close()
}
