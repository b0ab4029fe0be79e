package server

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/sgc/lib/auth"
	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/ValentinKolb/sgc/rpc/common"
)

// NewGroupsServerAdapter creates the adapter for the study group service.
func NewGroupsServerAdapter(groupStore store.IGroupStore, tokens *auth.TokenService) IRPCServerAdapter {
	return &groupsServerAdapterImpl{
		store:  groupStore,
		tokens: tokens,
	}
}

type groupsServerAdapterImpl struct {
	store  store.IGroupStore
	tokens *auth.TokenService
}

func (adapter *groupsServerAdapterImpl) Handle(req *common.Message) *common.Message {
	// every group operation carries a credential
	identity, err := adapter.tokens.Authenticate(req.Token)
	if err != nil {
		return common.NewErrorResponse(err)
	}

	switch req.MsgType {
	case common.MsgTGroupAdd:
		return adapter.handleAdd(req, identity)
	case common.MsgTGroupUpdate:
		return adapter.handleUpdate(req, identity)
	case common.MsgTGroupRemove:
		return adapter.handleRemove(req, identity)
	case common.MsgTGroupRemoveLower:
		return adapter.handleRemoveLower(req, identity)
	case common.MsgTGroupClear:
		return adapter.handleClear(req, identity)
	case common.MsgTGroupShow:
		return adapter.handleShow(req)
	case common.MsgTGroupInfo:
		return adapter.handleInfo(req)
	case common.MsgTGroupCountByAdmin:
		return adapter.handleCountByAdmin(req)
	case common.MsgTGroupGroupByID:
		return adapter.handleGroupByID(req)
	case common.MsgTGroupHas:
		return common.NewHasResponse(adapter.store.Has(req.ID), nil)
	default:
		return common.NewErrorResponse(store.NewError(
			store.RetCMalformedRequest,
			"group service does not support message type: %s", req.MsgType))
	}
}

// --------------------------------------------------------------------------
// Mutating Operations
// --------------------------------------------------------------------------

func (adapter *groupsServerAdapterImpl) handleAdd(req *common.Message, identity string) *common.Message {
	g, err := adapter.decodeGroup(req.Group, identity)
	if err != nil {
		return common.NewAddResponse(0, "", err)
	}

	id, err := adapter.store.Insert(g)
	if err != nil {
		return common.NewAddResponse(0, "", err)
	}

	stored, _ := g.WithID(id)
	payload := (&common.PayloadBuilder{}).
		Console(fmt.Sprintf("Created study group with ID %d.", id)).
		File(stored.CSVRow()).
		String()
	return common.NewAddResponse(id, payload, nil)
}

func (adapter *groupsServerAdapterImpl) handleUpdate(req *common.Message, identity string) *common.Message {
	fields, err := adapter.decodeGroup(req.Group, identity)
	if err != nil {
		return common.NewUpdateResponse("", err)
	}

	if err := adapter.store.ReplaceByID(req.ID, fields, identity); err != nil {
		return common.NewUpdateResponse("", err)
	}

	payload := (&common.PayloadBuilder{}).
		Console(fmt.Sprintf("Updated study group %d.", req.ID)).
		String()
	return common.NewUpdateResponse(payload, nil)
}

func (adapter *groupsServerAdapterImpl) handleRemove(req *common.Message, identity string) *common.Message {
	if err := adapter.store.RemoveByID(req.ID, identity); err != nil {
		return common.NewRemoveResponse("", err)
	}

	payload := (&common.PayloadBuilder{}).
		Console(fmt.Sprintf("Removed study group %d.", req.ID)).
		String()
	return common.NewRemoveResponse(payload, nil)
}

func (adapter *groupsServerAdapterImpl) handleRemoveLower(req *common.Message, identity string) *common.Message {
	pivot, err := common.DecodeGroup(req.Group)
	if err != nil {
		return common.NewRemoveLowerResponse(0, "", store.NewError(
			store.RetCMalformedRequest, "failed to decode pivot group: %v", err))
	}

	removed, err := adapter.store.RemoveWhere(func(g *collection.StudyGroup) bool {
		return g.Less(pivot)
	}, identity)
	if err != nil {
		return common.NewRemoveLowerResponse(0, "", err)
	}

	payload := (&common.PayloadBuilder{}).
		Console(fmt.Sprintf("Removed %d study group(s) lower than ID %d.", removed, pivot.ID)).
		String()
	return common.NewRemoveLowerResponse(int64(removed), payload, nil)
}

func (adapter *groupsServerAdapterImpl) handleClear(req *common.Message, identity string) *common.Message {
	removed, err := adapter.store.Clear(identity)
	if err != nil {
		return common.NewClearResponse(0, "", err)
	}

	payload := (&common.PayloadBuilder{}).
		Console(fmt.Sprintf("Removed %d study group(s) owned by %s.", removed, identity)).
		String()
	return common.NewClearResponse(int64(removed), payload, nil)
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

func (adapter *groupsServerAdapterImpl) handleShow(req *common.Message) *common.Message {
	snapshot := adapter.store.Snapshot()

	b := &common.PayloadBuilder{}
	if len(snapshot) == 0 {
		b.Console("The collection is empty.")
	}
	for _, g := range snapshot {
		b.Console(g.String())
		b.File(g.CSVRow())
	}
	return common.NewShowResponse(b.String(), nil)
}

func (adapter *groupsServerAdapterImpl) handleInfo(req *common.Message) *common.Message {
	snapshot := adapter.store.Snapshot()

	b := &common.PayloadBuilder{}
	b.Console(store.Describe(snapshot, adapter.store.CreatedAt()))
	if max := store.MaxByStudentCount(snapshot); max != nil {
		b.Console(fmt.Sprintf("Largest group: %s", max))
	}
	return common.NewInfoResponse(b.String(), nil)
}

func (adapter *groupsServerAdapterImpl) handleCountByAdmin(req *common.Message) *common.Message {
	admin, err := common.DecodePerson(req.Admin)
	if err != nil {
		return common.NewCountByAdminResponse(0, "", store.NewError(
			store.RetCMalformedRequest, "failed to decode person: %v", err))
	}

	count := store.CountByAdmin(adapter.store.Snapshot(), admin)
	payload := (&common.PayloadBuilder{}).
		Console(fmt.Sprintf("%d study group(s) administered by %s.", count, admin.Name)).
		String()
	return common.NewCountByAdminResponse(int64(count), payload, nil)
}

func (adapter *groupsServerAdapterImpl) handleGroupByID(req *common.Message) *common.Message {
	buckets := store.GroupCountingByID(adapter.store.Snapshot())
	payload := (&common.PayloadBuilder{}).
		Console(store.RenderIDBuckets(buckets)).
		String()
	return common.NewGroupByIDResponse(payload, nil)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// decodeGroup decodes a group payload and stamps the server-authoritative
// fields: the owner always comes from the authenticated identity, never
// from the wire, and a missing creation timestamp is set here.
func (adapter *groupsServerAdapterImpl) decodeGroup(payload []byte, identity string) (*collection.StudyGroup, error) {
	g, err := common.DecodeGroup(payload)
	if err != nil {
		return nil, store.NewError(store.RetCMalformedRequest, "failed to decode group: %v", err)
	}

	g.Owner = identity
	if g.CreationDate.IsZero() {
		g.CreationDate = time.Now()
	}

	if err := g.Validate(); err != nil {
		return nil, store.NewError(store.RetCMalformedRequest, "invalid group: %v", err)
	}
	return g, nil
}
