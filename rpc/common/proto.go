package common

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/ValentinKolb/sgc/lib/store"
)

// --------------------------------------------------------------------------
// Service IDs
// --------------------------------------------------------------------------

// Well-known service IDs carried in every frame. The transport routes a
// request to the adapter registered under its service ID.
const (
	ServiceGroups uint64 = 100 // study group collection operations
	ServiceAuth   uint64 = 200 // identity registration and login
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request fields
	Token  string `json:"token,omitempty"`  // Credential; required for every group operation
	ID     int64  `json:"id,omitempty"`     // Used for: Update, Remove, Has
	Group  []byte `json:"group,omitempty"`  // Encoded StudyGroup; used for: Add, Update, RemoveLower
	Admin  []byte `json:"admin,omitempty"`  // Encoded Person; used for: CountByAdmin
	Name   string `json:"name,omitempty"`   // Identity name; used for: Register, Login
	Secret string `json:"secret,omitempty"` // Password; used for: Register, Login

	// Response fields
	Ok      bool   `json:"ok,omitempty"`       // Used for: Has responses
	Count   int64  `json:"count,omitempty"`    // Allocated ID (Add), removed count, aggregate counts
	Text    string `json:"text,omitempty"`     // Multiplexed C#/F# payload (see payload.go)
	Err     string `json:"err,omitempty"`      // Empty if no error, otherwise the error message
	ErrCode uint64 `json:"err_code,omitempty"` // store.RetCode of the failure, 0 on success
}

// Fail marks the message as a failure response carrying the error's
// return code. A nil error is a no-op.
func (m *Message) Fail(err error) *Message {
	if err != nil {
		m.Err = err.Error()
		m.ErrCode = uint64(store.CodeOf(err))
	}
	return m
}

// AsError reconstructs the store error carried by a failure response, or
// nil for a success response.
func (m *Message) AsError() error {
	if m.Err == "" {
		return nil
	}
	return store.NewError(store.RetCode(m.ErrCode), "%s", m.Err)
}

// --------------------------------------------------------------------------
// Payload Codecs
// --------------------------------------------------------------------------

// EncodeGroup encodes a study group for transport inside a Message. The
// group payload encoding is fixed (JSON) regardless of the envelope
// serializer, so all serializers agree on the nested value objects.
func EncodeGroup(g *collection.StudyGroup) ([]byte, error) {
	return json.Marshal(g)
}

// DecodeGroup decodes a study group payload.
func DecodeGroup(b []byte) (*collection.StudyGroup, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty group payload")
	}
	var g collection.StudyGroup
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// EncodePerson encodes a person for transport inside a Message.
func EncodePerson(p collection.Person) ([]byte, error) {
	return json.Marshal(p)
}

// DecodePerson decodes a person payload.
func DecodePerson(b []byte) (collection.Person, error) {
	var p collection.Person
	if len(b) == 0 {
		return p, fmt.Errorf("empty person payload")
	}
	err := json.Unmarshal(b, &p)
	return p, err
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewRegisterRequest creates a new Register request
func NewRegisterRequest(name, secret string) *Message {
	return &Message{MsgType: MsgTAuthRegister, Name: name, Secret: secret}
}

// NewRegisterResponse creates a new Register response
func NewRegisterResponse(err error) *Message {
	return (&Message{MsgType: MsgTAuthRegister}).Fail(err)
}

// NewLoginRequest creates a new Login request
func NewLoginRequest(name, secret string) *Message {
	return &Message{MsgType: MsgTAuthLogin, Name: name, Secret: secret}
}

// NewLoginResponse creates a new Login response carrying the issued token
func NewLoginResponse(token string, err error) *Message {
	return (&Message{MsgType: MsgTAuthLogin, Token: token}).Fail(err)
}

// NewAddRequest creates a new Add request
func NewAddRequest(group []byte, token string) *Message {
	return &Message{MsgType: MsgTGroupAdd, Group: group, Token: token}
}

// NewAddResponse creates a new Add response carrying the allocated ID
func NewAddResponse(id int64, text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupAdd, Count: id, Text: text}).Fail(err)
}

// NewUpdateRequest creates a new Update request
func NewUpdateRequest(id int64, group []byte, token string) *Message {
	return &Message{MsgType: MsgTGroupUpdate, ID: id, Group: group, Token: token}
}

// NewUpdateResponse creates a new Update response
func NewUpdateResponse(text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupUpdate, Text: text}).Fail(err)
}

// NewRemoveRequest creates a new Remove request
func NewRemoveRequest(id int64, token string) *Message {
	return &Message{MsgType: MsgTGroupRemove, ID: id, Token: token}
}

// NewRemoveResponse creates a new Remove response
func NewRemoveResponse(text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupRemove, Text: text}).Fail(err)
}

// NewRemoveLowerRequest creates a new RemoveLower request
func NewRemoveLowerRequest(group []byte, token string) *Message {
	return &Message{MsgType: MsgTGroupRemoveLower, Group: group, Token: token}
}

// NewRemoveLowerResponse creates a new RemoveLower response carrying the
// number of removed records
func NewRemoveLowerResponse(removed int64, text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupRemoveLower, Count: removed, Text: text}).Fail(err)
}

// NewClearRequest creates a new Clear request
func NewClearRequest(token string) *Message {
	return &Message{MsgType: MsgTGroupClear, Token: token}
}

// NewClearResponse creates a new Clear response
func NewClearResponse(removed int64, text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupClear, Count: removed, Text: text}).Fail(err)
}

// NewShowRequest creates a new Show request
func NewShowRequest(token string) *Message {
	return &Message{MsgType: MsgTGroupShow, Token: token}
}

// NewShowResponse creates a new Show response
func NewShowResponse(text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupShow, Text: text}).Fail(err)
}

// NewInfoRequest creates a new Info request
func NewInfoRequest(token string) *Message {
	return &Message{MsgType: MsgTGroupInfo, Token: token}
}

// NewInfoResponse creates a new Info response
func NewInfoResponse(text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupInfo, Text: text}).Fail(err)
}

// NewCountByAdminRequest creates a new CountByAdmin request
func NewCountByAdminRequest(admin []byte, token string) *Message {
	return &Message{MsgType: MsgTGroupCountByAdmin, Admin: admin, Token: token}
}

// NewCountByAdminResponse creates a new CountByAdmin response
func NewCountByAdminResponse(count int64, text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupCountByAdmin, Count: count, Text: text}).Fail(err)
}

// NewGroupByIDRequest creates a new GroupByID request
func NewGroupByIDRequest(token string) *Message {
	return &Message{MsgType: MsgTGroupGroupByID, Token: token}
}

// NewGroupByIDResponse creates a new GroupByID response
func NewGroupByIDResponse(text string, err error) *Message {
	return (&Message{MsgType: MsgTGroupGroupByID, Text: text}).Fail(err)
}

// NewHasRequest creates a new Has request
func NewHasRequest(id int64, token string) *Message {
	return &Message{MsgType: MsgTGroupHas, ID: id, Token: token}
}

// NewHasResponse creates a new Has response
func NewHasResponse(ok bool, err error) *Message {
	return (&Message{MsgType: MsgTGroupHas, Ok: ok}).Fail(err)
}

// NewErrorResponse creates a generic Error response
func NewErrorResponse(err error) *Message {
	return (&Message{MsgType: MsgTError}).Fail(err)
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTSuccess:
		return "success"
	case MsgTError:
		return "error"
	case MsgTAuthRegister:
		return "register"
	case MsgTAuthLogin:
		return "login"
	case MsgTGroupAdd:
		return "add"
	case MsgTGroupUpdate:
		return "update"
	case MsgTGroupRemove:
		return "remove"
	case MsgTGroupRemoveLower:
		return "removeLower"
	case MsgTGroupClear:
		return "clear"
	case MsgTGroupShow:
		return "show"
	case MsgTGroupInfo:
		return "info"
	case MsgTGroupCountByAdmin:
		return "countByAdmin"
	case MsgTGroupGroupByID:
		return "groupById"
	case MsgTGroupHas:
		return "has"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "success":
		*t = MsgTSuccess
	case "error":
		*t = MsgTError
	case "register":
		*t = MsgTAuthRegister
	case "login":
		*t = MsgTAuthLogin
	case "add":
		*t = MsgTGroupAdd
	case "update":
		*t = MsgTGroupUpdate
	case "remove":
		*t = MsgTGroupRemove
	case "removeLower":
		*t = MsgTGroupRemoveLower
	case "clear":
		*t = MsgTGroupClear
	case "show":
		*t = MsgTGroupShow
	case "info":
		*t = MsgTGroupInfo
	case "countByAdmin":
		*t = MsgTGroupCountByAdmin
	case "groupById":
		*t = MsgTGroupGroupByID
	case "has":
		*t = MsgTGroupHas
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Auth service operations

	MsgTAuthRegister // Register a new identity
	MsgTAuthLogin    // Resolve name/password to a credential

	// Group service operations

	MsgTGroupAdd          // Insert a study group
	MsgTGroupUpdate       // Replace a study group by ID
	MsgTGroupRemove       // Remove a study group by ID
	MsgTGroupRemoveLower  // Remove all owned groups lower than the given one
	MsgTGroupClear        // Remove all owned groups
	MsgTGroupShow         // List the collection
	MsgTGroupInfo         // Collection metadata
	MsgTGroupCountByAdmin // Count groups administered by a person
	MsgTGroupGroupByID    // Bucket the collection by ID ranges
	MsgTGroupHas          // Check presence of an ID
)
