package serializer

import "github.com/ValentinKolb/sgc/rpc/common"

// IRPCSerializer is the interface for all Message serializers.
// Both ends of a connection must be configured with the same
// implementation; each implementation is self-consistent over every
// field of the envelope, including enumerations and nested payloads.
type IRPCSerializer interface {
	// Serialize serializes a Message into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize deserializes a byte array into a Message
	// It takes a byte array and a pointer to a Message as parameters
	// It returns an error if any
	Deserialize(b []byte, msg *common.Message) error
}
