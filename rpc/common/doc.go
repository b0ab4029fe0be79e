// Package common contains the types shared between the RPC client and
// server: the Message envelope with its factory constructors, the service
// IDs routed by the transports, the multiplexed text payload helpers, the
// client/server configuration structs and the logger factory.
//
// The Message struct is deliberately flat: one struct for all requests and
// responses, with the message type tag deciding which fields are in use.
// Nested domain payloads (StudyGroup, Person) travel as pre-encoded bytes
// inside the envelope so that every envelope serializer agrees on them.
package common
