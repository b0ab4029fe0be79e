package udp

import (
	"encoding/binary"
	"fmt"
)

// datagram layout:
// - 8 bytes: serviceID (uint64, big endian)
// - N bytes: payload

const headerSize = 8

// maxDatagramSize bounds a single request or response. Larger payloads
// would need fragmentation, which the one-datagram-per-message protocol
// deliberately does not support.
const maxDatagramSize = 64 * 1024

// packDatagram prepends the service header to the payload.
func packDatagram(serviceID uint64, payload []byte) []byte {
	out := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint64(out[:headerSize], serviceID)
	copy(out[headerSize:], payload)
	return out
}

// unpackDatagram splits a received datagram into service ID and payload.
func unpackDatagram(data []byte) (uint64, []byte, error) {
	if len(data) < headerSize {
		return 0, nil, fmt.Errorf("datagram too short: %d bytes", len(data))
	}
	return binary.BigEndian.Uint64(data[:headerSize]), data[headerSize:], nil
}
