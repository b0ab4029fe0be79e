// Package serializer converts Message envelopes to and from bytes.
//
// Three interchangeable implementations are provided:
//
//   - JSON (default): human debuggable, self-describing.
//   - GOB: Go-native binary encoding.
//   - Binary: a hand-rolled flag-byte format, smallest and fastest.
//
// Client and server must be configured with the same serializer; the wire
// format carries no negotiation. All implementations agree on every field
// of the envelope, which is the only compatibility requirement of the
// protocol.
package serializer
