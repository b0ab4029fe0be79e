// Package store defines the contract for the authoritative study group
// collection plus the shared error taxonomy of the system.
//
// The store is the single shared mutable resource: every mutating
// operation runs inside one exclusive critical section, and all read-only
// commands (listing, aggregation, grouping) operate over an immutable
// Snapshot so they never block writers nor observe torn state.
//
// The aggregate helpers in this package (CountByAdmin, GroupCountingByID,
// MaxByStudentCount, Describe) take such a snapshot as input and therefore
// require no locking at all.
//
// Implementations live in sub-packages; see memstore for the in-memory
// B-tree backed implementation. The testing sub-package provides a reusable
// conformance suite for IGroupStore implementations.
package store
