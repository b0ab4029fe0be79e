// Package memstore provides the in-memory implementation of
// store.IGroupStore backed by a B-tree keyed by group ID.
//
// Concurrency discipline: a single sync.RWMutex guards the tree. All
// mutating operations (insert, replace, remove, bulk predicate removal)
// run under the write lock, so they are linearized in lock-acquisition
// order and the uniqueness check of an insert sits in the same critical
// section as the insert itself. Snapshot takes the read lock only for the
// duration of a copy-on-write Clone of the tree, then iterates the clone
// outside any lock; point operations are O(log n), scans O(n).
//
// ID allocation is part of the insert critical section: a monotonic
// counter skips over any live IDs, so no two successfully inserted
// records can ever share an identifier.
package memstore
