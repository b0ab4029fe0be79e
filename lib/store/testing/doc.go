// Package testing provides a reusable conformance test suite for
// store.IGroupStore implementations.
//
// Usage:
//
//	func Test(t *testing.T) {
//		storetesting.RunGroupStoreTests(t, "MemStore", func() store.IGroupStore {
//			return memstore.NewGroupStore()
//		})
//	}
//
// The suite covers the store invariants: ID uniqueness under concurrent
// inserts, ownership gating of every mutating operation, atomic bulk
// predicate removal, snapshot isolation and the immutability of ID, owner
// and creation timestamp across replaces.
package testing
