package testing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/ValentinKolb/sgc/lib/store"
)

// StoreFactory is a function that creates a fresh instance of an
// IGroupStore implementation under test.
type StoreFactory func() store.IGroupStore

// RunGroupStoreTests runs the conformance test suite for an IGroupStore
// implementation.
func RunGroupStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Insert&Allocate", func(t *testing.T) {
			testInsertAllocate(t, factory())
		})

		t.Run("DuplicateId", func(t *testing.T) {
			testDuplicateID(t, factory())
		})

		t.Run("ConcurrentInsertUniqueness", func(t *testing.T) {
			testConcurrentInsertUniqueness(t, factory())
		})

		t.Run("RemoveById", func(t *testing.T) {
			testRemoveByID(t, factory())
		})

		t.Run("Ownership", func(t *testing.T) {
			testOwnership(t, factory())
		})

		t.Run("RemoveWhere", func(t *testing.T) {
			testRemoveWhere(t, factory())
		})

		t.Run("ReplaceById", func(t *testing.T) {
			testReplaceByID(t, factory())
		})

		t.Run("SnapshotIsolation", func(t *testing.T) {
			testSnapshotIsolation(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// NewTestGroup builds a valid study group owned by the given identity.
func NewTestGroup(t testing.TB, name, owner string) *collection.StudyGroup {
	t.Helper()
	g, err := collection.NewStudyGroup(
		name,
		collection.Coordinates{X: 10, Y: 3.5},
		25,
		collection.FormFullTime,
		collection.SemesterFirst,
		collection.Person{
			Name:       "Alice Admin",
			BirthDate:  time.Date(1999, 4, 12, 0, 0, 0, 0, time.UTC),
			Height:     1.72,
			PassportID: "AB-123456",
		},
		owner,
	)
	if err != nil {
		t.Fatalf("failed to build test group: %v", err)
	}
	return g
}

func mustInsert(t testing.TB, s store.IGroupStore, g *collection.StudyGroup) int64 {
	t.Helper()
	id, err := s.Insert(g)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	return id
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertAllocate(t *testing.T, s store.IGroupStore) {
	idA := mustInsert(t, s, NewTestGroup(t, "Group A", "alice"))
	idB := mustInsert(t, s, NewTestGroup(t, "Group B", "alice"))

	if idA <= 0 || idB <= 0 {
		t.Fatalf("allocated ids must be positive, got %d and %d", idA, idB)
	}
	if idA == idB {
		t.Fatalf("allocated ids must be unique, got %d twice", idA)
	}
	if s.Size() != 2 {
		t.Fatalf("expected size 2, got %d", s.Size())
	}
}

func testDuplicateID(t *testing.T, s store.IGroupStore) {
	g, err := NewTestGroup(t, "Group A", "alice").WithID(42)
	if err != nil {
		t.Fatal(err)
	}
	mustInsert(t, s, g)

	dup, _ := NewTestGroup(t, "Group B", "bob").WithID(42)
	if _, err := s.Insert(dup); store.CodeOf(err) != store.RetCDuplicateID {
		t.Fatalf("expected DuplicateId, got %v", err)
	}
	if s.Size() != 1 {
		t.Fatalf("failed insert must not change the store, size=%d", s.Size())
	}
}

func testConcurrentInsertUniqueness(t *testing.T, s store.IGroupStore) {
	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	ids := make(chan int64, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				g := NewTestGroup(t, fmt.Sprintf("g-%d-%d", w, i), "alice")
				id, err := s.Insert(g)
				if err != nil {
					t.Errorf("concurrent insert failed: %v", err)
					return
				}
				ids <- id
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d allocated twice", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d records, got %d", workers*perWorker, len(seen))
	}
}

func testRemoveByID(t *testing.T, s store.IGroupStore) {
	id := mustInsert(t, s, NewTestGroup(t, "Group A", "alice"))

	if err := s.RemoveByID(id, "alice"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	// second remove of the same id must observe the first's effect
	if err := s.RemoveByID(id, "alice"); store.CodeOf(err) != store.RetCNotFound {
		t.Fatalf("expected NotFound on double remove, got %v", err)
	}
}

func testOwnership(t *testing.T, s store.IGroupStore) {
	id := mustInsert(t, s, NewTestGroup(t, "Group A", "alice"))

	if err := s.RemoveByID(id, "bob"); store.CodeOf(err) != store.RetCNotOwner {
		t.Fatalf("expected NotOwner, got %v", err)
	}
	if !s.Has(id) {
		t.Fatal("record must remain after a failed foreign remove")
	}

	if err := s.ReplaceByID(id, NewTestGroup(t, "Hijack", "bob"), "bob"); store.CodeOf(err) != store.RetCNotOwner {
		t.Fatalf("expected NotOwner on foreign replace, got %v", err)
	}
}

func testRemoveWhere(t *testing.T, s store.IGroupStore) {
	for i := 0; i < 5; i++ {
		mustInsert(t, s, NewTestGroup(t, fmt.Sprintf("alice-%d", i), "alice"))
	}
	for i := 0; i < 3; i++ {
		mustInsert(t, s, NewTestGroup(t, fmt.Sprintf("bob-%d", i), "bob"))
	}

	// predicate matches everything, but only alice's records may go
	removed, err := s.RemoveWhere(func(*collection.StudyGroup) bool { return true }, "alice")
	if err != nil {
		t.Fatalf("remove where failed: %v", err)
	}
	if removed != 5 {
		t.Fatalf("expected 5 removed, got %d", removed)
	}
	for _, g := range s.Snapshot() {
		if g.Owner != "bob" {
			t.Fatalf("record owned by %q removed by alice's bulk removal", g.Owner)
		}
	}
}

func testReplaceByID(t *testing.T, s store.IGroupStore) {
	original := NewTestGroup(t, "Group A", "alice")
	id := mustInsert(t, s, original)

	replacement := NewTestGroup(t, "Group A v2", "alice")
	replacement.StudentCount = 99
	if err := s.ReplaceByID(id, replacement, "alice"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	var stored *collection.StudyGroup
	for _, g := range s.Snapshot() {
		if g.ID == id {
			stored = g
		}
	}
	if stored == nil {
		t.Fatal("replaced record not found in snapshot")
	}
	if stored.Name != "Group A v2" || stored.StudentCount != 99 {
		t.Fatalf("new fields not applied: %+v", stored)
	}
	if stored.Owner != "alice" {
		t.Fatalf("owner changed by replace: %q", stored.Owner)
	}
	if !stored.CreationDate.Equal(original.CreationDate) {
		t.Fatalf("creation date changed by replace: %v != %v", stored.CreationDate, original.CreationDate)
	}

	if err := s.ReplaceByID(id+1000, replacement, "alice"); store.CodeOf(err) != store.RetCNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func testSnapshotIsolation(t *testing.T, s store.IGroupStore) {
	idA := mustInsert(t, s, NewTestGroup(t, "Group A", "alice"))

	before := s.Snapshot()

	// mutate concurrently with repeated snapshots
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			mustInsert(t, s, NewTestGroup(t, fmt.Sprintf("g-%d", i), "alice"))
		}
	}()
	for i := 0; i < 50; i++ {
		snap := s.Snapshot()
		prev := int64(0)
		for _, g := range snap {
			// every record in any snapshot is fully formed and in order
			if err := g.Validate(); err != nil {
				t.Fatalf("snapshot exposed a partially built record: %v", err)
			}
			if g.ID <= prev {
				t.Fatalf("snapshot out of order: %d after %d", g.ID, prev)
			}
			prev = g.ID
		}
	}
	<-done

	// the old snapshot is a frozen view
	if len(before) != 1 || before[0].ID != idA {
		t.Fatalf("snapshot mutated after the fact: %v", before)
	}
}

func testClear(t *testing.T, s store.IGroupStore) {
	mustInsert(t, s, NewTestGroup(t, "Group A", "alice"))
	mustInsert(t, s, NewTestGroup(t, "Group B", "alice"))
	mustInsert(t, s, NewTestGroup(t, "Group C", "bob"))

	removed, err := s.Clear("alice")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if s.Size() != 1 {
		t.Fatalf("expected bob's record to survive, size=%d", s.Size())
	}
}
