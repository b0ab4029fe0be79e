package memstore

import (
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/google/btree"
)

// btreeDegree is the branching factor of the underlying B-tree.
const btreeDegree = 16

// --------------------------------------------------------------------------
// B-tree Item
// --------------------------------------------------------------------------

// groupItem adapts a study group to the btree.Item interface. Ordering is
// by ID, the collection's declared comparison key.
type groupItem struct {
	g *collection.StudyGroup
}

func (a groupItem) Less(b btree.Item) bool {
	return a.g.ID < b.(groupItem).g.ID
}

// lookupItem builds a probe item for point queries by ID.
func lookupItem(id int64) groupItem {
	return groupItem{g: &collection.StudyGroup{ID: id}}
}

// --------------------------------------------------------------------------
// Store Implementation
// --------------------------------------------------------------------------

// storeImpl implements store.IGroupStore on a B-tree guarded by a single
// read-write mutex. Mutations take the write lock; Snapshot takes the read
// lock only long enough to Clone the tree (copy-on-write, O(1)), so
// readers never observe torn state and scans run lock-free.
type storeImpl struct {
	mu        sync.RWMutex
	tree      *btree.BTree
	nextID    int64
	createdAt time.Time

	sizeGauge *metrics.Gauge
}

// NewGroupStore creates an empty in-memory group store.
func NewGroupStore() store.IGroupStore {
	s := &storeImpl{
		tree:      btree.New(btreeDegree),
		createdAt: time.Now(),
	}
	s.sizeGauge = metrics.GetOrCreateGauge("sgc_store_size", func() float64 {
		return float64(s.Size())
	})
	return s
}

// CreatedAt returns the instant the store was initialized.
func (s *storeImpl) CreatedAt() time.Time {
	return s.createdAt
}

// allocateID returns a fresh positive ID not present as a key.
//
// Must be called with the write lock held: the uniqueness check and the
// insert it guards have to sit in the same critical section, otherwise two
// concurrent inserts could both pass the check before either commits.
func (s *storeImpl) allocateID() int64 {
	for {
		s.nextID++
		if s.nextID <= 0 { // wraparound
			s.nextID = 1
		}
		if !s.tree.Has(lookupItem(s.nextID)) {
			return s.nextID
		}
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Insert(g *collection.StudyGroup) (int64, error) {
	if err := validateForInsert(g); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *g // the store owns its own copy
	if cp.ID == 0 {
		cp.ID = s.allocateID()
	} else if s.tree.Has(lookupItem(cp.ID)) {
		return 0, store.NewError(store.RetCDuplicateID, "study group with id %d already exists", cp.ID)
	}

	s.tree.ReplaceOrInsert(groupItem{g: &cp})
	return cp.ID, nil
}

func (s *storeImpl) ReplaceByID(id int64, fields *collection.StudyGroup, requester string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.tree.Get(lookupItem(id))
	if item == nil {
		return store.NewError(store.RetCNotFound, "no study group with id %d", id)
	}
	old := item.(groupItem).g
	if old.Owner != requester {
		return store.NewError(store.RetCNotOwner, "study group %d is owned by another identity", id)
	}

	// Swap in the new fields, keeping the immutable triple.
	cp := *fields
	cp.ID = old.ID
	cp.Owner = old.Owner
	cp.CreationDate = old.CreationDate
	if err := cp.Validate(); err != nil {
		return store.NewError(store.RetCMalformedRequest, "%v", err)
	}

	s.tree.ReplaceOrInsert(groupItem{g: &cp})
	return nil
}

func (s *storeImpl) RemoveByID(id int64, requester string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.tree.Get(lookupItem(id))
	if item == nil {
		return store.NewError(store.RetCNotFound, "no study group with id %d", id)
	}
	if item.(groupItem).g.Owner != requester {
		return store.NewError(store.RetCNotOwner, "study group %d is owned by another identity", id)
	}

	s.tree.Delete(lookupItem(id))
	return nil
}

func (s *storeImpl) RemoveWhere(pred store.Predicate, requester string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One atomic scan-and-remove pass: collect matches first, the tree
	// must not be mutated while iterating.
	var victims []int64
	s.tree.Ascend(func(item btree.Item) bool {
		g := item.(groupItem).g
		if g.Owner == requester && pred(g) {
			victims = append(victims, g.ID)
		}
		return true
	})
	for _, id := range victims {
		s.tree.Delete(lookupItem(id))
	}
	return len(victims), nil
}

func (s *storeImpl) Clear(requester string) (int, error) {
	return s.RemoveWhere(func(*collection.StudyGroup) bool { return true }, requester)
}

func (s *storeImpl) Snapshot() []*collection.StudyGroup {
	s.mu.RLock()
	clone := s.tree.Clone()
	s.mu.RUnlock()

	// The clone is copy-on-write: iterating it outside the lock is safe
	// and cannot observe a partially applied mutation.
	snapshot := make([]*collection.StudyGroup, 0, clone.Len())
	clone.Ascend(func(item btree.Item) bool {
		snapshot = append(snapshot, item.(groupItem).g)
		return true
	})
	return snapshot
}

func (s *storeImpl) Has(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Has(lookupItem(id))
}

func (s *storeImpl) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// validateForInsert rejects partially built records before the critical
// section is entered.
func validateForInsert(g *collection.StudyGroup) error {
	if g == nil {
		return store.NewError(store.RetCMalformedRequest, "study group is nil")
	}
	if g.ID != 0 {
		// explicit ID path: the record must be valid as-is
		if err := g.Validate(); err != nil {
			return store.NewError(store.RetCMalformedRequest, "%v", err)
		}
		return nil
	}
	// allocation path: validate everything except the yet-unset ID
	probe := *g
	probe.ID = 1
	if err := probe.Validate(); err != nil {
		return store.NewError(store.RetCMalformedRequest, "%v", err)
	}
	return nil
}
