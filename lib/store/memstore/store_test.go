package memstore

import (
	"testing"

	"github.com/ValentinKolb/sgc/lib/store"
	storetesting "github.com/ValentinKolb/sgc/lib/store/testing"
)

func Test(t *testing.T) {
	storetesting.RunGroupStoreTests(t, "MemStore", func() store.IGroupStore {
		return NewGroupStore()
	})
}
