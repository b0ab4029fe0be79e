package server

import (
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/sgc/lib/auth"
	"github.com/ValentinKolb/sgc/lib/collection"
	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/ValentinKolb/sgc/lib/store/memstore"
	"github.com/ValentinKolb/sgc/rpc/common"
)

// testEnv bundles the adapters and issues credentials for test identities.
type testEnv struct {
	groups IRPCServerAdapter
	auth   IRPCServerAdapter
	store  store.IGroupStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	groupStore := memstore.NewGroupStore()
	registry := auth.NewRegistry()
	tokens := auth.NewTokenService("test-secret", time.Hour)

	return &testEnv{
		groups: NewGroupsServerAdapter(groupStore, tokens),
		auth:   NewAuthServerAdapter(registry, tokens),
		store:  groupStore,
	}
}

// login registers the identity (if needed) and returns a credential.
func (e *testEnv) login(t *testing.T, name string) string {
	t.Helper()

	resp := e.auth.Handle(common.NewRegisterRequest(name, "pw-"+name))
	if resp.Err != "" && store.RetCode(resp.ErrCode) != store.RetCInvalidCredential {
		t.Fatalf("register failed: %s", resp.Err)
	}

	resp = e.auth.Handle(common.NewLoginRequest(name, "pw-"+name))
	if resp.Err != "" {
		t.Fatalf("login failed: %s", resp.Err)
	}
	if resp.Token == "" {
		t.Fatal("login returned no token")
	}
	return resp.Token
}

func encodeTestGroup(t *testing.T, name string) []byte {
	t.Helper()

	g, err := collection.NewStudyGroup(
		name,
		collection.Coordinates{X: 10, Y: 20},
		25,
		collection.FormFullTime,
		collection.SemesterThird,
		collection.Person{
			Name:       "Alex",
			BirthDate:  time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
			Height:     1.8,
			PassportID: "AB-123",
		},
		"placeholder",
	)
	if err != nil {
		t.Fatalf("failed to build group: %v", err)
	}

	data, err := common.EncodeGroup(g)
	if err != nil {
		t.Fatalf("failed to encode group: %v", err)
	}
	return data
}

// addGroup inserts a group and returns its allocated ID.
func (e *testEnv) addGroup(t *testing.T, token, name string) int64 {
	t.Helper()

	resp := e.groups.Handle(common.NewAddRequest(encodeTestGroup(t, name), token))
	if resp.Err != "" {
		t.Fatalf("add failed: %s", resp.Err)
	}
	if resp.Count <= 0 {
		t.Fatalf("expected positive allocated id, got %d", resp.Count)
	}
	return resp.Count
}

func TestAuthAdapter(t *testing.T) {
	t.Run("RegisterAndLogin", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "alice")
		if token == "" {
			t.Fatal("expected token")
		}
	})

	t.Run("DuplicateRegister", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(t, "alice")

		resp := env.auth.Handle(common.NewRegisterRequest("alice", "other"))
		if store.RetCode(resp.ErrCode) != store.RetCInvalidCredential {
			t.Fatalf("expected InvalidCredential, got %s", store.RetCode(resp.ErrCode))
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(t, "alice")

		resp := env.auth.Handle(common.NewLoginRequest("alice", "wrong"))
		if store.RetCode(resp.ErrCode) != store.RetCInvalidCredential {
			t.Fatalf("expected InvalidCredential, got %s", store.RetCode(resp.ErrCode))
		}
	})
}

func TestGroupsAdapter(t *testing.T) {
	t.Run("RejectsMissingCredential", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.groups.Handle(common.NewShowRequest(""))
		if store.RetCode(resp.ErrCode) != store.RetCInvalidCredential {
			t.Fatalf("expected InvalidCredential, got %s", store.RetCode(resp.ErrCode))
		}
	})

	t.Run("RejectsForgedCredential", func(t *testing.T) {
		env := newTestEnv(t)
		other := auth.NewTokenService("other-secret", time.Hour)
		forged, err := other.Issue("alice")
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		resp := env.groups.Handle(common.NewShowRequest(forged))
		if store.RetCode(resp.ErrCode) != store.RetCInvalidCredential {
			t.Fatalf("expected InvalidCredential, got %s", store.RetCode(resp.ErrCode))
		}
	})

	t.Run("AddAndShow", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "alice")

		id := env.addGroup(t, token, "graphs-101")

		resp := env.groups.Handle(common.NewShowRequest(token))
		if resp.Err != "" {
			t.Fatalf("show failed: %s", resp.Err)
		}
		console, file := common.DemuxPayload(resp.Text)
		if len(console) != 1 || len(file) != 1 {
			t.Fatalf("expected 1 console and 1 file line, got %d/%d", len(console), len(file))
		}
		if !strings.Contains(console[0], "graphs-101") {
			t.Fatalf("console line missing group name: %q", console[0])
		}
		if !strings.Contains(file[0], "graphs-101") {
			t.Fatalf("file line missing group name: %q", file[0])
		}
		if !env.store.Has(id) {
			t.Fatal("store does not contain inserted group")
		}
	})

	t.Run("OwnerComesFromCredential", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "alice")

		env.addGroup(t, token, "owned")

		snapshot := env.store.Snapshot()
		if len(snapshot) != 1 || snapshot[0].Owner != "alice" {
			t.Fatalf("expected owner alice, got %+v", snapshot)
		}
	})

	t.Run("MalformedGroupPayload", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "alice")

		resp := env.groups.Handle(common.NewAddRequest([]byte("{not json"), token))
		if store.RetCode(resp.ErrCode) != store.RetCMalformedRequest {
			t.Fatalf("expected MalformedRequest, got %s", store.RetCode(resp.ErrCode))
		}
	})

	t.Run("UpdatePreservesOwnership", func(t *testing.T) {
		env := newTestEnv(t)
		aliceToken := env.login(t, "alice")
		bobToken := env.login(t, "bob")

		id := env.addGroup(t, aliceToken, "original")

		// bob may not update alice's group
		resp := env.groups.Handle(common.NewUpdateRequest(id, encodeTestGroup(t, "hijacked"), bobToken))
		if store.RetCode(resp.ErrCode) != store.RetCNotOwner {
			t.Fatalf("expected NotOwner, got %s", store.RetCode(resp.ErrCode))
		}

		resp = env.groups.Handle(common.NewUpdateRequest(id, encodeTestGroup(t, "renamed"), aliceToken))
		if resp.Err != "" {
			t.Fatalf("update failed: %s", resp.Err)
		}

		snapshot := env.store.Snapshot()
		if snapshot[0].Name != "renamed" || snapshot[0].Owner != "alice" {
			t.Fatalf("unexpected record after update: %+v", snapshot[0])
		}
	})

	t.Run("RemoveAndHas", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "alice")

		id := env.addGroup(t, token, "doomed")

		resp := env.groups.Handle(common.NewHasRequest(id, token))
		if !resp.Ok {
			t.Fatal("expected has=true before remove")
		}

		resp = env.groups.Handle(common.NewRemoveRequest(id, token))
		if resp.Err != "" {
			t.Fatalf("remove failed: %s", resp.Err)
		}

		resp = env.groups.Handle(common.NewHasRequest(id, token))
		if resp.Ok {
			t.Fatal("expected has=false after remove")
		}

		resp = env.groups.Handle(common.NewRemoveRequest(id, token))
		if store.RetCode(resp.ErrCode) != store.RetCNotFound {
			t.Fatalf("expected NotFound, got %s", store.RetCode(resp.ErrCode))
		}
	})

	t.Run("RemoveLowerIsOwnerFenced", func(t *testing.T) {
		env := newTestEnv(t)
		aliceToken := env.login(t, "alice")
		bobToken := env.login(t, "bob")

		var aliceIDs []int64
		for i := 0; i < 3; i++ {
			aliceIDs = append(aliceIDs, env.addGroup(t, aliceToken, "alice-group"))
		}
		env.addGroup(t, bobToken, "bob-group")

		// pivot above every alice group
		pivot, _ := collection.NewStudyGroup(
			"pivot", collection.Coordinates{}, 1,
			collection.FormDistance, collection.SemesterFirst,
			collection.Person{Name: "P", BirthDate: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), Height: 1.7, PassportID: "X"},
			"alice",
		)
		pivot, _ = pivot.WithID(aliceIDs[len(aliceIDs)-1] + 100)
		data, _ := common.EncodeGroup(pivot)

		resp := env.groups.Handle(common.NewRemoveLowerRequest(data, aliceToken))
		if resp.Err != "" {
			t.Fatalf("removeLower failed: %s", resp.Err)
		}
		if resp.Count != 3 {
			t.Fatalf("expected 3 removals, got %d", resp.Count)
		}

		// bob's group survives
		snapshot := env.store.Snapshot()
		if len(snapshot) != 1 || snapshot[0].Owner != "bob" {
			t.Fatalf("expected only bob's group to survive, got %+v", snapshot)
		}
	})

	t.Run("ClearRemovesOnlyOwned", func(t *testing.T) {
		env := newTestEnv(t)
		aliceToken := env.login(t, "alice")
		bobToken := env.login(t, "bob")

		env.addGroup(t, aliceToken, "a1")
		env.addGroup(t, aliceToken, "a2")
		env.addGroup(t, bobToken, "b1")

		resp := env.groups.Handle(common.NewClearRequest(aliceToken))
		if resp.Err != "" {
			t.Fatalf("clear failed: %s", resp.Err)
		}
		if resp.Count != 2 {
			t.Fatalf("expected 2 removals, got %d", resp.Count)
		}
		if env.store.Size() != 1 {
			t.Fatalf("expected 1 surviving group, got %d", env.store.Size())
		}
	})

	t.Run("CountByAdmin", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "alice")

		env.addGroup(t, token, "g1")
		env.addGroup(t, token, "g2")

		admin := collection.Person{
			Name:       "Alex",
			BirthDate:  time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
			Height:     1.8,
			PassportID: "AB-123",
		}
		data, err := common.EncodePerson(admin)
		if err != nil {
			t.Fatalf("failed to encode person: %v", err)
		}

		resp := env.groups.Handle(common.NewCountByAdminRequest(data, token))
		if resp.Err != "" {
			t.Fatalf("countByAdmin failed: %s", resp.Err)
		}
		if resp.Count != 2 {
			t.Fatalf("expected count 2, got %d", resp.Count)
		}
	})

	t.Run("GroupByIDAndInfo", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.login(t, "alice")

		for i := 0; i < 4; i++ {
			env.addGroup(t, token, "g")
		}

		resp := env.groups.Handle(common.NewGroupByIDRequest(token))
		if resp.Err != "" {
			t.Fatalf("groupById failed: %s", resp.Err)
		}
		console, _ := common.DemuxPayload(resp.Text)
		if len(console) == 0 || !strings.Contains(console[0], "ID range") {
			t.Fatalf("unexpected groupById payload: %q", resp.Text)
		}

		resp = env.groups.Handle(common.NewInfoRequest(token))
		if resp.Err != "" {
			t.Fatalf("info failed: %s", resp.Err)
		}
		console, _ = common.DemuxPayload(resp.Text)
		if len(console) == 0 || !strings.Contains(console[0], "Size: 4") {
			t.Fatalf("unexpected info payload: %q", resp.Text)
		}
	})
}
