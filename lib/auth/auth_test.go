package auth

import (
	"testing"
	"time"

	"github.com/ValentinKolb/sgc/lib/store"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("alice", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register("alice", "other"); store.CodeOf(err) != store.RetCInvalidCredential {
		t.Fatalf("expected InvalidCredential on duplicate register, got %v", err)
	}
	if err := r.Register("", "x"); err == nil {
		t.Fatal("empty name must be rejected")
	}

	if !r.Verify("alice", "secret") {
		t.Fatal("correct password rejected")
	}
	if r.Verify("alice", "wrong") {
		t.Fatal("wrong password accepted")
	}
	if r.Verify("bob", "secret") {
		t.Fatal("unknown identity accepted")
	}
	if !r.Has("alice") || r.Has("bob") {
		t.Fatal("Has disagrees with registry contents")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	token, err := ts.Issue("alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	identity, err := ts.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if identity != "alice" {
		t.Fatalf("expected alice, got %q", identity)
	}
}

func TestTokenRejections(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	if _, err := ts.Authenticate(""); store.CodeOf(err) != store.RetCInvalidCredential {
		t.Fatalf("expected InvalidCredential for empty token, got %v", err)
	}
	if _, err := ts.Authenticate("not-a-token"); store.CodeOf(err) != store.RetCInvalidCredential {
		t.Fatalf("expected InvalidCredential for garbage token, got %v", err)
	}

	// token signed with a different secret
	other := NewTokenService("other-secret", time.Hour)
	forged, _ := other.Issue("alice")
	if _, err := ts.Authenticate(forged); store.CodeOf(err) != store.RetCInvalidCredential {
		t.Fatalf("expected InvalidCredential for forged token, got %v", err)
	}

	// expired token
	expired := NewTokenService("test-secret", -time.Minute)
	old, _ := expired.Issue("alice")
	if _, err := ts.Authenticate(old); store.CodeOf(err) != store.RetCInvalidCredential {
		t.Fatalf("expected InvalidCredential for expired token, got %v", err)
	}
}
