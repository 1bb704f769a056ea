package session_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/docket-app/docket/internal/session"
)

func newManager(t *testing.T, ttl time.Duration) *session.Manager {
	t.Helper()
	return session.NewManager(session.NewMemStore(ttl), "test-session-secret", ttl)
}

func testIdentity() session.Identity {
	return session.Identity{UserID: 42, Role: "user", Name: "alice"}
}

func TestLoginThenCurrent(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()

	token, err := m.Login(ctx, testIdentity())

	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if token == "" {
		t.Fatalf("expected a non-empty cookie token")
	}

	identity, ok, err := m.Current(ctx, token)

	if err != nil {
		t.Fatalf("current failed: %v", err)
	}

	if !ok {
		t.Fatalf("expected an authenticated session")
	}

	if identity != testIdentity() {
		t.Fatalf("identity round-trip mismatch: %+v", identity)
	}
}

func TestCurrent_EmptyTokenIsAnonymous(t *testing.T) {
	m := newManager(t, time.Minute)

	_, ok, err := m.Current(context.Background(), "")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Fatalf("empty token must be anonymous")
	}
}

func TestCurrent_TamperedTokenIsAnonymous(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()

	token, err := m.Login(ctx, testIdentity())

	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// flip the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-segment token, got %d segments", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, ok, err := m.Current(ctx, tampered)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Fatalf("tampered token must not resolve to an identity")
	}
}

func TestCurrent_TokenSignedWithOtherSecretIsAnonymous(t *testing.T) {
	ctx := context.Background()

	other := session.NewManager(session.NewMemStore(time.Minute), "other-secret", time.Minute)
	token, err := other.Login(ctx, testIdentity())

	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	m := newManager(t, time.Minute)

	_, ok, err := m.Current(ctx, token)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Fatalf("foreign signature must not resolve to an identity")
	}
}

func TestLogout_DestroysSessionAndIsIdempotent(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()

	token, err := m.Login(ctx, testIdentity())

	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	removed, err := m.Logout(ctx, token)

	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if !removed {
		t.Fatalf("first logout must report a removed record")
	}

	_, ok, err := m.Current(ctx, token)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Fatalf("session must be gone after logout")
	}

	// second logout with the same token is a no-op, not an error
	removed, err = m.Logout(ctx, token)

	if err != nil {
		t.Fatalf("repeated logout must be a no-op, got %v", err)
	}

	if removed {
		t.Fatalf("repeated logout must not report a removed record")
	}

	// logout with garbage is also a no-op
	if removed, err := m.Logout(ctx, "not-a-token"); err != nil || removed {
		t.Fatalf("logout with a bad token must be a no-op, got removed=%v err=%v", removed, err)
	}
}

func TestSessionExpiresWithTTL(t *testing.T) {
	m := newManager(t, 20*time.Millisecond)
	ctx := context.Background()

	token, err := m.Login(ctx, testIdentity())

	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	_, ok, err := m.Current(ctx, token)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Fatalf("session must expire once the TTL passes")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()

	aliceToken, err := m.Login(ctx, session.Identity{UserID: 1, Role: "user", Name: "alice"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	bobToken, err := m.Login(ctx, session.Identity{UserID: 2, Role: "user", Name: "bob"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := m.Logout(ctx, aliceToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	identity, ok, err := m.Current(ctx, bobToken)

	if err != nil || !ok {
		t.Fatalf("bob's session must survive alice's logout: ok=%v err=%v", ok, err)
	}

	if identity.Name != "bob" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}
