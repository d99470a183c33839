package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"rmdesk.org/internal/customer"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory(t, activeCustomer(t, "C1", customer.TierHighNetWorth, "pa55word"))
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s, err := NewSessionRegistry(dir, "test-secret", WithSessionClock(func() time.Time { return base }))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	token, expiresAt, err := s.Issue(ctx, "C1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(base.Add(DefaultSessionTTL)) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, base.Add(DefaultSessionTTL))
	}
	rec, err := s.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rec.ID != "C1" || rec.Tier != customer.TierHighNetWorth {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSessionVerifyRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory(t, activeCustomer(t, "C1", customer.TierHighNetWorth, "pa55word"))
	s, err := NewSessionRegistry(dir, "test-secret")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	for _, token := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, err := s.Verify(ctx, token); !errors.Is(err, ErrSessionInvalid) {
			t.Fatalf("token %q: want ErrSessionInvalid, got %v", token, err)
		}
	}
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory(t, activeCustomer(t, "C1", customer.TierHighNetWorth, "pa55word"))
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s, err := NewSessionRegistry(dir, "test-secret",
		WithSessionClock(func() time.Time { return now }),
		WithSessionTTL(time.Hour),
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	token, _, err := s.Issue(ctx, "C1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := s.Verify(ctx, token); err != nil {
		t.Fatalf("mid-lifetime verify: %v", err)
	}
	now = now.Add(31 * time.Minute)
	if _, err := s.Verify(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expired token should be invalid, got %v", err)
	}
	// The expired entry was evicted, so a later check stays invalid.
	if _, err := s.Verify(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("evicted token should stay invalid, got %v", err)
	}
}

func TestSessionTokenForMissingCustomer(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory(t)
	s, err := NewSessionRegistry(dir, "test-secret")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	// Issue does not consult the directory; verification does.
	token, _, err := s.Issue(ctx, "GHOST")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.Verify(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("token for an absent customer should be invalid, got %v", err)
	}
}

func TestSessionRevokeUnknownToken(t *testing.T) {
	dir := seedDirectory(t)
	s, err := NewSessionRegistry(dir, "test-secret")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if s.Revoke("never-issued") {
		t.Fatal("revoking an unknown token should report false")
	}
}

func TestSessionSecretMismatch(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory(t, activeCustomer(t, "C1", customer.TierHighNetWorth, "pa55word"))
	a, err := NewSessionRegistry(dir, "secret-a")
	if err != nil {
		t.Fatalf("registry a: %v", err)
	}
	b, err := NewSessionRegistry(dir, "secret-b")
	if err != nil {
		t.Fatalf("registry b: %v", err)
	}
	token, _, err := a.Issue(ctx, "C1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Verify(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("foreign token should be invalid, got %v", err)
	}
}
