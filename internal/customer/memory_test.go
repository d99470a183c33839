package customer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedMemory(t *testing.T, recs ...Record) *Memory {
	t.Helper()
	m := NewMemory()
	for _, rec := range recs {
		if err := m.Create(context.Background(), rec); err != nil {
			t.Fatalf("seed %s: %v", rec.ID, err)
		}
	}
	return m
}

func TestMemoryCreateAndFind(t *testing.T) {
	m := seedMemory(t, Record{ID: "C1", Name: "John Doe", Tier: TierHighNetWorth, Status: StatusActive})

	rec, err := m.Find(context.Background(), "C1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.Name != "John Doe" || rec.Tier != TierHighNetWorth {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatal("timestamps not stamped on create")
	}

	if _, err := m.Find(context.Background(), "C2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing customer error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCreateRejectsDuplicatesAndBlankID(t *testing.T) {
	m := seedMemory(t, Record{ID: "C1", Status: StatusActive})

	if err := m.Create(context.Background(), Record{ID: "C1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("duplicate error = %v, want ErrInvalidInput", err)
	}
	if err := m.Create(context.Background(), Record{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank id error = %v, want ErrInvalidInput", err)
	}
}

func TestMemoryUpdate(t *testing.T) {
	m := seedMemory(t, Record{ID: "C1", Name: "John Doe", Tier: TierRegular, Status: StatusActive})

	tier := TierPremium
	status := StatusSuspended
	rec, err := m.Update(context.Background(), "C1", ProfileUpdate{Tier: &tier, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Tier != TierPremium || rec.Status != StatusSuspended {
		t.Fatalf("unexpected record after update: %+v", rec)
	}
	// Untouched fields survive.
	if rec.Name != "John Doe" {
		t.Fatalf("name changed unexpectedly: %q", rec.Name)
	}

	bad := ""
	if _, err := m.Update(context.Background(), "C1", ProfileUpdate{Name: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name error = %v, want ErrInvalidInput", err)
	}
}

func TestMemoryAuthFailureLockout(t *testing.T) {
	m := seedMemory(t, Record{ID: "C1", Status: StatusActive})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 2; i++ {
		rec, err := m.RegisterAuthFailure(context.Background(), "C1", 3, 15*time.Minute, now)
		if err != nil {
			t.Fatalf("failure %d: %v", i, err)
		}
		if rec.FailedAttempts != i || rec.LockedUntil != nil {
			t.Fatalf("after failure %d: %+v", i, rec)
		}
	}

	rec, err := m.RegisterAuthFailure(context.Background(), "C1", 3, 15*time.Minute, now)
	if err != nil {
		t.Fatalf("third failure: %v", err)
	}
	if rec.LockedUntil == nil || !rec.LockedUntil.Equal(now.Add(15*time.Minute)) {
		t.Fatalf("lock not applied at threshold: %+v", rec)
	}

	rec, err = m.RegisterAuthSuccess(context.Background(), "C1", now.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("success: %v", err)
	}
	if rec.FailedAttempts != 0 || rec.LockedUntil != nil {
		t.Fatalf("counters not cleared: %+v", rec)
	}
	if rec.LastLogin == nil || !rec.LastLogin.Equal(now.Add(20*time.Minute)) {
		t.Fatalf("last login not stamped: %+v", rec)
	}
}

func TestMemoryFindReturnsCopy(t *testing.T) {
	m := seedMemory(t, Record{ID: "C1", Status: StatusActive})
	now := time.Now().UTC()

	rec, err := m.RegisterAuthFailure(context.Background(), "C1", 3, 15*time.Minute, now)
	if err != nil {
		t.Fatalf("failure: %v", err)
	}
	rec.FailedAttempts = 99

	fresh, err := m.Find(context.Background(), "C1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if fresh.FailedAttempts != 1 {
		t.Fatalf("stored record mutated through returned copy: %+v", fresh)
	}
}
