package remittance

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryByReference(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewInMemory(DemoSet(now)...)

	d, err := svc.ByReference(ctx, "REF123456", "CUST001")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if d.Status != StatusCompleted || d.Type != TypeInternational {
		t.Fatalf("unexpected details: %+v", d)
	}

	// Case and whitespace in the reference do not matter.
	if _, err := svc.ByReference(ctx, "  ref123456 ", "CUST001"); err != nil {
		t.Fatalf("normalized lookup: %v", err)
	}
}

func TestInMemoryByReferenceScopedToCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemory(DemoSet(time.Now())...)

	// CUST002 cannot read CUST001's transfer.
	if _, err := svc.ByReference(ctx, "REF123456", "CUST002"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-customer lookup should be not-found, got %v", err)
	}
	// An empty customer scope is an operator lookup and succeeds.
	if _, err := svc.ByReference(ctx, "REF123456", ""); err != nil {
		t.Fatalf("unscoped lookup: %v", err)
	}
	if _, err := svc.ByReference(ctx, "REF000000", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown reference should be not-found, got %v", err)
	}
}

func TestInMemoryForCustomerOrdersByRecency(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewInMemory(DemoSet(now)...)

	list, err := svc.ForCustomer(ctx, "CUST001", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Reference != "REF789012" || list[1].Reference != "REF123456" {
		t.Fatalf("wrong order: %s, %s", list[0].Reference, list[1].Reference)
	}

	one, err := svc.ForCustomer(ctx, "CUST001", 1)
	if err != nil {
		t.Fatalf("limited list: %v", err)
	}
	if len(one) != 1 || one[0].Reference != "REF789012" {
		t.Fatalf("limit not applied: %+v", one)
	}
}

func TestInMemorySummary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewInMemory(DemoSet(now)...)

	sum, err := svc.Summary(ctx, "CUST001", now)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got := sum.ByStatus[StatusCompleted].Count; got != 1 {
		t.Errorf("completed count = %d, want 1", got)
	}
	if got := sum.ByStatus[StatusProcessing].Count; got != 1 {
		t.Errorf("processing count = %d, want 1", got)
	}
	if want := int64(5_000_00 + 12_500_00); sum.TotalAmountMinor != want {
		t.Errorf("total = %d, want %d", sum.TotalAmountMinor, want)
	}
	if sum.RecentCount != 2 {
		t.Errorf("recent count = %d, want 2", sum.RecentCount)
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusCompleted:  true,
		StatusFailed:     true,
		StatusCancelled:  true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
