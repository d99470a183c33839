package remittance

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Service answers remittance lookups on behalf of the query pipeline.
//
// ByReference scopes the lookup to the requesting customer when customerID is
// non-empty, so a relationship manager cannot read another customer's
// transfer by guessing references.
type Service interface {
	ByReference(ctx context.Context, reference, customerID string) (Details, error)
	ForCustomer(ctx context.Context, customerID string, limit int) ([]Details, error)
	Summary(ctx context.Context, customerID string, now time.Time) (StatusSummary, error)
}

const recentWindow = 30 * 24 * time.Hour

// InMemory is a map-backed Service for demos and tests.
type InMemory struct {
	mu    sync.RWMutex
	byRef map[string]Details
}

var _ Service = (*InMemory)(nil)

// NewInMemory seeds a service with the given remittances.
func NewInMemory(seed ...Details) *InMemory {
	s := &InMemory{byRef: make(map[string]Details, len(seed))}
	for _, d := range seed {
		s.byRef[strings.ToUpper(d.Reference)] = d
	}
	return s
}

// Put inserts or replaces a remittance.
func (s *InMemory) Put(d Details) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRef[strings.ToUpper(d.Reference)] = d
}

func (s *InMemory) ByReference(ctx context.Context, reference, customerID string) (Details, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byRef[strings.ToUpper(strings.TrimSpace(reference))]
	if !ok {
		return Details{}, ErrNotFound
	}
	if customerID != "" && d.CustomerID != customerID {
		return Details{}, ErrNotFound
	}
	return d, nil
}

func (s *InMemory) ForCustomer(ctx context.Context, customerID string, limit int) ([]Details, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Details
	for _, d := range s.byRef {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InitiatedAt.After(out[j].InitiatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) Summary(ctx context.Context, customerID string, now time.Time) (StatusSummary, error) {
	all, err := s.ForCustomer(ctx, customerID, 0)
	if err != nil {
		return StatusSummary{}, err
	}
	sum := StatusSummary{ByStatus: make(map[Status]StatusBucket)}
	for _, d := range all {
		b := sum.ByStatus[d.Status]
		b.Count++
		b.AmountMinor += d.AmountMinor
		sum.ByStatus[d.Status] = b
		sum.TotalAmountMinor += d.AmountMinor
		if now.Sub(d.InitiatedAt) <= recentWindow {
			sum.RecentCount++
		}
	}
	return sum, nil
}

// DemoSet returns the fixture remittances used by the in-memory directory's
// demo customers.
func DemoSet(now time.Time) []Details {
	completed := now.Add(-44 * time.Hour)
	processed := now.Add(-20 * time.Hour)
	return []Details{
		{
			Reference:        "REF123456",
			CustomerID:       "CUST001",
			AmountMinor:      5_000_00,
			FeesMinor:        45_00,
			Currency:         "USD",
			Sender:           "John Doe",
			Recipient:        "Anita Doe",
			RecipientBank:    "HDFC Bank",
			RecipientCountry: "India",
			Status:           StatusCompleted,
			Type:             TypeInternational,
			Purpose:          "family support",
			InitiatedAt:      now.Add(-48 * time.Hour),
			ProcessedAt:      &processed,
			CompletedAt:      &completed,
		},
		{
			Reference:        "REF789012",
			CustomerID:       "CUST001",
			AmountMinor:      12_500_00,
			FeesMinor:        90_00,
			Currency:         "USD",
			Sender:           "John Doe",
			Recipient:        "Doe Holdings Ltd",
			RecipientBank:    "Standard Chartered",
			RecipientCountry: "Singapore",
			Status:           StatusProcessing,
			Type:             TypeWireTransfer,
			Purpose:          "business payment",
			InitiatedAt:      now.Add(-6 * time.Hour),
			ProcessedAt:      &processed,
		},
		{
			Reference:        "REF345678",
			CustomerID:       "CUST004",
			AmountMinor:      50_000_00,
			FeesMinor:        0,
			Currency:         "USD",
			Sender:           "Alice Brown",
			Recipient:        "Brown Family Trust",
			RecipientBank:    "JPMorgan Chase",
			RecipientCountry: "United States",
			Status:           StatusPending,
			Type:             TypeDomestic,
			Purpose:          "trust funding",
			InitiatedAt:      now.Add(-30 * time.Minute),
		},
		{
			Reference:        "REF901234",
			CustomerID:       "CUST002",
			AmountMinor:      800_00,
			FeesMinor:        12_00,
			Currency:         "USD",
			Sender:           "Jane Smith",
			Recipient:        "Li Wei",
			RecipientBank:    "Bank of China",
			RecipientCountry: "China",
			Status:           StatusFailed,
			Type:             TypeInternational,
			Purpose:          "gift",
			InitiatedAt:      now.Add(-72 * time.Hour),
			FailureReason:    "recipient account closed",
		},
	}
}
