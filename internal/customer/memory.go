package customer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory implements Directory with an in-process map. It is the default
// backing for development and tests; swap in the Postgres directory via
// configuration for real deployments.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]*memoryRecord
}

// memoryRecord pairs a record with its own lock so auth-attempt mutations for
// one customer serialize without blocking the whole table.
type memoryRecord struct {
	mu  sync.Mutex
	rec Record
}

var _ Directory = (*Memory)(nil)

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{recs: make(map[string]*memoryRecord)}
}

func (m *Memory) Create(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[rec.ID]; ok {
		return fmt.Errorf("%w: customer %s already exists", ErrInvalidInput, rec.ID)
	}
	m.recs[rec.ID] = &memoryRecord{rec: rec}
	return nil
}

func (m *Memory) Find(ctx context.Context, id string) (Record, error) {
	entry, err := m.lookup(id)
	if err != nil {
		return Record{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return copyRecord(entry.rec), nil
}

func (m *Memory) Update(ctx context.Context, id string, upd ProfileUpdate) (Record, error) {
	if err := upd.Normalize(); err != nil {
		return Record{}, err
	}
	entry, err := m.lookup(id)
	if err != nil {
		return Record{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	rec := &entry.rec
	if upd.Name != nil {
		rec.Name = *upd.Name
	}
	if upd.Email != nil {
		rec.Email = *upd.Email
	}
	if upd.Phone != nil {
		rec.Phone = *upd.Phone
	}
	if upd.Tier != nil {
		rec.Tier = *upd.Tier
	}
	if upd.Status != nil {
		rec.Status = *upd.Status
	}
	rec.UpdatedAt = time.Now().UTC()
	return copyRecord(*rec), nil
}

func (m *Memory) RegisterAuthFailure(ctx context.Context, id string, threshold int, lockFor time.Duration, now time.Time) (Record, error) {
	entry, err := m.lookup(id)
	if err != nil {
		return Record{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	rec := &entry.rec
	rec.FailedAttempts++
	if threshold > 0 && rec.FailedAttempts >= threshold {
		until := now.Add(lockFor)
		rec.LockedUntil = &until
	}
	rec.UpdatedAt = now
	return copyRecord(*rec), nil
}

func (m *Memory) RegisterAuthSuccess(ctx context.Context, id string, now time.Time) (Record, error) {
	entry, err := m.lookup(id)
	if err != nil {
		return Record{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	rec := &entry.rec
	rec.FailedAttempts = 0
	rec.LockedUntil = nil
	login := now
	rec.LastLogin = &login
	rec.UpdatedAt = now
	return copyRecord(*rec), nil
}

func (m *Memory) lookup(id string) (*memoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.recs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

func copyRecord(rec Record) Record {
	out := rec
	if rec.LastLogin != nil {
		t := *rec.LastLogin
		out.LastLogin = &t
	}
	if rec.LockedUntil != nil {
		t := *rec.LockedUntil
		out.LockedUntil = &t
	}
	return out
}
