package customer

import (
	"context"
	"time"
)

// Directory is the persistence boundary for customer records.
//
// RegisterAuthFailure and RegisterAuthSuccess exist so the failed-attempt
// counter and lockout transition happen atomically inside the store: two
// concurrent wrong-credential attempts must never both read the same counter
// value and skip the lockout threshold. The Postgres implementation uses a
// single UPDATE, the in-memory one a per-record lock.
type Directory interface {
	// Create inserts a new record.
	Create(ctx context.Context, rec Record) error

	// Find returns the record for id, or ErrNotFound.
	Find(ctx context.Context, id string) (Record, error)

	// Update applies a validated profile edit and returns the new record.
	Update(ctx context.Context, id string, upd ProfileUpdate) (Record, error)

	// RegisterAuthFailure increments the failed-attempt counter and, when the
	// counter reaches threshold, sets the lockout expiry to now+lockFor. It
	// returns the post-mutation record.
	RegisterAuthFailure(ctx context.Context, id string, threshold int, lockFor time.Duration, now time.Time) (Record, error)

	// RegisterAuthSuccess resets the failed-attempt counter, clears any
	// lockout and stamps the last-login time. It returns the post-mutation
	// record.
	RegisterAuthSuccess(ctx context.Context, id string, now time.Time) (Record, error)
}
