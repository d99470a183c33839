package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rmdesk.org/internal/customer"
	"rmdesk.org/internal/obs"
)

const (
	DefaultLockoutThreshold = 3
	DefaultLockoutWindow    = 15 * time.Minute
)

// Outcome is the result of a credential check. On success Customer is the
// post-login record and SessionToken carries a freshly issued session.
// On failure Err holds one of the package sentinels.
type Outcome struct {
	Authenticated bool
	Customer      *customer.Record
	SessionToken  string
	ExpiresAt     time.Time
	Err           error
}

// Verifier authenticates customers against the directory, enforcing the
// failed-attempt lockout policy and issuing sessions on success.
type Verifier struct {
	dir       customer.Directory
	sessions  *SessionRegistry
	threshold int
	lockFor   time.Duration
	now       func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithLockoutPolicy overrides the attempt threshold and lock duration.
func WithLockoutPolicy(threshold int, lockFor time.Duration) VerifierOption {
	return func(v *Verifier) {
		if threshold > 0 {
			v.threshold = threshold
		}
		if lockFor > 0 {
			v.lockFor = lockFor
		}
	}
}

// WithVerifierClock overrides the time source (useful for tests).
func WithVerifierClock(fn func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if fn != nil {
			v.now = fn
		}
	}
}

// NewVerifier constructs a Verifier with the default lockout policy of
// three failed attempts and a fifteen minute lock.
func NewVerifier(dir customer.Directory, sessions *SessionRegistry, opts ...VerifierOption) (*Verifier, error) {
	if dir == nil {
		return nil, errors.New("auth: directory is required")
	}
	if sessions == nil {
		return nil, errors.New("auth: session registry is required")
	}
	v := &Verifier{
		dir:       dir,
		sessions:  sessions,
		threshold: DefaultLockoutThreshold,
		lockFor:   DefaultLockoutWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Authenticate runs the credential check. The checks are ordered: an active
// lock rejects before the account status is consulted, and status rejects
// before the credential is compared. Only a credential mismatch moves the
// failure counter; lock and status rejections leave it untouched.
func (v *Verifier) Authenticate(ctx context.Context, customerID, credential string) Outcome {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		obs.ObserveAuthAttempt("invalid_input")
		return Outcome{Err: fmt.Errorf("%w: customerID is required", ErrInvalidCredentials)}
	}

	rec, err := v.dir.Find(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			obs.ObserveAuthAttempt("customer_not_found")
			return Outcome{Err: ErrCustomerNotFound}
		}
		obs.ObserveAuthAttempt("error")
		return Outcome{Err: fmt.Errorf("auth: lookup customer: %w", err)}
	}

	now := v.now().UTC()
	if rec.Locked(now) {
		obs.ObserveAuthAttempt("account_locked")
		return Outcome{Err: ErrAccountLocked}
	}
	if !rec.Status.CanAuthenticate() {
		obs.ObserveAuthAttempt("account_not_active")
		return Outcome{Err: fmt.Errorf("%w: status %s", ErrAccountNotActive, rec.Status)}
	}

	if VerifyCredential(rec.CredentialHash, credential) != nil {
		if _, err := v.dir.RegisterAuthFailure(ctx, customerID, v.threshold, v.lockFor, now); err != nil {
			obs.ObserveAuthAttempt("error")
			return Outcome{Err: fmt.Errorf("auth: record failed attempt: %w", err)}
		}
		obs.ObserveAuthAttempt("invalid_credentials")
		return Outcome{Err: ErrInvalidCredentials}
	}

	updated, err := v.dir.RegisterAuthSuccess(ctx, customerID, now)
	if err != nil {
		obs.ObserveAuthAttempt("error")
		return Outcome{Err: fmt.Errorf("auth: record login: %w", err)}
	}
	token, expiresAt, err := v.sessions.Issue(ctx, customerID)
	if err != nil {
		obs.ObserveAuthAttempt("error")
		return Outcome{Err: err}
	}
	obs.ObserveAuthAttempt("success")
	return Outcome{
		Authenticated: true,
		Customer:      &updated,
		SessionToken:  token,
		ExpiresAt:     expiresAt,
	}
}

// Logout revokes the session token. Unknown tokens report false.
func (v *Verifier) Logout(token string) bool {
	return v.sessions.Revoke(token)
}

// Sessions exposes the registry for transport-level session checks.
func (v *Verifier) Sessions() *SessionRegistry {
	return v.sessions
}

// Directory exposes the backing customer directory.
func (v *Verifier) Directory() customer.Directory {
	return v.dir
}
