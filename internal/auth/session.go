package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"rmdesk.org/internal/customer"
)

const (
	defaultIssuer     = "rmdesk"
	DefaultSessionTTL = 24 * time.Hour
)

// SessionRegistry issues, verifies and revokes session tokens.
//
// Tokens are HS256 JWTs, but the registry's in-process table is the source of
// truth: a token validates only while its entry is present, so revocation
// wins over an unexpired signature. Expired entries are evicted lazily at
// verification time and swept by the table's janitor.
type SessionRegistry struct {
	dir    customer.Directory
	secret []byte
	issuer string
	ttl    time.Duration
	table  *gocache.Cache
	now    func() time.Time
}

// SessionOption configures the registry.
type SessionOption func(*SessionRegistry)

// WithSessionTTL overrides the token lifetime.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionRegistry) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) SessionOption {
	return func(s *SessionRegistry) {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithSessionClock overrides the time source (useful for tests).
func WithSessionClock(fn func() time.Time) SessionOption {
	return func(s *SessionRegistry) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewSessionRegistry constructs a registry. An empty secret gets replaced by
// a random per-process one, which means sessions do not survive a restart.
func NewSessionRegistry(dir customer.Directory, secret string, opts ...SessionOption) (*SessionRegistry, error) {
	if dir == nil {
		return nil, errors.New("auth: directory is required")
	}
	s := &SessionRegistry{
		dir:    dir,
		secret: []byte(strings.TrimSpace(secret)),
		issuer: defaultIssuer,
		ttl:    DefaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("auth: generate session secret: %w", err)
		}
		s.secret = buf
	}
	s.table = gocache.New(s.ttl, time.Minute)
	return s, nil
}

// Issue mints a session token for the customer and registers it.
func (s *SessionRegistry) Issue(ctx context.Context, customerID string) (string, time.Time, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return "", time.Time{}, errors.New("auth: customerID is required")
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   customerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign session token: %w", err)
	}
	s.table.Set(token, customerID, s.ttl)
	return token, expiresAt, nil
}

// Verify resolves a token to a freshly fetched customer record. Absent,
// revoked or expired tokens all report ErrSessionInvalid; an expired entry
// still present in the table is evicted on the way out.
func (s *SessionRegistry) Verify(ctx context.Context, token string) (customer.Record, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return customer.Record{}, ErrSessionInvalid
	}
	stored, ok := s.table.Get(token)
	if !ok {
		return customer.Record{}, ErrSessionInvalid
	}
	customerID, err := s.validate(token)
	if err != nil {
		s.table.Delete(token)
		return customer.Record{}, ErrSessionInvalid
	}
	if storedID, ok := stored.(string); !ok || storedID != customerID {
		s.table.Delete(token)
		return customer.Record{}, ErrSessionInvalid
	}
	rec, err := s.dir.Find(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			s.table.Delete(token)
			return customer.Record{}, ErrSessionInvalid
		}
		return customer.Record{}, err
	}
	return rec, nil
}

// Revoke removes the token mapping, reporting whether anything was removed.
// Revoking an unknown token is a no-op, not an error.
func (s *SessionRegistry) Revoke(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	if _, ok := s.table.Get(token); !ok {
		return false
	}
	s.table.Delete(token)
	return true
}

// validate checks signature, issuer and timestamps and returns the subject.
func (s *SessionRegistry) validate(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrSessionInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }))
	if err != nil {
		return "", ErrSessionInvalid
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", ErrSessionInvalid
	}
	if claims.Issuer != s.issuer {
		return "", ErrSessionInvalid
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrSessionInvalid
	}
	return subject, nil
}
