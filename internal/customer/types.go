package customer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("customer: not found")
	ErrInvalidInput = errors.New("customer: invalid input")
)

// Tier is the entitlement class of a customer. Tiers are strictly ordered:
// every tier is allowed at least what the tier below it is allowed.
type Tier string

const (
	TierRegular       Tier = "regular"
	TierPremium       Tier = "premium"
	TierHighNetWorth  Tier = "hni"
	TierVeryImportant Tier = "vip"
)

// Rank returns the position of the tier in the entitlement order, lowest first.
// Unknown tiers rank below every known tier.
func (t Tier) Rank() int {
	switch t {
	case TierRegular:
		return 0
	case TierPremium:
		return 1
	case TierHighNetWorth:
		return 2
	case TierVeryImportant:
		return 3
	default:
		return -1
	}
}

// Tiers lists all tiers in ascending entitlement order.
func Tiers() []Tier {
	return []Tier{TierRegular, TierPremium, TierHighNetWorth, TierVeryImportant}
}

// ParseTier normalizes and validates a tier string.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.TrimSpace(strings.ToLower(s)))
	if t.Rank() < 0 {
		return "", fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, s)
	}
	return t, nil
}

// Status is the lifecycle state of a customer account.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusFrozen    Status = "frozen"
	StatusClosed    Status = "closed"
)

// CanAuthenticate reports whether the account state permits credential login.
// Only Active does.
func (s Status) CanAuthenticate() bool {
	switch s {
	case StatusActive:
		return true
	case StatusSuspended, StatusFrozen, StatusClosed:
		return false
	default:
		return false
	}
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(strings.ToLower(s)))
	switch st {
	case StatusActive, StatusSuspended, StatusFrozen, StatusClosed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
}

// Record is a customer as the directory stores it. The credential hash is
// opaque to this package; only the verifier interprets it.
type Record struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Tier           Tier       `json:"tier"`
	Status         Status     `json:"status"`
	CredentialHash string     `json:"-"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	FailedAttempts int        `json:"-"`
	LockedUntil    *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Locked reports whether the record is inside its lockout window at now.
func (r Record) Locked(now time.Time) bool {
	return r.LockedUntil != nil && now.Before(*r.LockedUntil)
}

// ProfileUpdate carries the fields a profile edit may change. Nil means
// "leave unchanged". Each set field is validated on its own.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Phone  *string
	Tier   *Tier
	Status *Status
}

// Normalize trims and validates every set field in place.
func (u *ProfileUpdate) Normalize() error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		u.Name = &name
	}
	if u.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*u.Email))
		if email == "" || !strings.Contains(email, "@") {
			return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
		}
		u.Email = &email
	}
	if u.Phone != nil {
		phone := strings.TrimSpace(*u.Phone)
		if phone == "" {
			return fmt.Errorf("%w: phone is required", ErrInvalidInput)
		}
		u.Phone = &phone
	}
	if u.Tier != nil {
		tier, err := ParseTier(string(*u.Tier))
		if err != nil {
			return err
		}
		u.Tier = &tier
	}
	if u.Status != nil {
		status, err := ParseStatus(string(*u.Status))
		if err != nil {
			return err
		}
		u.Status = &status
	}
	return nil
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Tier == nil && u.Status == nil
}
