package auth

import "errors"

// Authentication failure taxonomy. Each path through the verifier and session
// registry maps to exactly one of these, and each carries a stable
// classification string the caller-facing result object can surface.
var (
	ErrCustomerNotFound   = errors.New("auth: customer not found")
	ErrAccountLocked      = errors.New("auth: account temporarily locked")
	ErrAccountNotActive   = errors.New("auth: account not active")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrSessionInvalid     = errors.New("auth: invalid or expired session")
	ErrPermissionDenied   = errors.New("auth: permission denied")
)

// Classification is the wire-stable name of a failure, used in results,
// audit events and metrics.
type Classification string

const (
	ClassNone               Classification = ""
	ClassCustomerNotFound   Classification = "customer_not_found"
	ClassAccountLocked      Classification = "account_locked"
	ClassAccountNotActive   Classification = "account_not_active"
	ClassInvalidCredentials Classification = "invalid_credentials"
	ClassSessionInvalid     Classification = "session_invalid"
	ClassPermissionDenied   Classification = "permission_denied"
	ClassFulfillmentFailure Classification = "fulfillment_failure"
)

// Classify maps a failure from this package to its classification.
// Unknown errors classify as empty.
func Classify(err error) Classification {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrCustomerNotFound):
		return ClassCustomerNotFound
	case errors.Is(err, ErrAccountLocked):
		return ClassAccountLocked
	case errors.Is(err, ErrAccountNotActive):
		return ClassAccountNotActive
	case errors.Is(err, ErrInvalidCredentials):
		return ClassInvalidCredentials
	case errors.Is(err, ErrSessionInvalid):
		return ClassSessionInvalid
	case errors.Is(err, ErrPermissionDenied):
		return ClassPermissionDenied
	default:
		return ClassNone
	}
}
