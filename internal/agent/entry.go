package agent

import (
	"time"

	"rmdesk.org/internal/auth"
	"rmdesk.org/internal/intent"
)

// Entry is one processed query. Entries are append-only: once recorded they
// are never mutated, and callers always receive copies.
type Entry struct {
	ID             string              `json:"id"`
	Query          string              `json:"query"`
	Intent         intent.Label        `json:"intent"`
	Supported      bool                `json:"supported"`
	CustomerID     string              `json:"customer_id,omitempty"`
	Response       string              `json:"response"`
	Classification auth.Classification `json:"error,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
}

// Rejected reports whether the entry is an authentication rejection.
func (e Entry) Rejected() bool {
	switch e.Classification {
	case auth.ClassCustomerNotFound, auth.ClassAccountLocked,
		auth.ClassAccountNotActive, auth.ClassInvalidCredentials,
		auth.ClassSessionInvalid:
		return true
	default:
		return false
	}
}

// Stats aggregates the ledger. All values are derived by scanning the
// entries, so they are always consistent with the ledger's contents.
type Stats struct {
	Total       int                  `json:"total_queries"`
	Supported   int                  `json:"supported_queries"`
	Unsupported int                  `json:"unsupported_queries"`
	ByIntent    map[intent.Label]int `json:"intent_frequency"`
}
