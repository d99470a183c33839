package remittance

import (
	"errors"
	"time"
)

// ErrNotFound reports an unknown remittance reference.
var ErrNotFound = errors.New("remittance: not found")

// Status is the lifecycle state of a remittance.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the remittance can still change state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Type is the transfer rail a remittance travels on.
type Type string

const (
	TypeDomestic      Type = "domestic"
	TypeInternational Type = "international"
	TypeWireTransfer  Type = "wire_transfer"
	TypeACH           Type = "ach"
)

// Details is a single remittance as reported to the relationship manager.
// Money fields are in the currency's minor unit.
type Details struct {
	Reference        string
	CustomerID       string
	AmountMinor      int64
	FeesMinor        int64
	Currency         string
	Sender           string
	Recipient        string
	RecipientBank    string
	RecipientCountry string
	Status           Status
	Type             Type
	Purpose          string
	InitiatedAt      time.Time
	ProcessedAt      *time.Time
	CompletedAt      *time.Time
	FailureReason    string
}

// StatusSummary aggregates a customer's remittances by status.
type StatusSummary struct {
	ByStatus         map[Status]StatusBucket
	TotalAmountMinor int64
	RecentCount      int
}

// StatusBucket is one status slice of a summary.
type StatusBucket struct {
	Count       int
	AmountMinor int64
}
