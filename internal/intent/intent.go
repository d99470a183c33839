package intent

import "strings"

// Label is one entry of the closed intent vocabulary. The resolver boundary
// guarantees that whatever comes back is a member; anything it cannot place
// lands on OutOfScope.
type Label string

const (
	RemittanceStatus   Label = "REMITTANCE_STATUS"
	AccountBalance     Label = "ACCOUNT_BALANCE"
	TransactionHistory Label = "TRANSACTION_HISTORY"
	InvestmentQuery    Label = "INVESTMENT_QUERY"
	LoanInquiry        Label = "LOAN_INQUIRY"
	CardServices       Label = "CARD_SERVICES"
	GeneralBanking     Label = "GENERAL_BANKING"
	OutOfScope         Label = "OUT_OF_SCOPE"
)

// Vocabulary lists every label, OutOfScope last.
func Vocabulary() []Label {
	return []Label{
		RemittanceStatus, AccountBalance, TransactionHistory,
		InvestmentQuery, LoanInquiry, CardServices,
		GeneralBanking, OutOfScope,
	}
}

// Known reports vocabulary membership.
func (l Label) Known() bool {
	switch l {
	case RemittanceStatus, AccountBalance, TransactionHistory,
		InvestmentQuery, LoanInquiry, CardServices,
		GeneralBanking, OutOfScope:
		return true
	default:
		return false
	}
}

// Parse normalizes a raw classification string to a vocabulary member,
// falling back to OutOfScope for anything unrecognized.
func Parse(s string) Label {
	s = strings.Trim(strings.TrimSpace(s), ".\"'`")
	l := Label(strings.ToUpper(s))
	if l.Known() {
		return l
	}
	return OutOfScope
}

// DefaultSupported is the subset eligible for automated fulfillment when the
// configuration does not override it.
func DefaultSupported() []Label {
	return []Label{RemittanceStatus, AccountBalance, TransactionHistory, GeneralBanking}
}

// Set is a membership lookup over labels.
type Set map[Label]struct{}

// NewSet builds a Set from labels, dropping anything outside the vocabulary.
func NewSet(labels ...Label) Set {
	s := make(Set, len(labels))
	for _, l := range labels {
		if l.Known() {
			s[l] = struct{}{}
		}
	}
	return s
}

// Contains reports membership. OutOfScope is never supported.
func (s Set) Contains(l Label) bool {
	if l == OutOfScope {
		return false
	}
	_, ok := s[l]
	return ok
}
