package intent

import (
	"context"
	"strings"
)

// Resolver classifies raw query text into the closed vocabulary.
//
// Implementations must degrade rather than fail: when classification is not
// possible they return OutOfScope with a nil error whenever they can, and the
// orchestrator additionally absorbs any error into OutOfScope.
type Resolver interface {
	Classify(ctx context.Context, text string) (Label, error)
}

// RuleResolver is a deterministic keyword classifier. It is the default
// resolver when no language-model key is configured and the fixture resolver
// for tests; the phrase table mirrors the categories the model prompt names.
type RuleResolver struct{}

var _ Resolver = RuleResolver{}

// ruleTable is ordered: the first matching rule wins, so more specific
// banking phrases sit above generic ones.
var ruleTable = []struct {
	label   Label
	phrases []string
}{
	{RemittanceStatus, []string{"remittance", "transfer status", "wire status", "payment tracking", "track my payment"}},
	{AccountBalance, []string{"balance", "how much money", "available amount"}},
	{TransactionHistory, []string{"transaction", "history", "statement", "recent activity", "past payments"}},
	{InvestmentQuery, []string{"invest", "portfolio", "mutual fund", "stocks", "bonds"}},
	{LoanInquiry, []string{"loan", "credit line", "borrow", "mortgage", "emi"}},
	{CardServices, []string{"card", "debit", "credit card", "pin change", "block my card"}},
	{GeneralBanking, []string{"branch", "working hours", "contact", "ifsc", "swift", "bank", "account"}},
}

func (RuleResolver) Classify(ctx context.Context, text string) (Label, error) {
	if err := ctx.Err(); err != nil {
		return OutOfScope, err
	}
	q := strings.ToLower(text)
	for _, rule := range ruleTable {
		for _, phrase := range rule.phrases {
			if strings.Contains(q, phrase) {
				return rule.label, nil
			}
		}
	}
	return OutOfScope, nil
}
