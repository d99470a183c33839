package auth

import (
	"sort"

	"rmdesk.org/internal/customer"
	"rmdesk.org/internal/intent"
)

// tierAdditions returns the capabilities a tier adds on top of the tier below
// it. The switch is exhaustive over the tier variants so a new tier cannot be
// introduced without deciding its entitlements here.
func tierAdditions(t customer.Tier) []intent.Label {
	switch t {
	case customer.TierRegular:
		return []intent.Label{intent.AccountBalance, intent.TransactionHistory, intent.GeneralBanking}
	case customer.TierPremium:
		return []intent.Label{intent.CardServices, intent.InvestmentQuery}
	case customer.TierHighNetWorth:
		return []intent.Label{intent.RemittanceStatus}
	case customer.TierVeryImportant:
		return []intent.Label{intent.LoanInquiry}
	default:
		return nil
	}
}

// matrix maps each tier to its full capability set. Built cumulatively in
// tier order, so monotonicity (Regular ⊂ Premium ⊂ HighNetWorth ⊂
// VeryImportant) holds by construction.
var matrix = buildMatrix()

func buildMatrix() map[customer.Tier]intent.Set {
	m := make(map[customer.Tier]intent.Set, 4)
	acc := intent.Set{}
	for _, tier := range customer.Tiers() {
		for _, capability := range tierAdditions(tier) {
			acc[capability] = struct{}{}
		}
		tierSet := make(intent.Set, len(acc))
		for capability := range acc {
			tierSet[capability] = struct{}{}
		}
		m[tier] = tierSet
	}
	return m
}

// Allowed reports whether a tier may invoke a capability. Unknown tiers and
// unknown capabilities are denied.
func Allowed(tier customer.Tier, capability intent.Label) bool {
	set, ok := matrix[tier]
	if !ok {
		return false
	}
	return set.Contains(capability)
}

// Capabilities returns the sorted capability list for a tier, for diagnostics.
func Capabilities(tier customer.Tier) []intent.Label {
	set, ok := matrix[tier]
	if !ok {
		return nil
	}
	out := make([]intent.Label, 0, len(set))
	for capability := range set {
		out = append(out, capability)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
