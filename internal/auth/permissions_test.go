package auth

import (
	"testing"

	"rmdesk.org/internal/customer"
	"rmdesk.org/internal/intent"
)

func TestAllowedPerTier(t *testing.T) {
	cases := []struct {
		tier       customer.Tier
		capability intent.Label
		want       bool
	}{
		{customer.TierRegular, intent.AccountBalance, true},
		{customer.TierRegular, intent.TransactionHistory, true},
		{customer.TierRegular, intent.GeneralBanking, true},
		{customer.TierRegular, intent.RemittanceStatus, false},
		{customer.TierRegular, intent.CardServices, false},
		{customer.TierPremium, intent.CardServices, true},
		{customer.TierPremium, intent.InvestmentQuery, true},
		{customer.TierPremium, intent.RemittanceStatus, false},
		{customer.TierHighNetWorth, intent.RemittanceStatus, true},
		{customer.TierHighNetWorth, intent.LoanInquiry, false},
		{customer.TierVeryImportant, intent.RemittanceStatus, true},
		{customer.TierVeryImportant, intent.LoanInquiry, true},
	}
	for _, tc := range cases {
		if got := Allowed(tc.tier, tc.capability); got != tc.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tc.tier, tc.capability, got, tc.want)
		}
	}
}

func TestAllowedFailsClosed(t *testing.T) {
	if Allowed(customer.Tier("platinum"), intent.AccountBalance) {
		t.Error("unknown tier must not be granted anything")
	}
	if Allowed(customer.TierVeryImportant, intent.OutOfScope) {
		t.Error("out-of-scope is never a capability")
	}
	if Allowed(customer.TierVeryImportant, intent.Label("MADE_UP")) {
		t.Error("unknown capability must be denied")
	}
}

func TestCapabilitiesGrowWithRank(t *testing.T) {
	tiers := customer.Tiers()
	prev := map[intent.Label]bool{}
	for _, tier := range tiers {
		caps := Capabilities(tier)
		seen := map[intent.Label]bool{}
		for _, c := range caps {
			seen[c] = true
		}
		for c := range prev {
			if !seen[c] {
				t.Errorf("tier %s lost capability %s held by a lower tier", tier, c)
			}
		}
		if len(seen) <= len(prev) && tier != tiers[0] {
			t.Errorf("tier %s adds no capabilities over the previous tier", tier)
		}
		prev = seen
	}
}

func TestCapabilitiesSorted(t *testing.T) {
	caps := Capabilities(customer.TierVeryImportant)
	for i := 1; i < len(caps); i++ {
		if caps[i-1] >= caps[i] {
			t.Fatalf("capabilities out of order at %d: %v", i, caps)
		}
	}
}
