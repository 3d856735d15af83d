package domain

import (
	"fmt"

	dErrors "suresavings/pkg/domain-errors"
)

// Tier is a KYC verification level. Tier 0 is the unverified baseline; tiers
// 1..3 are reachable through the verification workflow.
type Tier int

const (
	Tier0 Tier = iota
	Tier1
	Tier2
	Tier3
)

// MinTargetTier and MaxTier bound the tiers a workflow may target.
const (
	MinTargetTier = Tier1
	MaxTier       = Tier3
)

// dailyLimits holds the transaction daily limit per tier, in Naira.
var dailyLimits = map[Tier]int64{
	Tier0: 10_000,
	Tier1: 50_000,
	Tier2: 500_000,
	Tier3: 10_000_000,
}

var tierBenefits = map[Tier][]string{
	Tier1: {"Basic savings plans", "Mobile app access", "Customer support"},
	Tier2: {"Investment opportunities", "Premium support", "Group savings"},
	Tier3: {"All investment products", "VIP support", "Virtual cards", "Exclusive rates"},
}

// ParseTier validates an integer tier in 0..3.
func ParseTier(n int) (Tier, error) {
	t := Tier(n)
	if !t.IsValid() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown tier %d", n))
	}
	return t, nil
}

// IsValid reports whether the tier is in 0..3.
func (t Tier) IsValid() bool {
	_, ok := dailyLimits[t]
	return ok
}

// IsTarget reports whether the tier can be the goal of a verification workflow.
func (t Tier) IsTarget() bool {
	return t >= MinTargetTier && t <= MaxTier
}

// DailyLimit returns the transaction daily limit for the tier. Unknown tiers
// get the unverified limit.
func (t Tier) DailyLimit() int64 {
	if limit, ok := dailyLimits[t]; ok {
		return limit
	}
	return dailyLimits[Tier0]
}

// Benefits lists the features unlocked at the tier.
func (t Tier) Benefits() []string {
	return append([]string(nil), tierBenefits[t]...)
}

func (t Tier) Int() int { return int(t) }

func (t Tier) String() string { return fmt.Sprintf("tier_%d", int(t)) }

// Tiers lists every defined tier in ascending order.
func Tiers() []Tier {
	return []Tier{Tier0, Tier1, Tier2, Tier3}
}
