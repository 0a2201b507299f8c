package domain

import (
	"github.com/shopspring/decimal"
)

// BudgetPolicy caps the per-session budget once a bankroll grows past a
// threshold. A zero policy applies no cap.
type BudgetPolicy struct {
	CapEnabled   bool
	CapThreshold decimal.Decimal
	CapAmount    decimal.Decimal
}

// DefaultBudgetPolicy caps sessions at 500 once the bankroll exceeds 1000.
func DefaultBudgetPolicy() BudgetPolicy {
	return BudgetPolicy{
		CapEnabled:   true,
		CapThreshold: decimal.NewFromInt(1000),
		CapAmount:    decimal.NewFromInt(500),
	}
}

func (p BudgetPolicy) apply(bankroll, proportional decimal.Decimal) decimal.Decimal {
	if !p.CapEnabled {
		return proportional
	}
	if bankroll.GreaterThan(p.CapThreshold) && proportional.GreaterThan(p.CapAmount) {
		return p.CapAmount
	}
	return proportional
}

// RemainingSessions is planned minus completed, floored at 1.
func RemainingSessions(planned, completed int) int {
	remaining := planned - completed
	if remaining < 1 {
		return 1
	}
	return remaining
}

// SessionBudget splits the current bankroll over the remaining sessions.
func (l *Ledger) SessionBudget(tripID int, policy BudgetPolicy) (decimal.Decimal, error) {
	trip, err := l.Trip(tripID)
	if err != nil {
		return decimal.Zero, err
	}
	bankroll, err := l.CurrentBankroll(tripID)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := RemainingSessions(trip.PlannedSessions, len(l.TripSessions(tripID)))
	proportional := bankroll.Div(decimal.NewFromInt(int64(remaining)))
	return policy.apply(bankroll, proportional), nil
}

type RiskTier string

const (
	RiskConservative RiskTier = "Conservative"
	RiskModerate     RiskTier = "Moderate"
	RiskStandard     RiskTier = "Standard"
)

var (
	moderateFloor = decimal.NewFromInt(20)
	standardFloor = decimal.NewFromInt(100)
)

// RiskProfile holds the betting fractions of a tier.
type RiskProfile struct {
	Tier             RiskTier
	MaxBetFraction   decimal.Decimal
	StopLossFraction decimal.Decimal
	BetUnit          decimal.Decimal
}

var riskProfiles = map[RiskTier]RiskProfile{
	RiskConservative: {
		Tier:             RiskConservative,
		MaxBetFraction:   decimal.RequireFromString("0.10"),
		StopLossFraction: decimal.RequireFromString("0.40"),
		BetUnit:          decimal.RequireFromString("0.25"),
	},
	RiskModerate: {
		Tier:             RiskModerate,
		MaxBetFraction:   decimal.RequireFromString("0.15"),
		StopLossFraction: decimal.RequireFromString("0.50"),
		BetUnit:          decimal.NewFromInt(1),
	},
	RiskStandard: {
		Tier:             RiskStandard,
		MaxBetFraction:   decimal.RequireFromString("0.25"),
		StopLossFraction: decimal.RequireFromString("0.60"),
		BetUnit:          decimal.NewFromInt(5),
	},
}

// RiskTierFor maps a session budget onto a tier: below 20 Conservative,
// below 100 Moderate, otherwise Standard.
func RiskTierFor(budget decimal.Decimal) RiskProfile {
	switch {
	case budget.LessThan(moderateFloor):
		return riskProfiles[RiskConservative]
	case budget.LessThan(standardFloor):
		return riskProfiles[RiskModerate]
	default:
		return riskProfiles[RiskStandard]
	}
}

func (p RiskProfile) MaxBet(budget decimal.Decimal) decimal.Decimal {
	return budget.Mul(p.MaxBetFraction)
}

func (p RiskProfile) StopLoss(budget decimal.Decimal) decimal.Decimal {
	return budget.Mul(p.StopLossFraction)
}
