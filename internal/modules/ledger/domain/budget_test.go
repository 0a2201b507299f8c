package domain_test

import (
	"testing"

	"profithopper/internal/modules/ledger/domain"
)

func TestRemainingSessionsFloorsAtOne(t *testing.T) {
	t.Parallel()
	cases := []struct{ planned, completed, want int }{
		{10, 0, 10},
		{3, 2, 1},
		{3, 3, 1},
		{3, 7, 1},
		{0, 0, 1},
	}
	for _, c := range cases {
		if got := domain.RemainingSessions(c.planned, c.completed); got != c.want {
			t.Fatalf("planned=%d completed=%d: expected %d, got %d", c.planned, c.completed, c.want, got)
		}
	}
}

func TestSessionBudgetNeverDividesByZero(t *testing.T) {
	t.Parallel()
	l := newLedger()
	l.StartTrip("Delta Downs", dec("90"), 3, day1)
	for i := 0; i < 3; i++ {
		if _, err := l.RecordSession(day1, "Slots", dec("10"), dec("10"), ""); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	budget, err := l.SessionBudget(2, domain.DefaultBudgetPolicy())
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !budget.Equal(dec("90")) {
		t.Fatalf("expected whole bankroll when no sessions remain, got %s", budget)
	}
}

func TestSessionBudgetSplitsBankroll(t *testing.T) {
	t.Parallel()
	l := newLedger()
	if _, err := l.RecordSession(day1, "Slots", dec("20"), dec("0"), ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	budget, err := l.SessionBudget(1, domain.DefaultBudgetPolicy())
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	// 80 left over 9 sessions
	if got := budget.StringFixed(4); got != "8.8889" {
		t.Fatalf("expected 8.8889, got %s", got)
	}
}

func TestSessionBudgetCap(t *testing.T) {
	t.Parallel()
	l := newLedger()
	l.StartTrip("Coushatta", dec("5000"), 2, day1)

	capped, err := l.SessionBudget(2, domain.DefaultBudgetPolicy())
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !capped.Equal(dec("500")) {
		t.Fatalf("expected cap of 500, got %s", capped)
	}

	uncapped, err := l.SessionBudget(2, domain.BudgetPolicy{})
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !uncapped.Equal(dec("2500")) {
		t.Fatalf("expected 2500 without a cap, got %s", uncapped)
	}

	l.StartTrip("Coushatta", dec("1000"), 1, day1)
	atThreshold, _ := l.SessionBudget(3, domain.DefaultBudgetPolicy())
	if !atThreshold.Equal(dec("1000")) {
		t.Fatalf("cap applies only above the threshold, got %s", atThreshold)
	}
}

func TestSessionBudgetUnknownTrip(t *testing.T) {
	t.Parallel()
	if _, err := newLedger().SessionBudget(7, domain.DefaultBudgetPolicy()); err == nil {
		t.Fatalf("expected error for unknown trip")
	}
}

func TestRiskTierBoundaries(t *testing.T) {
	t.Parallel()
	cases := []struct {
		budget string
		tier   domain.RiskTier
	}{
		{"0", domain.RiskConservative},
		{"19.99", domain.RiskConservative},
		{"20", domain.RiskModerate},
		{"99.99", domain.RiskModerate},
		{"100", domain.RiskStandard},
		{"2500", domain.RiskStandard},
	}
	for _, c := range cases {
		if got := domain.RiskTierFor(dec(c.budget)).Tier; got != c.tier {
			t.Fatalf("budget %s: expected %s, got %s", c.budget, c.tier, got)
		}
	}
}

func TestRiskProfileAmounts(t *testing.T) {
	t.Parallel()
	profile := domain.RiskTierFor(dec("200"))
	if !profile.MaxBet(dec("200")).Equal(dec("50")) {
		t.Fatalf("expected max bet 50, got %s", profile.MaxBet(dec("200")))
	}
	if !profile.StopLoss(dec("200")).Equal(dec("120")) {
		t.Fatalf("expected stop loss 120, got %s", profile.StopLoss(dec("200")))
	}
	small := domain.RiskTierFor(dec("10"))
	if !small.MaxBet(dec("10")).Equal(dec("1")) || !small.BetUnit.Equal(dec("0.25")) {
		t.Fatalf("unexpected conservative profile: %+v", small)
	}
}
