package out

import (
	"context"

	ledgerin "profithopper/internal/modules/ledger/port/in"
	"profithopper/internal/modules/recommend/domain"
	recommendout "profithopper/internal/modules/recommend/port/out"
)

type LedgerBudgetSource struct {
	ledger ledgerin.Usecase
}

func NewLedgerBudgetSource(ledger ledgerin.Usecase) recommendout.BudgetSource {
	return &LedgerBudgetSource{ledger: ledger}
}

func (a *LedgerBudgetSource) Budget(ctx context.Context, owner string) (domain.Budget, error) {
	cur, err := a.ledger.Current(ctx, owner)
	if err != nil {
		return domain.Budget{}, err
	}
	return domain.Budget{
		TripID:          cur.TripID,
		PlannedSessions: cur.PlannedSessions,
		SessionBudget:   cur.SessionBudget,
		MaxBet:          cur.MaxBet,
		Blacklist:       cur.Blacklist,
	}, nil
}
