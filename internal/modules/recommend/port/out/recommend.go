package out

import (
	"context"

	"profithopper/internal/modules/recommend/domain"
)

type GameSource interface {
	Games(ctx context.Context) (domain.GameSet, error)
}

type BudgetSource interface {
	Budget(ctx context.Context, owner string) (domain.Budget, error)
}
