package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"profithopper/internal/modules/recommend/domain"
	recommendout "profithopper/internal/modules/recommend/port/out"
)

type RecommendService struct {
	games   recommendout.GameSource
	budgets recommendout.BudgetSource
	log     logrus.FieldLogger
}

func NewRecommendService(games recommendout.GameSource, budgets recommendout.BudgetSource, log logrus.FieldLogger) *RecommendService {
	return &RecommendService{games: games, budgets: budgets, log: log}
}

// Recommend filters the catalog, ranks it against the owner's current budget
// and splits it into one game per planned session. When capToMaxBet is set
// and criteria carry no explicit ceiling, games whose minimum bet exceeds
// the max bet are hidden.
func (s *RecommendService) Recommend(ctx context.Context, owner string, criteria domain.Criteria, capToMaxBet bool) (domain.Recommendation, error) {
	budget, err := s.budgets.Budget(ctx, owner)
	if err != nil {
		return domain.Recommendation{}, err
	}
	set, err := s.games.Games(ctx)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if capToMaxBet && !criteria.MaxMinBet.Valid {
		criteria.MaxMinBet.Decimal = budget.MaxBet
		criteria.MaxMinBet.Valid = true
	}
	criteria.Exclude = append(append([]string{}, criteria.Exclude...), budget.Blacklist...)

	filtered := domain.Filter(set.Games, criteria)
	ranked := domain.Rank(filtered, budget.Context())
	plan := domain.Recommend(ranked, budget.PlannedSessions)
	s.log.WithFields(logrus.Fields{
		"owner":   owner,
		"trip_id": budget.TripID,
		"catalog": len(set.Games),
		"matches": len(filtered),
		"budget":  budget.SessionBudget.StringFixed(2),
	}).Debug("games ranked")
	return domain.Recommendation{
		Budget:   budget,
		Catalog:  set,
		Criteria: criteria,
		Matches:  len(filtered),
		Plan:     plan,
	}, nil
}
