package usecase

import (
	"context"

	"profithopper/internal/modules/recommend/domain"
	recommenddto "profithopper/internal/modules/recommend/dto"
	recommendin "profithopper/internal/modules/recommend/port/in"
	"profithopper/internal/modules/recommend/service"
)

const noMatchesMessage = "No games match your current filters. Try adjusting your criteria."

type Interactor struct {
	svc *service.RecommendService
}

func NewInteractor(svc *service.RecommendService) recommendin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Recommend(ctx context.Context, input recommenddto.RecommendInput) (recommenddto.RecommendOutput, error) {
	c := input.Criteria
	criteria := domain.Criteria{
		MinRTP:     c.MinRTP,
		MaxMinBet:  c.MaxMinBet,
		GameType:   c.GameType,
		Advantage:  domain.ParseTier(c.Advantage),
		Volatility: domain.ParseTier(c.Volatility),
		Search:     c.Search,
	}
	rec, err := i.svc.Recommend(ctx, input.Owner, criteria, c.CapToMaxBet)
	if err != nil {
		return recommenddto.RecommendOutput{}, err
	}

	out := recommenddto.RecommendOutput{
		TripID:           rec.Budget.TripID,
		SessionBudget:    rec.Budget.SessionBudget,
		MaxBet:           rec.Budget.MaxBet,
		MinRTP:           rec.Criteria.MinRTP,
		MaxMinBet:        rec.Criteria.MaxMinBet,
		Primary:          make([]recommenddto.ScoredGameOutput, 0, len(rec.Plan.Primary)),
		Overflow:         make([]recommenddto.ScoredGameOutput, 0, len(rec.Plan.Overflow)),
		Matches:          rec.Matches,
		CatalogSize:      len(rec.Catalog.Games),
		Types:            rec.Catalog.Types,
		CatalogAvailable: rec.Catalog.Available,
		Message:          rec.Catalog.Message,
	}
	for idx, s := range rec.Plan.Primary {
		out.Primary = append(out.Primary, toOutput(s, idx+1, idx+1))
	}
	for idx, s := range rec.Plan.Overflow {
		out.Overflow = append(out.Overflow, toOutput(s, len(rec.Plan.Primary)+idx+1, 0))
	}
	if out.Message == "" && rec.Matches == 0 {
		out.Message = noMatchesMessage
	}
	return out, nil
}

func toOutput(s domain.Scored, rank, session int) recommenddto.ScoredGameOutput {
	g := s.Game
	return recommenddto.ScoredGameOutput{
		Rank:               rank,
		Session:            session,
		Name:               g.Name,
		Type:               g.Type,
		RTP:                g.RTP,
		MinBet:             g.MinBet,
		Volatility:         g.Volatility,
		AdvantagePotential: g.AdvantagePotential,
		BonusFrequency:     g.BonusFrequency,
		Tip:                g.Tip,
		Score:              s.Score,
		AdvantageLabel:     domain.AdvantageLabel(g.AdvantagePotential),
		VolatilityLabel:    domain.VolatilityLabel(g.Volatility),
		BonusLabel:         domain.BonusLabel(g.BonusFrequency),
	}
}
