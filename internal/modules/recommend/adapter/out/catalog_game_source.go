package out

import (
	"context"

	catalogin "profithopper/internal/modules/catalog/port/in"
	"profithopper/internal/modules/recommend/domain"
	recommendout "profithopper/internal/modules/recommend/port/out"
)

type CatalogGameSource struct {
	catalog catalogin.Usecase
}

func NewCatalogGameSource(catalog catalogin.Usecase) recommendout.GameSource {
	return &CatalogGameSource{catalog: catalog}
}

func (a *CatalogGameSource) Games(ctx context.Context) (domain.GameSet, error) {
	out, err := a.catalog.Load(ctx)
	if err != nil {
		return domain.GameSet{}, err
	}
	games := make([]domain.Game, 0, len(out.Games))
	for _, g := range out.Games {
		games = append(games, domain.Game{
			Name:               g.Name,
			Type:               g.Type,
			RTP:                g.RTP,
			MinBet:             g.MinBet,
			Volatility:         g.Volatility,
			AdvantagePotential: g.AdvantagePotential,
			BonusFrequency:     g.BonusFrequency,
			Tip:                g.Tip,
		})
	}
	return domain.GameSet{Games: games, Types: out.Types, Available: out.Available, Message: out.Message}, nil
}
