package usecase

import (
	"context"

	"profithopper/internal/modules/catalog/domain"
	catalogdto "profithopper/internal/modules/catalog/dto"
	catalogin "profithopper/internal/modules/catalog/port/in"
	"profithopper/internal/modules/catalog/service"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

// Load degrades to an empty, unavailable catalog when the source cannot be
// fetched or parsed. Only a cancelled caller context is returned as an error.
func (i *Interactor) Load(ctx context.Context) (catalogdto.CatalogOutput, error) {
	catalog, err := i.svc.Load(ctx)
	return i.output(ctx, catalog, err)
}

func (i *Interactor) Reload(ctx context.Context) (catalogdto.CatalogOutput, error) {
	catalog, err := i.svc.Reload(ctx)
	return i.output(ctx, catalog, err)
}

func (i *Interactor) output(ctx context.Context, catalog domain.Catalog, err error) (catalogdto.CatalogOutput, error) {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return catalogdto.CatalogOutput{}, ctxErr
		}
		return catalogdto.CatalogOutput{
			Source:  i.svc.Source(),
			Games:   []catalogdto.GameOutput{},
			Types:   []string{},
			Message: "Unable to load game list: " + err.Error(),
		}, nil
	}
	games := make([]catalogdto.GameOutput, 0, len(catalog.Games))
	for _, g := range catalog.Games {
		games = append(games, catalogdto.GameOutput{
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
	out := catalogdto.CatalogOutput{
		Source:    catalog.Source,
		Games:     games,
		Types:     domain.Types(catalog.Games),
		Available: true,
		Dropped:   catalog.Dropped,
		LoadedAt:  catalog.LoadedAt,
	}
	if len(games) == 0 {
		out.Message = "The game list is empty."
	}
	return out, nil
}
