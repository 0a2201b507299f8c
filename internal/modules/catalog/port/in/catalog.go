package in

import (
	"context"

	"profithopper/internal/modules/catalog/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.CatalogOutput, error)
	Reload(ctx context.Context) (dto.CatalogOutput, error)
}
