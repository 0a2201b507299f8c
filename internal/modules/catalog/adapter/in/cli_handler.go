package in

import (
	"context"

	catalogdto "profithopper/internal/modules/catalog/dto"
	catalogin "profithopper/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context) (catalogdto.CatalogOutput, error) {
	return h.usecase.Reload(ctx)
}

func (h CLIHandler) Load(ctx context.Context) (catalogdto.CatalogOutput, error) {
	return h.usecase.Load(ctx)
}
