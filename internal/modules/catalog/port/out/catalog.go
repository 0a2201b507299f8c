package out

import (
	"context"

	"profithopper/internal/modules/catalog/domain"
)

// Fetcher retrieves the raw catalog bytes from a URL or a local path.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Parser turns raw CSV into validated games and reports how many rows it dropped.
type Parser interface {
	Parse(raw []byte) ([]domain.Game, int, error)
}

type Cache interface {
	Get(source string) (domain.Catalog, bool)
	Set(catalog domain.Catalog)
	Flush()
}
