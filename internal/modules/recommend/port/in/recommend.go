package in

import (
	"context"

	"profithopper/internal/modules/recommend/dto"
)

type Usecase interface {
	Recommend(ctx context.Context, input dto.RecommendInput) (dto.RecommendOutput, error)
}
