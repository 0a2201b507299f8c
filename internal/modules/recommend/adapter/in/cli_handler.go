package in

import (
	"context"

	recommenddto "profithopper/internal/modules/recommend/dto"
	recommendin "profithopper/internal/modules/recommend/port/in"
)

type CLIHandler struct {
	usecase recommendin.Usecase
	owner   string
}

func NewCLIHandler(usecase recommendin.Usecase, owner string) CLIHandler {
	return CLIHandler{usecase: usecase, owner: owner}
}

func (h CLIHandler) Recommend(ctx context.Context, criteria recommenddto.CriteriaInput) (recommenddto.RecommendOutput, error) {
	return h.usecase.Recommend(ctx, recommenddto.RecommendInput{Owner: h.owner, Criteria: criteria})
}
