package in

import (
	"context"

	"profithopper/internal/modules/dashboard/dto"
	dashboardin "profithopper/internal/modules/dashboard/port/in"
	recommenddto "profithopper/internal/modules/recommend/dto"
)

// TUIHandler serves snapshots for one fixed owner.
type TUIHandler struct {
	usecase dashboardin.Usecase
	owner   string
}

func NewTUIHandler(usecase dashboardin.Usecase, owner string) TUIHandler {
	return TUIHandler{usecase: usecase, owner: owner}
}

func (h TUIHandler) Snapshot(ctx context.Context, criteria recommenddto.CriteriaInput) (dto.Snapshot, error) {
	return h.usecase.Snapshot(ctx, dto.SnapshotInput{Owner: h.owner, Criteria: criteria})
}
