package in

import (
	"context"

	"profithopper/internal/modules/dashboard/dto"
)

type Usecase interface {
	Snapshot(ctx context.Context, input dto.SnapshotInput) (dto.Snapshot, error)
}
