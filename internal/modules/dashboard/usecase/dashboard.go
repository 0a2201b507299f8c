package usecase

import (
	"context"

	dashboarddto "profithopper/internal/modules/dashboard/dto"
	dashboardin "profithopper/internal/modules/dashboard/port/in"
	ledgerdto "profithopper/internal/modules/ledger/dto"
	ledgerin "profithopper/internal/modules/ledger/port/in"
	recommenddto "profithopper/internal/modules/recommend/dto"
	recommendin "profithopper/internal/modules/recommend/port/in"
	"profithopper/internal/platform/clock"
)

type Interactor struct {
	clock     clock.Clock
	ledger    ledgerin.Usecase
	recommend recommendin.Usecase
}

func NewInteractor(clock clock.Clock, ledger ledgerin.Usecase, recommend recommendin.Usecase) dashboardin.Usecase {
	return &Interactor{clock: clock, ledger: ledger, recommend: recommend}
}

// snapshotAttempts bounds how often Snapshot rereads when a write lands
// between the ledger read and the game plan.
const snapshotAttempts = 3

// Snapshot recomputes every derived value for one owner. Presentations call
// it after each mutation. The ledger parts come from one locked read; the
// plan is recomputed until it agrees with that read on trip and budget.
func (i *Interactor) Snapshot(ctx context.Context, input dashboarddto.SnapshotInput) (dashboarddto.Snapshot, error) {
	var (
		overview ledgerdto.OverviewOutput
		plan     recommenddto.RecommendOutput
	)
	for attempt := 0; attempt < snapshotAttempts; attempt++ {
		var err error
		overview, err = i.ledger.Overview(ctx, input.Owner)
		if err != nil {
			return dashboarddto.Snapshot{}, err
		}
		plan, err = i.recommend.Recommend(ctx, recommenddto.RecommendInput{Owner: input.Owner, Criteria: input.Criteria})
		if err != nil {
			return dashboarddto.Snapshot{}, err
		}
		if planMatches(plan, overview.Current) {
			break
		}
	}
	snap := dashboarddto.Snapshot{
		Trip:        overview.Current,
		Plan:        plan,
		Sessions:    overview.Sessions,
		Summaries:   overview.Summaries,
		Games:       overview.Games,
		GeneratedAt: i.clock.Now(),
	}
	if !plan.CatalogAvailable {
		snap.CatalogMessage = plan.Message
	}
	return snap, nil
}

func planMatches(plan recommenddto.RecommendOutput, trip ledgerdto.CurrentOutput) bool {
	return plan.TripID == trip.TripID && plan.SessionBudget.Equal(trip.SessionBudget)
}
