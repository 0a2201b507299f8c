package dto

import (
	"time"

	ledgerdto "profithopper/internal/modules/ledger/dto"
	recommenddto "profithopper/internal/modules/recommend/dto"
)

type SnapshotInput struct {
	Owner    string
	Criteria recommenddto.CriteriaInput
}

// Snapshot is everything one render of the dashboard shows.
type Snapshot struct {
	Trip           ledgerdto.CurrentOutput
	Plan           recommenddto.RecommendOutput
	Sessions       []ledgerdto.SessionOutput
	Summaries      []ledgerdto.TripSummaryOutput
	Games          []ledgerdto.GamePerformanceOutput
	CatalogMessage string
	GeneratedAt    time.Time
}
