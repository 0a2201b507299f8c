package in

import (
	"context"

	"profithopper/internal/modules/ledger/dto"
)

type Usecase interface {
	StartTrip(ctx context.Context, input dto.StartTripInput) (dto.StartTripOutput, error)
	RecordSession(ctx context.Context, input dto.RecordSessionInput) (dto.SessionOutput, error)
	EndTrip(ctx context.Context, input dto.EndTripInput) (dto.EndTripOutput, error)
	UpdateSettings(ctx context.Context, input dto.UpdateSettingsInput) (dto.CurrentOutput, error)
	AddCasino(ctx context.Context, input dto.AddCasinoInput) ([]string, error)
	BlacklistGame(ctx context.Context, input dto.BlacklistInput) ([]string, error)
	Current(ctx context.Context, owner string) (dto.CurrentOutput, error)
	Sessions(ctx context.Context, input dto.SessionsInput) ([]dto.SessionOutput, error)
	Summaries(ctx context.Context, owner string) ([]dto.TripSummaryOutput, error)
	GamePerformance(ctx context.Context, owner string) ([]dto.GamePerformanceOutput, error)
	Overview(ctx context.Context, owner string) (dto.OverviewOutput, error)
	ExportSessionsCSV(ctx context.Context, owner string) (dto.ExportOutput, error)
	ExportSummariesCSV(ctx context.Context, owner string) (dto.ExportOutput, error)
	ExportReport(ctx context.Context, owner string) (dto.ExportOutput, error)
}
