package out

import (
	"context"
	"io"

	"profithopper/internal/modules/ledger/domain"
)

// LedgerStore hands out one ledger per owner and serialises access to it.
type LedgerStore interface {
	With(ctx context.Context, owner string, fn func(*domain.Ledger) error) error
}

// TripProjector maintains a queryable read model of recorded sessions.
type TripProjector interface {
	AppendSession(ctx context.Context, owner string, session domain.Session) error
	PurgeTrip(ctx context.Context, owner string, tripID int) error
	GamePerformance(ctx context.Context, owner string, tripID int) ([]domain.GamePerformance, error)
}

type SessionExporter interface {
	ExportSessions(w io.Writer, sessions []domain.Session) error
	ExportSummaries(w io.Writer, summaries []domain.TripSummary) error
}

type ReportRenderer interface {
	Render(report domain.TripReport) (string, error)
}
