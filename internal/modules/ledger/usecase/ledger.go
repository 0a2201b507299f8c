package usecase

import (
	"context"
	"fmt"
	"strings"

	"profithopper/internal/modules/ledger/domain"
	ledgerdto "profithopper/internal/modules/ledger/dto"
	ledgerin "profithopper/internal/modules/ledger/port/in"
	"profithopper/internal/modules/ledger/service"
	apperrors "profithopper/internal/platform/errors"
	"profithopper/internal/platform/slug"
)

type Interactor struct {
	svc *service.LedgerService
}

func NewInteractor(svc *service.LedgerService) ledgerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) StartTrip(ctx context.Context, input ledgerdto.StartTripInput) (ledgerdto.StartTripOutput, error) {
	casino := strings.TrimSpace(input.Casino)
	if casino == "" {
		return ledgerdto.StartTripOutput{}, fmt.Errorf("casino is required: %w", apperrors.ErrInvalidInput)
	}
	if err := validateSettings(input.StartingBankroll.IsNegative(), input.PlannedSessions); err != nil {
		return ledgerdto.StartTripOutput{}, err
	}
	trip, err := i.svc.StartTrip(ctx, input.Owner, domain.TripSettings{
		Casino:           casino,
		StartingBankroll: input.StartingBankroll,
		PlannedSessions:  input.PlannedSessions,
	})
	if err != nil {
		return ledgerdto.StartTripOutput{}, err
	}
	return ledgerdto.StartTripOutput{TripID: trip.ID, Casino: trip.Casino, StartedAt: trip.StartedAt}, nil
}

func (i *Interactor) RecordSession(ctx context.Context, input ledgerdto.RecordSessionInput) (ledgerdto.SessionOutput, error) {
	date := input.Date
	if date.IsZero() {
		date = i.svc.Now()
	}
	session, err := i.svc.RecordSession(ctx, input.Owner, date, input.Game, input.MoneyIn, input.MoneyOut, strings.TrimSpace(input.Notes))
	if err != nil {
		return ledgerdto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) EndTrip(ctx context.Context, input ledgerdto.EndTripInput) (ledgerdto.EndTripOutput, error) {
	if input.TripID < 0 {
		return ledgerdto.EndTripOutput{}, fmt.Errorf("trip id must be positive: %w", apperrors.ErrInvalidInput)
	}
	ended, current, discarded, err := i.svc.EndTrip(ctx, input.Owner, input.TripID)
	if err != nil {
		return ledgerdto.EndTripOutput{}, err
	}
	return ledgerdto.EndTripOutput{EndedTripID: ended, CurrentTripID: current, Discarded: discarded}, nil
}

func (i *Interactor) UpdateSettings(ctx context.Context, input ledgerdto.UpdateSettingsInput) (ledgerdto.CurrentOutput, error) {
	if err := validateSettings(input.StartingBankroll.IsNegative(), input.PlannedSessions); err != nil {
		return ledgerdto.CurrentOutput{}, err
	}
	if err := i.svc.UpdateSettings(ctx, input.Owner, input.StartingBankroll, input.PlannedSessions); err != nil {
		return ledgerdto.CurrentOutput{}, err
	}
	return i.Current(ctx, input.Owner)
}

func (i *Interactor) AddCasino(ctx context.Context, input ledgerdto.AddCasinoInput) ([]string, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("casino name is required: %w", apperrors.ErrInvalidInput)
	}
	return i.svc.AddCasino(ctx, input.Owner, input.Name)
}

func (i *Interactor) BlacklistGame(ctx context.Context, input ledgerdto.BlacklistInput) ([]string, error) {
	return i.svc.Blacklist(ctx, input.Owner, input.Game)
}

// Current recomputes bankroll, budget and risk parameters of the current
// trip from the session log.
func (i *Interactor) Current(ctx context.Context, owner string) (ledgerdto.CurrentOutput, error) {
	var out ledgerdto.CurrentOutput
	err := i.svc.View(ctx, owner, func(l *domain.Ledger) error {
		var err error
		out, err = i.currentOf(l)
		return err
	})
	if err != nil {
		return ledgerdto.CurrentOutput{}, err
	}
	return out, nil
}

func (i *Interactor) currentOf(l *domain.Ledger) (ledgerdto.CurrentOutput, error) {
	trip, err := l.Trip(l.CurrentTripID())
	if err != nil {
		return ledgerdto.CurrentOutput{}, err
	}
	bankroll, err := l.CurrentBankroll(trip.ID)
	if err != nil {
		return ledgerdto.CurrentOutput{}, err
	}
	budget, err := l.SessionBudget(trip.ID, i.svc.Policy())
	if err != nil {
		return ledgerdto.CurrentOutput{}, err
	}
	stats, err := l.Analyze(trip.ID)
	if err != nil {
		return ledgerdto.CurrentOutput{}, err
	}
	completed := len(l.TripSessions(trip.ID))
	risk := domain.RiskTierFor(budget)
	return ledgerdto.CurrentOutput{
		TripID:            trip.ID,
		Casino:            trip.Casino,
		StartedAt:         trip.StartedAt,
		StartingBankroll:  trip.StartingBankroll,
		CurrentBankroll:   bankroll,
		Profit:            bankroll.Sub(trip.StartingBankroll),
		PlannedSessions:   trip.PlannedSessions,
		CompletedSessions: completed,
		RemainingSessions: domain.RemainingSessions(trip.PlannedSessions, completed),
		SessionBudget:     budget,
		RiskTier:          string(risk.Tier),
		MaxBet:            risk.MaxBet(budget),
		StopLoss:          risk.StopLoss(budget),
		BetUnit:           risk.BetUnit,
		Casinos:           l.Casinos(),
		Blacklist:         l.Blacklisted(trip.ID),
		Stats: ledgerdto.TripStatsOutput{
			Sessions:    stats.Sessions,
			Wins:        stats.Wins,
			WinRate:     stats.WinRate,
			MeanProfit:  stats.MeanProfit,
			Median:      stats.Median,
			StdDev:      stats.StdDev,
			BestProfit:  stats.BestProfit,
			WorstProfit: stats.WorstProfit,
		},
	}, nil
}

func (i *Interactor) Sessions(ctx context.Context, input ledgerdto.SessionsInput) ([]ledgerdto.SessionOutput, error) {
	var sessions []domain.Session
	err := i.svc.View(ctx, input.Owner, func(l *domain.Ledger) error {
		switch {
		case input.All:
			sessions = l.Sessions()
		case input.TripID > 0:
			if _, err := l.Trip(input.TripID); err != nil {
				return err
			}
			sessions = l.TripSessions(input.TripID)
		default:
			sessions = l.TripSessions(l.CurrentTripID())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]ledgerdto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionOutput(s))
	}
	return out, nil
}

func (i *Interactor) Summaries(ctx context.Context, owner string) ([]ledgerdto.TripSummaryOutput, error) {
	var out []ledgerdto.TripSummaryOutput
	err := i.svc.View(ctx, owner, func(l *domain.Ledger) error {
		out = summariesOf(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func summariesOf(l *domain.Ledger) []ledgerdto.TripSummaryOutput {
	current := l.CurrentTripID()
	var out []ledgerdto.TripSummaryOutput
	for _, s := range l.Summaries() {
		out = append(out, ledgerdto.TripSummaryOutput{
			TripID:           s.TripID,
			Casino:           s.Casino,
			Sessions:         s.Sessions,
			PlannedSessions:  s.PlannedSessions,
			Profit:           s.Profit,
			StartingBankroll: s.StartingBankroll,
			CurrentBankroll:  s.CurrentBankroll,
			Current:          s.TripID == current,
		})
	}
	return out
}

func (i *Interactor) GamePerformance(ctx context.Context, owner string) ([]ledgerdto.GamePerformanceOutput, error) {
	perf, err := i.svc.GamePerformance(ctx, owner)
	if err != nil {
		return nil, err
	}
	return toGameOutputs(perf), nil
}

// Overview reads everything the dashboard shows under one owner lock, so
// a concurrent write cannot land between its parts.
func (i *Interactor) Overview(ctx context.Context, owner string) (ledgerdto.OverviewOutput, error) {
	var out ledgerdto.OverviewOutput
	err := i.svc.View(ctx, owner, func(l *domain.Ledger) error {
		current, err := i.currentOf(l)
		if err != nil {
			return err
		}
		perf, err := i.svc.TripPerformance(ctx, owner, current.TripID)
		if err != nil {
			return err
		}
		sessions := l.TripSessions(current.TripID)
		out = ledgerdto.OverviewOutput{
			Current:   current,
			Sessions:  make([]ledgerdto.SessionOutput, 0, len(sessions)),
			Summaries: summariesOf(l),
			Games:     toGameOutputs(perf),
		}
		for _, s := range sessions {
			out.Sessions = append(out.Sessions, toSessionOutput(s))
		}
		return nil
	})
	if err != nil {
		return ledgerdto.OverviewOutput{}, err
	}
	return out, nil
}

func (i *Interactor) ExportSessionsCSV(ctx context.Context, owner string) (ledgerdto.ExportOutput, error) {
	body, err := i.svc.ExportSessions(ctx, owner)
	if err != nil {
		return ledgerdto.ExportOutput{}, err
	}
	return ledgerdto.ExportOutput{Filename: "session_history.csv", ContentType: "text/csv", Body: body}, nil
}

func (i *Interactor) ExportSummariesCSV(ctx context.Context, owner string) (ledgerdto.ExportOutput, error) {
	body, err := i.svc.ExportSummaries(ctx, owner)
	if err != nil {
		return ledgerdto.ExportOutput{}, err
	}
	return ledgerdto.ExportOutput{Filename: "trip_summary.csv", ContentType: "text/csv", Body: body}, nil
}

func (i *Interactor) ExportReport(ctx context.Context, owner string) (ledgerdto.ExportOutput, error) {
	report, body, err := i.svc.Report(ctx, owner)
	if err != nil {
		return ledgerdto.ExportOutput{}, err
	}
	name := fmt.Sprintf("trip-%d-%s.md", report.Summary.TripID, slug.Make(report.Summary.Casino))
	return ledgerdto.ExportOutput{Filename: name, ContentType: "text/markdown", Body: []byte(body)}, nil
}

func validateSettings(negativeBankroll bool, plannedSessions int) error {
	if negativeBankroll {
		return fmt.Errorf("starting bankroll must be non-negative: %w", apperrors.ErrInvalidInput)
	}
	if plannedSessions < 1 {
		return fmt.Errorf("planned sessions must be at least 1: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

func toSessionOutput(s domain.Session) ledgerdto.SessionOutput {
	return ledgerdto.SessionOutput{
		ID:       s.ID,
		TripID:   s.TripID,
		Date:     s.Date,
		Casino:   s.Casino,
		Game:     s.Game,
		MoneyIn:  s.MoneyIn,
		MoneyOut: s.MoneyOut,
		Profit:   s.Profit,
		Notes:    s.Notes,
	}
}

func toGameOutputs(perf []domain.GamePerformance) []ledgerdto.GamePerformanceOutput {
	out := make([]ledgerdto.GamePerformanceOutput, 0, len(perf))
	for _, p := range perf {
		out = append(out, ledgerdto.GamePerformanceOutput{Game: p.Game, Sessions: p.Sessions, Wins: p.Wins, Profit: p.Profit})
	}
	return out
}
