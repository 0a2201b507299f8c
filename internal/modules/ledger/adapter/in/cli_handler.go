package in

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	ledgerdto "profithopper/internal/modules/ledger/dto"
	ledgerin "profithopper/internal/modules/ledger/port/in"
)

// LocalOwner keys the single ledger used by terminal sessions.
const LocalOwner = "local"

type CLIHandler struct {
	usecase ledgerin.Usecase
	owner   string
}

func NewCLIHandler(usecase ledgerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase, owner: LocalOwner}
}

func (h CLIHandler) Owner() string {
	return h.owner
}

func (h CLIHandler) StartTrip(ctx context.Context, casino string, bankroll decimal.Decimal, sessions int) (ledgerdto.StartTripOutput, error) {
	return h.usecase.StartTrip(ctx, ledgerdto.StartTripInput{Owner: h.owner, Casino: casino, StartingBankroll: bankroll, PlannedSessions: sessions})
}

func (h CLIHandler) RecordSession(ctx context.Context, date time.Time, game string, moneyIn, moneyOut decimal.Decimal, notes string) (ledgerdto.SessionOutput, error) {
	return h.usecase.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: h.owner, Date: date, Game: game, MoneyIn: moneyIn, MoneyOut: moneyOut, Notes: notes})
}

func (h CLIHandler) EndTrip(ctx context.Context) (ledgerdto.EndTripOutput, error) {
	return h.usecase.EndTrip(ctx, ledgerdto.EndTripInput{Owner: h.owner})
}

func (h CLIHandler) UpdateSettings(ctx context.Context, bankroll decimal.Decimal, sessions int) (ledgerdto.CurrentOutput, error) {
	return h.usecase.UpdateSettings(ctx, ledgerdto.UpdateSettingsInput{Owner: h.owner, StartingBankroll: bankroll, PlannedSessions: sessions})
}

func (h CLIHandler) AddCasino(ctx context.Context, name string) ([]string, error) {
	return h.usecase.AddCasino(ctx, ledgerdto.AddCasinoInput{Owner: h.owner, Name: name})
}

func (h CLIHandler) Blacklist(ctx context.Context, game string) ([]string, error) {
	return h.usecase.BlacklistGame(ctx, ledgerdto.BlacklistInput{Owner: h.owner, Game: game})
}

func (h CLIHandler) Current(ctx context.Context) (ledgerdto.CurrentOutput, error) {
	return h.usecase.Current(ctx, h.owner)
}

func (h CLIHandler) Sessions(ctx context.Context) ([]ledgerdto.SessionOutput, error) {
	return h.usecase.Sessions(ctx, ledgerdto.SessionsInput{Owner: h.owner})
}

func (h CLIHandler) Summaries(ctx context.Context) ([]ledgerdto.TripSummaryOutput, error) {
	return h.usecase.Summaries(ctx, h.owner)
}

func (h CLIHandler) GamePerformance(ctx context.Context) ([]ledgerdto.GamePerformanceOutput, error) {
	return h.usecase.GamePerformance(ctx, h.owner)
}

func (h CLIHandler) ExportSessionsCSV(ctx context.Context) (ledgerdto.ExportOutput, error) {
	return h.usecase.ExportSessionsCSV(ctx, h.owner)
}

func (h CLIHandler) ExportSummariesCSV(ctx context.Context) (ledgerdto.ExportOutput, error) {
	return h.usecase.ExportSummariesCSV(ctx, h.owner)
}

func (h CLIHandler) ExportReport(ctx context.Context) (ledgerdto.ExportOutput, error) {
	return h.usecase.ExportReport(ctx, h.owner)
}
