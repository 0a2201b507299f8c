package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type StartTripInput struct {
	Owner            string
	Casino           string
	StartingBankroll decimal.Decimal
	PlannedSessions  int
}

type StartTripOutput struct {
	TripID    int
	Casino    string
	StartedAt time.Time
}

type RecordSessionInput struct {
	Owner    string
	Date     time.Time
	Game     string
	MoneyIn  decimal.Decimal
	MoneyOut decimal.Decimal
	Notes    string
}

type SessionOutput struct {
	ID       int
	TripID   int
	Date     time.Time
	Casino   string
	Game     string
	MoneyIn  decimal.Decimal
	MoneyOut decimal.Decimal
	Profit   decimal.Decimal
	Notes    string
}

// EndTripInput ends TripID, or the current trip when TripID is zero.
type EndTripInput struct {
	Owner  string
	TripID int
}

type EndTripOutput struct {
	EndedTripID   int
	CurrentTripID int
	Discarded     int
}

type UpdateSettingsInput struct {
	Owner            string
	StartingBankroll decimal.Decimal
	PlannedSessions  int
}

type AddCasinoInput struct {
	Owner string
	Name  string
}

type BlacklistInput struct {
	Owner string
	Game  string
}

// SessionsInput selects the current trip unless TripID is set or All asks
// for the whole log.
type SessionsInput struct {
	Owner  string
	TripID int
	All    bool
}

type TripStatsOutput struct {
	Sessions    int
	Wins        int
	WinRate     float64
	MeanProfit  float64
	Median      float64
	StdDev      float64
	BestProfit  decimal.Decimal
	WorstProfit decimal.Decimal
}

// CurrentOutput is everything the sticky header and game plan need about
// the current trip.
type CurrentOutput struct {
	TripID            int
	Casino            string
	StartedAt         time.Time
	StartingBankroll  decimal.Decimal
	CurrentBankroll   decimal.Decimal
	Profit            decimal.Decimal
	PlannedSessions   int
	CompletedSessions int
	RemainingSessions int
	SessionBudget     decimal.Decimal
	RiskTier          string
	MaxBet            decimal.Decimal
	StopLoss          decimal.Decimal
	BetUnit           decimal.Decimal
	Casinos           []string
	Blacklist         []string
	Stats             TripStatsOutput
}

type TripSummaryOutput struct {
	TripID           int
	Casino           string
	Sessions         int
	PlannedSessions  int
	Profit           decimal.Decimal
	StartingBankroll decimal.Decimal
	CurrentBankroll  decimal.Decimal
	Current          bool
}

type GamePerformanceOutput struct {
	Game     string
	Sessions int
	Wins     int
	Profit   decimal.Decimal
}

// ExportOutput is a downloadable file.
type ExportOutput struct {
	Filename    string
	ContentType string
	Body        []byte
}

// OverviewOutput is the current trip, its sessions, every trip summary and
// the per-game totals, all read under one owner lock.
type OverviewOutput struct {
	Current   CurrentOutput
	Sessions  []SessionOutput
	Summaries []TripSummaryOutput
	Games     []GamePerformanceOutput
}
