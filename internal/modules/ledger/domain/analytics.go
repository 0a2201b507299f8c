package domain

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

type TripSummary struct {
	TripID           int
	Casino           string
	Sessions         int
	PlannedSessions  int
	Profit           decimal.Decimal
	StartingBankroll decimal.Decimal
	CurrentBankroll  decimal.Decimal
}

// Summaries reports every trip ordered by id.
func (l *Ledger) Summaries() []TripSummary {
	trips := l.Trips()
	out := make([]TripSummary, 0, len(trips))
	for _, t := range trips {
		profit := l.TripProfit(t.ID)
		out = append(out, TripSummary{
			TripID:           t.ID,
			Casino:           t.Casino,
			Sessions:         len(l.TripSessions(t.ID)),
			PlannedSessions:  t.PlannedSessions,
			Profit:           profit,
			StartingBankroll: t.StartingBankroll,
			CurrentBankroll:  t.StartingBankroll.Add(profit),
		})
	}
	return out
}

// TripStats describes the distribution of session profit within a trip.
type TripStats struct {
	Sessions    int
	Wins        int
	WinRate     float64
	MeanProfit  float64
	Median      float64
	StdDev      float64
	BestProfit  decimal.Decimal
	WorstProfit decimal.Decimal
}

func (l *Ledger) Analyze(tripID int) (TripStats, error) {
	if _, err := l.Trip(tripID); err != nil {
		return TripStats{}, err
	}
	sessions := l.TripSessions(tripID)
	if len(sessions) == 0 {
		return TripStats{}, nil
	}
	out := TripStats{Sessions: len(sessions), BestProfit: sessions[0].Profit, WorstProfit: sessions[0].Profit}
	data := make(stats.Float64Data, 0, len(sessions))
	for _, s := range sessions {
		data = append(data, s.Profit.InexactFloat64())
		if s.Profit.IsPositive() {
			out.Wins++
		}
		if s.Profit.GreaterThan(out.BestProfit) {
			out.BestProfit = s.Profit
		}
		if s.Profit.LessThan(out.WorstProfit) {
			out.WorstProfit = s.Profit
		}
	}
	out.WinRate = float64(out.Wins) / float64(len(sessions))

	var err error
	if out.MeanProfit, err = data.Mean(); err != nil {
		return TripStats{}, fmt.Errorf("mean profit: %w", err)
	}
	if out.Median, err = data.Median(); err != nil {
		return TripStats{}, fmt.Errorf("median profit: %w", err)
	}
	if out.StdDev, err = data.StandardDeviation(); err != nil {
		return TripStats{}, fmt.Errorf("profit deviation: %w", err)
	}
	return out, nil
}

// GamePerformance aggregates the sessions of one game within a trip.
type GamePerformance struct {
	Game     string
	Sessions int
	Wins     int
	Profit   decimal.Decimal
}

// TripReport bundles what a trip write-up needs.
type TripReport struct {
	Summary     TripSummary
	Stats       TripStats
	Sessions    []Session
	Games       []GamePerformance
	GeneratedAt time.Time
}
