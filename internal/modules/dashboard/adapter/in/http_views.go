package in

import (
	"time"

	"github.com/shopspring/decimal"

	dashboarddto "profithopper/internal/modules/dashboard/dto"
	ledgerdto "profithopper/internal/modules/ledger/dto"
	recommenddto "profithopper/internal/modules/recommend/dto"
)

type tripView struct {
	TripID            int             `json:"trip_id"`
	Casino            string          `json:"casino"`
	StartedAt         time.Time       `json:"started_at"`
	StartingBankroll  decimal.Decimal `json:"starting_bankroll"`
	CurrentBankroll   decimal.Decimal `json:"current_bankroll"`
	Profit            decimal.Decimal `json:"profit"`
	PlannedSessions   int             `json:"num_sessions"`
	CompletedSessions int             `json:"completed_sessions"`
	RemainingSessions int             `json:"remaining_sessions"`
	SessionBankroll   decimal.Decimal `json:"session_bankroll"`
	RiskTier          string          `json:"risk_tier"`
	MaxBet            decimal.Decimal `json:"max_bet"`
	StopLoss          decimal.Decimal `json:"stop_loss"`
	BetUnit           decimal.Decimal `json:"bet_unit"`
	Casinos           []string        `json:"casinos"`
	Blacklist         []string        `json:"blacklist"`
	WinRate           float64         `json:"win_rate"`
	MeanProfit        float64         `json:"mean_profit"`
}

type sessionView struct {
	ID       int             `json:"id"`
	TripID   int             `json:"trip_id"`
	Date     string          `json:"date"`
	Casino   string          `json:"casino"`
	Game     string          `json:"game"`
	MoneyIn  decimal.Decimal `json:"money_in"`
	MoneyOut decimal.Decimal `json:"money_out"`
	Profit   decimal.Decimal `json:"profit"`
	Notes    string          `json:"notes"`
}

type summaryView struct {
	TripID           int             `json:"trip_id"`
	Casino           string          `json:"casino"`
	NumSessions      int             `json:"num_sessions"`
	Profit           decimal.Decimal `json:"profit"`
	StartingBankroll decimal.Decimal `json:"starting_bankroll"`
	CurrentBankroll  decimal.Decimal `json:"current_bankroll"`
	Current          bool            `json:"current"`
}

type performanceView struct {
	Game     string          `json:"game"`
	Sessions int             `json:"sessions"`
	Wins     int             `json:"wins"`
	Profit   decimal.Decimal `json:"profit"`
}

type gameView struct {
	Rank            int             `json:"rank"`
	Session         int             `json:"session,omitempty"`
	Name            string          `json:"game_name"`
	Type            string          `json:"type"`
	RTP             float64         `json:"rtp"`
	MinBet          decimal.Decimal `json:"min_bet"`
	Volatility      int             `json:"volatility"`
	Advantage       int             `json:"advantage_play_potential"`
	BonusFrequency  float64         `json:"bonus_frequency"`
	Tips            string          `json:"tips"`
	Score           float64         `json:"score"`
	AdvantageLabel  string          `json:"advantage_label"`
	VolatilityLabel string          `json:"volatility_label"`
	BonusLabel      string          `json:"bonus_label"`
}

type planView struct {
	MinRTP           float64             `json:"min_rtp"`
	MaxMinBet        decimal.NullDecimal `json:"max_min_bet"`
	Matches          int                 `json:"matches"`
	CatalogSize      int                 `json:"catalog_size"`
	CatalogAvailable bool                `json:"catalog_available"`
	Types            []string            `json:"types"`
	Primary          []gameView          `json:"primary"`
	Overflow         []gameView          `json:"overflow"`
	Message          string              `json:"message,omitempty"`
}

type dashboardView struct {
	Trip           tripView          `json:"trip"`
	Plan           planView          `json:"plan"`
	Sessions       []sessionView     `json:"sessions"`
	Summaries      []summaryView     `json:"trips"`
	Games          []performanceView `json:"game_performance"`
	CatalogMessage string            `json:"catalog_message,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

func toTripView(c ledgerdto.CurrentOutput) tripView {
	return tripView{
		TripID:            c.TripID,
		Casino:            c.Casino,
		StartedAt:         c.StartedAt,
		StartingBankroll:  c.StartingBankroll,
		CurrentBankroll:   c.CurrentBankroll,
		Profit:            c.Profit,
		PlannedSessions:   c.PlannedSessions,
		CompletedSessions: c.CompletedSessions,
		RemainingSessions: c.RemainingSessions,
		SessionBankroll:   c.SessionBudget.Round(2),
		RiskTier:          c.RiskTier,
		MaxBet:            c.MaxBet.Round(2),
		StopLoss:          c.StopLoss.Round(2),
		BetUnit:           c.BetUnit,
		Casinos:           nonNil(c.Casinos),
		Blacklist:         nonNil(c.Blacklist),
		WinRate:           c.Stats.WinRate,
		MeanProfit:        c.Stats.MeanProfit,
	}
}

func toSessionViews(sessions []ledgerdto.SessionOutput) []sessionView {
	out := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionView{
			ID:       s.ID,
			TripID:   s.TripID,
			Date:     s.Date.Format("2006-01-02"),
			Casino:   s.Casino,
			Game:     s.Game,
			MoneyIn:  s.MoneyIn,
			MoneyOut: s.MoneyOut,
			Profit:   s.Profit,
			Notes:    s.Notes,
		})
	}
	return out
}

func toSummaryViews(summaries []ledgerdto.TripSummaryOutput) []summaryView {
	out := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryView{
			TripID:           s.TripID,
			Casino:           s.Casino,
			NumSessions:      s.Sessions,
			Profit:           s.Profit,
			StartingBankroll: s.StartingBankroll,
			CurrentBankroll:  s.CurrentBankroll,
			Current:          s.Current,
		})
	}
	return out
}

func toPerformanceViews(games []ledgerdto.GamePerformanceOutput) []performanceView {
	out := make([]performanceView, 0, len(games))
	for _, g := range games {
		out = append(out, performanceView{Game: g.Game, Sessions: g.Sessions, Wins: g.Wins, Profit: g.Profit})
	}
	return out
}

func toPlanView(p recommenddto.RecommendOutput) planView {
	return planView{
		MinRTP:           p.MinRTP,
		MaxMinBet:        p.MaxMinBet,
		Matches:          p.Matches,
		CatalogSize:      p.CatalogSize,
		CatalogAvailable: p.CatalogAvailable,
		Types:            nonNil(p.Types),
		Primary:          toGameViews(p.Primary),
		Overflow:         toGameViews(p.Overflow),
		Message:          p.Message,
	}
}

func toGameViews(games []recommenddto.ScoredGameOutput) []gameView {
	out := make([]gameView, 0, len(games))
	for _, g := range games {
		out = append(out, gameView{
			Rank:            g.Rank,
			Session:         g.Session,
			Name:            g.Name,
			Type:            g.Type,
			RTP:             g.RTP,
			MinBet:          g.MinBet,
			Volatility:      g.Volatility,
			Advantage:       g.AdvantagePotential,
			BonusFrequency:  g.BonusFrequency,
			Tips:            g.Tip,
			Score:           g.Score,
			AdvantageLabel:  g.AdvantageLabel,
			VolatilityLabel: g.VolatilityLabel,
			BonusLabel:      g.BonusLabel,
		})
	}
	return out
}

func toDashboardView(s dashboarddto.Snapshot) dashboardView {
	return dashboardView{
		Trip:           toTripView(s.Trip),
		Plan:           toPlanView(s.Plan),
		Sessions:       toSessionViews(s.Sessions),
		Summaries:      toSummaryViews(s.Summaries),
		Games:          toPerformanceViews(s.Games),
		CatalogMessage: s.CatalogMessage,
		GeneratedAt:    s.GeneratedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
