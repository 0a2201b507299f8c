package dto

import (
	"github.com/shopspring/decimal"

	"profithopper/internal/modules/recommend/domain"
)

// CriteriaInput mirrors the game plan filters. Empty strings and "All" leave
// a filter unset.
type CriteriaInput struct {
	MinRTP      float64
	MaxMinBet   decimal.NullDecimal
	CapToMaxBet bool
	GameType    string
	Advantage   string
	Volatility  string
	Search      string
}

type RecommendInput struct {
	Owner    string
	Criteria CriteriaInput
}

type ScoredGameOutput struct {
	Rank               int
	Session            int
	Name               string
	Type               string
	RTP                float64
	MinBet             decimal.Decimal
	Volatility         int
	AdvantagePotential int
	BonusFrequency     float64
	Tip                string
	Score              float64
	AdvantageLabel     string
	VolatilityLabel    string
	BonusLabel         string
}

type RecommendOutput struct {
	TripID           int
	SessionBudget    decimal.Decimal
	MaxBet           decimal.Decimal
	MinRTP           float64
	MaxMinBet        decimal.NullDecimal
	Primary          []ScoredGameOutput
	Overflow         []ScoredGameOutput
	Matches          int
	CatalogSize      int
	Types            []string
	CatalogAvailable bool
	Message          string
}

// DefaultCriteria is the game plan's starting filter: a 92% RTP floor and
// no game whose minimum bet exceeds the current max bet.
func DefaultCriteria() CriteriaInput {
	return CriteriaInput{MinRTP: domain.DefaultMinRTP, CapToMaxBet: true}
}
