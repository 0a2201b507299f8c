package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Game is the scorer's view of a catalog entry.
type Game struct {
	Name               string
	Type               string
	RTP                float64
	MinBet             decimal.Decimal
	Volatility         int
	AdvantagePotential int
	BonusFrequency     float64
	Tip                string
}

// Tier selects a band of a 1 to 5 rating.
type Tier string

const (
	TierAll    Tier = "All"
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// ParseTier accepts "High", "high (4-5)" and similar; anything else is All.
func ParseTier(s string) Tier {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "high"):
		return TierHigh
	case strings.HasPrefix(s, "medium"):
		return TierMedium
	case strings.HasPrefix(s, "low"):
		return TierLow
	default:
		return TierAll
	}
}

func (t Tier) matches(rating int) bool {
	switch t {
	case TierHigh:
		return rating >= 4
	case TierMedium:
		return rating == 3
	case TierLow:
		return rating <= 2
	default:
		return true
	}
}

// Criteria are independent, optional constraints. Zero values constrain nothing.
type Criteria struct {
	MinRTP     float64
	MaxMinBet  decimal.NullDecimal
	GameType   string
	Advantage  Tier
	Volatility Tier
	Search     string
	Exclude    []string
}

// DefaultMinRTP is the RTP floor the game plan starts from.
const DefaultMinRTP = 92.0

// DefaultCriteria starts the game plan at a 92% RTP floor and hides games
// whose minimum bet exceeds the current max bet.
func DefaultCriteria(maxBet decimal.Decimal) Criteria {
	return Criteria{
		MinRTP:     DefaultMinRTP,
		MaxMinBet:  decimal.NullDecimal{Decimal: maxBet, Valid: true},
		Advantage:  TierAll,
		Volatility: TierAll,
	}
}

// Filter keeps the games matching every set constraint, in their original order.
func Filter(games []Game, c Criteria) []Game {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	gameType := strings.TrimSpace(c.GameType)
	if strings.EqualFold(gameType, string(TierAll)) {
		gameType = ""
	}
	excluded := make(map[string]struct{}, len(c.Exclude))
	for _, name := range c.Exclude {
		excluded[name] = struct{}{}
	}

	out := []Game{}
	for _, g := range games {
		if g.RTP < c.MinRTP {
			continue
		}
		if c.MaxMinBet.Valid && g.MinBet.GreaterThan(c.MaxMinBet.Decimal) {
			continue
		}
		if gameType != "" && g.Type != gameType {
			continue
		}
		if !c.Advantage.matches(g.AdvantagePotential) || !c.Volatility.matches(g.Volatility) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(g.Name), search) {
			continue
		}
		if _, ok := excluded[g.Name]; ok {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Context carries the budget-derived inputs of a score.
type Context struct {
	MaxBet        decimal.Decimal
	SessionBudget decimal.Decimal
}

const (
	rtpFloor   = 85.0
	rtpCeiling = 99.9

	weightRTP        = 0.35
	weightBonus      = 0.20
	weightAdvantage  = 0.20
	weightVolatility = 0.15
	weightComfort    = 0.10

	minBetPenalty      = 0.6
	smallBudgetFactor  = 1.5
	volatilityPenalty  = 0.7
	smallBudgetLimit   = 20
	mediumBudgetLimit  = 50
	highVolatilityFrom = 4
)

// Score rates a game from 0 to 10 for the given betting context.
func Score(g Game, ctx Context) float64 {
	base := weightRTP*clip((g.RTP-rtpFloor)/(rtpCeiling-rtpFloor)) +
		weightBonus*clip(g.BonusFrequency) +
		weightAdvantage*clip(float64(g.AdvantagePotential)/5) +
		weightVolatility*clip(float64(5-g.Volatility)/4) +
		weightComfort*betComfort(g.MinBet, ctx.MaxBet)
	score := base * 10

	budget := ctx.SessionBudget
	if g.MinBet.GreaterThan(ctx.MaxBet.Div(decimal.NewFromInt(2))) {
		penalty := minBetPenalty
		if budget.LessThan(decimal.NewFromInt(smallBudgetLimit)) {
			penalty *= smallBudgetFactor
		}
		score *= penalty
	}
	if budget.LessThan(decimal.NewFromInt(mediumBudgetLimit)) && g.Volatility >= highVolatilityFrom {
		score *= volatilityPenalty
	}
	return score
}

func betComfort(minBet, maxBet decimal.Decimal) float64 {
	if !maxBet.IsPositive() {
		return 0
	}
	return clip(maxBet.Sub(minBet).Div(maxBet).InexactFloat64())
}

func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type Scored struct {
	Game  Game
	Score float64
}

// Rank scores every game and orders them best first. Equal scores keep
// their catalog order.
func Rank(games []Game, ctx Context) []Scored {
	out := make([]Scored, 0, len(games))
	for _, g := range games {
		out = append(out, Scored{Game: g, Score: Score(g, ctx)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Plan assigns one game per planned session; the rest are alternatives.
type Plan struct {
	Primary  []Scored
	Overflow []Scored
}

func Recommend(ranked []Scored, plannedSessions int) Plan {
	if plannedSessions < 0 {
		plannedSessions = 0
	}
	if plannedSessions > len(ranked) {
		plannedSessions = len(ranked)
	}
	return Plan{
		Primary:  append([]Scored{}, ranked[:plannedSessions]...),
		Overflow: append([]Scored{}, ranked[plannedSessions:]...),
	}
}
