package domain

import "github.com/shopspring/decimal"

// GameSet is the catalog as the scorer receives it.
type GameSet struct {
	Games     []Game
	Types     []string
	Available bool
	Message   string
}

// Budget is the ledger state a recommendation depends on.
type Budget struct {
	TripID          int
	PlannedSessions int
	SessionBudget   decimal.Decimal
	MaxBet          decimal.Decimal
	Blacklist       []string
}

func (b Budget) Context() Context {
	return Context{MaxBet: b.MaxBet, SessionBudget: b.SessionBudget}
}

// Recommendation is the outcome of one filter, rank and split pass.
type Recommendation struct {
	Budget   Budget
	Catalog  GameSet
	Criteria Criteria
	Matches  int
	Plan     Plan
}
