package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type GameOutput struct {
	Name               string
	Type               string
	RTP                float64
	MinBet             decimal.Decimal
	Volatility         int
	AdvantagePotential int
	BonusFrequency     float64
	Tip                string
}

// CatalogOutput is the loaded catalog. When Available is false the games are
// empty and Message says why.
type CatalogOutput struct {
	Source    string
	Games     []GameOutput
	Types     []string
	Available bool
	Message   string
	Dropped   int
	LoadedAt  time.Time
}
