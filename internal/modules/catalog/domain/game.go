package domain

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "profithopper/internal/platform/errors"
)

// Canonical column names.
const (
	ColRTP        = "rtp"
	ColMinBet     = "min_bet"
	ColAdvantage  = "advantage_play_potential"
	ColVolatility = "volatility"
	ColBonus      = "bonus_frequency"
	ColName       = "game_name"
	ColType       = "type"
	ColTips       = "tips"
)

const (
	DefaultAdvantage  = 3
	DefaultVolatility = 3
	DefaultBonus      = 0.2
	DefaultName       = "Unknown Game"
	DefaultType       = "Unknown"
	DefaultTip        = "No tips available"
)

var aliases = map[string][]string{
	ColRTP:        {"rtp", "expected_rtp"},
	ColMinBet:     {"min_bet", "minbet", "minimum_bet", "min_bet_amount"},
	ColAdvantage:  {"advantage_play_potential", "app", "advantage_potential"},
	ColVolatility: {"volatility", "vol"},
	ColBonus:      {"bonus_frequency", "bonus_freq", "bonus_rate"},
	ColName:       {"game_name", "name", "title", "game"},
	ColType:       {"type", "game_type", "category"},
	ColTips:       {"tips", "tip", "strategy"},
}

type alias struct {
	canonical string
	rank      int
}

var aliasIndex = func() map[string]alias {
	out := map[string]alias{}
	for canonical, names := range aliases {
		for rank, n := range names {
			out[n] = alias{canonical: canonical, rank: rank}
		}
	}
	return out
}()

var nonWord = regexp.MustCompile(`\W+`)

// Game is one validated catalog entry.
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

// RawGame holds a catalog row before coercion.
type RawGame struct {
	Name       string
	Type       string
	RTP        string
	MinBet     string
	Volatility string
	Advantage  string
	Bonus      string
	Tip        string
}

type Catalog struct {
	Source   string
	Games    []Game
	Dropped  int
	LoadedAt time.Time
}

// NormalizeHeader lowercases and trims a column name and collapses every run
// of non-word characters to an underscore.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
}

// CanonicalHeaders maps a header row onto canonical names. When several
// aliases of one field are present the earliest alias in its list wins,
// whatever the column order; the others keep their normalised name, as do
// unknown columns. The rtp and min_bet columns are mandatory.
func CanonicalHeaders(headers []string) ([]string, error) {
	names := make([]string, len(headers))
	winner := map[string]int{}
	for i, h := range headers {
		names[i] = NormalizeHeader(h)
		a, ok := aliasIndex[names[i]]
		if !ok {
			continue
		}
		if j, taken := winner[a.canonical]; !taken || a.rank < aliasIndex[names[j]].rank {
			winner[a.canonical] = i
		}
	}

	out := make([]string, len(headers))
	seen := map[string]bool{}
	for i, name := range names {
		if a, ok := aliasIndex[name]; ok && winner[a.canonical] == i {
			name = a.canonical
		}
		if seen[name] {
			name = fmt.Sprintf("%s_dup_%d", name, i)
		}
		seen[name] = true
		out[i] = name
	}
	for _, required := range []string{ColRTP, ColMinBet} {
		if !seen[required] {
			return nil, fmt.Errorf("missing required column %q: %w", required, apperrors.ErrCatalogLoad)
		}
	}
	return out, nil
}

// Coerce validates a raw row. Rows whose RTP or minimum bet is not numeric
// are rejected; every other field falls back to its default.
func Coerce(raw RawGame) (Game, bool) {
	rtp, ok := parseNumber(raw.RTP)
	if !ok {
		return Game{}, false
	}
	minBet, err := decimal.NewFromString(cleanNumber(raw.MinBet))
	if err != nil {
		return Game{}, false
	}
	g := Game{
		Name:               orDefault(raw.Name, DefaultName),
		Type:               orDefault(raw.Type, DefaultType),
		RTP:                rtp,
		MinBet:             minBet,
		Volatility:         ordinal(raw.Volatility, DefaultVolatility),
		AdvantagePotential: ordinal(raw.Advantage, DefaultAdvantage),
		BonusFrequency:     DefaultBonus,
		Tip:                orDefault(raw.Tip, DefaultTip),
	}
	if bonus, ok := parseNumber(raw.Bonus); ok {
		g.BonusFrequency = clampFloat(bonus, 0, 1)
	}
	return g, true
}

// Types lists the distinct game types, sorted.
func Types(games []Game) []string {
	set := map[string]struct{}{}
	for _, g := range games {
		set[g.Type] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	return strings.ReplaceAll(s, ",", "")
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(cleanNumber(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func ordinal(s string, fallback int) int {
	v, ok := parseNumber(s)
	if !ok {
		return fallback
	}
	n := int(v)
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
