package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	ledgerdto "profithopper/internal/modules/ledger/dto"
	"profithopper/internal/platform/money"
)

// executePalette runs one palette command. Filter commands change the
// criteria and refresh; ledger commands run asynchronously and refresh when
// they finish.
func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	input = strings.TrimSpace(input)
	if input == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := func(n int) string {
		// everything after the first n fields, spacing preserved
		s := input
		for i := 0; i < n && i < len(parts); i++ {
			s = strings.TrimSpace(strings.TrimPrefix(s, parts[i]))
		}
		return s
	}

	switch parts[0] {
	case "session:add":
		if len(parts) < 3 {
			m.status = "usage: session:add <money_in> <money_out> [game] [# notes]"
			return m, nil
		}
		moneyIn, err1 := decimal.NewFromString(parts[1])
		moneyOut, err2 := decimal.NewFromString(parts[2])
		if err1 != nil || err2 != nil {
			m.status = "money in and out must be numbers"
			return m, nil
		}
		game, notes, _ := strings.Cut(rest(3), "#")
		game = strings.TrimSpace(game)
		if game == "" {
			selected, ok := m.planView.SelectedGame()
			if !ok {
				m.status = "no game given and none selected"
				return m, nil
			}
			game = selected
		}
		return m, m.recordSessionCmd(game, moneyIn, moneyOut, strings.TrimSpace(notes))

	case "trip:start":
		if len(parts) < 4 {
			m.status = "usage: trip:start <bankroll> <sessions> <casino>"
			return m, nil
		}
		bankroll, sessions, ok := parseSettings(parts[1], parts[2])
		if !ok {
			m.status = "bankroll must be a number and sessions a whole number"
			return m, nil
		}
		return m, m.startTripCmd(rest(3), bankroll, sessions)

	case "trip:settings":
		if len(parts) != 3 {
			m.status = "usage: trip:settings <bankroll> <sessions>"
			return m, nil
		}
		bankroll, sessions, ok := parseSettings(parts[1], parts[2])
		if !ok {
			m.status = "bankroll must be a number and sessions a whole number"
			return m, nil
		}
		return m, m.updateSettingsCmd(bankroll, sessions)

	case "trip:end":
		return m, m.endTripCmd()

	case "filter:rtp":
		if len(parts) != 2 {
			m.status = "usage: filter:rtp <min>"
			return m, nil
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid rtp " + parts[1]
			return m, nil
		}
		m.criteria.MinRTP = v
		return m.filtered()

	case "filter:max-bet":
		if len(parts) != 2 {
			m.status = "usage: filter:max-bet <amount|off>"
			return m, nil
		}
		if parts[1] == "off" {
			m.criteria.MaxMinBet = decimal.NullDecimal{}
			return m.filtered()
		}
		v, err := decimal.NewFromString(parts[1])
		if err != nil {
			m.status = "invalid amount " + parts[1]
			return m, nil
		}
		m.criteria.MaxMinBet = decimal.NewNullDecimal(v)
		return m.filtered()

	case "filter:cap":
		if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: filter:cap <on|off>"
			return m, nil
		}
		m.criteria.CapToMaxBet = parts[1] == "on"
		return m.filtered()

	case "filter:type":
		m.criteria.GameType = rest(1)
		return m.filtered()

	case "filter:advantage":
		m.criteria.Advantage = rest(1)
		return m.filtered()

	case "filter:volatility":
		m.criteria.Volatility = rest(1)
		return m.filtered()

	case "filter:search":
		m.criteria.Search = rest(1)
		return m.filtered()

	case "filter:reset":
		m.criteria = m.defaults
		return m.filtered()

	case "game:blacklist":
		game := rest(1)
		if game == "" {
			selected, ok := m.planView.SelectedGame()
			if !ok {
				m.status = "no game selected"
				return m, nil
			}
			game = selected
		}
		return m, m.blacklistCmd(game)

	case "casino:add":
		name := rest(1)
		if name == "" {
			m.status = "usage: casino:add <name>"
			return m, nil
		}
		return m, m.addCasinoCmd(name)

	case "catalog:reload":
		m.status = "reloading game list…"
		return m, m.reloadCatalogCmd()

	case "export:sessions":
		return m, m.exportCmd(m.ledger.ExportSessionsCSV, rest(1))

	case "export:trips":
		return m, m.exportCmd(m.ledger.ExportSummariesCSV, rest(1))

	case "export:report":
		return m, m.exportCmd(m.ledger.ExportReport, rest(1))

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func (m Model) filtered() (tea.Model, tea.Cmd) {
	m.status = "filters updated"
	return m, m.refreshCmd()
}

func parseSettings(bankrollRaw, sessionsRaw string) (decimal.Decimal, int, bool) {
	bankroll, err := decimal.NewFromString(bankrollRaw)
	if err != nil {
		return decimal.Zero, 0, false
	}
	sessions, err := strconv.Atoi(sessionsRaw)
	if err != nil {
		return decimal.Zero, 0, false
	}
	return bankroll, sessions, true
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) recordSessionCmd(game string, moneyIn, moneyOut decimal.Decimal, notes string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.ledger.RecordSession(context.Background(), time.Time{}, game, moneyIn, moneyOut, notes)
		if err != nil {
			return mutatedMsg{err: err}
		}
		return mutatedMsg{status: fmt.Sprintf("session saved: %s %s", s.Game, money.FormatSigned(s.Profit))}
	}
}

func (m Model) startTripCmd(casino string, bankroll decimal.Decimal, sessions int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.StartTrip(context.Background(), casino, bankroll, sessions)
		if err != nil {
			return mutatedMsg{err: err}
		}
		return mutatedMsg{status: fmt.Sprintf("trip %d started at %s", out.TripID, out.Casino)}
	}
}

func (m Model) updateSettingsCmd(bankroll decimal.Decimal, sessions int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ledger.UpdateSettings(context.Background(), bankroll, sessions); err != nil {
			return mutatedMsg{err: err}
		}
		return mutatedMsg{status: "trip settings saved"}
	}
}

func (m Model) endTripCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.EndTrip(context.Background())
		if err != nil {
			return mutatedMsg{err: err}
		}
		return mutatedMsg{status: fmt.Sprintf("trip %d ended, %d sessions discarded", out.EndedTripID, out.Discarded)}
	}
}

func (m Model) addCasinoCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ledger.AddCasino(context.Background(), name); err != nil {
			return mutatedMsg{err: err}
		}
		return mutatedMsg{status: "casino added: " + name}
	}
}

func (m Model) reloadCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.catalog.Check(context.Background())
		if err != nil {
			return mutatedMsg{err: err}
		}
		if !out.Available {
			return mutatedMsg{status: out.Message}
		}
		return mutatedMsg{status: fmt.Sprintf("game list reloaded: %d games", len(out.Games))}
	}
}

// exportCmd writes the export to path, or to the export directory under its
// default name when path is empty.
func (m Model) exportCmd(fn func(context.Context) (ledgerdto.ExportOutput, error), path string) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		if err != nil {
			return exportedMsg{err: err}
		}
		if path == "" {
			path = filepath.Join(m.exportDir, out.Filename)
		}
		if err := os.WriteFile(path, out.Body, 0o644); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}
