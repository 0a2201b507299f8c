package analytics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	ledgerdto "profithopper/internal/modules/ledger/dto"
	"profithopper/internal/platform/money"
	"profithopper/internal/ui/theme"
)

const barWidth = 24

type Model struct {
	viewport  viewport.Model
	trip      ledgerdto.CurrentOutput
	games     []ledgerdto.GamePerformanceOutput
	summaries []ledgerdto.TripSummaryOutput
	width     int
	height    int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	return Model{viewport: vp}
}

func (m *Model) SetData(trip ledgerdto.CurrentOutput, games []ledgerdto.GamePerformanceOutput, summaries []ledgerdto.TripSummaryOutput) {
	m.trip = trip
	m.games = games
	m.summaries = summaries
	m.viewport.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sz.Width
		m.height = sz.Height
		m.viewport.Width = sz.Width
		m.viewport.Height = max(1, sz.Height)
		m.viewport.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m Model) render() string {
	st := m.trip.Stats
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Trip %d · %s", m.trip.TripID, m.trip.Casino)) + "\n\n")
	if st.Sessions == 0 {
		sb.WriteString(theme.Muted.Render("No sessions yet on this trip.") + "\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("%s %d of %d (%.0f%%)\n", theme.Muted.Render("winning sessions:"), st.Wins, st.Sessions, st.WinRate*100))
		sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("mean profit:     "), signedFloat(st.MeanProfit)))
		sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("median profit:   "), signedFloat(st.Median)))
		sb.WriteString(fmt.Sprintf("%s %.2f\n", theme.Muted.Render("std deviation:   "), st.StdDev))
		sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("best session:    "), signed(st.BestProfit)))
		sb.WriteString(fmt.Sprintf("%s %s\n\n", theme.Muted.Render("worst session:   "), signed(st.WorstProfit)))
	}

	if len(m.games) > 0 {
		sb.WriteString(theme.Title.Render("Profit by game") + "\n")
		amounts := make([]decimal.Decimal, len(m.games))
		for i, g := range m.games {
			amounts[i] = g.Profit
		}
		scale := largest(amounts)
		for _, g := range m.games {
			sb.WriteString(fmt.Sprintf("%-22s %s %s  %d/%d won\n",
				truncate(g.Game, 22), bar(g.Profit, scale), signed(g.Profit), g.Wins, g.Sessions))
		}
		sb.WriteString("\n")
	}

	if len(m.summaries) > 0 {
		sb.WriteString(theme.Title.Render("Profit by trip") + "\n")
		amounts := make([]decimal.Decimal, len(m.summaries))
		for i, s := range m.summaries {
			amounts[i] = s.Profit
		}
		scale := largest(amounts)
		for _, s := range m.summaries {
			sb.WriteString(fmt.Sprintf("Trip %-3d %-18s %s %s\n",
				s.TripID, truncate(s.Casino, 18), bar(s.Profit, scale), signed(s.Profit)))
		}
	}
	return sb.String()
}

func largest(amounts []decimal.Decimal) decimal.Decimal {
	top := decimal.Zero
	for _, a := range amounts {
		if a.Abs().GreaterThan(top) {
			top = a.Abs()
		}
	}
	return top
}

// bar draws |amount| relative to scale.
func bar(amount, scale decimal.Decimal) string {
	n := 0
	if scale.IsPositive() {
		n = int(amount.Abs().Div(scale).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	}
	filled := strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
	return theme.Signed(amount.IsNegative()).Render(filled)
}

func signed(d decimal.Decimal) string {
	return theme.Signed(d.IsNegative()).Render(money.FormatSigned(d))
}

func signedFloat(f float64) string {
	return signed(decimal.NewFromFloat(f))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
