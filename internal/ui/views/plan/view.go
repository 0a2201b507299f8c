package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recommenddto "profithopper/internal/modules/recommend/dto"
	"profithopper/internal/platform/money"
	"profithopper/internal/ui/theme"
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows the ranked game plan: one row per planned session followed by
// the alternates, with the selected game's details alongside.
type Model struct {
	table    table.Model
	detail   viewport.Model
	plan     recommenddto.RecommendOutput
	criteria recommenddto.CriteriaInput
	games    []recommenddto.ScoredGameOutput
	width    int
	height   int
}

func New() Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender).Bold(false)
	t.SetStyles(styles)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(0, 1)

	return Model{table: t, detail: vp}
}

// SetPlan replaces the rows. The cursor stays put when it is still in range.
func (m *Model) SetPlan(plan recommenddto.RecommendOutput, criteria recommenddto.CriteriaInput) {
	m.plan = plan
	m.criteria = criteria
	m.games = append(append([]recommenddto.ScoredGameOutput{}, plan.Primary...), plan.Overflow...)
	rows := make([]table.Row, 0, len(m.games))
	for _, g := range m.games {
		session := "alt"
		if g.Session > 0 {
			session = strconv.Itoa(g.Session)
		}
		rows = append(rows, table.Row{
			session,
			g.Name,
			g.Type,
			fmt.Sprintf("%.2f%%", g.RTP),
			money.Format(g.MinBet),
			strconv.Itoa(g.Volatility),
			strconv.Itoa(g.AdvantagePotential),
			fmt.Sprintf("%.0f%%", g.BonusFrequency*100),
			fmt.Sprintf("%.2f", g.Score),
		})
	}
	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
	m.detail.SetContent(m.renderDetail())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}
	prev := m.table.Cursor()
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != prev {
		m.detail.SetContent(m.renderDetail())
		m.detail.GotoTop()
	}
	return m, cmd
}

func (m Model) View() string {
	filters := theme.Muted.Render(describeCriteria(m.criteria))
	if m.plan.Message != "" {
		filters += "\n" + theme.Warning.Render(m.plan.Message)
	}
	tableW := m.width * 6 / 10
	left := lipgloss.NewStyle().Width(tableW).Render(m.table.View())
	right := theme.Pane.Width(max(10, m.width-tableW-4)).Height(max(1, m.height-lipgloss.Height(filters)-2)).Render(m.detail.View())
	return lipgloss.JoinVertical(lipgloss.Left, filters, lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}

// SelectedGame returns the highlighted game name, if any.
func (m Model) SelectedGame() (string, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.games) {
		return "", false
	}
	return m.games[idx].Name, true
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	tableW := m.width * 6 / 10
	m.table.SetColumns(columns(tableW))
	m.table.SetWidth(tableW)
	m.table.SetHeight(max(3, m.height-3))
	m.detail.Width = max(10, m.width-tableW-6)
	m.detail.Height = max(1, m.height-5)
}

func columns(width int) []table.Column {
	name := width - 62
	if name < 12 {
		name = 12
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Game", Width: name},
		{Title: "Type", Width: 10},
		{Title: "RTP", Width: 7},
		{Title: "Min Bet", Width: 9},
		{Title: "Vol", Width: 4},
		{Title: "Adv", Width: 4},
		{Title: "Bonus", Width: 6},
		{Title: "Score", Width: 6},
	}
}

func (m Model) renderDetail() string {
	if len(m.games) == 0 {
		if m.plan.Message != "" {
			return theme.Muted.Render(m.plan.Message)
		}
		return theme.Muted.Render("No games to show")
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.games) {
		idx = 0
	}
	g := m.games[idx]
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(g.Name) + "\n")
	if g.Session > 0 {
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("Session %d", g.Session)) + "\n\n")
	} else {
		sb.WriteString(theme.Muted.Render("Alternate") + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("type:       ") + g.Type + "\n")
	sb.WriteString(theme.Muted.Render("rtp:        ") + fmt.Sprintf("%.2f%%", g.RTP) + "\n")
	sb.WriteString(theme.Muted.Render("min bet:    ") + money.Format(g.MinBet) + "\n")
	sb.WriteString(theme.Muted.Render("advantage:  ") + g.AdvantageLabel + "\n")
	sb.WriteString(theme.Muted.Render("volatility: ") + g.VolatilityLabel + "\n")
	sb.WriteString(theme.Muted.Render("bonus:      ") + g.BonusLabel + "\n")
	sb.WriteString(theme.Muted.Render("score:      ") + fmt.Sprintf("%.2f", g.Score) + "\n\n")
	sb.WriteString(g.Tip + "\n\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d of %d games match", m.plan.Matches, m.plan.CatalogSize)) + "\n")
	sb.WriteString(theme.Muted.Render("b: hide for this trip  a: log a session"))
	return sb.String()
}

func describeCriteria(c recommenddto.CriteriaInput) string {
	parts := []string{fmt.Sprintf("RTP ≥ %.1f%%", c.MinRTP)}
	switch {
	case c.MaxMinBet.Valid:
		parts = append(parts, "min bet ≤ "+money.Format(c.MaxMinBet.Decimal))
	case c.CapToMaxBet:
		parts = append(parts, "min bet ≤ max bet")
	}
	for _, f := range []struct{ label, value string }{
		{"type", c.GameType},
		{"advantage", c.Advantage},
		{"volatility", c.Volatility},
	} {
		if f.value != "" && f.value != "All" {
			parts = append(parts, f.label+" "+f.value)
		}
	}
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", c.Search))
	}
	return "filters: " + strings.Join(parts, " · ")
}
