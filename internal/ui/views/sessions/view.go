package sessions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ledgerdto "profithopper/internal/modules/ledger/dto"
	"profithopper/internal/platform/money"
	"profithopper/internal/ui/theme"
)

// Model lists the current trip's sessions and the trip history beneath.
type Model struct {
	table     table.Model
	sessions  []ledgerdto.SessionOutput
	summaries []ledgerdto.TripSummaryOutput
	width     int
	height    int
}

func New() Model {
	t := table.New(table.WithColumns(columns(80)), table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender).Bold(false)
	t.SetStyles(styles)
	return Model{table: t}
}

// SetData shows sessions newest first.
func (m *Model) SetData(sessions []ledgerdto.SessionOutput, summaries []ledgerdto.TripSummaryOutput) {
	m.sessions = sessions
	m.summaries = summaries
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, table.Row{
			s.Date.Format("2006-01-02"),
			s.Game,
			money.Format(s.MoneyIn),
			money.Format(s.MoneyOut),
			money.FormatSigned(s.Profit),
			s.Notes,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sz.Width
		m.height = sz.Height
		m.table.SetColumns(columns(m.width))
		m.table.SetWidth(m.width)
		m.table.SetHeight(max(3, m.height-m.historyHeight()-3))
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := theme.Title.Render(fmt.Sprintf("Sessions (%d)", len(m.sessions)))
	body := m.table.View()
	if len(m.sessions) == 0 {
		body = theme.Muted.Render("No sessions recorded for this trip. Use session:add to log one.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, "", m.renderHistory())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) historyHeight() int {
	return len(m.summaries) + 2
}

func columns(width int) []table.Column {
	notes := width - 66
	if notes < 10 {
		notes = 10
	}
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Game", Width: 22},
		{Title: "In", Width: 10},
		{Title: "Out", Width: 10},
		{Title: "Profit", Width: 11},
		{Title: "Notes", Width: notes},
	}
}

func (m Model) renderHistory() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Trip history") + "\n")
	for _, s := range m.summaries {
		marker := "  "
		if s.Current {
			marker = theme.Hot.Render("● ")
		}
		profit := theme.Signed(s.Profit.IsNegative()).Render(money.FormatSigned(s.Profit))
		sb.WriteString(fmt.Sprintf("%sTrip %d  %-32s %2d sessions  %s  → %s\n",
			marker, s.TripID, s.Casino, s.Sessions, profit, money.Format(s.CurrentBankroll)))
	}
	return sb.String()
}
