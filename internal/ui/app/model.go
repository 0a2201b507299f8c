package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	catalogdto "profithopper/internal/modules/catalog/dto"
	dashboarddto "profithopper/internal/modules/dashboard/dto"
	ledgerdto "profithopper/internal/modules/ledger/dto"
	recommenddto "profithopper/internal/modules/recommend/dto"
	"profithopper/internal/platform/money"
	"profithopper/internal/ui/components"
	"profithopper/internal/ui/theme"
	analyticsview "profithopper/internal/ui/views/analytics"
	planview "profithopper/internal/ui/views/plan"
	sessionsview "profithopper/internal/ui/views/sessions"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type dashboardPort interface {
	Snapshot(ctx context.Context, criteria recommenddto.CriteriaInput) (dashboarddto.Snapshot, error)
}

type ledgerPort interface {
	StartTrip(ctx context.Context, casino string, bankroll decimal.Decimal, sessions int) (ledgerdto.StartTripOutput, error)
	RecordSession(ctx context.Context, date time.Time, game string, moneyIn, moneyOut decimal.Decimal, notes string) (ledgerdto.SessionOutput, error)
	EndTrip(ctx context.Context) (ledgerdto.EndTripOutput, error)
	UpdateSettings(ctx context.Context, bankroll decimal.Decimal, sessions int) (ledgerdto.CurrentOutput, error)
	AddCasino(ctx context.Context, name string) ([]string, error)
	Blacklist(ctx context.Context, game string) ([]string, error)
	ExportSessionsCSV(ctx context.Context) (ledgerdto.ExportOutput, error)
	ExportSummariesCSV(ctx context.Context) (ledgerdto.ExportOutput, error)
	ExportReport(ctx context.Context) (ledgerdto.ExportOutput, error)
}

type catalogPort interface {
	Check(ctx context.Context) (catalogdto.CatalogOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabPlan tabID = iota
	tabSessions
	tabAnalytics
	tabCount
)

var tabLabels = [tabCount]string{"Game Plan", "Sessions", "Analytics"}

// ─── async messages ───────────────────────────────────────────────────────────

type snapshotMsg struct {
	snap dashboarddto.Snapshot
	err  error
}

// mutatedMsg reports a finished ledger or catalog change; the dashboard is
// refreshed after every one.
type mutatedMsg struct {
	status string
	err    error
}

type exportedMsg struct {
	path string
	err  error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab       key.Binding
	Help      key.Binding
	Palette   key.Binding
	Quit      key.Binding
	Refresh   key.Binding
	AddRecord key.Binding
	Blacklist key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		AddRecord: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add session")),
		Blacklist: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "hide game")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh},
		{k.AddRecord, k.Blacklist},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the filter
// criteria, the sticky bankroll header and the command palette. Every
// mutation is followed by a fresh dashboard snapshot.
type Model struct {
	dashboard dashboardPort
	ledger    ledgerPort
	catalog   catalogPort
	exportDir string

	planView      planview.Model
	sessionsView  sessionsview.Model
	analyticsView analyticsview.Model

	criteria  recommenddto.CriteriaInput
	defaults  recommenddto.CriteriaInput
	snap      dashboarddto.Snapshot
	loaded    bool
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(dashboard dashboardPort, ledger ledgerPort, catalog catalogPort, criteria recommenddto.CriteriaInput, exportDir string) Model {
	return Model{
		dashboard:     dashboard,
		ledger:        ledger,
		catalog:       catalog,
		exportDir:     exportDir,
		planView:      planview.New(),
		sessionsView:  sessionsview.New(),
		analyticsView: analyticsview.New(),
		criteria:      criteria,
		defaults:      criteria,
		activeTab:     tabPlan,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "loading…",
	}
}

func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts key input while open; async results still land.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.applySnapshot(msg.snap)
		if !m.loaded {
			m.loaded = true
			m.status = "ready"
		}
		if msg.snap.CatalogMessage != "" {
			m.status = msg.snap.CatalogMessage
		}
		return m, nil

	case mutatedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		return m, m.refreshCmd()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported " + msg.path
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			m.status = "refreshing…"
			return m, m.refreshCmd()
		case "a":
			return m, m.palette.OpenWith("session:add ")
		case "b":
			if m.activeTab == tabPlan {
				if game, ok := m.planView.SelectedGame(); ok {
					return m, m.blacklistCmd(game)
				}
			}
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabPlan:
		m.planView, cmd = m.planView.Update(msg)
	case tabSessions:
		m.sessionsView, cmd = m.sessionsView.Update(msg)
	case tabAnalytics:
		m.analyticsView, cmd = m.analyticsView.Update(msg)
	}
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.activeView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabPlan:
		return m.planView.View()
	case tabSessions:
		return m.sessionsView.View()
	case tabAnalytics:
		return m.analyticsView.View()
	}
	return ""
}

// renderHeader is the sticky strip: trip, bankroll, session bankroll, max
// bet and stop loss stay visible on every tab.
func (m Model) renderHeader() string {
	t := m.snap.Trip
	if !m.loaded {
		return theme.Header.Width(m.width).Render(theme.Muted.Render("profithopper"))
	}
	profit := theme.Signed(t.Profit.IsNegative()).Render(money.FormatSigned(t.Profit))
	parts := []string{
		theme.Title.Render(fmt.Sprintf("Trip %d · %s", t.TripID, t.Casino)),
		"Bankroll " + theme.Hot.Render(money.Format(t.CurrentBankroll)) + " (" + profit + ")",
		"Session bankroll " + theme.Hot.Render(money.Format(t.SessionBudget)),
		"Max bet " + money.Format(t.MaxBet),
		"Stop loss " + money.Format(t.StopLoss),
		theme.Muted.Render(fmt.Sprintf("%s · %d/%d sessions", t.RiskTier, t.CompletedSessions, t.PlannedSessions)),
	}
	return theme.Header.Width(m.width).Render(strings.Join(parts, theme.Muted.Render("  │  ")))
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  ::palette  a:add  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) applySnapshot(snap dashboarddto.Snapshot) {
	m.snap = snap
	m.planView.SetPlan(snap.Plan, m.criteria)
	m.sessionsView.SetData(snap.Sessions, snap.Summaries)
	m.analyticsView.SetData(snap.Trip, snap.Games, snap.Summaries)
}

func (m *Model) propagateSize() {
	// header, tab bar and status bar take six rows
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 6}
	m.planView, _ = m.planView.Update(sz)
	m.sessionsView, _ = m.sessionsView.Update(sz)
	m.analyticsView, _ = m.analyticsView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) refreshCmd() tea.Cmd {
	criteria := m.criteria
	return func() tea.Msg {
		snap, err := m.dashboard.Snapshot(context.Background(), criteria)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) blacklistCmd(game string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ledger.Blacklist(context.Background(), game); err != nil {
			return mutatedMsg{err: err}
		}
		return mutatedMsg{status: "hidden for this trip: " + game}
	}
}
