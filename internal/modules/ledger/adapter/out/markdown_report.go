package out

import (
	"fmt"
	"strings"

	"profithopper/internal/modules/ledger/domain"
	"profithopper/internal/platform/markdown"
	"profithopper/internal/platform/money"
)

const (
	sessionsBlockStart = "<!-- profithopper:sessions:start -->"
	sessionsBlockEnd   = "<!-- profithopper:sessions:end -->"
	gamesBlockStart    = "<!-- profithopper:games:start -->"
	gamesBlockEnd      = "<!-- profithopper:games:end -->"
)

// MarkdownReportRenderer writes a trip report as a markdown note with YAML
// frontmatter. Generated tables live in managed blocks.
type MarkdownReportRenderer struct{}

func NewMarkdownReportRenderer() MarkdownReportRenderer {
	return MarkdownReportRenderer{}
}

func (MarkdownReportRenderer) Render(report domain.TripReport) (string, error) {
	sum := report.Summary
	doc := markdown.Document{
		Meta: map[string]any{
			"trip_id":           sum.TripID,
			"casino":            sum.Casino,
			"sessions":          sum.Sessions,
			"planned_sessions":  sum.PlannedSessions,
			"starting_bankroll": sum.StartingBankroll.StringFixed(2),
			"current_bankroll":  sum.CurrentBankroll.StringFixed(2),
			"profit":            sum.Profit.StringFixed(2),
			"win_rate":          fmt.Sprintf("%.2f", report.Stats.WinRate),
			"generated_at":      report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
	}

	body := fmt.Sprintf("# Trip %d: %s\n\n", sum.TripID, sum.Casino)
	body += fmt.Sprintf("- Starting bankroll: %s\n", money.Format(sum.StartingBankroll))
	body += fmt.Sprintf("- Current bankroll: %s\n", money.Format(sum.CurrentBankroll))
	body += fmt.Sprintf("- Profit: %s\n", money.FormatSigned(sum.Profit))
	body += fmt.Sprintf("- Sessions: %d of %d planned\n", sum.Sessions, sum.PlannedSessions)
	if report.Stats.Sessions > 0 {
		body += fmt.Sprintf("- Win rate: %.0f%%\n", report.Stats.WinRate*100)
		body += fmt.Sprintf("- Best session: %s\n", money.FormatSigned(report.Stats.BestProfit))
		body += fmt.Sprintf("- Worst session: %s\n", money.FormatSigned(report.Stats.WorstProfit))
	}
	body += "\n## Sessions\n\n"
	body = markdown.ReplaceBlock(body, sessionsBlockStart, sessionsBlockEnd, sessionsTable(report.Sessions))
	body += "\n## Games\n\n"
	body = markdown.ReplaceBlock(body, gamesBlockStart, gamesBlockEnd, gamesTable(report.Games))
	doc.Body = body

	out, err := doc.Render()
	if err != nil {
		return "", fmt.Errorf("render trip report: %w", err)
	}
	return out, nil
}

func sessionsTable(sessions []domain.Session) string {
	if len(sessions) == 0 {
		return "_No sessions recorded._"
	}
	b := strings.Builder{}
	b.WriteString("| Date | Game | In | Out | Profit | Notes |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, s := range sessions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Date.Format("2006-01-02"),
			cell(s.Game),
			money.Format(s.MoneyIn),
			money.Format(s.MoneyOut),
			money.FormatSigned(s.Profit),
			cell(s.Notes),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func gamesTable(games []domain.GamePerformance) string {
	if len(games) == 0 {
		return "_No games played._"
	}
	b := strings.Builder{}
	b.WriteString("| Game | Sessions | Wins | Profit |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, g := range games {
		fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", cell(g.Game), g.Sessions, g.Wins, money.FormatSigned(g.Profit))
	}
	return strings.TrimRight(b.String(), "\n")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
