package out

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"profithopper/internal/modules/ledger/domain"
)

type sessionRow struct {
	TripID   int    `csv:"trip_id"`
	Date     string `csv:"date"`
	Casino   string `csv:"casino"`
	Game     string `csv:"game"`
	MoneyIn  string `csv:"money_in"`
	MoneyOut string `csv:"money_out"`
	Profit   string `csv:"profit"`
	Notes    string `csv:"notes"`
}

type summaryRow struct {
	TripID           int    `csv:"trip_id"`
	NumSessions      int    `csv:"num_sessions"`
	Profit           string `csv:"profit"`
	CurrentBankroll  string `csv:"current_bankroll"`
	StartingBankroll string `csv:"starting_bankroll"`
	Casino           string `csv:"casino"`
}

// CSVExporter writes flat rows whose headers match the download files users
// already keep.
type CSVExporter struct{}

func NewCSVExporter() CSVExporter {
	return CSVExporter{}
}

func (CSVExporter) ExportSessions(w io.Writer, sessions []domain.Session) error {
	rows := make([]*sessionRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, &sessionRow{
			TripID:   s.TripID,
			Date:     s.Date.Format("2006-01-02"),
			Casino:   s.Casino,
			Game:     s.Game,
			MoneyIn:  s.MoneyIn.StringFixed(2),
			MoneyOut: s.MoneyOut.StringFixed(2),
			Profit:   s.Profit.StringFixed(2),
			Notes:    s.Notes,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}
	return nil
}

func (CSVExporter) ExportSummaries(w io.Writer, summaries []domain.TripSummary) error {
	rows := make([]*summaryRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, &summaryRow{
			TripID:           s.TripID,
			NumSessions:      s.Sessions,
			Profit:           s.Profit.StringFixed(2),
			CurrentBankroll:  s.CurrentBankroll.StringFixed(2),
			StartingBankroll: s.StartingBankroll.StringFixed(2),
			Casino:           s.Casino,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("export trip summaries: %w", err)
	}
	return nil
}
