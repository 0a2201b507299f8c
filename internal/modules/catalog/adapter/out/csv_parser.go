package out

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	"profithopper/internal/modules/catalog/domain"
	apperrors "profithopper/internal/platform/errors"
)

type catalogRecord struct {
	Name       string `csv:"game_name"`
	Type       string `csv:"type"`
	RTP        string `csv:"rtp"`
	MinBet     string `csv:"min_bet"`
	Volatility string `csv:"volatility"`
	Advantage  string `csv:"advantage_play_potential"`
	Bonus      string `csv:"bonus_frequency"`
	Tips       string `csv:"tips"`
}

// CSVParser rewrites the header row onto canonical column names and decodes
// the rows with gocsv.
type CSVParser struct{}

func NewCSVParser() CSVParser {
	return CSVParser{}
}

func (CSVParser) Parse(raw []byte) ([]domain.Game, int, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read catalog csv: %v: %w", err, apperrors.ErrCatalogLoad)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("catalog is empty: %w", apperrors.ErrCatalogLoad)
	}
	header, err := domain.CanonicalHeaders(rows[0])
	if err != nil {
		return nil, 0, err
	}

	buf := bytes.Buffer{}
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, 0, fmt.Errorf("rewrite catalog header: %w", err)
	}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if err := w.Write(fit(row, len(header))); err != nil {
			return nil, 0, fmt.Errorf("rewrite catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, fmt.Errorf("rewrite catalog: %w", err)
	}

	records := []*catalogRecord{}
	if err := gocsv.UnmarshalBytes(buf.Bytes(), &records); err != nil {
		return nil, 0, fmt.Errorf("decode catalog rows: %v: %w", err, apperrors.ErrCatalogLoad)
	}
	games := make([]domain.Game, 0, len(records))
	dropped := 0
	for _, r := range records {
		g, ok := domain.Coerce(domain.RawGame{
			Name:       r.Name,
			Type:       r.Type,
			RTP:        r.RTP,
			MinBet:     r.MinBet,
			Volatility: r.Volatility,
			Advantage:  r.Advantage,
			Bonus:      r.Bonus,
			Tip:        r.Tips,
		})
		if !ok {
			dropped++
			continue
		}
		games = append(games, g)
	}
	return games, dropped, nil
}

func fit(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
