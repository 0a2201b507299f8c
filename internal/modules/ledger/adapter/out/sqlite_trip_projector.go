package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"profithopper/internal/modules/ledger/domain"

	_ "modernc.org/sqlite"
)

const memoryDSN = ":memory:"

// SQLiteTripProjector mirrors recorded sessions into sqlite so per-game
// aggregates can be answered with SQL. Amounts are stored as integer cents.
type SQLiteTripProjector struct {
	db *sql.DB
}

func NewSQLiteTripProjector(dsn string) (*SQLiteTripProjector, error) {
	if dsn == "" {
		dsn = memoryDSN
	}
	if dsn != memoryDSN {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every pooled connection to :memory: would see its own empty database
	db.SetMaxOpenConns(1)
	projector := &SQLiteTripProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteTripProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  owner TEXT NOT NULL,
  session_id INTEGER NOT NULL,
  trip_id INTEGER NOT NULL,
  game TEXT NOT NULL,
  played_on TEXT NOT NULL,
  profit_cents INTEGER NOT NULL,
  PRIMARY KEY (owner, session_id)
);
CREATE INDEX IF NOT EXISTS sessions_trip ON sessions(owner, trip_id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteTripProjector) AppendSession(ctx context.Context, owner string, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (owner, session_id, trip_id, game, played_on, profit_cents)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(owner, session_id) DO UPDATE SET
  trip_id=excluded.trip_id,
  game=excluded.game,
  played_on=excluded.played_on,
  profit_cents=excluded.profit_cents;
`
	_, err := s.db.ExecContext(ctx, stmt,
		owner,
		session.ID,
		session.TripID,
		session.Game,
		session.Date.Format("2006-01-02"),
		toCents(session.Profit),
	)
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	return nil
}

func (s *SQLiteTripProjector) PurgeTrip(ctx context.Context, owner string, tripID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner = ? AND trip_id = ?`, owner, tripID); err != nil {
		return fmt.Errorf("purge trip %d: %w", tripID, err)
	}
	return nil
}

// PurgeOwner drops every projected session of an owner.
func (s *SQLiteTripProjector) PurgeOwner(ctx context.Context, owner string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("purge owner: %w", err)
	}
	return nil
}

func (s *SQLiteTripProjector) GamePerformance(ctx context.Context, owner string, tripID int) ([]domain.GamePerformance, error) {
	const query = `
SELECT game,
       COUNT(*),
       SUM(CASE WHEN profit_cents > 0 THEN 1 ELSE 0 END),
       SUM(profit_cents)
FROM sessions
WHERE owner = ? AND trip_id = ?
GROUP BY game
ORDER BY SUM(profit_cents) DESC, game ASC;
`
	rows, err := s.db.QueryContext(ctx, query, owner, tripID)
	if err != nil {
		return nil, fmt.Errorf("query game performance: %w", err)
	}
	defer rows.Close()

	out := []domain.GamePerformance{}
	for rows.Next() {
		var (
			perf  domain.GamePerformance
			cents int64
		)
		if err := rows.Scan(&perf.Game, &perf.Sessions, &perf.Wins, &cents); err != nil {
			return nil, fmt.Errorf("scan game performance: %w", err)
		}
		perf.Profit = decimal.New(cents, -2)
		out = append(out, perf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game performance: %w", err)
	}
	return out, nil
}

func (s *SQLiteTripProjector) Close() error {
	return s.db.Close()
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
