package out_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ledgerout "profithopper/internal/modules/ledger/adapter/out"
	"profithopper/internal/modules/ledger/domain"
	apperrors "profithopper/internal/platform/errors"
	"profithopper/internal/platform/markdown"
)

var played = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func session(id, trip int, game, profit string) domain.Session {
	p := dec(profit)
	return domain.Session{ID: id, TripID: trip, Date: played, Casino: "Delta Downs", Game: game, MoneyIn: dec("50"), MoneyOut: dec("50").Add(p), Profit: p}
}

func newLedgerFactory() func() *domain.Ledger {
	return func() *domain.Ledger {
		return domain.NewLedger(domain.TripSettings{Casino: "Delta Downs", StartingBankroll: dec("100"), PlannedSessions: 10}, nil, played)
	}
}

func TestMemoryLedgerStoreIsolatesOwners(t *testing.T) {
	t.Parallel()
	store := ledgerout.NewMemoryLedgerStore(newLedgerFactory(), 0)
	ctx := context.Background()
	if err := store.With(ctx, "alice", func(l *domain.Ledger) error {
		_, err := l.RecordSession(played, "Slots", dec("10"), dec("0"), "")
		return err
	}); err != nil {
		t.Fatalf("alice record: %v", err)
	}
	var bobSessions int
	if err := store.With(ctx, "bob", func(l *domain.Ledger) error {
		bobSessions = len(l.Sessions())
		return nil
	}); err != nil {
		t.Fatalf("bob view: %v", err)
	}
	if bobSessions != 0 {
		t.Fatalf("owners must not share ledgers, bob sees %d sessions", bobSessions)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 owners, got %d", store.Len())
	}
	if err := store.With(ctx, " ", func(*domain.Ledger) error { return nil }); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank owner, got %v", err)
	}
}

func TestMemoryLedgerStoreSerialisesOwner(t *testing.T) {
	t.Parallel()
	store := ledgerout.NewMemoryLedgerStore(newLedgerFactory(), 0)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.With(ctx, "alice", func(l *domain.Ledger) error {
				_, err := l.RecordSession(played, "Slots", dec("1"), dec("2"), "")
				return err
			})
		}()
	}
	wg.Wait()
	var bankroll decimal.Decimal
	_ = store.With(ctx, "alice", func(l *domain.Ledger) error {
		var err error
		bankroll, err = l.CurrentBankroll(1)
		return err
	})
	if !bankroll.Equal(dec("150")) {
		t.Fatalf("expected 150 after 50 concurrent wins, got %s", bankroll)
	}
}

func TestMemoryLedgerStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()
	store := ledgerout.NewMemoryLedgerStore(newLedgerFactory(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	if err := store.With(ctx, "alice", func(*domain.Ledger) error { called = true; return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if called {
		t.Fatalf("callback must not run on a cancelled context")
	}
}

func TestMemoryLedgerStoreExpiresIdleOwners(t *testing.T) {
	t.Parallel()
	store := ledgerout.NewMemoryLedgerStore(newLedgerFactory(), 20*time.Millisecond, "local")
	var mu sync.Mutex
	released := map[string]int{}
	store.OnRelease(func(owner string) {
		mu.Lock()
		released[owner]++
		mu.Unlock()
	})
	ctx := context.Background()
	for _, owner := range []string{"local", "visitor"} {
		if err := store.With(ctx, owner, func(l *domain.Ledger) error {
			_, err := l.RecordSession(played, "Slots", dec("10"), dec("0"), "")
			return err
		}); err != nil {
			t.Fatalf("%s record: %v", owner, err)
		}
	}

	time.Sleep(60 * time.Millisecond)
	if n := store.Len(); n != 1 {
		t.Fatalf("expected only the pinned owner to survive, got %d", n)
	}

	var localSessions, visitorSessions int
	_ = store.With(ctx, "local", func(l *domain.Ledger) error { localSessions = len(l.Sessions()); return nil })
	_ = store.With(ctx, "visitor", func(l *domain.Ledger) error { visitorSessions = len(l.Sessions()); return nil })
	if localSessions != 1 || visitorSessions != 0 {
		t.Fatalf("expected pinned history kept and expired owner reset, got %d and %d", localSessions, visitorSessions)
	}

	mu.Lock()
	defer mu.Unlock()
	// once on first use, once on expiry or re-creation
	if released["visitor"] < 2 || released["local"] != 1 {
		t.Fatalf("unexpected releases %v", released)
	}
}

func TestSQLiteTripProjectorAggregatesPerGame(t *testing.T) {
	t.Parallel()
	projector, err := ledgerout.NewSQLiteTripProjector(":memory:")
	if err != nil {
		t.Fatalf("open projector: %v", err)
	}
	defer projector.Close()
	ctx := context.Background()
	for _, s := range []domain.Session{
		session(1, 1, "Blackjack", "25.50"),
		session(2, 1, "Slots", "-40"),
		session(3, 1, "Blackjack", "-5.25"),
		session(4, 2, "Blackjack", "100"),
	} {
		if err := projector.AppendSession(ctx, "alice", s); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := projector.AppendSession(ctx, "bob", session(1, 1, "Keno", "9")); err != nil {
		t.Fatalf("append bob: %v", err)
	}

	perf, err := projector.GamePerformance(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("game performance: %v", err)
	}
	if len(perf) != 2 {
		t.Fatalf("expected 2 games, got %+v", perf)
	}
	if perf[0].Game != "Blackjack" || perf[0].Sessions != 2 || perf[0].Wins != 1 || !perf[0].Profit.Equal(dec("20.25")) {
		t.Fatalf("unexpected blackjack row: %+v", perf[0])
	}
	if perf[1].Game != "Slots" || !perf[1].Profit.Equal(dec("-40")) {
		t.Fatalf("unexpected slots row: %+v", perf[1])
	}

	if err := projector.PurgeTrip(ctx, "alice", 1); err != nil {
		t.Fatalf("purge: %v", err)
	}
	perf, err = projector.GamePerformance(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("game performance after purge: %v", err)
	}
	if len(perf) != 0 {
		t.Fatalf("expected purged trip to be empty, got %+v", perf)
	}
	other, _ := projector.GamePerformance(ctx, "alice", 2)
	bob, _ := projector.GamePerformance(ctx, "bob", 1)
	if len(other) != 1 || len(bob) != 1 {
		t.Fatalf("purge must only touch one owner's trip: %+v %+v", other, bob)
	}
	if err := projector.PurgeOwner(ctx, "alice"); err != nil {
		t.Fatalf("purge owner: %v", err)
	}
	other, _ = projector.GamePerformance(ctx, "alice", 2)
	bob, _ = projector.GamePerformance(ctx, "bob", 1)
	if len(other) != 0 || len(bob) != 1 {
		t.Fatalf("purge owner must drop only alice: %+v %+v", other, bob)
	}
}

func TestCSVExporterUsesDownloadHeaders(t *testing.T) {
	t.Parallel()
	exporter := ledgerout.NewCSVExporter()
	buf := bytes.Buffer{}
	s := session(1, 3, "Blackjack", "-12.5")
	s.Notes = "tough shoe, left early"
	if err := exporter.ExportSessions(&buf, []domain.Session{s}); err != nil {
		t.Fatalf("export sessions: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "trip_id,date,casino,game,money_in,money_out,profit,notes" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != `3,2026-04-02,Delta Downs,Blackjack,50.00,37.50,-12.50,"tough shoe, left early"` {
		t.Fatalf("unexpected row: %s", lines[1])
	}

	buf.Reset()
	sum := domain.TripSummary{TripID: 3, Casino: "Delta Downs", Sessions: 1, Profit: dec("-12.5"), StartingBankroll: dec("100"), CurrentBankroll: dec("87.5")}
	if err := exporter.ExportSummaries(&buf, []domain.TripSummary{sum}); err != nil {
		t.Fatalf("export summaries: %v", err)
	}
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "trip_id,num_sessions,profit,current_bankroll,starting_bankroll,casino" {
		t.Fatalf("unexpected summary header: %s", lines[0])
	}
	if lines[1] != "3,1,-12.50,87.50,100.00,Delta Downs" {
		t.Fatalf("unexpected summary row: %s", lines[1])
	}
}

func TestMarkdownReportHasFrontmatterAndTables(t *testing.T) {
	t.Parallel()
	report := domain.TripReport{
		Summary: domain.TripSummary{TripID: 2, Casino: "Coushatta", Sessions: 1, PlannedSessions: 4, Profit: dec("15"), StartingBankroll: dec("200"), CurrentBankroll: dec("215")},
		Stats:   domain.TripStats{Sessions: 1, Wins: 1, WinRate: 1, BestProfit: dec("15"), WorstProfit: dec("15")},
		Sessions: []domain.Session{
			session(7, 2, "Pai Gow | Poker", "15"),
		},
		Games:       []domain.GamePerformance{{Game: "Pai Gow | Poker", Sessions: 1, Wins: 1, Profit: dec("15")}},
		GeneratedAt: time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC),
	}
	out, err := ledgerout.NewMarkdownReportRenderer().Render(report)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := markdown.Parse(out)
	if err != nil {
		t.Fatalf("parse rendered report: %v", err)
	}
	if doc.Meta["trip_id"] != 2 || doc.Meta["current_bankroll"] != "215.00" || doc.Meta["casino"] != "Coushatta" {
		t.Fatalf("unexpected frontmatter: %v", doc.Meta)
	}
	for _, want := range []string{
		"# Trip 2: Coushatta",
		"- Profit: +$15.00",
		`| 2026-04-02 | Pai Gow \| Poker | $50.00 | $65.00 | +$15.00 |  |`,
		"<!-- profithopper:games:start -->",
	} {
		if !strings.Contains(doc.Body, want) {
			t.Fatalf("report body missing %q:\n%s", want, doc.Body)
		}
	}
}
