package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ledgerout "profithopper/internal/modules/ledger/adapter/out"
	"profithopper/internal/modules/ledger/domain"
	ledgerdto "profithopper/internal/modules/ledger/dto"
	ledgerin "profithopper/internal/modules/ledger/port/in"
	"profithopper/internal/modules/ledger/service"
	"profithopper/internal/modules/ledger/usecase"
	apperrors "profithopper/internal/platform/errors"
	"profithopper/internal/platform/logging"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUsecase(t *testing.T) ledgerin.Usecase {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 5, 9, 21, 15, 0, 0, time.UTC)}
	projector, err := ledgerout.NewSQLiteTripProjector(":memory:")
	if err != nil {
		t.Fatalf("open projector: %v", err)
	}
	t.Cleanup(func() { _ = projector.Close() })
	store := ledgerout.NewMemoryLedgerStore(func() *domain.Ledger {
		return domain.NewLedger(domain.TripSettings{Casino: "Caesar's Horseshoe Lake Charles", StartingBankroll: dec("100"), PlannedSessions: 10}, []string{"Delta Downs"}, clk.Now())
	}, 0)
	svc := service.NewLedgerService(clk, store, projector, ledgerout.NewCSVExporter(), ledgerout.NewMarkdownReportRenderer(), domain.DefaultBudgetPolicy(), logging.Discard())
	return usecase.NewInteractor(svc)
}

func TestTripLifecycleRecomputesBankrollAndBudget(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()

	start, err := uc.StartTrip(ctx, ledgerdto.StartTripInput{Owner: "u1", Casino: "CasinoA", StartingBankroll: dec("100.0"), PlannedSessions: 10})
	if err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if start.TripID != 2 {
		t.Fatalf("expected trip 2 after the default trip, got %d", start.TripID)
	}
	if _, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: "SlotX", MoneyIn: dec("20"), MoneyOut: dec("15")}); err != nil {
		t.Fatalf("record: %v", err)
	}
	cur, err := uc.Current(ctx, "u1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !cur.CurrentBankroll.Equal(dec("95")) || cur.CompletedSessions != 1 || cur.RemainingSessions != 9 {
		t.Fatalf("unexpected current after loss: %+v", cur)
	}
	if _, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: "SlotY", MoneyIn: dec("10"), MoneyOut: dec("30")}); err != nil {
		t.Fatalf("record: %v", err)
	}
	cur, _ = uc.Current(ctx, "u1")
	if !cur.CurrentBankroll.Equal(dec("115")) || !cur.Profit.Equal(dec("15")) {
		t.Fatalf("expected bankroll 115, got %+v", cur)
	}
	// 115 / 8 = 14.375 sits in the conservative tier
	if !cur.SessionBudget.Equal(dec("14.375")) || cur.RiskTier != string(domain.RiskConservative) {
		t.Fatalf("unexpected budget/tier: %s %s", cur.SessionBudget, cur.RiskTier)
	}
	if !cur.MaxBet.Equal(dec("1.4375")) || !cur.StopLoss.Equal(dec("5.75")) {
		t.Fatalf("unexpected max bet/stop loss: %s %s", cur.MaxBet, cur.StopLoss)
	}
	if cur.Casino != "CasinoA" || len(cur.Casinos) != 3 {
		t.Fatalf("started casino should join the known list: %+v", cur.Casinos)
	}
}

func TestRecordSessionDefaultsDateAndRejectsSentinel(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()
	s, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: "Craps", MoneyIn: dec("40"), MoneyOut: dec("0"), Notes: "  cold table "})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if s.Date.IsZero() || s.Notes != "cold table" || !s.Profit.Equal(dec("-40")) {
		t.Fatalf("unexpected session: %+v", s)
	}
	if _, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: domain.NoGameSelected, MoneyIn: dec("1")}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for sentinel game, got %v", err)
	}
}

func TestStartTripValidatesInputs(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()
	bad := []ledgerdto.StartTripInput{
		{Owner: "u1", Casino: "", StartingBankroll: dec("10"), PlannedSessions: 1},
		{Owner: "u1", Casino: "Delta Downs", StartingBankroll: dec("-1"), PlannedSessions: 1},
		{Owner: "u1", Casino: "Delta Downs", StartingBankroll: dec("10"), PlannedSessions: 0},
	}
	for _, in := range bad {
		if _, err := uc.StartTrip(ctx, in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", in, err)
		}
	}
	if _, err := uc.StartTrip(ctx, ledgerdto.StartTripInput{Casino: "Delta Downs", StartingBankroll: dec("10"), PlannedSessions: 1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input without an owner, got %v", err)
	}
}

func TestEndTripDiscardsHistoryAndProjection(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()
	if _, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: "Slots", MoneyIn: dec("10"), MoneyOut: dec("25")}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := uc.StartTrip(ctx, ledgerdto.StartTripInput{Owner: "u1", Casino: "Coushatta", StartingBankroll: dec("300"), PlannedSessions: 3}); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, game := range []string{"Blackjack", "Blackjack", "Roulette"} {
		if _, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: game, MoneyIn: dec("50"), MoneyOut: dec("60")}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	perf, err := uc.GamePerformance(ctx, "u1")
	if err != nil {
		t.Fatalf("performance: %v", err)
	}
	if len(perf) != 2 || perf[0].Game != "Blackjack" || perf[0].Sessions != 2 || !perf[0].Profit.Equal(dec("20")) {
		t.Fatalf("unexpected performance: %+v", perf)
	}

	end, err := uc.EndTrip(ctx, ledgerdto.EndTripInput{Owner: "u1"})
	if err != nil {
		t.Fatalf("end trip: %v", err)
	}
	if end.EndedTripID != 2 || end.CurrentTripID != 1 || end.Discarded != 3 {
		t.Fatalf("unexpected end output: %+v", end)
	}
	all, _ := uc.Sessions(ctx, ledgerdto.SessionsInput{Owner: "u1", All: true})
	if len(all) != 1 || all[0].TripID != 1 {
		t.Fatalf("only trip 1 history should remain, got %+v", all)
	}
	ended, err := uc.Sessions(ctx, ledgerdto.SessionsInput{Owner: "u1", TripID: 2})
	if err != nil || len(ended) != 0 {
		t.Fatalf("ended trip should be empty but queryable, got %v %v", ended, err)
	}
	perf, _ = uc.GamePerformance(ctx, "u1")
	if len(perf) != 1 || perf[0].Game != "Slots" {
		t.Fatalf("performance should follow the current pointer back to trip 1, got %+v", perf)
	}
	if _, err := uc.Sessions(ctx, ledgerdto.SessionsInput{Owner: "u1", TripID: 9}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown trip, got %v", err)
	}
}

func TestUpdateSettingsBlacklistAndCasinos(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()
	cur, err := uc.UpdateSettings(ctx, ledgerdto.UpdateSettingsInput{Owner: "u1", StartingBankroll: dec("2400"), PlannedSessions: 2})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !cur.SessionBudget.Equal(dec("500")) || cur.RiskTier != string(domain.RiskStandard) {
		t.Fatalf("expected capped standard budget, got %s %s", cur.SessionBudget, cur.RiskTier)
	}
	if _, err := uc.UpdateSettings(ctx, ledgerdto.UpdateSettingsInput{Owner: "u1", StartingBankroll: dec("10"), PlannedSessions: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	games, err := uc.BlacklistGame(ctx, ledgerdto.BlacklistInput{Owner: "u1", Game: "Keno"})
	if err != nil || len(games) != 1 || games[0] != "Keno" {
		t.Fatalf("unexpected blacklist result: %v %v", games, err)
	}
	casinos, err := uc.AddCasino(ctx, ledgerdto.AddCasinoInput{Owner: "u1", Name: "Island View"})
	if err != nil || len(casinos) != 3 {
		t.Fatalf("unexpected casinos: %v %v", casinos, err)
	}
	if _, err := uc.AddCasino(ctx, ledgerdto.AddCasinoInput{Owner: "u1", Name: " "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank casino, got %v", err)
	}
	cur, _ = uc.Current(ctx, "u1")
	if len(cur.Blacklist) != 1 {
		t.Fatalf("current trip should report its blacklist, got %v", cur.Blacklist)
	}
}

func TestExports(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()
	if _, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: "Baccarat", MoneyIn: dec("100"), MoneyOut: dec("180")}); err != nil {
		t.Fatalf("record: %v", err)
	}

	sessions, err := uc.ExportSessionsCSV(ctx, "u1")
	if err != nil {
		t.Fatalf("export sessions: %v", err)
	}
	if sessions.Filename != "session_history.csv" || !strings.Contains(string(sessions.Body), "1,2026-05-09,Caesar's Horseshoe Lake Charles,Baccarat,100.00,180.00,80.00,") {
		t.Fatalf("unexpected session export: %s\n%s", sessions.Filename, sessions.Body)
	}

	trips, err := uc.ExportSummariesCSV(ctx, "u1")
	if err != nil {
		t.Fatalf("export trips: %v", err)
	}
	if !strings.Contains(string(trips.Body), "1,1,80.00,180.00,100.00,Caesar's Horseshoe Lake Charles") {
		t.Fatalf("unexpected trip export: %s", trips.Body)
	}

	report, err := uc.ExportReport(ctx, "u1")
	if err != nil {
		t.Fatalf("export report: %v", err)
	}
	if report.Filename != "trip-1-caesars-horseshoe-lake-charles.md" || report.ContentType != "text/markdown" {
		t.Fatalf("unexpected report metadata: %+v", report.Filename)
	}
	if !strings.Contains(string(report.Body), "| Baccarat | 1 | 1 | +$80.00 |") {
		t.Fatalf("report should include projected game performance:\n%s", report.Body)
	}

	summaries, err := uc.Summaries(ctx, "u1")
	if err != nil || len(summaries) != 1 || !summaries[0].Current {
		t.Fatalf("unexpected summaries: %+v %v", summaries, err)
	}
}

func TestOverviewIsConsistentUnderConcurrentWrites(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := 0; n < 40; n++ {
			if _, err := uc.RecordSession(ctx, ledgerdto.RecordSessionInput{Owner: "u1", Game: "Craps", MoneyIn: dec("10"), MoneyOut: dec("12")}); err != nil {
				t.Errorf("record: %v", err)
				return
			}
		}
	}()
	for n := 0; n < 40; n++ {
		ov, err := uc.Overview(ctx, "u1")
		if err != nil {
			t.Fatalf("overview: %v", err)
		}
		recorded := len(ov.Sessions)
		if ov.Current.CompletedSessions != recorded {
			t.Fatalf("current counts %d sessions but %d were listed", ov.Current.CompletedSessions, recorded)
		}
		if want := dec("100").Add(dec("2").Mul(decimal.NewFromInt(int64(recorded)))); !ov.Current.CurrentBankroll.Equal(want) {
			t.Fatalf("bankroll %s does not match %d sessions", ov.Current.CurrentBankroll, recorded)
		}
		if len(ov.Summaries) != 1 || ov.Summaries[0].Sessions != recorded {
			t.Fatalf("summary disagrees with %d sessions: %+v", recorded, ov.Summaries)
		}
		projected := 0
		for _, g := range ov.Games {
			projected += g.Sessions
		}
		if projected != recorded {
			t.Fatalf("per-game totals count %d sessions, ledger has %d", projected, recorded)
		}
	}
	wg.Wait()

	ov, err := uc.Overview(ctx, "u1")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(ov.Sessions) != 40 || !ov.Summaries[0].Current || len(ov.Games) != 1 || ov.Games[0].Game != "Craps" {
		t.Fatalf("unexpected final overview: %+v", ov)
	}
}
