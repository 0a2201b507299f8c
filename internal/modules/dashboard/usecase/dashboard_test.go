package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	dashboarddto "profithopper/internal/modules/dashboard/dto"
	"profithopper/internal/modules/dashboard/usecase"
	ledgerdto "profithopper/internal/modules/ledger/dto"
	ledgerin "profithopper/internal/modules/ledger/port/in"
	recommenddto "profithopper/internal/modules/recommend/dto"
	apperrors "profithopper/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeLedger answers the overview read; mutations are unused.
type fakeLedger struct {
	ledgerin.Usecase
	current    ledgerdto.CurrentOutput
	currentErr error
	sessions   []ledgerdto.SessionOutput
	owners     []string
}

func (f *fakeLedger) Overview(_ context.Context, owner string) (ledgerdto.OverviewOutput, error) {
	f.owners = append(f.owners, owner)
	if f.currentErr != nil {
		return ledgerdto.OverviewOutput{}, f.currentErr
	}
	return ledgerdto.OverviewOutput{
		Current:   f.current,
		Sessions:  f.sessions,
		Summaries: []ledgerdto.TripSummaryOutput{{TripID: f.current.TripID, Current: true}},
		Games:     []ledgerdto.GamePerformanceOutput{{Game: "Craps", Sessions: 1}},
	}, nil
}

// fakeRecommend replays outs in order and then repeats the last one.
type fakeRecommend struct {
	outs  []recommenddto.RecommendOutput
	got   recommenddto.RecommendInput
	calls int
}

func (f *fakeRecommend) Recommend(_ context.Context, in recommenddto.RecommendInput) (recommenddto.RecommendOutput, error) {
	f.got = in
	f.calls++
	if len(f.outs) == 0 {
		return recommenddto.RecommendOutput{}, nil
	}
	return f.outs[min(f.calls, len(f.outs))-1], nil
}

func TestSnapshotComposesLedgerAndPlan(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 9, 22, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{
		current:  ledgerdto.CurrentOutput{TripID: 4, Casino: "L'Auberge", CurrentBankroll: decimal.NewFromInt(240)},
		sessions: []ledgerdto.SessionOutput{{ID: 7, TripID: 4, Game: "Craps"}},
	}
	rec := &fakeRecommend{outs: []recommenddto.RecommendOutput{{TripID: 4, CatalogAvailable: true, Matches: 3}}}
	uc := usecase.NewInteractor(fixedClock{now: now}, ledger, rec)

	criteria := recommenddto.DefaultCriteria()
	snap, err := uc.Snapshot(context.Background(), dashboarddto.SnapshotInput{Owner: "u1", Criteria: criteria})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Trip.TripID != 4 || len(snap.Sessions) != 1 || len(snap.Summaries) != 1 || len(snap.Games) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(ledger.owners) != 1 || ledger.owners[0] != "u1" {
		t.Fatalf("expected one overview read for u1, got %v", ledger.owners)
	}
	if rec.got.Owner != "u1" || rec.got.Criteria != criteria {
		t.Fatalf("criteria not forwarded: %+v", rec.got)
	}
	if snap.CatalogMessage != "" || !snap.GeneratedAt.Equal(now) {
		t.Fatalf("unexpected message or timestamp: %q %v", snap.CatalogMessage, snap.GeneratedAt)
	}
}

func TestSnapshotSurfacesCatalogFailure(t *testing.T) {
	t.Parallel()
	ledger := &fakeLedger{current: ledgerdto.CurrentOutput{TripID: 1}}
	rec := &fakeRecommend{outs: []recommenddto.RecommendOutput{{TripID: 1, CatalogAvailable: false, Message: "Unable to load game list: timeout"}}}
	uc := usecase.NewInteractor(fixedClock{}, ledger, rec)

	snap, err := uc.Snapshot(context.Background(), dashboarddto.SnapshotInput{Owner: "u1"})
	if err != nil {
		t.Fatalf("catalog failure must not fail the snapshot: %v", err)
	}
	if snap.CatalogMessage != "Unable to load game list: timeout" {
		t.Fatalf("unexpected catalog message %q", snap.CatalogMessage)
	}
}

func TestSnapshotPropagatesLedgerErrors(t *testing.T) {
	t.Parallel()
	ledger := &fakeLedger{currentErr: apperrors.ErrInvalidInput}
	uc := usecase.NewInteractor(fixedClock{}, ledger, &fakeRecommend{})

	if _, err := uc.Snapshot(context.Background(), dashboarddto.SnapshotInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSnapshotRereadsWhenPlanMissesAWrite(t *testing.T) {
	t.Parallel()
	budget := decimal.NewFromInt(25)
	ledger := &fakeLedger{current: ledgerdto.CurrentOutput{TripID: 4, SessionBudget: budget}}
	rec := &fakeRecommend{outs: []recommenddto.RecommendOutput{
		{TripID: 4, SessionBudget: decimal.NewFromInt(30), CatalogAvailable: true},
		{TripID: 4, SessionBudget: budget, CatalogAvailable: true},
	}}
	uc := usecase.NewInteractor(fixedClock{}, ledger, rec)

	snap, err := uc.Snapshot(context.Background(), dashboarddto.SnapshotInput{Owner: "u1"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(ledger.owners) != 2 || rec.calls != 2 {
		t.Fatalf("expected one reread, got %d overviews and %d plans", len(ledger.owners), rec.calls)
	}
	if !snap.Plan.SessionBudget.Equal(snap.Trip.SessionBudget) {
		t.Fatalf("plan budget %s disagrees with trip budget %s", snap.Plan.SessionBudget, snap.Trip.SessionBudget)
	}
}

func TestSnapshotStopsRereadingAfterThreeAttempts(t *testing.T) {
	t.Parallel()
	ledger := &fakeLedger{current: ledgerdto.CurrentOutput{TripID: 5}}
	rec := &fakeRecommend{outs: []recommenddto.RecommendOutput{{TripID: 4, CatalogAvailable: true}}}
	uc := usecase.NewInteractor(fixedClock{}, ledger, rec)

	snap, err := uc.Snapshot(context.Background(), dashboarddto.SnapshotInput{Owner: "u1"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(ledger.owners) != 3 || rec.calls != 3 || snap.Trip.TripID != 5 {
		t.Fatalf("expected three attempts, got %d overviews, %d plans, trip %d", len(ledger.owners), rec.calls, snap.Trip.TripID)
	}
}
