package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"profithopper/internal/modules/ledger/domain"
	apperrors "profithopper/internal/platform/errors"
)

var day1 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newLedger() *domain.Ledger {
	return domain.NewLedger(domain.TripSettings{Casino: "Delta Downs", StartingBankroll: dec("100"), PlannedSessions: 10}, []string{"Coushatta"}, day1)
}

func TestNewLedgerOpensFirstTrip(t *testing.T) {
	t.Parallel()
	l := newLedger()
	if l.CurrentTripID() != 1 {
		t.Fatalf("expected trip 1, got %d", l.CurrentTripID())
	}
	trip, err := l.Trip(1)
	if err != nil {
		t.Fatalf("trip 1: %v", err)
	}
	if trip.Casino != "Delta Downs" || !trip.StartingBankroll.Equal(dec("100")) || trip.PlannedSessions != 10 {
		t.Fatalf("unexpected trip defaults: %+v", trip)
	}
	casinos := l.Casinos()
	if len(casinos) != 2 || casinos[0] != "Coushatta" || casinos[1] != "Delta Downs" {
		t.Fatalf("expected sorted casinos, got %v", casinos)
	}
}

func TestEndToEndBankroll(t *testing.T) {
	t.Parallel()
	l := newLedger()
	tripID := l.StartTrip("CasinoA", dec("100.0"), 10, day1)
	if _, err := l.RecordSession(day1, "SlotX", dec("20"), dec("15"), ""); err != nil {
		t.Fatalf("record first session: %v", err)
	}
	bankroll, err := l.CurrentBankroll(tripID)
	if err != nil {
		t.Fatalf("bankroll: %v", err)
	}
	if !bankroll.Equal(dec("95.0")) {
		t.Fatalf("expected 95.0, got %s", bankroll)
	}
	if _, err := l.RecordSession(day1.AddDate(0, 0, 1), "SlotY", dec("10"), dec("30"), ""); err != nil {
		t.Fatalf("record second session: %v", err)
	}
	bankroll, _ = l.CurrentBankroll(tripID)
	if !bankroll.Equal(dec("115.0")) {
		t.Fatalf("expected 115.0, got %s", bankroll)
	}
}

func TestRecordSessionProfitIsExactSubtraction(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, out, profit string }{
		{"20", "15", "-5"},
		{"10", "30", "20"},
		{"0.10", "0.30", "0.20"},
		{"250.75", "0", "-250.75"},
		{"0", "0", "0"},
	}
	l := newLedger()
	for _, c := range cases {
		s, err := l.RecordSession(day1, "Blackjack", dec(c.in), dec(c.out), "")
		if err != nil {
			t.Fatalf("record %v: %v", c, err)
		}
		if !s.Profit.Equal(dec(c.profit)) {
			t.Fatalf("in=%s out=%s: expected profit %s, got %s", c.in, c.out, c.profit, s.Profit)
		}
		if !s.Profit.Equal(s.MoneyOut.Sub(s.MoneyIn)) {
			t.Fatalf("profit invariant broken: %+v", s)
		}
	}
}

func TestBankrollIndependentOfRecordingOrder(t *testing.T) {
	t.Parallel()
	flows := [][2]string{{"20", "15"}, {"10", "30"}, {"50", "0"}, {"5", "45.5"}}
	forward := newLedger()
	backward := newLedger()
	for i := range flows {
		f := flows[i]
		b := flows[len(flows)-1-i]
		if _, err := forward.RecordSession(day1.AddDate(0, 0, i), "Craps", dec(f[0]), dec(f[1]), ""); err != nil {
			t.Fatalf("forward: %v", err)
		}
		if _, err := backward.RecordSession(day1.AddDate(0, 0, -i), "Craps", dec(b[0]), dec(b[1]), ""); err != nil {
			t.Fatalf("backward: %v", err)
		}
	}
	a, _ := forward.CurrentBankroll(1)
	b, _ := backward.CurrentBankroll(1)
	want := dec("100").Add(dec("-5")).Add(dec("20")).Add(dec("-50")).Add(dec("40.5"))
	if !a.Equal(want) || !b.Equal(want) {
		t.Fatalf("expected %s for both orders, got %s and %s", want, a, b)
	}
}

func TestRecordSessionRejectsMissingGame(t *testing.T) {
	t.Parallel()
	l := newLedger()
	for _, game := range []string{"", "   ", domain.NoGameSelected} {
		if _, err := l.RecordSession(day1, game, dec("10"), dec("0"), ""); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("game %q: expected invalid input, got %v", game, err)
		}
	}
	if n := len(l.Sessions()); n != 0 {
		t.Fatalf("rejected sessions must not be written, got %d", n)
	}
}

func TestSessionsCopyCasinoFromTrip(t *testing.T) {
	t.Parallel()
	l := newLedger()
	l.StartTrip("Island View", dec("300"), 3, day1)
	s, err := l.RecordSession(day1, "Roulette", dec("10"), dec("12"), "red streak")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if s.Casino != "Island View" || s.TripID != 2 || s.Notes != "red streak" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestStartTripScopesSessions(t *testing.T) {
	t.Parallel()
	l := newLedger()
	if _, err := l.RecordSession(day1, "Baccarat", dec("10"), dec("20"), ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	next := l.StartTrip("Coushatta", dec("500"), 5, day1)
	if next != 2 || l.CurrentTripID() != 2 {
		t.Fatalf("expected trip 2 to be current, got id=%d current=%d", next, l.CurrentTripID())
	}
	if n := len(l.TripSessions(2)); n != 0 {
		t.Fatalf("new trip should start without sessions, got %d", n)
	}
	if n := len(l.TripSessions(1)); n != 1 {
		t.Fatalf("older trip must stay queryable, got %d sessions", n)
	}
	b, _ := l.CurrentBankroll(1)
	if !b.Equal(dec("110")) {
		t.Fatalf("expected trip 1 bankroll 110, got %s", b)
	}
}

func TestEndTripDiscardsSessionsAndMovesPointer(t *testing.T) {
	t.Parallel()
	l := newLedger()
	if _, err := l.RecordSession(day1, "Slots", dec("10"), dec("0"), ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	l.StartTrip("Coushatta", dec("200"), 4, day1)
	if _, err := l.RecordSession(day1, "Poker", dec("50"), dec("80"), ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Blacklist(2, "Keno"); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if err := l.EndTrip(2); err != nil {
		t.Fatalf("end trip: %v", err)
	}
	if l.CurrentTripID() != 1 {
		t.Fatalf("expected pointer to fall back to trip 1, got %d", l.CurrentTripID())
	}
	if n := len(l.TripSessions(2)); n != 0 {
		t.Fatalf("ended trip sessions should be discarded, got %d", n)
	}
	if len(l.Blacklisted(2)) != 0 {
		t.Fatalf("ended trip blacklist should be discarded")
	}
	if _, err := l.Trip(2); err != nil {
		t.Fatalf("trip record should survive end: %v", err)
	}
	if n := len(l.TripSessions(1)); n != 1 {
		t.Fatalf("other trips must keep their sessions, got %d", n)
	}

	if err := l.EndTrip(1); err != nil {
		t.Fatalf("end trip 1: %v", err)
	}
	if l.CurrentTripID() != 1 {
		t.Fatalf("pointer must floor at 1, got %d", l.CurrentTripID())
	}
	if err := l.EndTrip(42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown trip, got %v", err)
	}
}

func TestTripIDsStrictlyIncreaseAfterEnd(t *testing.T) {
	t.Parallel()
	l := newLedger()
	l.StartTrip("A", dec("1"), 1, day1)
	if err := l.EndTrip(2); err != nil {
		t.Fatalf("end: %v", err)
	}
	if id := l.StartTrip("B", dec("1"), 1, day1); id != 3 {
		t.Fatalf("expected id 3 after ending trip 2, got %d", id)
	}
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()
	l := newLedger()
	if err := l.UpdateSettings(1, dec("250"), 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	trip, _ := l.Trip(1)
	if !trip.StartingBankroll.Equal(dec("250")) || trip.PlannedSessions != 4 || trip.Casino != "Delta Downs" {
		t.Fatalf("unexpected trip after update: %+v", trip)
	}
	if err := l.UpdateSettings(9, dec("1"), 1); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddCasinoKeepsSortedUniqueNames(t *testing.T) {
	t.Parallel()
	l := newLedger()
	if !l.AddCasino("Paragon Marksville") {
		t.Fatalf("new casino should be added")
	}
	if l.AddCasino("Paragon Marksville") || l.AddCasino("  ") {
		t.Fatalf("duplicates and blanks must be ignored")
	}
	got := l.Casinos()
	want := []string{"Coushatta", "Delta Downs", "Paragon Marksville"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBlacklistIsScopedPerTrip(t *testing.T) {
	t.Parallel()
	l := newLedger()
	if err := l.Blacklist(1, "Keno"); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if err := l.Blacklist(1, "Big Six"); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	l.StartTrip("Coushatta", dec("100"), 2, day1)
	if got := l.Blacklisted(1); len(got) != 2 || got[0] != "Big Six" {
		t.Fatalf("expected sorted blacklist for trip 1, got %v", got)
	}
	if got := l.Blacklisted(2); len(got) != 0 {
		t.Fatalf("trip 2 should have no blacklist, got %v", got)
	}
	if err := l.Blacklist(1, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank game, got %v", err)
	}
}

func TestRevertSessionOnlyUndoesTheLastAppend(t *testing.T) {
	t.Parallel()
	l := newLedger()
	first, _ := l.RecordSession(day1, "Slots", dec("10"), dec("30"), "")
	second, _ := l.RecordSession(day1, "Keno", dec("5"), dec("0"), "")

	if err := l.RevertSession(first.ID); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input reverting an older session, got %v", err)
	}
	if err := l.RevertSession(second.ID); err != nil {
		t.Fatalf("revert: %v", err)
	}
	bankroll, _ := l.CurrentBankroll(1)
	if len(l.Sessions()) != 1 || !bankroll.Equal(dec("120")) {
		t.Fatalf("expected only the first session left, got %d sessions bankroll %s", len(l.Sessions()), bankroll)
	}
	next, _ := l.RecordSession(day1, "Craps", dec("1"), dec("1"), "")
	if next.ID != second.ID {
		t.Fatalf("expected reverted id %d to be reused, got %d", second.ID, next.ID)
	}
}
