package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "profithopper/internal/platform/errors"
)

// NoGameSelected is the placeholder a session form submits before a game is chosen.
const NoGameSelected = "Select Game"

// TripSettings carries the user-editable fields of a trip.
type TripSettings struct {
	Casino           string
	StartingBankroll decimal.Decimal
	PlannedSessions  int
}

type Trip struct {
	ID               int
	Casino           string
	StartingBankroll decimal.Decimal
	PlannedSessions  int
	StartedAt        time.Time
}

// Session is one recorded play. It is never edited after it is recorded.
type Session struct {
	ID       int
	TripID   int
	Date     time.Time
	Casino   string
	Game     string
	MoneyIn  decimal.Decimal
	MoneyOut decimal.Decimal
	Profit   decimal.Decimal
	Notes    string
}

// Ledger owns every trip, the global session log and the current-trip
// pointer for one owner. It is not safe for concurrent use; callers
// serialise access.
type Ledger struct {
	trips         map[int]Trip
	sessions      []Session
	current       int
	lastTripID    int
	lastSessionID int
	casinos       []string
	blacklist     map[int]map[string]struct{}
}

// NewLedger opens trip 1 from defaults so the current pointer always
// references a trip.
func NewLedger(defaults TripSettings, casinos []string, now time.Time) *Ledger {
	l := &Ledger{
		trips:     map[int]Trip{},
		blacklist: map[int]map[string]struct{}{},
	}
	for _, c := range casinos {
		l.AddCasino(c)
	}
	l.AddCasino(defaults.Casino)
	l.StartTrip(defaults.Casino, defaults.StartingBankroll, defaults.PlannedSessions, now)
	return l
}

// StartTrip allocates the next trip id and makes it current. Inputs are
// stored verbatim; callers validate them.
func (l *Ledger) StartTrip(casino string, startingBankroll decimal.Decimal, plannedSessions int, now time.Time) int {
	l.lastTripID++
	l.trips[l.lastTripID] = Trip{
		ID:               l.lastTripID,
		Casino:           casino,
		StartingBankroll: startingBankroll,
		PlannedSessions:  plannedSessions,
		StartedAt:        now,
	}
	l.current = l.lastTripID
	return l.lastTripID
}

func (l *Ledger) CurrentTripID() int {
	return l.current
}

func (l *Ledger) Trip(tripID int) (Trip, error) {
	trip, ok := l.trips[tripID]
	if !ok {
		return Trip{}, fmt.Errorf("trip %d: %w", tripID, apperrors.ErrNotFound)
	}
	return trip, nil
}

// Trips returns every trip ordered by id.
func (l *Ledger) Trips() []Trip {
	out := make([]Trip, 0, len(l.trips))
	for _, t := range l.trips {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateSettings edits the starting bankroll and planned session count of a trip.
func (l *Ledger) UpdateSettings(tripID int, startingBankroll decimal.Decimal, plannedSessions int) error {
	trip, err := l.Trip(tripID)
	if err != nil {
		return err
	}
	trip.StartingBankroll = startingBankroll
	trip.PlannedSessions = plannedSessions
	l.trips[tripID] = trip
	return nil
}

// RecordSession appends a session to the current trip. Profit is derived,
// and no floor is applied to the resulting bankroll.
func (l *Ledger) RecordSession(date time.Time, game string, moneyIn, moneyOut decimal.Decimal, notes string) (Session, error) {
	game = strings.TrimSpace(game)
	if game == "" || game == NoGameSelected {
		return Session{}, fmt.Errorf("a game must be selected: %w", apperrors.ErrInvalidInput)
	}
	trip, err := l.Trip(l.current)
	if err != nil {
		return Session{}, err
	}
	l.lastSessionID++
	s := Session{
		ID:       l.lastSessionID,
		TripID:   trip.ID,
		Date:     date,
		Casino:   trip.Casino,
		Game:     game,
		MoneyIn:  moneyIn,
		MoneyOut: moneyOut,
		Profit:   moneyOut.Sub(moneyIn),
		Notes:    notes,
	}
	l.sessions = append(l.sessions, s)
	return s, nil
}

// RevertSession removes the most recently recorded session and releases its
// id. Only the last session can be reverted.
func (l *Ledger) RevertSession(sessionID int) error {
	n := len(l.sessions)
	if n == 0 || l.sessions[n-1].ID != sessionID {
		return fmt.Errorf("session %d is not the last recorded: %w", sessionID, apperrors.ErrInvalidInput)
	}
	l.sessions = l.sessions[:n-1]
	l.lastSessionID--
	return nil
}

// TripSessions returns the sessions of a trip in recording order.
func (l *Ledger) TripSessions(tripID int) []Session {
	out := []Session{}
	for _, s := range l.sessions {
		if s.TripID == tripID {
			out = append(out, s)
		}
	}
	return out
}

// Sessions returns the global log across all trips.
func (l *Ledger) Sessions() []Session {
	out := make([]Session, len(l.sessions))
	copy(out, l.sessions)
	return out
}

// TripProfit sums profit over a trip's sessions.
func (l *Ledger) TripProfit(tripID int) decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.sessions {
		if s.TripID == tripID {
			total = total.Add(s.Profit)
		}
	}
	return total
}

// CurrentBankroll is recomputed from the session log on every call.
func (l *Ledger) CurrentBankroll(tripID int) (decimal.Decimal, error) {
	trip, err := l.Trip(tripID)
	if err != nil {
		return decimal.Zero, err
	}
	return trip.StartingBankroll.Add(l.TripProfit(tripID)), nil
}

// EndTrip discards the trip's sessions and blacklist, keeps the trip
// record, and moves the current pointer back one id (never below 1).
func (l *Ledger) EndTrip(tripID int) error {
	if _, err := l.Trip(tripID); err != nil {
		return err
	}
	kept := l.sessions[:0]
	for _, s := range l.sessions {
		if s.TripID != tripID {
			kept = append(kept, s)
		}
	}
	l.sessions = kept
	delete(l.blacklist, tripID)
	prev := tripID - 1
	if prev < 1 {
		prev = 1
	}
	l.current = prev
	return nil
}

// Casinos returns the known casino names, sorted.
func (l *Ledger) Casinos() []string {
	out := make([]string, len(l.casinos))
	copy(out, l.casinos)
	return out
}

// AddCasino registers a casino name; blanks and duplicates are ignored.
func (l *Ledger) AddCasino(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	idx := sort.SearchStrings(l.casinos, name)
	if idx < len(l.casinos) && l.casinos[idx] == name {
		return false
	}
	l.casinos = append(l.casinos, "")
	copy(l.casinos[idx+1:], l.casinos[idx:])
	l.casinos[idx] = name
	return true
}

// Blacklist hides a game from recommendations for one trip.
func (l *Ledger) Blacklist(tripID int, game string) error {
	if _, err := l.Trip(tripID); err != nil {
		return err
	}
	game = strings.TrimSpace(game)
	if game == "" {
		return fmt.Errorf("game name is required: %w", apperrors.ErrInvalidInput)
	}
	set, ok := l.blacklist[tripID]
	if !ok {
		set = map[string]struct{}{}
		l.blacklist[tripID] = set
	}
	set[game] = struct{}{}
	return nil
}

// Blacklisted lists the hidden games of a trip, sorted.
func (l *Ledger) Blacklisted(tripID int) []string {
	out := make([]string, 0, len(l.blacklist[tripID]))
	for g := range l.blacklist[tripID] {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
