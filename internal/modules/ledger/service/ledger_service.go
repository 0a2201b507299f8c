package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"profithopper/internal/modules/ledger/domain"
	ledgerout "profithopper/internal/modules/ledger/port/out"
	"profithopper/internal/platform/clock"
)

type LedgerService struct {
	clock     clock.Clock
	store     ledgerout.LedgerStore
	projector ledgerout.TripProjector
	exporter  ledgerout.SessionExporter
	reports   ledgerout.ReportRenderer
	policy    domain.BudgetPolicy
	log       logrus.FieldLogger
}

func NewLedgerService(
	clock clock.Clock,
	store ledgerout.LedgerStore,
	projector ledgerout.TripProjector,
	exporter ledgerout.SessionExporter,
	reports ledgerout.ReportRenderer,
	policy domain.BudgetPolicy,
	log logrus.FieldLogger,
) *LedgerService {
	return &LedgerService{
		clock:     clock,
		store:     store,
		projector: projector,
		exporter:  exporter,
		reports:   reports,
		policy:    policy,
		log:       log,
	}
}

func (s *LedgerService) Now() time.Time {
	return s.clock.Now()
}

func (s *LedgerService) Policy() domain.BudgetPolicy {
	return s.policy
}

// View runs fn with read access to the owner's ledger.
func (s *LedgerService) View(ctx context.Context, owner string, fn func(*domain.Ledger) error) error {
	return s.store.With(ctx, owner, fn)
}

func (s *LedgerService) StartTrip(ctx context.Context, owner string, settings domain.TripSettings) (domain.Trip, error) {
	var trip domain.Trip
	err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		l.AddCasino(settings.Casino)
		id := l.StartTrip(settings.Casino, settings.StartingBankroll, settings.PlannedSessions, s.clock.Now())
		var err error
		trip, err = l.Trip(id)
		return err
	})
	if err != nil {
		return domain.Trip{}, err
	}
	s.log.WithFields(logrus.Fields{
		"owner":    owner,
		"trip_id":  trip.ID,
		"casino":   trip.Casino,
		"bankroll": trip.StartingBankroll.StringFixed(2),
	}).Info("trip started")
	return trip, nil
}

// RecordSession appends to the owner's current trip and projects the new
// session into the read model before returning. A failed projection reverts
// the append.
func (s *LedgerService) RecordSession(ctx context.Context, owner string, date time.Time, game string, moneyIn, moneyOut decimal.Decimal, notes string) (domain.Session, error) {
	var session domain.Session
	err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		var err error
		session, err = l.RecordSession(date, game, moneyIn, moneyOut, notes)
		if err != nil {
			return err
		}
		if err := s.projector.AppendSession(ctx, owner, session); err != nil {
			if revertErr := l.RevertSession(session.ID); revertErr != nil {
				return fmt.Errorf("project session %d: %w (revert: %v)", session.ID, err, revertErr)
			}
			return fmt.Errorf("project session %d: %w", session.ID, err)
		}
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	s.log.WithFields(logrus.Fields{
		"owner":      owner,
		"trip_id":    session.TripID,
		"session_id": session.ID,
		"game":       session.Game,
		"profit":     session.Profit.StringFixed(2),
	}).Info("session recorded")
	return session, nil
}

// EndTrip ends tripID, or the current trip when tripID is zero. It returns
// the ended id, the new current id and how many sessions were discarded.
func (s *LedgerService) EndTrip(ctx context.Context, owner string, tripID int) (int, int, int, error) {
	var ended, current, discarded int
	err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		ended = tripID
		if ended == 0 {
			ended = l.CurrentTripID()
		}
		if _, err := l.Trip(ended); err != nil {
			return err
		}
		// Purge the read model first so a failure leaves the history intact.
		if err := s.projector.PurgeTrip(ctx, owner, ended); err != nil {
			return fmt.Errorf("purge trip %d: %w", ended, err)
		}
		discarded = len(l.TripSessions(ended))
		if err := l.EndTrip(ended); err != nil {
			return err
		}
		current = l.CurrentTripID()
		return nil
	})
	if err != nil {
		return 0, 0, 0, err
	}
	s.log.WithFields(logrus.Fields{
		"owner":     owner,
		"trip_id":   ended,
		"current":   current,
		"discarded": discarded,
	}).Warn("trip ended, sessions discarded")
	return ended, current, discarded, nil
}

func (s *LedgerService) UpdateSettings(ctx context.Context, owner string, startingBankroll decimal.Decimal, plannedSessions int) error {
	return s.store.With(ctx, owner, func(l *domain.Ledger) error {
		return l.UpdateSettings(l.CurrentTripID(), startingBankroll, plannedSessions)
	})
}

func (s *LedgerService) AddCasino(ctx context.Context, owner, name string) ([]string, error) {
	var casinos []string
	err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		if l.AddCasino(name) {
			s.log.WithFields(logrus.Fields{"owner": owner, "casino": name}).Debug("casino added")
		}
		casinos = l.Casinos()
		return nil
	})
	return casinos, err
}

func (s *LedgerService) Blacklist(ctx context.Context, owner, game string) ([]string, error) {
	var games []string
	err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		tripID := l.CurrentTripID()
		if err := l.Blacklist(tripID, game); err != nil {
			return err
		}
		games = l.Blacklisted(tripID)
		return nil
	})
	return games, err
}

func (s *LedgerService) GamePerformance(ctx context.Context, owner string) ([]domain.GamePerformance, error) {
	var tripID int
	if err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		tripID = l.CurrentTripID()
		return nil
	}); err != nil {
		return nil, err
	}
	return s.projector.GamePerformance(ctx, owner, tripID)
}

// TripPerformance reads per-game totals without taking the owner lock.
// Callers inside View use it so the totals match the ledger they hold.
func (s *LedgerService) TripPerformance(ctx context.Context, owner string, tripID int) ([]domain.GamePerformance, error) {
	return s.projector.GamePerformance(ctx, owner, tripID)
}

func (s *LedgerService) ExportSessions(ctx context.Context, owner string) ([]byte, error) {
	var sessions []domain.Session
	if err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		sessions = l.Sessions()
		return nil
	}); err != nil {
		return nil, err
	}
	buf := bytes.Buffer{}
	if err := s.exporter.ExportSessions(&buf, sessions); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *LedgerService) ExportSummaries(ctx context.Context, owner string) ([]byte, error) {
	var summaries []domain.TripSummary
	if err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		summaries = l.Summaries()
		return nil
	}); err != nil {
		return nil, err
	}
	buf := bytes.Buffer{}
	if err := s.exporter.ExportSummaries(&buf, summaries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Report renders the current trip as a markdown note.
func (s *LedgerService) Report(ctx context.Context, owner string) (domain.TripReport, string, error) {
	report := domain.TripReport{GeneratedAt: s.clock.Now()}
	err := s.store.With(ctx, owner, func(l *domain.Ledger) error {
		tripID := l.CurrentTripID()
		for _, sum := range l.Summaries() {
			if sum.TripID == tripID {
				report.Summary = sum
			}
		}
		stats, err := l.Analyze(tripID)
		if err != nil {
			return err
		}
		report.Stats = stats
		report.Sessions = l.TripSessions(tripID)
		return nil
	})
	if err != nil {
		return domain.TripReport{}, "", err
	}
	games, err := s.projector.GamePerformance(ctx, owner, report.Summary.TripID)
	if err != nil {
		return domain.TripReport{}, "", err
	}
	report.Games = games
	out, err := s.reports.Render(report)
	if err != nil {
		return domain.TripReport{}, "", fmt.Errorf("trip %d report: %w", report.Summary.TripID, err)
	}
	return report, out, nil
}
