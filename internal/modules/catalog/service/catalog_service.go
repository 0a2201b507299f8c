package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"profithopper/internal/modules/catalog/domain"
	catalogout "profithopper/internal/modules/catalog/port/out"
	"profithopper/internal/platform/clock"
)

type CatalogService struct {
	clock   clock.Clock
	fetcher catalogout.Fetcher
	parser  catalogout.Parser
	cache   catalogout.Cache
	source  string
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCatalogService(
	clock clock.Clock,
	fetcher catalogout.Fetcher,
	parser catalogout.Parser,
	cache catalogout.Cache,
	source string,
	timeout time.Duration,
	log logrus.FieldLogger,
) *CatalogService {
	return &CatalogService{
		clock:   clock,
		fetcher: fetcher,
		parser:  parser,
		cache:   cache,
		source:  source,
		timeout: timeout,
		log:     log,
	}
}

func (s *CatalogService) Source() string {
	return s.source
}

// Load returns the cached catalog or fetches and parses a fresh one. Failed
// loads are not cached, so the next call tries again.
func (s *CatalogService) Load(ctx context.Context) (domain.Catalog, error) {
	if catalog, ok := s.cache.Get(s.source); ok {
		return catalog, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	started := s.clock.Now()
	raw, err := s.fetcher.Fetch(ctx, s.source)
	if err != nil {
		s.log.WithError(err).WithField("source", s.source).Warn("catalog fetch failed")
		return domain.Catalog{}, err
	}
	games, dropped, err := s.parser.Parse(raw)
	if err != nil {
		s.log.WithError(err).WithField("source", s.source).Warn("catalog parse failed")
		return domain.Catalog{}, err
	}
	catalog := domain.Catalog{Source: s.source, Games: games, Dropped: dropped, LoadedAt: s.clock.Now()}
	s.cache.Set(catalog)
	s.log.WithFields(logrus.Fields{
		"source":   s.source,
		"games":    len(games),
		"dropped":  dropped,
		"duration": catalog.LoadedAt.Sub(started).String(),
	}).Info("catalog loaded")
	return catalog, nil
}

// Reload drops the cached catalog before loading.
func (s *CatalogService) Reload(ctx context.Context) (domain.Catalog, error) {
	s.cache.Flush()
	return s.Load(ctx)
}
