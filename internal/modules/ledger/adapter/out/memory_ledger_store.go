package out

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"profithopper/internal/modules/ledger/domain"
	apperrors "profithopper/internal/platform/errors"
)

const maxJanitorInterval = 10 * time.Minute

type ownerLedger struct {
	mu     sync.Mutex
	ledger *domain.Ledger
}

// MemoryLedgerStore keeps one ledger per owner. Owners idle for longer than
// the idle TTL are dropped; pinned owners never expire. Each owner's ledger
// is guarded by its own mutex.
type MemoryLedgerStore struct {
	mu      sync.Mutex
	ledgers *cache.Cache
	factory func() *domain.Ledger
	pinned  map[string]struct{}
	release func(owner string)
}

// NewMemoryLedgerStore builds the registry. An idleTTL of zero or less keeps
// every owner for the life of the process.
func NewMemoryLedgerStore(factory func() *domain.Ledger, idleTTL time.Duration, pinned ...string) *MemoryLedgerStore {
	var ledgers *cache.Cache
	if idleTTL <= 0 {
		ledgers = cache.New(cache.NoExpiration, 0)
	} else {
		ledgers = cache.New(idleTTL, min(idleTTL, maxJanitorInterval))
	}
	s := &MemoryLedgerStore{
		ledgers: ledgers,
		factory: factory,
		pinned:  map[string]struct{}{},
	}
	for _, owner := range pinned {
		s.pinned[strings.TrimSpace(owner)] = struct{}{}
	}
	ledgers.OnEvicted(s.evicted)
	return s
}

// OnRelease registers fn to run whenever an owner's ledger is dropped or
// replaced by a fresh one, so derived state can be cleared. It runs with the
// registry locked and must not call back into the store.
func (s *MemoryLedgerStore) OnRelease(fn func(owner string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release = fn
}

func (s *MemoryLedgerStore) With(ctx context.Context, owner string, fn func(*domain.Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return fmt.Errorf("owner is required: %w", apperrors.ErrInvalidInput)
	}
	entry := s.entry(owner)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.ledger)
}

// Len reports how many owners hold a live ledger.
func (s *MemoryLedgerStore) Len() int {
	s.ledgers.DeleteExpired()
	return s.ledgers.ItemCount()
}

func (s *MemoryLedgerStore) entry(owner string) *ownerLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry := cache.DefaultExpiration
	if _, ok := s.pinned[owner]; ok {
		expiry = cache.NoExpiration
	}
	if v, ok := s.ledgers.Get(owner); ok {
		entry := v.(*ownerLedger)
		// go-cache does not extend expiry on Get
		s.ledgers.Set(owner, entry, expiry)
		return entry
	}
	// an expired owner may still have derived state from its old ledger
	if s.release != nil {
		s.release(owner)
	}
	entry := &ownerLedger{ledger: s.factory()}
	s.ledgers.Set(owner, entry, expiry)
	return entry
}

// evicted runs on the cache janitor after an owner expires.
func (s *MemoryLedgerStore) evicted(owner string, _ interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, live := s.ledgers.Get(owner); live {
		return
	}
	if s.release != nil {
		s.release(owner)
	}
}
