package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TableReader is the remote side of the cache: a full-table read from the
// spreadsheet backend.
type TableReader interface {
	ReadTable(ctx context.Context, name string) (domain.Table, error)
}

type entry struct {
	table     domain.Table
	fetchedAt time.Time
}

// Store holds at most one snapshot of the ledger sheet plus one per named
// day sheet, each trusted for the configured TTL with an independent clock.
// Invalidation deletes entries wholesale: the next read always performs a
// full refetch, never a partial patch.
//
// Reads never fail from the caller's point of view. A refetch error falls
// back to the stale snapshot when one exists and to an empty snapshot
// otherwise; both paths are logged. The mutex covers only the entry map:
// concurrent callers racing a stale entry may each refetch, and the last
// stored snapshot wins, but nobody ever observes a half-written entry.
type Store struct {
	reader TableReader
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu          sync.Mutex
	entries     map[string]*entry
	hits        int64
	misses      int64
	staleServed int64
}

// NewStore builds a Store around a reader. The clock is injected so tests
// can drive TTL expiry deterministically; pass time.Now in production.
func NewStore(reader TableReader, ttl time.Duration, now func() time.Time, logger zerolog.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		reader:  reader,
		ttl:     ttl,
		now:     now,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// Ledger returns the ledger snapshot, refetching when stale or missing.
func (s *Store) Ledger(ctx context.Context) domain.Table {
	return s.get(ctx, constants.LedgerSheet)
}

// DaySheet returns the snapshot of one named schedule sheet.
func (s *Store) DaySheet(ctx context.Context, name string) domain.Table {
	return s.get(ctx, name)
}

func (s *Store) get(ctx context.Context, name string) domain.Table {
	s.mu.Lock()
	cached := s.entries[name]
	if cached != nil && s.now().Sub(cached.fetchedAt) < s.ttl {
		s.hits++
		s.mu.Unlock()
		s.logger.Debug().Str("sheet", name).Msg("serving cached snapshot")
		return cached.table
	}
	s.misses++
	s.mu.Unlock()

	table, err := s.reader.ReadTable(ctx, name)
	if err != nil {
		if cached != nil {
			s.mu.Lock()
			s.staleServed++
			s.mu.Unlock()
			s.logger.Warn().Err(err).Str("sheet", name).Msg("refetch failed, serving stale snapshot")
			return cached.table
		}
		s.logger.Error().Err(err).Str("sheet", name).Msg("refetch failed with no cached snapshot")
		return domain.Table{Name: name}
	}

	s.mu.Lock()
	s.entries[name] = &entry{table: table, fetchedAt: s.now()}
	s.mu.Unlock()

	s.logger.Info().Str("sheet", name).Int("rows", len(table.Rows)).Msg("cached fresh snapshot")
	return table
}

// InvalidateAll drops the ledger entry and every day-sheet entry.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry)
	s.logger.Info().Msg("all cache entries invalidated")
}

// InvalidateLedger drops only the ledger entry. Day sheets carry no HP, so
// a point award leaves them untouched.
func (s *Store) InvalidateLedger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, constants.LedgerSheet)
	s.logger.Info().Msg("ledger cache entry invalidated")
}

// InvalidateDaySheet drops one day-sheet entry.
func (s *Store) InvalidateDaySheet(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		delete(s.entries, name)
		s.logger.Info().Str("sheet", name).Msg("day-sheet cache entry invalidated")
	}
}

// Stats reports the cache's current shape for operational visibility.
func (s *Store) Stats() domain.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.CacheStats{
		TTL:         s.ttl,
		Hits:        s.hits,
		Misses:      s.misses,
		StaleServed: s.staleServed,
	}
	for name, e := range s.entries {
		if name == constants.LedgerSheet {
			stats.LedgerCached = true
			stats.LedgerAge = s.now().Sub(e.fetchedAt).Seconds()
			continue
		}
		stats.DaySheets++
		stats.DaySheetNames = append(stats.DaySheetNames, name)
	}
	sort.Strings(stats.DaySheetNames)
	return stats
}

// Warm pre-fetches the ledger and the named day sheets concurrently. Warm
// failures degrade the same way as any other read and are never fatal.
func (s *Store) Warm(ctx context.Context, daySheets []string) {
	g := new(errgroup.Group)

	g.Go(func() error {
		s.Ledger(ctx)
		return nil
	})
	for _, name := range daySheets {
		g.Go(func() error {
			s.DaySheet(ctx, name)
			return nil
		})
	}

	_ = g.Wait()
	s.logger.Info().Int("day_sheets", len(daySheets)).Msg("cache pre-warm complete")
}
