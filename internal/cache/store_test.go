package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	mu     sync.Mutex
	calls  map[string]int
	tables map[string]domain.Table
	err    error
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		calls:  make(map[string]int),
		tables: make(map[string]domain.Table),
	}
}

func (f *fakeReader) ReadTable(ctx context.Context, name string) (domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[name]++
	if f.err != nil {
		return domain.Table{}, f.err
	}
	return f.tables[name], nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func ledgerTable(rows ...domain.Row) domain.Table {
	return domain.Table{
		Name:    constants.LedgerSheet,
		Headers: []string{"Alliance", "Group", "Game", "Category", "HP"},
		Rows:    rows,
	}
}

func newTestStore(reader *fakeReader, clock *fakeClock) *Store {
	return NewStore(reader, 60*time.Second, clock.Now, zerolog.Nop())
}

func TestLedgerCacheHitWithinTTL(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable(domain.Row{"HP": "5"})
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	first := store.Ledger(context.Background())
	clock.Advance(30 * time.Second)
	second := store.Ledger(context.Background())

	assert.Equal(t, 1, reader.calls[constants.LedgerSheet], "second read within TTL must not refetch")
	assert.Equal(t, first, second)
}

func TestLedgerRefetchAfterTTL(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.Ledger(context.Background())
	clock.Advance(61 * time.Second)
	store.Ledger(context.Background())

	assert.Equal(t, 2, reader.calls[constants.LedgerSheet])
}

func TestInvalidateLedgerForcesRefetch(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.Ledger(context.Background())
	store.InvalidateLedger()
	store.Ledger(context.Background())

	assert.Equal(t, 2, reader.calls[constants.LedgerSheet], "invalidation must force a refetch regardless of TTL")
}

func TestInvalidateLedgerLeavesDaySheets(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable()
	reader.tables["Dry Game"] = domain.Table{Name: "Dry Game"}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.Ledger(context.Background())
	store.DaySheet(context.Background(), "Dry Game")
	store.InvalidateLedger()
	store.DaySheet(context.Background(), "Dry Game")

	assert.Equal(t, 1, reader.calls["Dry Game"], "day sheets carry no HP and must stay cached")
}

func TestInvalidateDaySheetIsTargeted(t *testing.T) {
	reader := newFakeReader()
	reader.tables["Dry Game"] = domain.Table{Name: "Dry Game"}
	reader.tables["Wet Game"] = domain.Table{Name: "Wet Game"}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.DaySheet(context.Background(), "Dry Game")
	store.DaySheet(context.Background(), "Wet Game")
	store.InvalidateDaySheet("Dry Game")
	store.DaySheet(context.Background(), "Dry Game")
	store.DaySheet(context.Background(), "Wet Game")

	assert.Equal(t, 2, reader.calls["Dry Game"])
	assert.Equal(t, 1, reader.calls["Wet Game"])
}

func TestInvalidateAll(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable()
	reader.tables["Dry Game"] = domain.Table{Name: "Dry Game"}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.Ledger(context.Background())
	store.DaySheet(context.Background(), "Dry Game")
	store.InvalidateAll()
	store.Ledger(context.Background())
	store.DaySheet(context.Background(), "Dry Game")

	assert.Equal(t, 2, reader.calls[constants.LedgerSheet])
	assert.Equal(t, 2, reader.calls["Dry Game"])
}

func TestPerTableTTLClocksAreIndependent(t *testing.T) {
	reader := newFakeReader()
	reader.tables["Dry Game"] = domain.Table{Name: "Dry Game"}
	reader.tables["Wet Game"] = domain.Table{Name: "Wet Game"}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.DaySheet(context.Background(), "Dry Game")
	clock.Advance(45 * time.Second)
	store.DaySheet(context.Background(), "Wet Game")
	clock.Advance(30 * time.Second)

	// Dry Game is now 75s old (stale), Wet Game 30s old (fresh).
	store.DaySheet(context.Background(), "Dry Game")
	store.DaySheet(context.Background(), "Wet Game")

	assert.Equal(t, 2, reader.calls["Dry Game"])
	assert.Equal(t, 1, reader.calls["Wet Game"])
}

func TestStaleSnapshotServedOnFetchError(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable(domain.Row{"HP": "5"})
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	fresh := store.Ledger(context.Background())
	clock.Advance(2 * time.Minute)
	reader.err = errors.New("remote unavailable")

	stale := store.Ledger(context.Background())

	assert.Equal(t, fresh, stale, "stale snapshot is better than nothing")
	assert.Equal(t, int64(1), store.Stats().StaleServed)
}

func TestEmptySnapshotWhenNoCacheAndFetchFails(t *testing.T) {
	reader := newFakeReader()
	reader.err = errors.New("remote unavailable")
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	got := store.Ledger(context.Background())

	assert.Equal(t, constants.LedgerSheet, got.Name)
	assert.Empty(t, got.Rows)
}

func TestInvalidationDropsStaleFallback(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable(domain.Row{"HP": "5"})
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.Ledger(context.Background())
	store.InvalidateLedger()
	reader.err = errors.New("remote unavailable")

	got := store.Ledger(context.Background())

	assert.Empty(t, got.Rows, "a deleted entry must not resurface as a stale fallback")
}

func TestStats(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable()
	reader.tables["Dry Game"] = domain.Table{Name: "Dry Game"}
	reader.tables["Wet Game"] = domain.Table{Name: "Wet Game"}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	assert.False(t, store.Stats().LedgerCached)

	store.Ledger(context.Background())
	store.DaySheet(context.Background(), "Wet Game")
	store.DaySheet(context.Background(), "Dry Game")
	store.Ledger(context.Background())
	clock.Advance(10 * time.Second)

	stats := store.Stats()
	assert.True(t, stats.LedgerCached)
	assert.Equal(t, 10.0, stats.LedgerAge)
	assert.Equal(t, 2, stats.DaySheets)
	assert.Equal(t, []string{"Dry Game", "Wet Game"}, stats.DaySheetNames)
	assert.Equal(t, 60*time.Second, stats.TTL)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
}

func TestWarmPrimesAllSheets(t *testing.T) {
	reader := newFakeReader()
	reader.tables[constants.LedgerSheet] = ledgerTable()
	reader.tables["Dry Game"] = domain.Table{Name: "Dry Game"}
	reader.tables["Wet Game"] = domain.Table{Name: "Wet Game"}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := newTestStore(reader, clock)

	store.Warm(context.Background(), []string{"Dry Game", "Wet Game"})

	stats := store.Stats()
	assert.True(t, stats.LedgerCached)
	assert.Equal(t, 2, stats.DaySheets)
}
