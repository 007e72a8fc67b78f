package service

import (
	"context"
	"sync"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/rs/zerolog"
)

// fakeTables is an in-memory spreadsheet standing in for the remote backend
// in read and write paths alike.
type fakeTables struct {
	mu      sync.Mutex
	tables  map[string]domain.Table
	readErr map[string]error
	reads   map[string]int
	writes  []cellWrite
	writeErr error
}

type cellWrite struct {
	table string
	row   int
	col   int
	value string
}

func newFakeTables() *fakeTables {
	return &fakeTables{
		tables:  make(map[string]domain.Table),
		readErr: make(map[string]error),
		reads:   make(map[string]int),
	}
}

func (f *fakeTables) ReadTable(ctx context.Context, name string) (domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads[name]++
	if err := f.readErr[name]; err != nil {
		return domain.Table{}, err
	}
	return f.tables[name], nil
}

func (f *fakeTables) WriteCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, cellWrite{table: table, row: rowIndex, col: colIndex, value: value})
	return nil
}

func (f *fakeTables) setLedger(rows ...domain.Row) {
	f.tables[constants.LedgerSheet] = domain.Table{
		Name:    constants.LedgerSheet,
		Headers: []string{"Alliance", "Group", "Game", "Category", "HP"},
		Rows:    rows,
	}
}

func (f *fakeTables) setDaySheet(name string, rows ...domain.Row) {
	f.tables[name] = domain.Table{
		Name:    name,
		Headers: []string{"Alliance", "Group", "Game", "Location", "Start Time", "End Time", "Status"},
		Rows:    rows,
	}
}

func ledgerRow(alliance, group, game, category, hp string) domain.Row {
	return domain.Row{"Alliance": alliance, "Group": group, "Game": game, "Category": category, "HP": hp}
}

func dayRow(alliance, group, game, location, start, end, status string) domain.Row {
	return domain.Row{
		"Alliance": alliance, "Group": group, "Game": game,
		"Location": location, "Start Time": start, "End Time": end, "Status": status,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		CacheTTL: time.Minute,
		DaySheets: map[string]string{
			"day1_dry":      "Dry Game",
			"day1_night":    "Night Game",
			"day2_treasure": "Treasure Hunt (PM)",
			"day3_wet":      "Wet Game",
		},
		TreasureSheets: map[string]string{
			"Gaia":   "Treasure Hunt (PM)",
			"Hydro":  "Treasure Hunt (AM)",
			"Ignis":  "Treasure Hunt (AM)",
			"Cirrus": "Treasure Hunt (PM)",
		},
		TreasureCategories: map[string]string{
			"Gaia":   "Treasure Hunt (PM)",
			"Hydro":  "Treasure Hunt (PM)",
			"Ignis":  "Treasure Hunt (AM)",
			"Cirrus": "Treasure Hunt (AM)",
		},
		StatusLabels: map[string]string{"Default": "Player Ready"},
		ValidRoles:   []string{"Gaia", "Hydro", "Ignis", "Cirrus", "GM", "EXCO"},
		AdminRoles:   []string{"GM", "EXCO"},
	}
}

func newFixture(tables *fakeTables) (*cache.Store, *ScoreService, *ScheduleService) {
	store := cache.NewStore(tables, time.Minute, nil, zerolog.Nop())
	scores := NewScoreService(store, zerolog.Nop())
	schedules := NewScheduleService(store, scores, testConfig(), zerolog.Nop())
	return store, scores, schedules
}
