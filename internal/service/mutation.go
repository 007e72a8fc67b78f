package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidPoints rejects awards outside the closed [0,5] range before
	// any remote I/O happens.
	ErrInvalidPoints = errors.New("points must be between 0 and 5")

	// ErrRowNotFound reports a write whose (alliance, group, game) target
	// does not exist in any scanned sheet.
	ErrRowNotFound = errors.New("no matching row found")
)

// RemoteTables is the full spreadsheet surface the write path needs: a
// fresh table read plus a single-cell write.
type RemoteTables interface {
	cache.TableReader
	WriteCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error
}

// MutationService performs point writes against the spreadsheet and drops
// exactly the cache entries those writes made stale.
type MutationService struct {
	tables RemoteTables
	store  *cache.Store
	cfg    *config.Config
	logger zerolog.Logger
}

func NewMutationService(tables RemoteTables, store *cache.Store, cfg *config.Config, logger zerolog.Logger) *MutationService {
	return &MutationService{tables: tables, store: store, cfg: cfg, logger: logger}
}

// AwardPoints sets the HP cell of the unique ledger row matching
// (alliance, group, game). The cell is overwritten with points, not
// incremented: per-group HP is the rollup over each game's individually set
// value. The row is located by a fresh remote scan, never through the
// cache, so the write lands on current remote state. On success the ledger
// cache entry is invalidated; day sheets carry no HP and stay cached.
func (m *MutationService) AwardPoints(ctx context.Context, alliance, group, game string, points int) error {
	if points < constants.MinPoints || points > constants.MaxPoints {
		m.logger.Error().Int("points", points).Msg("rejected out-of-range points value")
		return ErrInvalidPoints
	}

	table, err := m.tables.ReadTable(ctx, constants.LedgerSheet)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	col, ok := table.Column("HP")
	if !ok {
		return fmt.Errorf("ledger has no HP column")
	}

	for i, row := range table.Rows {
		if !row.Matches(alliance, group) || row.Get("Game") != game {
			continue
		}

		if err := m.tables.WriteCell(ctx, constants.LedgerSheet, table.SheetRow(i), col, fmt.Sprintf("%d", points)); err != nil {
			return fmt.Errorf("failed to write points: %w", err)
		}

		m.store.InvalidateLedger()
		m.logger.Info().
			Str("alliance", alliance).
			Str("group", group).
			Str("game", game).
			Int("points", points).
			Msg("points awarded")
		return nil
	}

	m.logger.Warn().
		Str("alliance", alliance).
		Str("group", group).
		Str("game", game).
		Msg("award target not found in ledger")
	return ErrRowNotFound
}

// UpdateStatus writes a new status to the first day sheet containing a row
// matching (alliance, group, game), then invalidates only that sheet's
// cache entry. Schedule rows are expected to exist in exactly one sheet;
// when present in more, only the first encountered is updated (first-match
// wins, preserved behavior). Sheets that fail to read are logged and
// skipped so one broken sheet cannot block the scan.
func (m *MutationService) UpdateStatus(ctx context.Context, alliance, group, game, newStatus string) error {
	for _, sheetName := range m.statusScanOrder(alliance) {
		table, err := m.tables.ReadTable(ctx, sheetName)
		if err != nil {
			m.logger.Error().Err(err).Str("sheet", sheetName).Msg("failed to read sheet during status scan")
			continue
		}

		col, ok := table.Column("Status")
		if !ok {
			m.logger.Warn().Str("sheet", sheetName).Msg("sheet has no Status column, skipping")
			continue
		}

		for i, row := range table.Rows {
			if !row.Matches(alliance, group) || row.Get("Game") != game {
				continue
			}

			if err := m.tables.WriteCell(ctx, sheetName, table.SheetRow(i), col, newStatus); err != nil {
				return fmt.Errorf("failed to write status in %q: %w", sheetName, err)
			}

			m.store.InvalidateDaySheet(sheetName)
			m.logger.Info().
				Str("alliance", alliance).
				Str("group", group).
				Str("game", game).
				Str("sheet", sheetName).
				Str("status", newStatus).
				Msg("game status updated")
			return nil
		}
	}

	m.logger.Warn().
		Str("alliance", alliance).
		Str("group", group).
		Str("game", game).
		Msg("status target not found in any day sheet")
	return ErrRowNotFound
}

// statusScanOrder is every mapped day sheet plus the alliance's treasure
// hunt override sheet when it is not already in the list.
func (m *MutationService) statusScanOrder(alliance string) []string {
	var sheets []string
	for _, key := range []string{"day1_dry", "day1_night", "day2_treasure", "day3_wet"} {
		if name, ok := m.cfg.DaySheets[key]; ok {
			sheets = append(sheets, name)
		}
	}
	if override, ok := m.cfg.TreasureSheets[alliance]; ok && !contains(sheets, override) {
		sheets = append(sheets, override)
	}
	return sheets
}

func contains(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}
