package service

import (
	"context"
	"sort"

	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/rs/zerolog"
)

// ScheduleService joins day-sheet scheduling rows against ledger HP. Day
// sheets never carry authoritative HP; the ledger is joined in by the
// (alliance, group, game) key at read time.
type ScheduleService struct {
	store  *cache.Store
	scores *ScoreService
	cfg    *config.Config
	logger zerolog.Logger
}

func NewScheduleService(store *cache.Store, scores *ScoreService, cfg *config.Config, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{store: store, scores: scores, cfg: cfg, logger: logger}
}

// ScheduleFor returns one suballiance's schedule for a day, each entry
// joined with its ledger HP (0 when the ledger has no matching row), sorted
// by parsed start time. Unparseable start times sort to the start of the
// day. Unknown day keys and empty arguments yield an empty schedule.
func (s *ScheduleService) ScheduleFor(ctx context.Context, alliance, group, dayKey string) []domain.ScheduleEntry {
	if alliance == "" || group == "" {
		return nil
	}

	sheetName, ok := s.cfg.SheetForDay(alliance, dayKey)
	if !ok {
		s.logger.Warn().Str("alliance", alliance).Str("day_key", dayKey).Msg("no sheet mapping for day key")
		return nil
	}

	dayRows := s.store.DaySheet(ctx, sheetName).Rows
	hpByGame := s.groupHPLookup(ctx, alliance, group)

	var entries []domain.ScheduleEntry
	for _, row := range dayRows {
		if !row.Matches(alliance, group) {
			continue
		}
		entries = append(entries, domain.ScheduleEntry{
			Game:      row.Get("Game"),
			Location:  row.Get("Location"),
			StartTime: row.Get("Start Time"),
			EndTime:   row.Get("End Time"),
			Status:    statusOrDefault(row),
			HP:        hpByGame[row.Get("Game")],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return startMinutes(entries[i].StartTime) < startMinutes(entries[j].StartTime)
	})

	s.logger.Debug().
		Str("alliance", alliance).
		Str("group", group).
		Str("sheet", sheetName).
		Int("entries", len(entries)).
		Msg("schedule built")
	return entries
}

// AllianceSummary builds the all-groups view for one day using a single
// shared day-sheet read and a single shared ledger read, then regroups the
// combined entries by "start-end" time slot. Slots are ordered
// chronologically by start time; groups inside a slot follow natural order.
func (s *ScheduleService) AllianceSummary(ctx context.Context, alliance, dayKey string) []domain.SummarySlot {
	if alliance == "" {
		return nil
	}

	groups := s.scores.Suballiances(ctx, alliance)
	if len(groups) == 0 {
		s.logger.Warn().Str("alliance", alliance).Msg("no suballiances found for summary")
		return nil
	}

	sheetName, ok := s.cfg.SheetForDay(alliance, dayKey)
	if !ok {
		s.logger.Warn().Str("alliance", alliance).Str("day_key", dayKey).Msg("no sheet mapping for day key")
		return nil
	}

	dayRows := s.store.DaySheet(ctx, sheetName).Rows

	// One HP lookup across the whole ledger, keyed (alliance|group|game).
	hpByKey := make(map[string]int)
	for _, row := range s.store.Ledger(ctx).Rows {
		hpByKey[row.Key()] = row.HP()
	}

	wanted := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		wanted[g] = struct{}{}
	}

	bySlot := make(map[string][]domain.SummaryEntry)
	for _, row := range dayRows {
		if row.Get("Alliance") != alliance {
			continue
		}
		group := row.Get("Group")
		if _, ok := wanted[group]; !ok {
			continue
		}

		game := row.Get("Game")
		slot := row.Get("Start Time") + "-" + row.Get("End Time")
		bySlot[slot] = append(bySlot[slot], domain.SummaryEntry{
			Group:    group,
			Game:     game,
			Location: row.Get("Location"),
			Status:   statusOrDefault(row),
			HP:       hpByKey[domain.JoinKey(alliance, group, game)],
		})
	}

	slots := make([]domain.SummarySlot, 0, len(bySlot))
	for slot, entries := range bySlot {
		sort.SliceStable(entries, func(i, j int) bool {
			return domain.NaturalLess(entries[i].Group, entries[j].Group)
		})
		slots = append(slots, domain.SummarySlot{Slot: slot, Entries: entries})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return domain.SlotStart(slots[i].Slot) < domain.SlotStart(slots[j].Slot)
	})

	s.logger.Debug().
		Str("alliance", alliance).
		Str("sheet", sheetName).
		Int("groups", len(groups)).
		Int("slots", len(slots)).
		Msg("alliance summary built")
	return slots
}

// GamesForDay lists a suballiance's ledger games whose category belongs to
// the day, for the results-entry picker. Categories come from the ledger,
// not from day sheets, with the treasure-hunt category override applied per
// alliance.
func (s *ScheduleService) GamesForDay(ctx context.Context, alliance, group, dayKey string) []domain.GameInfo {
	if alliance == "" || group == "" {
		return nil
	}

	category, ok := s.cfg.CategoryForDay(alliance, dayKey)
	if !ok {
		s.logger.Warn().Str("alliance", alliance).Str("day_key", dayKey).Msg("no category mapping for day key")
		return nil
	}

	var games []domain.GameInfo
	for _, row := range s.store.Ledger(ctx).Rows {
		if !row.Matches(alliance, group) || row.Get("Category") != category {
			continue
		}
		games = append(games, domain.GameInfo{
			Game:      row.Get("Game"),
			Category:  category,
			CurrentHP: row.HP(),
			Alliance:  alliance,
			Group:     group,
		})
	}

	s.logger.Debug().
		Str("alliance", alliance).
		Str("group", group).
		Str("category", category).
		Int("games", len(games)).
		Msg("games listed for day")
	return games
}

// groupHPLookup maps game name to HP for one (alliance, group), from the
// shared ledger snapshot.
func (s *ScheduleService) groupHPLookup(ctx context.Context, alliance, group string) map[string]int {
	lookup := make(map[string]int)
	for _, row := range s.store.Ledger(ctx).Rows {
		if row.Matches(alliance, group) {
			lookup[row.Get("Game")] = row.HP()
		}
	}
	return lookup
}

func statusOrDefault(row domain.Row) string {
	if status := row.Get("Status"); status != "" {
		return status
	}
	return "Default"
}

func startMinutes(s string) int {
	m, _ := domain.ParseClock(s)
	return m
}
