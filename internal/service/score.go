package service

import (
	"context"
	"sort"

	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/rs/zerolog"
)

// ScoreService computes HP views over cached ledger snapshots. It performs
// no I/O of its own: every method folds rows the cache already holds.
type ScoreService struct {
	store  *cache.Store
	logger zerolog.Logger
}

func NewScoreService(store *cache.Store, logger zerolog.Logger) *ScoreService {
	return &ScoreService{store: store, logger: logger}
}

// SuballianceHP sums HP over every ledger row matching (alliance, group).
// Empty and non-numeric HP cells count as zero.
func (s *ScoreService) SuballianceHP(ctx context.Context, alliance, group string) int {
	if alliance == "" || group == "" {
		return 0
	}

	total := 0
	for _, row := range s.store.Ledger(ctx).Rows {
		if row.Matches(alliance, group) {
			total += row.HP()
		}
	}

	s.logger.Debug().Str("alliance", alliance).Str("group", group).Int("hp", total).Msg("suballiance HP computed")
	return total
}

// AllSuballianceHP builds the full alliance -> group -> HP map in a single
// pass over the ledger snapshot. All four alliances are always keyed, even
// when empty; rows for unknown alliances are skipped.
func (s *ScoreService) AllSuballianceHP(ctx context.Context) map[string]map[string]int {
	result := make(map[string]map[string]int, len(constants.Alliances))
	for _, alliance := range constants.Alliances {
		result[alliance] = make(map[string]int)
	}

	for _, row := range s.store.Ledger(ctx).Rows {
		alliance := row.Get("Alliance")
		group := row.Get("Group")

		groups, ok := result[alliance]
		if !ok || group == "" {
			continue
		}
		groups[group] += row.HP()
	}
	return result
}

// AllianceTotals sums each alliance's group totals, for the owner dashboard.
func (s *ScoreService) AllianceTotals(ctx context.Context) map[string]int {
	totals := make(map[string]int, len(constants.Alliances))
	for alliance, groups := range s.AllSuballianceHP(ctx) {
		total := 0
		for _, hp := range groups {
			total += hp
		}
		totals[alliance] = total
	}
	return totals
}

// Suballiances returns the distinct groups of an alliance discovered from
// ledger rows, in natural order ("G2" before "G10").
func (s *ScoreService) Suballiances(ctx context.Context, alliance string) []string {
	if alliance == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var groups []string
	for _, row := range s.store.Ledger(ctx).Rows {
		if row.Get("Alliance") != alliance {
			continue
		}
		group := row.Get("Group")
		if group == "" {
			continue
		}
		if _, ok := seen[group]; !ok {
			seen[group] = struct{}{}
			groups = append(groups, group)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return domain.NaturalLess(groups[i], groups[j])
	})

	s.logger.Debug().Str("alliance", alliance).Strs("groups", groups).Msg("suballiances discovered")
	return groups
}
