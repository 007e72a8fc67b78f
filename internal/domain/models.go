package domain

import (
	"time"
)

// ScheduleEntry is one game on a suballiance's day schedule, joined with its
// current HP from the ledger.
type ScheduleEntry struct {
	Game      string
	Location  string
	StartTime string
	EndTime   string
	Status    string
	HP        int
}

// GameInfo is a ledger-backed game listing used by the results-entry picker.
type GameInfo struct {
	Game      string
	Category  string
	CurrentHP int
	Alliance  string
	Group     string
}

// SummaryEntry is one group's game inside an alliance summary time slot.
type SummaryEntry struct {
	Group    string
	Game     string
	Location string
	Status   string
	HP       int
}

// SummarySlot groups summary entries that share a "start-end" time slot.
type SummarySlot struct {
	Slot    string
	Entries []SummaryEntry
}

// CacheStats is the introspection view of the snapshot cache.
type CacheStats struct {
	LedgerCached  bool          `json:"ledger_cached"`
	LedgerAge     float64       `json:"ledger_age_seconds"`
	DaySheets     int           `json:"day_sheets_cached"`
	DaySheetNames []string      `json:"day_sheet_names"`
	TTL           time.Duration `json:"ttl"`
	Hits          int64         `json:"hits"`
	Misses        int64         `json:"misses"`
	StaleServed   int64         `json:"stale_served"`
}

// User is a registered bot user with their role assignment.
type User struct {
	TelegramID int64
	Name       string
	Username   string
	Role       string
	Alliance   string
	Group      string
	HP         int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
