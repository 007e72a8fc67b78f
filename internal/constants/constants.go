package constants

import "time"

const (
	// Snapshot freshness window. One minute keeps the bot well under the
	// Sheets API quota while staying close enough to live scores.
	DefaultCacheTTL = 60 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// LedgerSheet is the single authoritative results table.
	LedgerSheet = "Results"

	MinPoints = 0
	MaxPoints = 5

	MaxHP     = 100
	DefaultHP = 100
)

// Alliances is the fixed top-level team set; suballiances are discovered
// from ledger data.
var Alliances = []string{"Gaia", "Hydro", "Ignis", "Cirrus"}
