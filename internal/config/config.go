package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	BotToken           string
	ServiceAccountJSON string
	SpreadsheetID      string
	DBPath             string
	ServerPort         string
	LogLevel           string
	CacheTTL           time.Duration

	// DaySheets maps a day key to the worksheet holding its schedule.
	DaySheets map[string]string

	// TreasureSheets overrides the day2_treasure worksheet per alliance:
	// the treasure hunt runs in two half-day waves on separate sheets.
	TreasureSheets map[string]string

	// TreasureCategories maps an alliance to its treasure-hunt ledger
	// category. This is a distinct table from TreasureSheets: the source
	// data routes sheets and ledger categories differently.
	TreasureCategories map[string]string

	// StatusLabels maps raw status cell values to their display labels.
	StatusLabels map[string]string

	ValidRoles []string
	AdminRoles []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BotToken:           os.Getenv("BOT_TOKEN"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		SpreadsheetID:      getEnv("SPREADSHEET_ID", ""),
		DBPath:             getEnv("DB_PATH", "helix.db"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CacheTTL:           constants.DefaultCacheTTL,

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
		StatusLabels: map[string]string{
			"Default":      "Player Ready",
			"In Progress":  "Stage Engaged",
			"Next Station": "Next Up",
			"Completed":    "Stage Cleared",
		},

		ValidRoles: []string{"Gaia", "Hydro", "Ignis", "Cirrus", "GM", "EXCO"},
		AdminRoles: []string{"GM", "EXCO"},
	}

	if raw := os.Getenv("CACHE_TTL_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %q", raw)
		}
		cfg.CacheTTL = time.Duration(secs) * time.Second
	}

	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

// SheetForDay resolves the worksheet for a day key, applying the per-alliance
// treasure hunt override.
func (c *Config) SheetForDay(alliance, dayKey string) (string, bool) {
	if dayKey == "day2_treasure" {
		name, ok := c.TreasureSheets[alliance]
		return name, ok
	}
	name, ok := c.DaySheets[dayKey]
	return name, ok
}

// CategoryForDay resolves the ledger category for a day key, applying the
// per-alliance treasure hunt category override.
func (c *Config) CategoryForDay(alliance, dayKey string) (string, bool) {
	if dayKey == "day2_treasure" {
		cat, ok := c.TreasureCategories[alliance]
		return cat, ok
	}
	cat, ok := c.DaySheets[dayKey]
	return cat, ok
}

// IsAdminRole reports whether a role may manage other users and enter
// results.
func (c *Config) IsAdminRole(role string) bool {
	for _, r := range c.AdminRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidRole reports whether a role is assignable at all.
func (c *Config) IsValidRole(role string) bool {
	for _, r := range c.ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
