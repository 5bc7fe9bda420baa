package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// searchLayout is the day-month layout of WITHDRAWAL_SEARCH
const searchLayout = "02-01"

// Config holds all configuration for the rainfall dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8980"`

	// Rainfall data source: an http(s) URL or a local CSV path. Parsed
	// datasets are memoized per source for the lifetime of the process.
	DataURL    string `env:"DATA_URL,default=./data/rainfall_data_30.463_79.525.csv"`
	RainColumn string `env:"RAIN_COLUMN"` // explicit rainfall header name, autodetected when empty

	// Dry-spell defaults used by the dashboard, API, and snapshots
	DryThresholdMM   float64 `env:"DRY_THRESHOLD_MM,default=5.0"`
	DrySpellDays     int     `env:"DRY_SPELL_DAYS,default=14"`
	WithdrawalSearch string  `env:"WITHDRAWAL_SEARCH,default=01-09"` // day-month within the target year

	// GCP configuration (optional for local runs)
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Local snapshot storage
	LocalReportsDir string `env:"LOCAL_REPORTS_DIR,default=./reports"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.DryThresholdMM < 0 {
		return nil, fmt.Errorf("DRY_THRESHOLD_MM must be non-negative, got %v", cfg.DryThresholdMM)
	}
	if cfg.DrySpellDays < 1 {
		return nil, fmt.Errorf("DRY_SPELL_DAYS must be at least 1, got %d", cfg.DrySpellDays)
	}
	if _, err := time.Parse(searchLayout, cfg.WithdrawalSearch); err != nil {
		return nil, fmt.Errorf("WITHDRAWAL_SEARCH must be a day-month value like 01-09, got %q", cfg.WithdrawalSearch)
	}
	return &cfg, nil
}

// WithdrawalSearchDate resolves the configured day-month search start within
// the given year
func (c *Config) WithdrawalSearchDate(year int) time.Time {
	t, err := time.Parse(searchLayout, c.WithdrawalSearch)
	if err != nil {
		// Load validated the value; fall back to September 1 anyway
		return time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
