package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// CacheTTL is the month cache's sliding expiry window.
	CacheTTL time.Duration
	// LookbackDays is the margin subtracted from a requested date when a
	// resolution miss triggers on-demand ingestion.
	LookbackDays int
	// RefreshWindowDays is the width of the rolling window fetched by the
	// "latest" refresh for daily series.
	RefreshWindowDays int
	// RateDecimalScale is the scale rate values are stored at.
	RateDecimalScale int32
	// ConflictCompareScale is the coarser scale used only when two
	// candidate values are compared for equality during duplicate
	// detection. Kept configurable rather than hard-coded.
	ConflictCompareScale int32

	FrankfurterBaseURL string
	// RateLimit is an ulule/limiter formatted rate, e.g. "120-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("CACHE_TTL", "30m")
	viper.SetDefault("LOOKBACK_DAYS", 7)
	viper.SetDefault("REFRESH_WINDOW_DAYS", 5)
	viper.SetDefault("RATE_DECIMAL_SCALE", 5)
	viper.SetDefault("CONFLICT_COMPARE_SCALE", 10)
	viper.SetDefault("FRANKFURTER_BASE_URL", "https://api.frankfurter.dev/v1")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.CacheTTL = viper.GetDuration("CACHE_TTL")
	if cfg.CacheTTL <= 0 {
		log.Println("Warning: Invalid CACHE_TTL. Defaulting to 30m.")
		cfg.CacheTTL = 30 * time.Minute
	}

	cfg.LookbackDays = viper.GetInt("LOOKBACK_DAYS")
	cfg.RefreshWindowDays = viper.GetInt("REFRESH_WINDOW_DAYS")
	cfg.RateDecimalScale = viper.GetInt32("RATE_DECIMAL_SCALE")
	cfg.ConflictCompareScale = viper.GetInt32("CONFLICT_COMPARE_SCALE")
	if cfg.ConflictCompareScale < cfg.RateDecimalScale {
		log.Printf("Warning: CONFLICT_COMPARE_SCALE (%d) is finer than RATE_DECIMAL_SCALE (%d).\n",
			cfg.ConflictCompareScale, cfg.RateDecimalScale)
	}

	cfg.FrankfurterBaseURL = viper.GetString("FRANKFURTER_BASE_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
