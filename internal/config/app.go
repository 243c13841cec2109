package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/spendsense/internal/common"
	"github.com/spf13/viper"
)

// Defaults for values not present in the config file or environment.
const (
	DefaultDatabasePath       = "$HOME/.local/share/spendsense/spendsense.db"
	DefaultStageInterval      = 700 * time.Millisecond
	DefaultReceiptConcurrency = 4
	DefaultLearnerInterval    = 30 * time.Second
	DefaultCacheTTL           = 5 * time.Minute
)

// App holds runtime configuration for the spend CLI.
type App struct {
	DatabasePath       string
	LogLevel           string
	LogFormat          string
	StageInterval      time.Duration
	LearnerInterval    time.Duration
	CacheTTL           time.Duration
	ReceiptConcurrency int
	SeedSamples        bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("receipt.stage_interval", DefaultStageInterval)
	v.SetDefault("receipt.max_concurrency", DefaultReceiptConcurrency)
	v.SetDefault("learner.interval", DefaultLearnerInterval)
	v.SetDefault("analytics.cache_ttl", DefaultCacheTTL)
	v.SetDefault("store.seed_samples", true)
}

// Load reads the application configuration from v.
// It follows this precedence:
// 1. Viper configuration (config file or SPEND_ env vars)
// 2. SPENDSENSE_DB for the database path, usually set from a .env file
// 3. Default values
func Load(v *viper.Viper) (*App, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)

	app := &App{
		DatabasePath:       v.GetString("database.path"),
		LogLevel:           v.GetString("logging.level"),
		LogFormat:          v.GetString("logging.format"),
		StageInterval:      v.GetDuration("receipt.stage_interval"),
		ReceiptConcurrency: v.GetInt("receipt.max_concurrency"),
		LearnerInterval:    v.GetDuration("learner.interval"),
		CacheTTL:           v.GetDuration("analytics.cache_ttl"),
		SeedSamples:        v.GetBool("store.seed_samples"),
	}

	if !v.IsSet("database.path") || app.DatabasePath == DefaultDatabasePath {
		if env := os.Getenv("SPENDSENSE_DB"); env != "" {
			app.DatabasePath = env
		}
	}
	app.DatabasePath = ExpandPath(app.DatabasePath)

	if err := app.Validate(); err != nil {
		return nil, err
	}
	return app, nil
}

// Validate checks value ranges.
func (a *App) Validate() error {
	if a.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if a.StageInterval < 0 {
		return fmt.Errorf("%w: receipt.stage_interval must not be negative", common.ErrInvalidConfig)
	}
	if a.ReceiptConcurrency < 1 {
		return fmt.Errorf("%w: receipt.max_concurrency must be at least 1", common.ErrInvalidConfig)
	}
	if a.LearnerInterval <= 0 {
		return fmt.Errorf("%w: learner.interval must be positive", common.ErrInvalidConfig)
	}
	if a.CacheTTL < 0 {
		return fmt.Errorf("%w: analytics.cache_ttl must not be negative", common.ErrInvalidConfig)
	}
	return nil
}
