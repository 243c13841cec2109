package tui

import (
	"context"
	"time"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/tui/themes"
)

// Source supplies the data the dashboard shows. engine.Tracker implements it.
type Source interface {
	Analyze(ctx context.Context, filter analytics.Filter) (*analytics.Snapshot, error)
	List(ctx context.Context, filter analytics.Filter) ([]model.Expense, error)
	Settings(ctx context.Context) (model.Settings, error)
}

// Config holds dashboard configuration.
type Config struct {
	Theme        themes.Theme
	Now          func() time.Time
	Range        string
	Width        int
	Height       int
	LoadTimeout  time.Duration
	ThemeFromSet bool
}

// Option is a functional option for configuring the dashboard.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		Now:          time.Now,
		Range:        analytics.RangeThisMonth,
		Width:        80,
		Height:       24,
		LoadTimeout:  10 * time.Second,
		ThemeFromSet: true,
	}
}

// WithTheme sets the visual theme instead of the one in settings.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
		c.ThemeFromSet = false
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithRange sets the initial range preset.
func WithRange(preset string) Option {
	return func(c *Config) {
		c.Range = preset
	}
}

// WithClock overrides the clock used to resolve range presets.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}
