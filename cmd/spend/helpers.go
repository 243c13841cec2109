package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/config"
	"github.com/Veraticus/spendsense/internal/engine"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// nowFunc is the clock used for date shortcuts and range presets.
var nowFunc = time.Now

// app bundles what a command needs: configuration, the store and a tracker.
type app struct {
	config  *config.App
	store   *storage.SQLiteStorage
	tracker *engine.Tracker
}

func (a *app) Close() error {
	return a.store.Close()
}

// initStorage opens and migrates the database named by the configuration.
func initStorage(ctx context.Context, cfg *config.App) (*storage.SQLiteStorage, error) {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// openApp loads configuration, opens the store and seeds the sample
// expenses into an empty store when configured to.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tracker := engine.NewWithConfig(store, nil, engine.Config{CacheTTL: cfg.CacheTTL})
	if cfg.SeedSamples {
		if _, err := tracker.SeedSamples(ctx); err != nil {
			common.LogWarn("Could not seed sample expenses", common.Fields{"error": err.Error()})
		}
	}

	return &app{config: cfg, store: store, tracker: tracker}, nil
}

// withApp runs fn with an opened app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	return fn(ctx, a)
}

// parseAmount accepts "12.50", "$12.50" or "1,234.50".
func parseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount < 0 {
		return 0, common.NewUserError(fmt.Sprintf("Invalid amount %q: use a non-negative number like 12.50", s), model.ErrInvalidAmount)
	}
	return amount, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("Invalid expense id %q", s), err)
	}
	return id, nil
}

// parseDate accepts "2006-01-02", "today" and "yesterday".
func parseDate(s string, now time.Time) (model.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return model.NewDate(now), nil
	case "yesterday":
		return model.NewDate(now.AddDate(0, 0, -1)), nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, common.NewUserError(fmt.Sprintf("Invalid date %q: use YYYY-MM-DD", s), err)
	}
	return d, nil
}

// parseCategory maps user input onto a category, rejecting unknown names.
func parseCategory(s string) (model.Category, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	c := model.NormalizeCategory(s)
	if c == model.CategoryOther && !strings.EqualFold(strings.TrimSpace(s), string(model.CategoryOther)) {
		names := make([]string, 0, len(model.Categories()))
		for _, cat := range model.Categories() {
			names = append(names, string(cat))
		}
		return "", common.NewUserError(fmt.Sprintf("Unknown category %q. Choose one of: %s", s, strings.Join(names, ", ")), common.ErrInvalidConfig)
	}
	return c, nil
}

// addFilterFlags registers --range, --from, --to and --category.
func addFilterFlags(cmd *cobra.Command, defaultRange string) {
	cmd.Flags().String("range", defaultRange, fmt.Sprintf("date range (%s)", strings.Join(analytics.RangePresets, ", ")))
	cmd.Flags().String("from", "", "start date (YYYY-MM-DD), overrides --range")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD), overrides --range")
	cmd.Flags().StringP("category", "c", "", "only this category")
}

// filterFromFlags builds the filter registered by addFilterFlags.
func filterFromFlags(cmd *cobra.Command, now time.Time) (analytics.Filter, error) {
	preset, _ := cmd.Flags().GetString("range")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	category, _ := cmd.Flags().GetString("category")

	var (
		filter analytics.Filter
		err    error
	)
	if from != "" || to != "" {
		filter, err = analytics.DateRange(from, to)
	} else {
		filter, err = analytics.RangeFor(preset, now)
	}
	if err != nil {
		return analytics.Filter{}, common.NewUserError(err.Error(), err)
	}

	filter.Category, err = parseCategory(category)
	if err != nil {
		return analytics.Filter{}, err
	}
	return filter, nil
}
