package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/engine"
	"github.com/Veraticus/spendsense/internal/memory"
	"github.com/Veraticus/spendsense/internal/tui"
	"github.com/Veraticus/spendsense/internal/tui/themes"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive spending dashboard",
		Long: `Open a full-screen dashboard with overview, category, expense and insight
views. Use tab to switch views, [ and ] to change the date range, r to
refresh and q to quit. Learned merchant boosts refresh in the background
while the dashboard is open.`,
		Args: cobra.NoArgs,
		RunE: runDashboard,
	}
	cmd.Flags().String("range", analytics.RangeThisMonth, "initial date range")
	cmd.Flags().String("theme", "", "light, dark or auto (default: from settings)")
	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	preset, _ := cmd.Flags().GetString("range")
	theme, _ := cmd.Flags().GetString("theme")

	if _, err := analytics.RangeFor(preset, nowFunc()); err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		initial, err := a.store.LoadMemory(ctx)
		if err != nil {
			return err
		}
		learner := memory.NewLearner(a.store, initial)
		tracker := engine.NewWithConfig(a.store, learner, engine.Config{CacheTTL: a.config.CacheTTL})

		opts := []tui.Option{tui.WithRange(preset), tui.WithClock(nowFunc)}
		if theme != "" {
			opts = append(opts, tui.WithTheme(themes.GetTheme(theme)))
		}

		g, gctx := errgroup.WithContext(ctx)
		learnCtx, stopLearner := context.WithCancel(gctx)
		g.Go(func() error {
			err := learner.Run(learnCtx, a.config.LearnerInterval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			defer stopLearner()
			return tui.Run(gctx, tracker, opts...)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	})
}
