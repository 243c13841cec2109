package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show spending analytics, budgets, insights and recommendations",
		Long: `Analyze expenses in a date range: totals, category breakdown, budget usage,
scores, a month-end projection, unusual expenses, insights and
recommendations.

Examples:
  spend analyze
  spend analyze --range last-3-months
  spend analyze --category "Food & Dining" --json`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}
	addFilterFlags(cmd, analytics.RangeAll)
	cmd.Flags().Bool("json", false, "print the snapshot as JSON")
	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		filter, err := filterFromFlags(cmd, nowFunc())
		if err != nil {
			return err
		}

		snap, err := a.tracker.Analyze(ctx, filter)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, analytics.NewCLIFormatter(format.New(settings)).FormatSnapshot(snap))
		return nil
	})
}
