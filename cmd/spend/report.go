package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a period report with trends and transactions",
		Example: `  spend report
  spend report --range last-month
  spend report --from 2024-01-01 --to 2024-03-31 --json`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	addFilterFlags(cmd, analytics.RangeThisMonth)
	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		filter, err := filterFromFlags(cmd, nowFunc())
		if err != nil {
			return err
		}

		report, err := a.tracker.Report(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, analytics.NewCLIFormatter(format.New(settings)).FormatReport(report))
		return nil
	})
}
