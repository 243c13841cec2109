package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show categorization statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				stats, err := a.tracker.Stats(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(stats)
				}

				settings, err := a.tracker.Settings(ctx)
				if err != nil {
					return err
				}
				money := format.New(settings)

				fmt.Fprintln(out, cli.FormatTitle(cli.RobotIcon+" Categorization stats"))
				t := cli.NewTable(out, table.Row{"Metric", "Value"}, 2)
				t.AppendRows([]table.Row{
					{"Expenses", stats.TotalExpenses},
					{"Total spent", money.Money(stats.TotalAmount)},
					{"Suggested automatically", stats.AIProcessed},
					{"Categories learned", stats.CategoriesLearned},
					{"Merchants recognized", stats.MerchantsRecognized},
					{"Accuracy", money.Percent(stats.AIAccuracy)},
					{"Score", fmt.Sprintf("%.0f", stats.AIScore)},
					{"Savings identified", cli.Highlight(money.Money(stats.SavingsIdentified))},
				})
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "print the statistics as JSON")
	return cmd
}
