package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses",
		Long: `List expenses newest first, optionally filtered by range, category or a
search term matched against description and merchant.

Examples:
  spend list
  spend list --range this-month --category "Food & Dining"
  spend list --search starbucks --limit 10`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	addFilterFlags(cmd, analytics.RangeAll)
	cmd.Flags().StringP("search", "s", "", "search description and merchant")
	cmd.Flags().IntP("limit", "l", 50, "maximum rows to show (0 for all)")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	search, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		filter, err := filterFromFlags(cmd, nowFunc())
		if err != nil {
			return err
		}

		expenses, err := a.tracker.Search(ctx, search, filter.Category)
		if err != nil {
			return err
		}
		filter.Category = ""
		expenses = filter.Apply(expenses)

		out := cmd.OutOrStdout()
		if len(expenses) == 0 {
			fmt.Fprintln(out, cli.SubtleStyle.Render("No expenses found."))
			return nil
		}

		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		renderExpenses(cmd, format.New(settings), expenses, limit)
		return nil
	})
}

func renderExpenses(cmd *cobra.Command, money *format.Formatter, expenses []model.Expense, limit int) {
	out := cmd.OutOrStdout()
	shown := expenses
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	t := cli.NewTable(out, table.Row{"ID", "Date", "Description", "Category", "Amount", "AI"}, 5)
	total := 0.0
	for _, e := range shown {
		ai := ""
		if e.AISuggested {
			ai = fmt.Sprintf("%d%%", e.Confidence)
		}
		t.AppendRow(table.Row{
			e.ID,
			money.Date(e.Date.Time),
			format.Truncate(e.Description, 36),
			string(e.Category),
			money.Money(e.Amount),
			cli.Dim(ai),
		})
		total += e.Amount
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d expenses", len(shown)), "", cli.Highlight(money.Money(total)), ""})
	t.Render()

	if len(expenses) > len(shown) {
		fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("... and %d more (use --limit 0 to show all)", len(expenses)-len(shown))))
	}
}
