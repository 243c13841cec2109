package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/spf13/cobra"
)

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an expense",
		Long: `Change fields of an existing expense. Only the flags you pass are changed.

Examples:
  spend edit 1718190000000 --category "Food & Dining"
  spend edit 1718190000000 --amount 12.40 --notes "split with Sam"`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().String("description", "", "new description")
	cmd.Flags().String("amount", "", "new amount")
	cmd.Flags().StringP("category", "c", "", "new category")
	cmd.Flags().StringP("merchant", "m", "", "new merchant")
	cmd.Flags().StringP("date", "d", "", "new date (YYYY-MM-DD, today, yesterday)")
	cmd.Flags().StringP("notes", "n", "", "new notes")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		e, err := a.tracker.Get(ctx, id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		changed := 0
		if flags.Changed("description") {
			e.Description, _ = flags.GetString("description")
			changed++
		}
		if flags.Changed("amount") {
			raw, _ := flags.GetString("amount")
			if e.Amount, err = parseAmount(raw); err != nil {
				return err
			}
			changed++
		}
		if flags.Changed("category") {
			raw, _ := flags.GetString("category")
			category, err := parseCategory(raw)
			if err != nil {
				return err
			}
			if category != e.Category {
				// A manual recategorization is no longer a suggestion.
				e.AISuggested = false
			}
			e.Category = category
			changed++
		}
		if flags.Changed("merchant") {
			e.Merchant, _ = flags.GetString("merchant")
			changed++
		}
		if flags.Changed("date") {
			raw, _ := flags.GetString("date")
			if e.Date, err = parseDate(raw, nowFunc()); err != nil {
				return err
			}
			changed++
		}
		if flags.Changed("notes") {
			e.Notes, _ = flags.GetString("notes")
			changed++
		}

		out := cmd.OutOrStdout()
		if changed == 0 {
			fmt.Fprintln(out, cli.FormatWarning("Nothing to change. Pass at least one field flag."))
			return nil
		}

		updated, err := a.tracker.Update(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}

		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Updated %d: %s, %s in %s",
			updated.ID, updated.Description, format.New(settings).Money(updated.Amount), updated.Category)))
		return nil
	})
}
