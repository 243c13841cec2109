package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/engine"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Add an expense",
		Long: `Add an expense. When no category is given, a category is suggested from the
description, merchant, amount and time. Confident suggestions are applied
automatically; otherwise you are asked to confirm.

Examples:
  spend add "Starbucks coffee" 5.75
  spend add "Dinner with team" 86.40 --merchant "Olive Garden" --date yesterday
  spend add "Electric bill" 120 --category "Bills & Utilities"`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringP("category", "c", "", "category (skips the suggestion)")
	cmd.Flags().StringP("merchant", "m", "", "merchant name")
	cmd.Flags().StringP("date", "d", "today", "date (YYYY-MM-DD, today, yesterday)")
	cmd.Flags().StringP("notes", "n", "", "free-form notes")
	cmd.Flags().BoolP("yes", "y", false, "accept the suggestion without asking")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	categoryFlag, _ := cmd.Flags().GetString("category")
	category, err := parseCategory(categoryFlag)
	if err != nil {
		return err
	}
	merchant, _ := cmd.Flags().GetString("merchant")
	notes, _ := cmd.Flags().GetString("notes")
	dateFlag, _ := cmd.Flags().GetString("date")
	assumeYes, _ := cmd.Flags().GetBool("yes")

	now := nowFunc()
	date, err := parseDate(dateFlag, now)
	if err != nil {
		return err
	}

	e := model.Expense{
		Description: strings.TrimSpace(args[0]),
		Amount:      amount,
		Merchant:    merchant,
		Notes:       notes,
		Date:        date,
		Category:    category,
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		if e.Category == "" {
			if err := suggestCategory(ctx, cmd, a, &e, now, assumeYes); err != nil {
				return err
			}
		}

		added, err := a.tracker.Add(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to add expense: %w", err)
		}

		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		money := format.New(settings)
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s: %s in %s (id %d)",
			added.Description, money.Money(added.Amount), added.Category, added.ID)))
		return nil
	})
}

// suggestCategory fills e.Category from a suggestion, asking the user unless the
// suggestion clears the confidence threshold or assumeYes is set.
func suggestCategory(ctx context.Context, cmd *cobra.Command, a *app, e *model.Expense, now time.Time, assumeYes bool) error {
	at := e.Date.Time
	if e.Date.Equal(model.NewDate(now).Time) {
		at = now
	}

	suggestion, err := a.tracker.Suggest(ctx, e.Description, e.Merchant, e.Amount, at)
	if errors.Is(err, common.ErrAISuggestionOff) {
		e.Category = model.CategoryOther
		return nil
	}
	if err != nil {
		return err
	}

	settings, err := a.tracker.Settings(ctx)
	if err != nil {
		return err
	}

	if assumeYes || engine.ShouldAutoApply(suggestion, settings) {
		suggestion.Apply(e)
		common.LogDebug("Applied suggestion", common.Fields{
			"category":   suggestion.Category,
			"confidence": suggestion.Confidence,
			"reason":     suggestion.Reason,
		})
		return nil
	}

	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	decision, err := prompter.ConfirmSuggestion(ctx, *e, suggestion)
	if err != nil {
		return err
	}
	if decision.Accepted {
		suggestion.Apply(e)
		return nil
	}
	e.Category = decision.Category
	return nil
}
