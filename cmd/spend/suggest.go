package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/engine"
	"github.com/spf13/cobra"
)

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <description> [amount]",
		Short: "Suggest a category without saving anything",
		Example: `  spend suggest "Uber to airport" 42
  spend suggest "Whole Foods" --merchant "Whole Foods Market" --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runSuggest,
	}
	cmd.Flags().StringP("merchant", "m", "", "merchant name")
	cmd.Flags().Bool("json", false, "print the suggestion as JSON")
	return cmd
}

func runSuggest(cmd *cobra.Command, args []string) error {
	amount := 0.0
	if len(args) == 2 {
		var err error
		if amount, err = parseAmount(args[1]); err != nil {
			return err
		}
	}
	merchant, _ := cmd.Flags().GetString("merchant")
	asJSON, _ := cmd.Flags().GetBool("json")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		suggestion, err := a.tracker.Suggest(ctx, args[0], merchant, amount, nowFunc())
		if errors.Is(err, common.ErrAISuggestionOff) {
			return common.NewUserError("Suggestions are turned off. Enable them with: spend settings set aiEnabled true", err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(suggestion)
		}

		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("%s %s (%d%% confidence)\n%s",
			cli.RobotIcon, cli.SuccessStyle.Render(string(suggestion.Category)), suggestion.Confidence,
			cli.SubtleStyle.Render(suggestion.Reason))
		if suggestion.Subcategory != "" {
			body += "\nSubcategory: " + suggestion.Subcategory
		}
		if engine.ShouldAutoApply(suggestion, settings) {
			body += "\n" + cli.SubtleStyle.Render(fmt.Sprintf("Would be applied automatically (threshold %d%%)", settings.AIConfidenceThreshold))
		}
		fmt.Fprintln(out, cli.RenderBox("Category Suggestion", body))
		return nil
	})
}
