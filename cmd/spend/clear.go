package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/spf13/cobra"
)

func clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all expenses, or only those past the retention period",
		Long: `Delete every expense. With --expired only expenses older than the
dataRetention setting (in days) are deleted. Settings and learned boosts
are kept.`,
		Args: cobra.NoArgs,
		RunE: runClear,
	}
	cmd.Flags().BoolP("force", "f", false, "delete without asking")
	cmd.Flags().Bool("expired", false, "only delete expenses past the retention period")
	return cmd
}

func runClear(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	expired, _ := cmd.Flags().GetBool("expired")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		out := cmd.OutOrStdout()

		if expired {
			removed, err := a.tracker.Retention(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Removed %d expenses past retention", removed)))
			return nil
		}

		if !force {
			ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Delete ALL expenses? This cannot be undone.")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Nothing deleted."))
				return nil
			}
		}

		removed, err := a.tracker.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d expenses", removed)))
		return nil
	})
}
