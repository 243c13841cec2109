package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete,
	}
	cmd.Flags().BoolP("force", "f", false, "delete without asking")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		e, err := a.tracker.Get(ctx, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !force {
			prompter := cli.NewPrompter(cmd.InOrStdin(), out)
			ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete %q (%.2f, %s)?", e.Description, e.Amount, e.Date))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Kept."))
				return nil
			}
		}

		if err := a.tracker.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %q", e.Description)))
		return nil
	})
}
