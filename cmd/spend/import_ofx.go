package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spendsense/internal/categorize"
	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX statements",
		Long: `Import debits from OFX or QFX (Quicken) files exported from your bank.
Each debit becomes an expense categorized by the same rules as "spend add".
Deposits and other credits are skipped, and transactions already imported
are not added twice.

Examples:
  spend import-ofx ~/Downloads/chase_jan_2024.qfx
  spend import-ofx ~/Downloads/Chase/*.qfx ~/Downloads/Ally/*.qfx
  spend import-ofx statement.ofx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().Bool("dry-run", false, "preview the import without saving")
	cmd.Flags().BoolP("verbose", "v", false, "list every parsed expense")

	return cmd
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		memory, err := a.store.LoadMemory(ctx)
		if err != nil {
			return err
		}
		parser := ofx.NewParser(categorize.New(categorize.Options{Memory: memory}))

		out := cmd.OutOrStdout()
		var all []model.Expense
		credits := 0
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := parseStatement(ctx, parser, path)
			if err != nil {
				slog.Error("Failed to parse OFX file", "file", path, "error", err)
				fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s: %v", filepath.Base(path), err)))
				continue
			}
			fmt.Fprintf(out, "  %s %s: %d expenses, %d credits skipped\n",
				cli.ReceiptIcon, filepath.Base(path), len(result.Expenses), result.Credits)
			all = append(all, result.Expenses...)
			credits += result.Credits
		}

		if len(all) == 0 {
			fmt.Fprintln(out, cli.FormatWarning("No expenses found in any file"))
			return nil
		}

		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		money := format.New(settings)
		if verbose {
			renderExpenses(cmd, money, all, 0)
		}

		total := 0.0
		for _, e := range all {
			total += e.Amount
		}

		if dryRun {
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d expenses totalling %s would be imported", len(all), money.Money(total))))
			return nil
		}

		added, err := a.tracker.AddMany(ctx, all)
		if err != nil {
			return fmt.Errorf("failed to save imported expenses: %w", err)
		}
		slog.Info("Imported OFX statements", "files", len(files), "parsed", len(all), "added", added, "credits", credits)
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses (%d duplicates skipped)", added, len(all)-added)))
		return nil
	})
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) (*ofx.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return parser.Parse(ctx, f)
}
