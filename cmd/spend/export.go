package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV, Excel or a JSON backup",
		Long: `Export expenses. CSV and Excel exports honor the range and category
filters; the JSON export is a full backup of expenses, settings and usage
statistics. Exports are refused when dataExportEnabled is off.

Examples:
  spend export --output expenses.csv
  spend export --format xlsx --output 2024.xlsx --range this-year
  spend export --format json > backup.json`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	addFilterFlags(cmd, analytics.RangeAll)
	cmd.Flags().StringP("format", "f", "", "csv, xlsx or json (default: from --output extension, else csv)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	f, err := exportFormat(formatFlag, output)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		if !settings.DataExportEnabled {
			return common.NewUserError("Data export is disabled. Enable it with: spend settings set dataExportEnabled true", common.ErrExportForbidden)
		}

		var buf bytes.Buffer
		count := 0
		switch f {
		case export.FormatJSON:
			bundle, err := a.tracker.ExportBundle(ctx)
			if err != nil {
				return err
			}
			if err := export.WriteBundle(&buf, bundle); err != nil {
				return err
			}
			count = len(bundle.Expenses)
		default:
			filter, err := filterFromFlags(cmd, nowFunc())
			if err != nil {
				return err
			}
			expenses, err := a.tracker.List(ctx, filter)
			if err != nil {
				return err
			}
			analytics.SortNewestFirst(expenses)
			count = len(expenses)

			if f == export.FormatXLSX {
				err = export.WriteXLSX(&buf, expenses)
			} else {
				err = export.WriteCSV(&buf, expenses, settings.DateLayout())
			}
			if err != nil {
				return err
			}
		}

		if output == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(output, buf.Bytes(), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", count, output)))
		return nil
	})
}

func exportFormat(name, output string) (export.Format, error) {
	var (
		f   export.Format
		err error
	)
	switch {
	case name != "":
		f, err = export.ParseFormat(name)
	case output != "":
		f, err = export.FormatFromPath(output)
	default:
		return export.FormatCSV, nil
	}
	if err != nil {
		return "", common.NewUserError(err.Error(), err)
	}
	if f == export.FormatYAML {
		return "", common.NewUserError("Expenses export as csv, xlsx or json", export.ErrUnknownFormat)
	}
	return f, nil
}
