package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/export"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change settings",
		Long: `Show and change the stored settings. Keys use the names shown by
"spend settings show"; category budgets are addressed as
categoryBudgets.<Category>.

Examples:
  spend settings show
  spend settings set monthlyBudget 2500
  spend settings set "categoryBudgets.Food & Dining" 600
  spend settings set aiEnabled false
  spend settings export settings.yaml`,
	}

	cmd.AddCommand(settingsShowCmd(), settingsSetCmd(), settingsResetCmd(), settingsExportCmd(), settingsImportCmd())
	return cmd
}

func settingsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				settings, err := a.tracker.Settings(ctx)
				if err != nil {
					return err
				}
				if format != "table" {
					f, err := export.ParseFormat(format)
					if err != nil {
						return common.NewUserError(err.Error(), err)
					}
					return export.WriteSettings(cmd.OutOrStdout(), settings, f)
				}
				return renderSettings(cmd, settings)
			})
		},
	}
	cmd.Flags().String("format", "table", "output format (table, yaml, json)")
	return cmd
}

func renderSettings(cmd *cobra.Command, settings model.Settings) error {
	values, err := settingsMap(settings)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "categoryBudgets" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	t := cli.NewTable(out, table.Row{"Setting", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, fmt.Sprint(values[k])})
	}
	for _, c := range model.Categories() {
		if budget, ok := settings.CategoryBudgets[c]; ok {
			t.AppendRow(table.Row{"categoryBudgets." + string(c), fmt.Sprintf("%.2f", budget)})
		}
	}
	t.Render()
	return nil
}

func settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				settings, err := a.tracker.Settings(ctx)
				if err != nil {
					return err
				}
				updated, err := applySetting(settings, args[0], args[1])
				if err != nil {
					return err
				}
				if err := a.tracker.SaveSettings(ctx, updated); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
				return nil
			})
		},
	}
}

// applySetting changes one key of settings through its YAML form so that
// values are typed and validated exactly like an imported settings file.
func applySetting(settings model.Settings, key, raw string) (model.Settings, error) {
	values, err := settingsMap(settings)
	if err != nil {
		return model.Settings{}, err
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	if name, ok := strings.CutPrefix(key, "categoryBudgets."); ok {
		category, err := parseCategory(name)
		if err != nil {
			return model.Settings{}, err
		}
		budgets, _ := values["categoryBudgets"].(map[string]any)
		if budgets == nil {
			budgets = map[string]any{}
		}
		budgets[string(category)] = value
		values["categoryBudgets"] = budgets
	} else {
		if _, ok := values[key]; !ok || key == "categoryBudgets" {
			return model.Settings{}, common.NewUserError(fmt.Sprintf("Unknown setting %q. See: spend settings show", key), common.ErrInvalidConfig)
		}
		values[key] = value
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return model.Settings{}, fmt.Errorf("encoding settings: %w", err)
	}
	updated, err := export.ReadSettings(bytes.NewReader(data), export.FormatYAML)
	if err != nil {
		return model.Settings{}, common.NewUserError(fmt.Sprintf("Cannot set %s to %q: %v", key, raw, err), err)
	}
	return updated, nil
}

func settingsMap(settings model.Settings) (map[string]any, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return values, nil
}

func settingsResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				if !force {
					ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Reset all settings to defaults?")
					if err != nil {
						return err
					}
					if !ok {
						return nil
					}
				}
				if err := a.tracker.SaveSettings(ctx, model.DefaultSettings()); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Settings reset to defaults"))
				return nil
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "reset without asking")
	return cmd
}

func settingsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.yaml|file.json>",
		Short: "Write the settings to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := export.FormatFromPath(path)
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				settings, err := a.tracker.Settings(ctx)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := export.WriteSettings(&buf, settings, f); err != nil {
					return common.NewUserError(err.Error(), err)
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Settings written to "+path))
				return nil
			})
		},
	}
}

func settingsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml|file.json>",
		Short: "Replace the settings with a file; missing keys take defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := export.FormatFromPath(path)
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() {
				_ = file.Close()
			}()

			settings, err := export.ReadSettings(file, f)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Cannot import %s: %v", path, err), err)
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.tracker.SaveSettings(ctx, settings); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Settings imported from "+path))
				return nil
			})
		},
	}
}
