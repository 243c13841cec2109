package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/memory"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func learnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Refresh learned merchant boosts from past suggestions",
		Long: `Recompute the per-merchant confidence boosts and per-category accuracy from
expenses whose category was suggested. Merchants seen repeatedly get more
confident suggestions. Does nothing when aiLearningEnabled is off.

With --watch the refresh repeats every learner.interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: runLearn,
	}
	cmd.Flags().Bool("watch", false, "keep refreshing until interrupted")
	return cmd
}

func runLearn(cmd *cobra.Command, _ []string) error {
	watch, _ := cmd.Flags().GetBool("watch")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		initial, err := a.store.LoadMemory(ctx)
		if err != nil {
			return err
		}
		learner := memory.NewLearner(a.store, initial)
		out := cmd.OutOrStdout()

		if watch {
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Refreshing every %s, press Ctrl+C to stop", a.config.LearnerInterval)))
			err := learner.Run(ctx, a.config.LearnerInterval)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			if err != nil {
				return err
			}
			return renderMemory(cmd, learner.Snapshot())
		}

		if err := learner.RefreshOnce(ctx); err != nil {
			return err
		}
		settings, err := a.tracker.Settings(ctx)
		if err != nil {
			return err
		}
		if !settings.AILearningEnabled {
			fmt.Fprintln(out, cli.FormatWarning("Learning is disabled. Enable it with: spend settings set aiLearningEnabled true"))
			return nil
		}
		return renderMemory(cmd, learner.Snapshot())
	})
}

func renderMemory(cmd *cobra.Command, mem model.Memory) error {
	out := cmd.OutOrStdout()
	if len(mem.MerchantLearning) == 0 && len(mem.CategoryAccuracy) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("Nothing learned yet. Add a few suggested expenses from the same merchants."))
		return nil
	}

	merchants := make([]string, 0, len(mem.MerchantLearning))
	for m := range mem.MerchantLearning {
		merchants = append(merchants, m)
	}
	sort.Slice(merchants, func(i, j int) bool {
		bi, bj := mem.MerchantLearning[merchants[i]], mem.MerchantLearning[merchants[j]]
		if bi != bj {
			return bi > bj
		}
		return merchants[i] < merchants[j]
	})

	if len(merchants) > 0 {
		fmt.Fprintln(out, cli.SubtitleStyle.Render(cli.RobotIcon+" Merchant boosts:"))
		t := cli.NewTable(out, table.Row{"Merchant", "Boost"}, 2)
		for _, m := range merchants {
			t.AppendRow(table.Row{m, fmt.Sprintf("+%d", mem.MerchantLearning[m])})
		}
		t.Render()
	}

	if len(mem.CategoryAccuracy) > 0 {
		fmt.Fprintln(out, cli.SubtitleStyle.Render("Category accuracy:"))
		t := cli.NewTable(out, table.Row{"Category", "Average confidence"}, 2)
		for _, c := range model.Categories() {
			if acc, ok := mem.CategoryAccuracy[c]; ok {
				t.AppendRow(table.Row{string(c), fmt.Sprintf("%.1f%%", acc)})
			}
		}
		t.Render()
	}
	return nil
}
