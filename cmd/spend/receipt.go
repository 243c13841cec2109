package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/spendsense/internal/cli"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/receipt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func receiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt <image> [images...]",
		Short: "Scan receipt images into expenses",
		Long: `Scan receipt images and add the extracted expenses. Files must be images
no larger than 15 MB. Several files are scanned concurrently; an invalid file
is reported and skipped without stopping the others. Press Ctrl+C to stop;
receipts already scanned are still saved.

Examples:
  spend receipt ~/Pictures/lunch.jpg
  spend receipt ~/Pictures/receipts/*.png --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReceipt,
	}

	cmd.Flags().Bool("dry-run", false, "show the extraction without saving")
	cmd.Flags().Bool("transcript", false, "print the extracted receipt text")

	return cmd
}

func runReceipt(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	showTranscript, _ := cmd.Flags().GetBool("transcript")

	paths, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no receipt images found")
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		out := cmd.OutOrStdout()

		files := make([]receipt.File, 0, len(paths))
		for _, path := range paths {
			f, err := receipt.LoadFile(path)
			if err != nil {
				fmt.Fprintln(out, cli.FormatError(err.Error()))
				continue
			}
			files = append(files, f)
		}
		if len(files) == 0 {
			return errors.New("no readable receipt images")
		}

		interrupts := cli.NewInterruptHandler(out, "Receipt processing")
		ctx = interrupts.HandleInterrupts(ctx, !dryRun)
		defer interrupts.Stop()

		processor := receipt.NewProcessor(receipt.Options{StageInterval: a.config.StageInterval})
		items, batchErr := scanReceipts(ctx, processor, files, a.config.ReceiptConcurrency, cmd)

		// Completed receipts are saved even when the batch was interrupted.
		saveCtx := context.WithoutCancel(ctx)
		settings, err := a.tracker.Settings(saveCtx)
		if err != nil {
			return err
		}
		money := format.New(settings)

		t := cli.NewTable(out, table.Row{"File", "Merchant", "Category", "Amount", "Confidence"}, 4, 5)
		var (
			scanned     []model.Expense
			transcripts []string
		)
		for _, item := range items {
			switch {
			case item.Err != nil:
				t.AppendRow(table.Row{item.File, cli.Dim(item.Err.Error()), "", "", ""})
			case item.Result != nil:
				r := item.Result
				t.AppendRow(table.Row{item.File, r.Merchant, string(r.Category), money.Money(r.Amount),
					fmt.Sprintf("%d%% (%s)", r.Confidence, r.Analysis.Quality)})
				scanned = append(scanned, r.ToExpense(nowFunc()))
				if showTranscript {
					transcripts = append(transcripts, cli.RenderBox(cli.ReceiptIcon+" "+item.File, r.Transcript))
				}
			}
		}
		t.Render()
		for _, tr := range transcripts {
			fmt.Fprintln(out, tr)
		}

		if dryRun || len(scanned) == 0 {
			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo("Dry run: nothing saved"))
			}
			return batchErr
		}

		for _, e := range scanned {
			added, err := a.tracker.Add(saveCtx, e)
			if err != nil {
				return fmt.Errorf("failed to save receipt expense: %w", err)
			}
			slog.Debug("Saved receipt expense", "id", added.ID, "merchant", added.Merchant)
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %d receipt expenses", len(scanned))))

		if interrupts.WasInterrupted() {
			return nil
		}
		return batchErr
	})
}

// scanReceipts shows a stage progress bar for a single file and a per-file
// completion bar for batches.
func scanReceipts(ctx context.Context, p *receipt.Processor, files []receipt.File, limit int, cmd *cobra.Command) ([]receipt.BatchItem, error) {
	errOut := cmd.ErrOrStderr()

	if len(files) == 1 {
		f := files[0]
		bar := cli.NewStageProgress(errOut, cli.ReceiptIcon+" "+f.Name)
		result, err := p.Process(ctx, f, func(s receipt.Stage) {
			bar.Update(s.Name, s.Percent)
		})
		if err != nil {
			if ctx.Err() != nil {
				return []receipt.BatchItem{{File: f.Name, Err: err}}, err
			}
			return []receipt.BatchItem{{File: f.Name, Err: err}}, nil
		}
		bar.Finish()
		return []receipt.BatchItem{{File: f.Name, Result: result}}, nil
	}

	var (
		mu   sync.Mutex
		done int
	)
	last := receipt.Stages[len(receipt.Stages)-1]
	bar := cli.NewStageProgress(errOut, fmt.Sprintf("%s Scanning %d receipts", cli.ReceiptIcon, len(files)))
	items, err := p.ProcessBatch(ctx, files, limit, func(file string, s receipt.Stage) {
		if s.Percent != last.Percent {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		bar.Update(file, done*100/len(files))
	})
	if err == nil {
		bar.Finish()
	}
	return items, err
}
