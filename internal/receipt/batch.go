package receipt

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendsense/internal/common"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds ProcessBatch when limit is not positive.
const DefaultConcurrency = 4

// BatchItem is the outcome of one file in a batch.
type BatchItem struct {
	Err    error
	Result *Result
	File   string
}

// ProcessBatch processes files with at most limit in flight. Per-file
// validation failures are recorded on their item; only cancellation aborts
// the batch. Items keep the order of files.
func (p *Processor) ProcessBatch(ctx context.Context, files []File, limit int, onStage func(file string, s Stage)) ([]BatchItem, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	items := make([]BatchItem, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range files {
		items[i].File = f.Name
		g.Go(func() error {
			var report func(Stage)
			if onStage != nil {
				report = func(s Stage) { onStage(f.Name, s) }
			}

			result, err := p.Process(gctx, f, report)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				common.LogWarn("Skipping receipt", common.Fields{"file": f.Name, "error": err.Error()})
				items[i].Err = err
				return nil
			}
			items[i].Result = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, fmt.Errorf("receipt batch interrupted: %w", err)
	}
	return items, nil
}
