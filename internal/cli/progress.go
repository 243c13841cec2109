package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
)

// StageProgress renders a percent-based bar whose description follows the
// current processing stage.
type StageProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewStageProgress creates a bar out of 100 that writes to w.
func NewStageProgress(w io.Writer, title string) *StageProgress {
	if w == nil {
		w = os.Stderr
	}
	s := &StageProgress{writer: w}
	s.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription(describe(title)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return s
}

func describe(text string) string {
	return "[cyan][bold]" + text + "[reset]"
}

// Update moves the bar to percent and relabels it with stage.
func (s *StageProgress) Update(stage string, percent int) {
	s.bar.Describe(describe(stage))
	if err := s.bar.Set(max(0, min(100, percent))); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar.
func (s *StageProgress) Finish() {
	if err := s.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
