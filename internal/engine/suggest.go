package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/spendsense/internal/categorize"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/model"
)

// Suggest guesses a category using the stored settings and learned memory.
// It returns common.ErrAISuggestionOff when AI or auto-categorization is
// disabled.
func (t *Tracker) Suggest(ctx context.Context, description, merchant string, amount float64, at time.Time) (model.Suggestion, error) {
	settings, err := t.store.LoadSettings(ctx)
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.AIEnabled || !settings.AutoCategorizationEnabled {
		return model.Suggestion{}, common.ErrAISuggestionOff
	}

	booster := t.booster
	if booster == nil {
		mem, err := t.store.LoadMemory(ctx)
		if err != nil {
			return model.Suggestion{}, fmt.Errorf("failed to load memory: %w", err)
		}
		booster = mem
	}

	c := categorize.New(categorize.Options{
		Memory:            booster,
		DisableHeuristics: !settings.SmartSuggestionsEnabled,
	})
	return c.Categorize(description, merchant, amount, at), nil
}

// ShouldAutoApply reports whether s is confident enough to apply without
// asking the user.
func ShouldAutoApply(s model.Suggestion, settings model.Settings) bool {
	return s.Confidence >= settings.AIConfidenceThreshold
}
