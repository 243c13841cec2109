package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendsense/internal/analytics"
	tea "github.com/charmbracelet/bubbletea"
)

// load fetches the snapshot, expenses and settings for a range preset.
func (m Model) load(preset string) tea.Cmd {
	source := m.source
	timeout := m.config.LoadTimeout
	now := m.config.Now()

	return func() tea.Msg {
		filter, err := analytics.RangeFor(preset, now)
		if err != nil {
			return dataLoadedMsg{preset: preset, err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		settings, err := source.Settings(ctx)
		if err != nil {
			return dataLoadedMsg{preset: preset, err: fmt.Errorf("failed to load settings: %w", err)}
		}
		snap, err := source.Analyze(ctx, filter)
		if err != nil {
			return dataLoadedMsg{preset: preset, err: fmt.Errorf("failed to analyze expenses: %w", err)}
		}
		expenses, err := source.List(ctx, filter)
		if err != nil {
			return dataLoadedMsg{preset: preset, err: fmt.Errorf("failed to list expenses: %w", err)}
		}

		return dataLoadedMsg{
			preset:   preset,
			snapshot: snap,
			expenses: expenses,
			settings: settings,
		}
	}
}
