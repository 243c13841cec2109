package tui

import (
	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/model"
)

// dataLoadedMsg carries the result of one load of the selected range.
type dataLoadedMsg struct {
	err      error
	snapshot *analytics.Snapshot
	preset   string
	expenses []model.Expense
	settings model.Settings
}
