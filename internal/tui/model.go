// Package tui implements the interactive spending dashboard.
package tui

import (
	"slices"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// View is a dashboard tab.
type View int

// Dashboard tabs in display order.
const (
	ViewOverview View = iota
	ViewCategories
	ViewExpenses
	ViewInsights
)

var viewNames = []string{"Overview", "Categories", "Expenses", "Insights"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "Unknown"
}

// Model holds the dashboard state.
type Model struct {
	source     Source
	lastError  error
	snapshot   *analytics.Snapshot
	money      *format.Formatter
	config     Config
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	spinner    spinner.Model
	bar        progress.Model
	expenses   []model.Expense
	rangeIndex int
	cursor     int
	offset     int
	width      int
	height     int
	view       View
	loading    bool
	ready      bool
	quitting   bool
}

// New creates a dashboard over source.
func New(source Source, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rangeIndex := slices.Index(analytics.RangePresets, cfg.Range)
	if rangeIndex < 0 {
		rangeIndex = slices.Index(analytics.RangePresets, analytics.RangeThisMonth)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cfg.Theme.Title

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 24

	return Model{
		source:     source,
		config:     cfg,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		spinner:    s,
		bar:        bar,
		money:      format.Default(),
		rangeIndex: rangeIndex,
		width:      cfg.Width,
		height:     cfg.Height,
		loading:    true,
	}
}

// Preset returns the selected range preset.
func (m Model) Preset() string {
	return analytics.RangePresets[m.rangeIndex]
}

// Init starts the spinner and the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.Preset()))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		if msg.preset != m.Preset() {
			// A newer range was selected while this load was in flight.
			return m, nil
		}
		m.loading = false
		m.ready = true
		m.lastError = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.expenses = msg.expenses
		m.money = format.New(msg.settings)
		if m.config.ThemeFromSet {
			m.theme = themes.GetTheme(msg.settings.Theme)
		}
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.NextView):
		m.view = (m.view + 1) % View(len(viewNames))

	case key.Matches(msg, m.keymap.PrevView):
		m.view = (m.view + View(len(viewNames)) - 1) % View(len(viewNames))

	case key.Matches(msg, m.keymap.NextRange):
		m.rangeIndex = (m.rangeIndex + 1) % len(analytics.RangePresets)
		return m.reload()

	case key.Matches(msg, m.keymap.PrevRange):
		m.rangeIndex = (m.rangeIndex + len(analytics.RangePresets) - 1) % len(analytics.RangePresets)
		return m.reload()

	case key.Matches(msg, m.keymap.Refresh):
		return m.reload()

	case key.Matches(msg, m.keymap.Up):
		if m.view == ViewExpenses && m.cursor > 0 {
			m.cursor--
			m.clampCursor()
		}

	case key.Matches(msg, m.keymap.Down):
		if m.view == ViewExpenses && m.cursor < len(m.expenses)-1 {
			m.cursor++
			m.clampCursor()
		}
	}
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.cursor = 0
	m.offset = 0
	return m, tea.Batch(m.spinner.Tick, m.load(m.Preset()))
}

// listHeight is the number of expense rows that fit on screen.
func (m Model) listHeight() int {
	return max(3, m.height-10)
}

// clampCursor keeps the cursor inside the list and scrolls it into view.
func (m *Model) clampCursor() {
	if len(m.expenses) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = max(0, min(m.cursor, len(m.expenses)-1))
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}
