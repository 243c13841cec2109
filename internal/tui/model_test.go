package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/testutil"
	"github.com/Veraticus/spendsense/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dashboardNow = time.Date(2024, 6, 20, 10, 0, 0, 0, time.Local)

type fakeSource struct {
	err      error
	expenses []model.Expense
	filters  []analytics.Filter
}

func (f *fakeSource) Analyze(_ context.Context, filter analytics.Filter) (*analytics.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.filters = append(f.filters, filter)
	settings := model.DefaultSettings()
	return analytics.Analyze(f.expenses, filter, analytics.Options{Now: dashboardNow, Settings: &settings}), nil
}

func (f *fakeSource) List(_ context.Context, filter analytics.Filter) ([]model.Expense, error) {
	return filter.Apply(f.expenses), nil
}

func (f *fakeSource) Settings(context.Context) (model.Settings, error) {
	return model.DefaultSettings(), nil
}

func newTestModel(t *testing.T, source *fakeSource) Model {
	t.Helper()
	m := New(source,
		WithTheme(themes.Dark),
		WithSize(120, 40),
		WithClock(func() time.Time { return dashboardNow }),
	)
	msg := m.load(m.Preset())()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func sampleSource() *fakeSource {
	return &fakeSource{expenses: []model.Expense{
		testutil.NewExpense("Morning latte", 5.75).On(dashboardNow).In(model.CategoryFood).At("Starbucks").Suggested(95).WithID(3).Build(),
		testutil.NewExpense("Ride to airport", 18.5).On(dashboardNow.AddDate(0, 0, -1)).In(model.CategoryTransport).WithID(2).Build(),
		testutil.NewExpense("Weekly groceries", 67.89).On(dashboardNow.AddDate(0, 0, -2)).In(model.CategoryFood).WithID(1).Build(),
	}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestNew_Defaults(t *testing.T) {
	m := New(&fakeSource{})
	assert.Equal(t, analytics.RangeThisMonth, m.Preset())
	assert.True(t, m.loading)
	assert.False(t, m.ready)
	assert.Contains(t, m.View(), "Loading expenses")
	assert.NotNil(t, m.Init())

	m = New(&fakeSource{}, WithRange("bogus"))
	assert.Equal(t, analytics.RangeThisMonth, m.Preset())

	m = New(&fakeSource{}, WithRange(analytics.RangeAll))
	assert.Equal(t, analytics.RangeAll, m.Preset())
}

func TestModel_LoadedOverview(t *testing.T) {
	m := newTestModel(t, sampleSource())

	assert.True(t, m.ready)
	assert.False(t, m.loading)
	require.NotNil(t, m.snapshot)
	assert.Equal(t, 3, m.snapshot.TotalExpenses)

	view := m.View()
	assert.Contains(t, view, "SpendSense")
	assert.Contains(t, view, "Total spent")
	assert.Contains(t, view, "$92.14")
	assert.Contains(t, view, "range: this-month")
}

func TestModel_EmptyAndError(t *testing.T) {
	m := newTestModel(t, &fakeSource{})
	assert.Contains(t, m.View(), "No expenses in this range")

	m = newTestModel(t, &fakeSource{err: errors.New("disk on fire")})
	assert.Contains(t, m.View(), "disk on fire")
}

func TestModel_SwitchViews(t *testing.T) {
	m := newTestModel(t, sampleSource())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewCategories, m.view)
	assert.Contains(t, m.View(), "Food & Dining")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewExpenses, m.view)
	assert.Contains(t, m.View(), "Morning latte")
	assert.Contains(t, m.View(), "1 of 3")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewInsights, m.view)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewOverview, m.view, "views wrap around")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewInsights, m.view)
}

func TestModel_ExpenseCursor(t *testing.T) {
	m := newTestModel(t, sampleSource())
	m.view = ViewExpenses

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor, "cursor stops at the last row")
	assert.Contains(t, m.View(), "3 of 3")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)
}

func TestModel_RangeSwitching(t *testing.T) {
	source := sampleSource()
	m := newTestModel(t, source)

	m, cmd := press(t, m, runes("]"))
	require.NotNil(t, cmd)
	assert.Equal(t, analytics.RangeLastMonth, m.Preset())
	assert.True(t, m.loading)

	// A late result for the previous range is dropped.
	stale := dataLoadedMsg{preset: analytics.RangeThisMonth, err: errors.New("stale")}
	updated, _ := m.Update(stale)
	m = updated.(Model)
	assert.True(t, m.loading)
	assert.NoError(t, m.lastError)

	updated, _ = m.Update(m.load(m.Preset())())
	m = updated.(Model)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "No expenses in this range", "nothing was spent in May")

	m, _ = press(t, m, runes("["))
	m, _ = press(t, m, runes("["))
	assert.Equal(t, analytics.RangeThisWeek, m.Preset())

	m, _ = press(t, m, runes("["))
	assert.Equal(t, analytics.RangeAll, m.Preset(), "ranges wrap around")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, sampleSource())

	m, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(t, sampleSource())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	m = updated.(Model)

	assert.Equal(t, 60, m.width)
	assert.Equal(t, 3, m.listHeight())
}

func TestView_String(t *testing.T) {
	assert.Equal(t, "Overview", ViewOverview.String())
	assert.Equal(t, "Insights", ViewInsights.String())
	assert.Equal(t, "Unknown", View(42).String())
}
