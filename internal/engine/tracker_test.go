package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 20, 9, 30, 0, 0, time.Local)

func newTestTracker(t *testing.T, expenses ...model.Expense) (*Tracker, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDB(t, expenses...)
	tracker := NewWithConfig(db.Storage, nil, Config{
		Now:      func() time.Time { return fixedNow },
		CacheTTL: time.Minute,
	})
	return tracker, db
}

func TestTracker_Add(t *testing.T) {
	ctx := context.Background()
	existing := testutil.NewExpense("Lunch", 12).WithID(1).Build()
	tracker, db := newTestTracker(t, existing)

	added, err := tracker.Add(ctx, model.Expense{
		Description: "  Movie tickets ",
		Amount:      24,
		Category:    "entertainment",
	})
	require.NoError(t, err)

	assert.Equal(t, "Movie tickets", added.Description)
	assert.Equal(t, model.CategoryEntertainment, added.Category)
	assert.Equal(t, model.SourceManual, added.Source)
	assert.Equal(t, fixedNow.UnixMilli(), added.ID)
	assert.Equal(t, model.NewDate(fixedNow).String(), added.Date.String())

	stored := db.MustExpenses()
	require.Len(t, stored, 2)
	assert.Equal(t, added.ID, stored[0].ID, "new expenses go first")
	assert.Equal(t, int64(1), stored[1].ID)
}

func TestTracker_AddAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	tracker, db := newTestTracker(t)

	for range 3 {
		_, err := tracker.Add(ctx, model.Expense{Description: "Coffee", Amount: 3})
		require.NoError(t, err)
	}

	ids := make(map[int64]bool)
	for _, e := range db.MustExpenses() {
		ids[e.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestTracker_AddRejectsInvalid(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		expense model.Expense
	}{
		{
			name:    "missing description",
			expense: model.Expense{Amount: 5},
			wantErr: model.ErrMissingDescription,
		},
		{
			name:    "negative amount",
			expense: model.Expense{Description: "Refund", Amount: -5},
			wantErr: model.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, db := newTestTracker(t)
			_, err := tracker.Add(context.Background(), tt.expense)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, db.MustExpenses())
		})
	}
}

func TestTracker_AddMany(t *testing.T) {
	ctx := context.Background()
	existing := testutil.NewExpense("Grocery run", 40).WithID(1).Build()
	tracker, db := newTestTracker(t, existing)

	older := testutil.NewExpense("Older", 10).On(fixedNow.AddDate(0, 0, -5)).Build()
	newer := testutil.NewExpense("Newer", 20).On(fixedNow.AddDate(0, 0, -1)).Build()
	duplicate := testutil.NewExpense("grocery RUN", 40).Build()

	added, err := tracker.AddMany(ctx, []model.Expense{older, duplicate, newer, newer})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	stored := db.MustExpenses()
	require.Len(t, stored, 3)
	assert.Equal(t, "Newer", stored[0].Description)
	assert.Equal(t, "Older", stored[1].Description)
	assert.Equal(t, "Grocery run", stored[2].Description)
}

func TestTracker_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	original := testutil.NewExpense("Taxi", 15).WithID(7).Build()
	tracker, db := newTestTracker(t, original)

	edited := original
	edited.Amount = 18
	edited.Category = "transport"
	edited.CreatedAt = fixedNow

	updated, err := tracker.Update(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTransport, updated.Category)
	assert.True(t, updated.CreatedAt.Equal(original.CreatedAt), "creation time is preserved")

	got, err := tracker.Get(ctx, 7)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, got.Amount, 0.001)

	_, err = tracker.Update(ctx, model.Expense{ID: 99, Description: "x", Amount: 1, Date: model.NewDate(fixedNow)})
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, tracker.Delete(ctx, 7))
	assert.Empty(t, db.MustExpenses())
	require.ErrorIs(t, tracker.Delete(ctx, 7), common.ErrNotFound)
}

func TestTracker_Search(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t,
		testutil.NewExpense("Morning latte", 5).At("Starbucks").In(model.CategoryFood).WithID(1).Build(),
		testutil.NewExpense("Ride home", 22).At("Uber").In(model.CategoryTransport).WithID(2).Build(),
		testutil.NewExpense("Starbucks beans", 14).In(model.CategoryShopping).WithID(3).Build(),
	)

	tests := []struct {
		name     string
		query    string
		category model.Category
		wantIDs  []int64
	}{
		{name: "empty query", wantIDs: []int64{1, 2, 3}},
		{name: "description or merchant", query: "STARBUCKS", wantIDs: []int64{1, 3}},
		{name: "restricted to category", query: "starbucks", category: model.CategoryFood, wantIDs: []int64{1}},
		{name: "no match", query: "netflix", wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tracker.Search(ctx, tt.query, tt.category)
			require.NoError(t, err)
			ids := make([]int64, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestTracker_Clear(t *testing.T) {
	tracker, db := newTestTracker(t, testutil.Series(4, 10, model.CategoryFood, fixedNow.AddDate(0, 0, -10))...)

	n, err := tracker.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Empty(t, db.MustExpenses())
}

func TestTracker_AnalyzeCacheInvalidatedOnMutation(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, testutil.NewExpense("Lunch", 10).On(fixedNow).WithID(1).Build())

	first, err := tracker.Analyze(ctx, analytics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalExpenses)

	again, err := tracker.Analyze(ctx, analytics.Filter{})
	require.NoError(t, err)
	assert.Same(t, first, again, "second call is served from the cache")

	_, err = tracker.Add(ctx, model.Expense{Description: "Dinner", Amount: 30})
	require.NoError(t, err)

	after, err := tracker.Analyze(ctx, analytics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalExpenses)
	assert.InDelta(t, 40.0, after.TotalAmount, 0.001)
}

func TestTracker_Retention(t *testing.T) {
	ctx := context.Background()
	old := testutil.NewExpense("Ancient", 5).On(fixedNow.AddDate(-2, 0, 0)).WithID(1).Build()
	recent := testutil.NewExpense("Recent", 5).On(fixedNow.AddDate(0, 0, -3)).WithID(2).Build()
	tracker, db := newTestTracker(t, recent, old)

	removed, err := tracker.Retention(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	stored := db.MustExpenses()
	require.Len(t, stored, 1)
	assert.Equal(t, "Recent", stored[0].Description)
}

func TestTracker_SaveSettings(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t)

	settings := model.DefaultSettings()
	settings.AIConfidenceThreshold = 150
	require.ErrorIs(t, tracker.SaveSettings(ctx, settings), model.ErrInvalidPercent)

	settings.AIConfidenceThreshold = 70
	settings.Currency = "EUR"
	require.NoError(t, tracker.SaveSettings(ctx, settings))

	got, err := tracker.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70, got.AIConfidenceThreshold)
	assert.Equal(t, "EUR", got.Currency)
}

func TestTracker_Suggest(t *testing.T) {
	ctx := context.Background()
	tuesdayMorning := time.Date(2024, 6, 11, 8, 0, 0, 0, time.UTC)

	t.Run("enabled", func(t *testing.T) {
		tracker, _ := newTestTracker(t)
		s, err := tracker.Suggest(ctx, "Starbucks coffee run", "", 5.75, tuesdayMorning)
		require.NoError(t, err)
		assert.Equal(t, model.CategoryFood, s.Category)
		assert.GreaterOrEqual(t, s.Confidence, 85)
	})

	t.Run("disabled", func(t *testing.T) {
		tracker, _ := newTestTracker(t)
		settings := model.DefaultSettings()
		settings.AutoCategorizationEnabled = false
		require.NoError(t, tracker.SaveSettings(ctx, settings))

		_, err := tracker.Suggest(ctx, "Starbucks coffee run", "", 5.75, tuesdayMorning)
		require.ErrorIs(t, err, common.ErrAISuggestionOff)
	})
}

func TestShouldAutoApply(t *testing.T) {
	settings := model.DefaultSettings()
	assert.True(t, ShouldAutoApply(model.Suggestion{Confidence: 85}, settings))
	assert.False(t, ShouldAutoApply(model.Suggestion{Confidence: 84}, settings))
}

func TestComputeStats(t *testing.T) {
	expenses := []model.Expense{
		testutil.NewExpense("Coffee", 10).At("Starbucks").In(model.CategoryFood).Suggested(90).Build(),
		testutil.NewExpense("Ride", 20).At("Uber").In(model.CategoryTransport).Suggested(80).Build(),
		testutil.NewExpense("Gift", 70).In(model.CategoryShopping).Build(),
		testutil.NewExpense("More coffee", 0).At("Starbucks").In(model.CategoryFood).Build(),
	}

	s := ComputeStats(expenses)
	assert.Equal(t, 4, s.TotalExpenses)
	assert.Equal(t, 2, s.AIProcessed)
	assert.InDelta(t, 85.0, s.AIAccuracy, 0.001)
	assert.Equal(t, 3, s.CategoriesLearned)
	assert.Equal(t, 2, s.MerchantsRecognized)
	assert.InDelta(t, 80.0, s.AIScore, 0.001)
	assert.InDelta(t, 12.0, s.SavingsIdentified, 0.001)

	empty := ComputeStats(nil)
	assert.InDelta(t, 60.0, empty.AIScore, 0.001)
	assert.Zero(t, empty.AIAccuracy)
}

func TestTracker_ExportBundle(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, testutil.NewExpense("Lunch", 10).Suggested(90).Build())

	bundle, err := tracker.ExportBundle(ctx)
	require.NoError(t, err)
	assert.Equal(t, BundleVersion, bundle.Version)
	assert.Len(t, bundle.Expenses, 1)
	assert.Equal(t, 1, bundle.AIStats.AIProcessed)
	assert.True(t, bundle.ExportDate.Equal(fixedNow))

	settings := model.DefaultSettings()
	settings.DataExportEnabled = false
	require.NoError(t, tracker.SaveSettings(ctx, settings))

	_, err = tracker.ExportBundle(ctx)
	require.ErrorIs(t, err, common.ErrExportForbidden)
}

func TestTracker_SeedSamples(t *testing.T) {
	ctx := context.Background()
	tracker, db := newTestTracker(t)

	seeded, err := tracker.SeedSamples(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	stored := db.MustExpenses()
	require.Len(t, stored, 3)
	assert.Equal(t, "Starbucks Coffee", stored[0].Description)
	assert.InDelta(t, 5.75, stored[0].Amount, 0.001)
	for _, e := range stored {
		assert.Equal(t, model.SourceSample, e.Source)
		assert.True(t, e.AISuggested)
	}

	seeded, err = tracker.SeedSamples(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "a non-empty store is left alone")
	assert.Len(t, db.MustExpenses(), 3)
}
