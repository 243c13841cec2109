package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestedAt(merchant string, category model.Category, confidence int) model.Expense {
	return testutil.NewExpense("purchase", 10).At(merchant).In(category).Suggested(confidence).Build()
}

func TestLearn(t *testing.T) {
	now := time.Date(2024, 6, 12, 12, 0, 0, 0, time.Local)
	records := []model.Expense{
		suggestedAt("Starbucks", model.CategoryFood, 90),
		suggestedAt("starbucks ", model.CategoryFood, 80),
		suggestedAt("STARBUCKS", model.CategoryFood, 94),
		suggestedAt("Uber", model.CategoryTransport, 88),
		testutil.NewExpense("manual", 5).At("Uber").Build(),
	}
	for i := 0; i < 8; i++ {
		records = append(records, suggestedAt("Shell", model.CategoryTransport, 92))
	}

	m := Learn(records, now)

	assert.Equal(t, now, m.LastAnalysis)
	assert.Equal(t, 2, m.MerchantLearning["starbucks"])
	assert.Equal(t, model.MaxMerchantBoost, m.MerchantLearning["shell"])
	_, hasUber := m.MerchantLearning["uber"]
	assert.False(t, hasUber, "single AI-suggested record earns no boost")
	assert.InDelta(t, 88.0, m.CategoryAccuracy[model.CategoryFood], 0.001)
	assert.InDelta(t, (88.0+8*92)/9, m.CategoryAccuracy[model.CategoryTransport], 0.001)
}

func TestLearner_UpdateEmptyKeepsMemory(t *testing.T) {
	initial := model.NewMemory()
	initial.MerchantLearning["starbucks"] = 3

	l := NewLearner(nil, initial)
	got := l.Update(nil, time.Now())

	assert.Equal(t, 3, got.MerchantLearning["starbucks"])
	assert.Equal(t, 3, l.Boost("starbucks"))
}

func TestLearner_SnapshotIsCopy(t *testing.T) {
	l := NewLearner(nil, model.Memory{})
	l.Update([]model.Expense{
		suggestedAt("Shell", model.CategoryTransport, 90),
		suggestedAt("Shell", model.CategoryTransport, 90),
	}, time.Now())

	snap := l.Snapshot()
	snap.MerchantLearning["shell"] = 99

	assert.Equal(t, 1, l.Boost("shell"))
}

func TestLearner_RefreshOnce(t *testing.T) {
	db := testutil.SetupTestDB(t,
		suggestedAt("Netflix", model.CategoryEntertainment, 99),
		suggestedAt("Netflix", model.CategoryEntertainment, 97),
	)
	ctx := context.Background()

	l := NewLearner(db.Storage, model.NewMemory())
	fixed := time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	require.NoError(t, l.RefreshOnce(ctx))

	stored, err := db.Storage.LoadMemory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MerchantLearning["netflix"])
	assert.InDelta(t, 98.0, stored.CategoryAccuracy[model.CategoryEntertainment], 0.001)
	assert.True(t, fixed.Equal(stored.LastAnalysis))
}

func TestLearner_RefreshDisabled(t *testing.T) {
	db := testutil.SetupTestDB(t,
		suggestedAt("Netflix", model.CategoryEntertainment, 99),
		suggestedAt("Netflix", model.CategoryEntertainment, 97),
	)
	ctx := context.Background()

	settings := model.DefaultSettings()
	settings.AILearningEnabled = false
	require.NoError(t, db.Storage.SaveSettings(ctx, settings))

	l := NewLearner(db.Storage, model.NewMemory())
	require.NoError(t, l.RefreshOnce(ctx))
	assert.Equal(t, 0, l.Boost("netflix"))
}

func TestLearner_RunStopsOnCancel(t *testing.T) {
	db := testutil.SetupTestDB(t,
		suggestedAt("Shell", model.CategoryTransport, 90),
		suggestedAt("Shell", model.CategoryTransport, 90),
	)
	l := NewLearner(db.Storage, model.NewMemory())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, 10*time.Millisecond) }()

	require.Eventually(t, func() bool { return l.Boost("shell") == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
