package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendsense/internal/format"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDated(at time.Time) model.Expense {
	return testutil.NewExpense("dated", 1).On(at).Build()
}

func TestBuildReport(t *testing.T) {
	records := []model.Expense{
		testutil.NewExpense("Older", 20).On(day(2024, 6, 1, 9)).WithID(1).Build(),
		testutil.NewExpense("Newest", 30).On(day(2024, 6, 9, 9)).WithID(3).Build(),
		testutil.NewExpense("Same day lower id", 10).On(day(2024, 6, 9, 9)).WithID(2).Build(),
	}

	r := BuildReport(records, Filter{}, Options{Now: day(2024, 6, 15, 12)})

	require.Len(t, r.Transactions, 3)
	assert.Equal(t, "Newest", r.Transactions[0].Description)
	assert.Equal(t, "Same day lower id", r.Transactions[1].Description)
	assert.Equal(t, "Older", r.Transactions[2].Description)
	assert.Equal(t, "2024-06-01 to 2024-06-09", r.Period)
	assert.Equal(t, 3, r.Summary.TotalExpenses)
	assert.InDelta(t, 60.0, r.Summary.TotalAmount, 0.001)
}

func TestBuildReport_PeriodLabel(t *testing.T) {
	start := day(2024, 6, 1, 0)

	assert.Equal(t, "all time", BuildReport(nil, Filter{}, Options{}).Period)
	assert.Equal(t, "2024-06-01 to today", BuildReport(nil, Filter{Start: &start}, Options{}).Period)
}

func TestCLIFormatter(t *testing.T) {
	f := NewCLIFormatter(format.Default())

	t.Run("empty snapshot", func(t *testing.T) {
		out := f.FormatSnapshot(Analyze(nil, Filter{}, Options{}))
		assert.Contains(t, out, "No expenses")
	})

	t.Run("snapshot", func(t *testing.T) {
		records := []model.Expense{
			testutil.NewExpense("Groceries", 1234.5).In(model.CategoryFood).Build(),
			testutil.NewExpense("Bus", 20).In(model.CategoryTransport).Build(),
		}
		settings := model.DefaultSettings()
		out := f.FormatSnapshot(Analyze(records, Filter{}, Options{Now: day(2024, 6, 15, 12), Settings: &settings}))

		assert.Contains(t, out, "Food & Dining")
		assert.Contains(t, out, "$1,234.50")
		assert.Contains(t, out, "Insights")
		assert.Contains(t, out, "Recommendations")
	})

	t.Run("report truncates transactions", func(t *testing.T) {
		records := testutil.Series(25, 5, model.CategoryFood, day(2024, 5, 1, 9))
		out := f.FormatReport(BuildReport(records, Filter{}, Options{Now: day(2024, 6, 15, 12)}))

		assert.Contains(t, out, "Expense Report")
		assert.Contains(t, out, "... and 5 more")
		assert.Equal(t, 1, strings.Count(out, "Period: 2024-05-01 to 2024-05-25"))
	})
}
