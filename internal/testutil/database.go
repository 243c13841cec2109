// Package testutil provides test helpers shared across packages: an
// in-memory store and expense builders.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/storage"
)

// TestDB wraps an in-memory store with test helpers.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory store seeded with expenses.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewExpense("Starbucks coffee", 5.75).Build(),
//	)
func SetupTestDB(t *testing.T, expenses ...model.Expense) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(expenses) > 0 {
		if err := store.SaveExpenses(ctx, expenses); err != nil {
			t.Fatalf("failed to seed expenses: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustExpenses loads the stored collection or fails the test.
func (db *TestDB) MustExpenses() []model.Expense {
	db.t.Helper()
	expenses, err := db.Storage.LoadExpenses(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load expenses: %v", err)
	}
	return expenses
}

// ExpenseBuilder builds expenses for tests.
type ExpenseBuilder struct {
	e model.Expense
}

// NewExpense starts a manual expense dated 2024-06-12 (a Wednesday) at noon.
func NewExpense(description string, amount float64) *ExpenseBuilder {
	at := time.Date(2024, 6, 12, 12, 0, 0, 0, time.Local)
	return &ExpenseBuilder{e: model.Expense{
		ID:          at.UnixMilli(),
		Description: description,
		Amount:      amount,
		Category:    model.CategoryOther,
		Date:        model.NewDate(at),
		CreatedAt:   at,
		Source:      model.SourceManual,
	}}
}

// On sets both the date and the creation time.
func (b *ExpenseBuilder) On(at time.Time) *ExpenseBuilder {
	b.e.Date = model.NewDate(at)
	b.e.CreatedAt = at
	return b
}

// In sets the category.
func (b *ExpenseBuilder) In(c model.Category) *ExpenseBuilder {
	b.e.Category = c
	return b
}

// At sets the merchant.
func (b *ExpenseBuilder) At(merchant string) *ExpenseBuilder {
	b.e.Merchant = merchant
	return b
}

// Suggested marks the expense AI-suggested with the given confidence.
func (b *ExpenseBuilder) Suggested(confidence int) *ExpenseBuilder {
	b.e.AISuggested = true
	b.e.Confidence = confidence
	return b
}

// WithID overrides the id.
func (b *ExpenseBuilder) WithID(id int64) *ExpenseBuilder {
	b.e.ID = id
	return b
}

// Build returns the expense.
func (b *ExpenseBuilder) Build() model.Expense {
	return b.e
}

// Series returns n expenses of the given amount on consecutive days
// starting at start, newest first, with distinct ids.
func Series(n int, amount float64, category model.Category, start time.Time) []model.Expense {
	out := make([]model.Expense, 0, n)
	for i := n - 1; i >= 0; i-- {
		at := start.AddDate(0, 0, i)
		out = append(out, NewExpense(fmt.Sprintf("%s #%d", category, i+1), amount).
			On(at).
			In(category).
			WithID(at.UnixMilli()).
			Build())
	}
	return out
}
