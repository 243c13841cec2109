package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/model"
)

// BundleVersion tags exported bundles.
const BundleVersion = "4.0"

// Stats summarizes how much of the collection was categorized automatically.
type Stats struct {
	TotalExpenses       int     `json:"totalExpenses"`
	AIProcessed         int     `json:"aiProcessed"`
	CategoriesLearned   int     `json:"categoriesLearned"`
	MerchantsRecognized int     `json:"merchantsRecognized"`
	AIAccuracy          float64 `json:"aiAccuracy"`
	AIScore             float64 `json:"aiScore"`
	SavingsIdentified   float64 `json:"savingsIdentified"`
	TotalAmount         float64 `json:"totalAmount"`
}

// Bundle is the full-data export document.
type Bundle struct {
	ExportDate time.Time       `json:"exportDate"`
	Version    string          `json:"version"`
	Expenses   []model.Expense `json:"expenses"`
	Settings   model.Settings  `json:"settings"`
	AIStats    Stats           `json:"aiStats"`
}

// ComputeStats derives Stats from a collection.
func ComputeStats(expenses []model.Expense) Stats {
	s := Stats{TotalExpenses: len(expenses)}

	categories := make(map[model.Category]bool)
	merchants := make(map[string]bool)
	confidence := 0
	for i := range expenses {
		e := &expenses[i]
		s.TotalAmount += e.Amount
		if e.Category != "" {
			categories[model.NormalizeCategory(string(e.Category))] = true
		}
		if e.Merchant != "" {
			merchants[e.Merchant] = true
		}
		if e.AIAssisted() {
			s.AIProcessed++
			confidence += e.Confidence
		}
	}

	s.CategoriesLearned = len(categories)
	s.MerchantsRecognized = len(merchants)
	if s.AIProcessed > 0 {
		s.AIAccuracy = float64(confidence) / float64(s.AIProcessed)
	}
	s.AIScore = min(100, 60+float64(s.AIProcessed)/float64(max(len(expenses), 1))*40)
	s.SavingsIdentified = s.TotalAmount * 0.12
	return s
}

// Stats computes statistics over the stored collection.
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load expenses: %w", err)
	}
	return ComputeStats(expenses), nil
}

// ExportBundle assembles every expense with settings and stats. It fails
// with common.ErrExportForbidden when exports are disabled.
func (t *Tracker) ExportBundle(ctx context.Context) (*Bundle, error) {
	expenses, settings, err := t.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.DataExportEnabled {
		return nil, common.ErrExportForbidden
	}
	return &Bundle{
		ExportDate: t.now(),
		Version:    BundleVersion,
		Expenses:   expenses,
		Settings:   settings,
		AIStats:    ComputeStats(expenses),
	}, nil
}

// SeedSamples stores three example expenses when the collection is empty.
// It reports whether anything was written.
func (t *Tracker) SeedSamples(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load expenses: %w", err)
	}
	if len(expenses) > 0 {
		return false, nil
	}

	samples := sampleExpenses(t.now())
	taken := make(map[int64]bool, len(samples))
	for i := range samples {
		samples[i].ID = t.nextID(taken)
		taken[samples[i].ID] = true
	}
	if err := t.save(ctx, samples); err != nil {
		return false, err
	}
	slog.Info("Seeded sample expenses", "count", len(samples))
	return true, nil
}

func sampleExpenses(now time.Time) []model.Expense {
	today := model.NewDate(now)
	yesterday := model.NewDate(now.AddDate(0, 0, -1))
	sample := func(desc string, amount float64, c model.Category, d model.Date, merchant string, confidence int, notes string) model.Expense {
		return model.Expense{
			CreatedAt:   now,
			Date:        d,
			Description: desc,
			Amount:      amount,
			Category:    c,
			Merchant:    merchant,
			Confidence:  confidence,
			AISuggested: true,
			Notes:       notes,
			Source:      model.SourceSample,
		}
	}
	return []model.Expense{
		sample("Starbucks Coffee", 5.75, model.CategoryFood, today, "Starbucks", 95, "Morning coffee"),
		sample("Uber Ride", 18.50, model.CategoryTransport, yesterday, "Uber", 92, "To airport"),
		sample("Grocery Shopping", 67.89, model.CategoryFood, yesterday, "Safeway", 88, "Weekly groceries"),
	}
}
