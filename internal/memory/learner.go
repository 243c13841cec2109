// Package memory maintains the per-merchant learning counters that boost
// categorizer confidence.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/Veraticus/spendsense/internal/service"
)

// DefaultInterval is how often Run refreshes the counters.
const DefaultInterval = 30 * time.Second

// Store is what the learner reads and writes.
type Store interface {
	service.ExpenseStore
	service.SettingsStore
	service.MemoryStore
}

// Learner derives model.Memory from AI-suggested expenses. It is safe for
// concurrent use.
type Learner struct {
	store  Store
	now    func() time.Time
	memory model.Memory
	mu     sync.RWMutex
}

// NewLearner creates a learner seeded with initial.
func NewLearner(store Store, initial model.Memory) *Learner {
	return &Learner{store: store, memory: initial.Clone(), now: time.Now}
}

// Learn computes counters from records without touching any learner state.
// A merchant seen n > 1 times on AI-suggested expenses earns min(5, n-1).
func Learn(records []model.Expense, now time.Time) model.Memory {
	m := model.NewMemory()
	m.LastAnalysis = now

	merchants := make(map[string]int)
	sums := make(map[model.Category]float64)
	counts := make(map[model.Category]int)
	for i := range records {
		e := &records[i]
		if !e.AISuggested {
			continue
		}
		if key := e.MerchantKey(); key != "" {
			merchants[key]++
		}
		c := model.NormalizeCategory(string(e.Category))
		sums[c] += float64(e.Confidence)
		counts[c]++
	}

	for key, n := range merchants {
		if n > 1 {
			m.MerchantLearning[key] = min(model.MaxMerchantBoost, n-1)
		}
	}
	for c, n := range counts {
		m.CategoryAccuracy[c] = sums[c] / float64(n)
	}
	return m
}

// Update recomputes memory from records. An empty collection leaves the
// counters untouched, matching a first run with nothing to learn from.
func (l *Learner) Update(records []model.Expense, now time.Time) model.Memory {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(records) == 0 {
		return l.memory.Clone()
	}
	l.memory = Learn(records, now)
	return l.memory.Clone()
}

// Snapshot returns a copy of the current memory.
func (l *Learner) Snapshot() model.Memory {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.memory.Clone()
}

// Boost implements categorize.Booster.
func (l *Learner) Boost(merchantKey string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.memory.Boost(merchantKey)
}

// RefreshOnce loads expenses, updates memory and saves it. It does nothing
// when learning is disabled in settings.
func (l *Learner) RefreshOnce(ctx context.Context) error {
	settings, err := l.store.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.AILearningEnabled {
		common.LogDebug("AI learning disabled, skipping refresh", nil)
		return nil
	}

	records, err := l.store.LoadExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	mem := l.Update(records, l.now())
	if err := l.store.SaveMemory(ctx, mem); err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}

	common.LogDebug("AI memory refreshed", common.Fields{
		"merchants":  len(mem.MerchantLearning),
		"categories": len(mem.CategoryAccuracy),
	})
	return nil
}

// Run refreshes immediately and then on every tick until ctx is done.
// Refresh failures are logged and retried on the next tick.
func (l *Learner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := l.RefreshOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			common.LogError(err, "AI memory refresh failed", common.Fields{"interval": interval.String()})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
