// Package engine implements the expense tracker: persistence of the
// collection, category suggestions and cached analytics.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/spendsense/internal/analytics"
	"github.com/Veraticus/spendsense/internal/categorize"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/patrickmn/go-cache"
)

// Tracker owns the expense collection. Read-modify-write cycles are
// serialized within the process; other processes writing the same store
// still race last-writer-wins.
type Tracker struct {
	store   Store
	booster categorize.Booster
	cache   *cache.Cache
	now     func() time.Time
	lastID  int64
	mu      sync.Mutex
}

// Config holds tracker options.
type Config struct {
	Now      func() time.Time
	CacheTTL time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CacheTTL: 5 * time.Minute,
		Now:      time.Now,
	}
}

// New creates a tracker. A nil booster makes Suggest read memory from the store.
func New(store Store, booster categorize.Booster) *Tracker {
	return NewWithConfig(store, booster, DefaultConfig())
}

// NewWithConfig creates a tracker with custom configuration.
func NewWithConfig(store Store, booster categorize.Booster, config Config) *Tracker {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Tracker{
		store:   store,
		booster: booster,
		cache:   cache.New(config.CacheTTL, 2*config.CacheTTL),
		now:     config.Now,
	}
}

// Add validates e, assigns an id and creation time, and stores it first in
// the collection.
func (t *Tracker) Add(ctx context.Context, e model.Expense) (model.Expense, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to load expenses: %w", err)
	}

	e, err = t.prepare(e, takenIDs(expenses))
	if err != nil {
		return model.Expense{}, err
	}

	if err := t.save(ctx, append([]model.Expense{e}, expenses...)); err != nil {
		return model.Expense{}, err
	}

	slog.Info("Added expense", "id", e.ID, "category", e.Category, "amount", e.Amount)
	return e, nil
}

// AddMany stores a batch, skipping records identical in date, amount and
// description to one already stored. It returns how many were added.
func (t *Tracker) AddMany(ctx context.Context, batch []model.Expense) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load expenses: %w", err)
	}

	seen := make(map[string]bool, len(expenses))
	for i := range expenses {
		seen[dedupeKey(&expenses[i])] = true
	}
	taken := takenIDs(expenses)

	added := make([]model.Expense, 0, len(batch))
	for _, e := range batch {
		key := dedupeKey(&e)
		if seen[key] {
			slog.Debug("Skipping duplicate expense", "description", e.Description, "date", e.Date.String())
			continue
		}
		prepared, err := t.prepare(e, taken)
		if err != nil {
			return 0, fmt.Errorf("expense %q: %w", e.Description, err)
		}
		seen[key] = true
		added = append(added, prepared)
	}
	if len(added) == 0 {
		return 0, nil
	}

	analytics.SortNewestFirst(added)
	if err := t.save(ctx, append(added, expenses...)); err != nil {
		return 0, err
	}
	return len(added), nil
}

func dedupeKey(e *model.Expense) string {
	return fmt.Sprintf("%s|%.2f|%s", e.Date.String(), e.Amount, strings.ToLower(strings.TrimSpace(e.Description)))
}

// Update replaces the stored record with the same id. The id and creation
// time are preserved.
func (t *Tracker) Update(ctx context.Context, e model.Expense) (model.Expense, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to load expenses: %w", err)
	}

	idx := indexOf(expenses, e.ID)
	if idx < 0 {
		return model.Expense{}, fmt.Errorf("expense %d: %w", e.ID, common.ErrNotFound)
	}

	e.CreatedAt = expenses[idx].CreatedAt
	e.Category = model.NormalizeCategory(string(e.Category))
	if err := e.Validate(); err != nil {
		return model.Expense{}, err
	}

	expenses[idx] = e
	if err := t.save(ctx, expenses); err != nil {
		return model.Expense{}, err
	}
	return e, nil
}

// Delete removes the record with id.
func (t *Tracker) Delete(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	idx := indexOf(expenses, id)
	if idx < 0 {
		return fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}

	return t.save(ctx, append(expenses[:idx], expenses[idx+1:]...))
}

// Get returns the record with id.
func (t *Tracker) Get(ctx context.Context, id int64) (model.Expense, error) {
	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to load expenses: %w", err)
	}
	idx := indexOf(expenses, id)
	if idx < 0 {
		return model.Expense{}, fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}
	return expenses[idx], nil
}

// List returns the records that pass filter in stored order.
func (t *Tracker) List(ctx context.Context, filter analytics.Filter) ([]model.Expense, error) {
	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return filter.Apply(expenses), nil
}

// Search matches query case-insensitively against description and merchant,
// optionally restricted to a category. An empty query matches everything.
func (t *Tracker) Search(ctx context.Context, query string, category model.Category) ([]model.Expense, error) {
	expenses, err := t.List(ctx, analytics.Filter{Category: category})
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return expenses, nil
	}

	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if strings.Contains(strings.ToLower(e.Description), q) || strings.Contains(strings.ToLower(e.Merchant), q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Clear deletes every record and returns how many there were.
func (t *Tracker) Clear(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load expenses: %w", err)
	}
	if err := t.save(ctx, []model.Expense{}); err != nil {
		return 0, err
	}
	slog.Info("Cleared all expenses", "count", len(expenses))
	return len(expenses), nil
}

// Settings returns the stored settings.
func (t *Tracker) Settings(ctx context.Context) (model.Settings, error) {
	return t.store.LoadSettings(ctx)
}

// SaveSettings validates and stores settings.
func (t *Tracker) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := t.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	t.cache.Flush()
	return nil
}

// Analyze returns a snapshot of the filtered collection. Snapshots are cached
// per filter until the TTL passes or the collection or settings change.
func (t *Tracker) Analyze(ctx context.Context, filter analytics.Filter) (*analytics.Snapshot, error) {
	key := filterKey(filter)
	if cached, ok := t.cache.Get(key); ok {
		if snap, ok := cached.(*analytics.Snapshot); ok {
			return snap, nil
		}
	}

	expenses, settings, err := t.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	snap := analytics.Analyze(expenses, filter, analytics.Options{Now: t.now(), Settings: &settings})
	t.cache.Set(key, snap, cache.DefaultExpiration)
	return snap, nil
}

// Report builds a period report of the filtered collection.
func (t *Tracker) Report(ctx context.Context, filter analytics.Filter) (*analytics.Report, error) {
	expenses, settings, err := t.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.BuildReport(expenses, filter, analytics.Options{Now: t.now(), Settings: &settings}), nil
}

// Retention deletes records dated more than dataRetention days ago and
// returns how many were removed.
func (t *Tracker) Retention(ctx context.Context) (int, error) {
	settings, err := t.store.LoadSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load settings: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load expenses: %w", err)
	}

	cutoff := model.NewDate(t.now().AddDate(0, 0, -settings.DataRetention))
	kept := expenses[:0:0]
	for _, e := range expenses {
		if !e.Date.Before(cutoff.Time) {
			kept = append(kept, e)
		}
	}

	removed := len(expenses) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := t.save(ctx, kept); err != nil {
		return 0, err
	}
	slog.Info("Pruned expenses past retention", "removed", removed, "retention_days", settings.DataRetention)
	return removed, nil
}

func (t *Tracker) loadAll(ctx context.Context) ([]model.Expense, model.Settings, error) {
	expenses, err := t.store.LoadExpenses(ctx)
	if err != nil {
		return nil, model.Settings{}, fmt.Errorf("failed to load expenses: %w", err)
	}
	settings, err := t.store.LoadSettings(ctx)
	if err != nil {
		return nil, model.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return expenses, settings, nil
}

// prepare fills defaults, assigns a fresh id and validates e.
func (t *Tracker) prepare(e model.Expense, taken map[int64]bool) (model.Expense, error) {
	now := t.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.Date.IsZero() {
		e.Date = model.NewDate(now)
	}
	if e.Source == "" {
		e.Source = model.SourceManual
	}
	e.Description = strings.TrimSpace(e.Description)
	e.Merchant = strings.TrimSpace(e.Merchant)
	e.Category = model.NormalizeCategory(string(e.Category))

	if err := e.Validate(); err != nil {
		return model.Expense{}, err
	}

	e.ID = t.nextID(taken)
	taken[e.ID] = true
	return e, nil
}

// nextID returns a millisecond timestamp id, bumped past any id already
// handed out or stored.
func (t *Tracker) nextID(taken map[int64]bool) int64 {
	id := t.now().UnixMilli()
	if id <= t.lastID {
		id = t.lastID + 1
	}
	for taken[id] {
		id++
	}
	t.lastID = id
	return id
}

func (t *Tracker) save(ctx context.Context, expenses []model.Expense) error {
	if err := t.store.SaveExpenses(ctx, expenses); err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}
	t.cache.Flush()
	return nil
}

func takenIDs(expenses []model.Expense) map[int64]bool {
	taken := make(map[int64]bool, len(expenses))
	for i := range expenses {
		taken[expenses[i].ID] = true
	}
	return taken
}

func indexOf(expenses []model.Expense, id int64) int {
	for i := range expenses {
		if expenses[i].ID == id {
			return i
		}
	}
	return -1
}

func filterKey(f analytics.Filter) string {
	var start, end string
	if f.Start != nil {
		start = f.Start.Format(analytics.DailyLayout)
	}
	if f.End != nil {
		end = f.End.Format(analytics.DailyLayout)
	}
	return fmt.Sprintf("snapshot|%s|%s|%s", start, end, f.Category)
}
