package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/model"
)

// LoadExpenses returns the stored collection, newest first. A missing or
// corrupt value is treated as an empty collection and logged.
func (s *SQLiteStorage) LoadExpenses(ctx context.Context) ([]model.Expense, error) {
	raw, err := s.Get(ctx, KeyExpenses)
	if errors.Is(err, common.ErrNotFound) {
		return []model.Expense{}, nil
	}
	if err != nil {
		return nil, err
	}

	expenses, err := DecodeExpenses(raw)
	if err != nil {
		common.LogWarn("Stored expenses are unreadable, treating as empty", common.Fields{
			"key":   KeyExpenses,
			"error": err.Error(),
		})
		return []model.Expense{}, nil
	}
	return expenses, nil
}

// SaveExpenses rewrites the whole collection.
func (s *SQLiteStorage) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if expenses == nil {
		expenses = []model.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	return s.Put(ctx, KeyExpenses, raw)
}

// DecodeExpenses parses a JSON expense array and normalizes categories.
func DecodeExpenses(raw []byte) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := json.Unmarshal(raw, &expenses); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreCorrupted, err)
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	for i := range expenses {
		expenses[i].Category = model.NormalizeCategory(string(expenses[i].Category))
	}
	return expenses, nil
}

// LoadSettings overlays stored settings on the defaults. A missing or
// corrupt value yields the defaults.
func (s *SQLiteStorage) LoadSettings(ctx context.Context) (model.Settings, error) {
	raw, err := s.Get(ctx, KeySettings)
	if errors.Is(err, common.ErrNotFound) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.DefaultSettings(), err
	}

	settings, err := model.DecodeOverDefaults(func(dst *model.Settings) error {
		return json.Unmarshal(raw, dst)
	})
	if err != nil {
		common.LogWarn("Stored settings are unreadable, using defaults", common.Fields{
			"key":   KeySettings,
			"error": err.Error(),
		})
		return model.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings stores the full settings object.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.Put(ctx, KeySettings, raw)
}

// LoadMemory returns the learning counters, or empty memory when missing
// or corrupt.
func (s *SQLiteStorage) LoadMemory(ctx context.Context) (model.Memory, error) {
	raw, err := s.Get(ctx, KeyMemory)
	if errors.Is(err, common.ErrNotFound) {
		return model.NewMemory(), nil
	}
	if err != nil {
		return model.NewMemory(), err
	}

	memory := model.NewMemory()
	if err := json.Unmarshal(raw, &memory); err != nil {
		common.LogWarn("Stored AI memory is unreadable, starting fresh", common.Fields{
			"key":   KeyMemory,
			"error": err.Error(),
		})
		return model.NewMemory(), nil
	}
	if memory.MerchantLearning == nil {
		memory.MerchantLearning = make(map[string]int)
	}
	if memory.CategoryAccuracy == nil {
		memory.CategoryAccuracy = make(map[model.Category]float64)
	}
	return memory, nil
}

// SaveMemory stores the learning counters.
func (s *SQLiteStorage) SaveMemory(ctx context.Context, memory model.Memory) error {
	raw, err := json.Marshal(memory)
	if err != nil {
		return fmt.Errorf("failed to encode memory: %w", err)
	}
	return s.Put(ctx, KeyMemory, raw)
}
