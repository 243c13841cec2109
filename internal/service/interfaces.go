// Package service defines the interfaces shared between the engine and its collaborators.
package service

import (
	"context"

	"github.com/Veraticus/spendsense/internal/model"
)

// KeyValueStore is the raw keyed local store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ExpenseStore persists the whole expense collection, newest first.
// Every mutation is a load-modify-save of the full collection.
type ExpenseStore interface {
	LoadExpenses(ctx context.Context) ([]model.Expense, error)
	SaveExpenses(ctx context.Context, expenses []model.Expense) error
}

// SettingsStore persists user settings.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
}

// MemoryStore persists the learning counters.
type MemoryStore interface {
	LoadMemory(ctx context.Context) (model.Memory, error)
	SaveMemory(ctx context.Context, memory model.Memory) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	KeyValueStore
	ExpenseStore
	SettingsStore
	MemoryStore

	Migrate(ctx context.Context) error
	Close() error
}
