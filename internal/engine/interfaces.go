package engine

import "github.com/Veraticus/spendsense/internal/service"

// Store is the persistence the tracker needs.
type Store interface {
	service.ExpenseStore
	service.SettingsStore
	service.MemoryStore
}
