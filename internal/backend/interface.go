package backend

import (
	"context"

	"finmate/internal/amqp"
	"finmate/internal/core"
	"finmate/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Check reports whether a backend dependency is reachable.
type Check func(ctx context.Context) error

// BackendResult holds everything the service needs from the backends.
type BackendResult struct {
	State     store.State
	// Prefs is nil when preferences live in State.
	Prefs     store.PreferenceStore
	// Publisher is nil when AMQP is disabled or unreachable at startup.
	Publisher *amqp.Client
	Checks    map[string]Check
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type           BackendType
	DefaultBudgets core.BudgetConfig

	// SQLite specific
	SQLiteDBPath string

	// Preferences in redis, empty to keep them in State
	RedisAddr string

	// Alert publishing, empty URL disables it
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
