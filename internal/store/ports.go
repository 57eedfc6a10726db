// Package store defines the state container ports. The engine never touches
// storage; the service layer reads a snapshot through these interfaces.
package store

import (
	"context"
	"errors"

	"finmate/internal/core"
)

// ErrNotFound is returned when a single-row record has not been written yet.
var ErrNotFound = errors.New("not found")

// Ports for state container adapters.
type (
	TransactionReader interface {
		// ListTransactions returns every recorded transaction in insertion order.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	GoalReader interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
	}

	BudgetStore interface {
		GetBudgets(ctx context.Context) (core.BudgetConfig, error)
		SetBudgets(ctx context.Context, cfg core.BudgetConfig) error
	}

	// PreferenceStore holds the alert dismissal token and display flags.
	PreferenceStore interface {
		GetPreferences(ctx context.Context) (core.Preferences, error)
		SavePreferences(ctx context.Context, p core.Preferences) error
	}

	// DataManager covers the whole-state operations behind the demo and
	// reset actions.
	DataManager interface {
		// Seed replaces transactions and goals with d. Budgets are replaced
		// only when d carries a non-zero configuration.
		Seed(ctx context.Context, d Dataset) error
		// Reset drops all data and restores the default budgets and empty
		// preferences.
		Reset(ctx context.Context) error
		HasData(ctx context.Context) (bool, error)
	}

	// State is a complete state container.
	State interface {
		TransactionReader
		GoalReader
		BudgetStore
		PreferenceStore
		DataManager
	}
)

// Dataset is a bulk load of state.
type Dataset struct {
	Transactions []core.Transaction
	Goals        []core.Goal
	Budgets      core.BudgetConfig
}
