package memory

import (
	"context"
	"slices"
	"sync"

	"finmate/internal/core"
	"finmate/internal/store"
)

// Store is an in-process state container. All data is lost on restart.
type Store struct {
	mu       sync.RWMutex
	defaults core.BudgetConfig
	budgets  core.BudgetConfig
	txs      []core.Transaction
	goals    []core.Goal
	prefs    core.Preferences
}

var _ store.State = (*Store)(nil)

// New returns an empty store using defaults as the initial budget.
func New(defaults core.BudgetConfig) *Store {
	return &Store{defaults: defaults, budgets: defaults}
}

// ListTransactions implements store.TransactionReader
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.txs), nil
}

// ListGoals implements store.GoalReader
func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.goals), nil
}

// GetBudgets implements store.BudgetStore
func (s *Store) GetBudgets(_ context.Context) (core.BudgetConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budgets, nil
}

// SetBudgets implements store.BudgetStore
func (s *Store) SetBudgets(_ context.Context, cfg core.BudgetConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = cfg
	return nil
}

// GetPreferences implements store.PreferenceStore
func (s *Store) GetPreferences(_ context.Context) (core.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs, nil
}

// SavePreferences implements store.PreferenceStore
func (s *Store) SavePreferences(_ context.Context, p core.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
	return nil
}

// Seed implements store.DataManager
func (s *Store) Seed(_ context.Context, d store.Dataset) error {
	if d.Budgets != (core.BudgetConfig{}) {
		if err := d.Budgets.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = slices.Clone(d.Transactions)
	s.goals = slices.Clone(d.Goals)
	if d.Budgets != (core.BudgetConfig{}) {
		s.budgets = d.Budgets
	}
	return nil
}

// Reset implements store.DataManager
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = nil
	s.goals = nil
	s.budgets = s.defaults
	s.prefs = core.Preferences{}
	return nil
}

// HasData implements store.DataManager
func (s *Store) HasData(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs) > 0 || len(s.goals) > 0, nil
}
