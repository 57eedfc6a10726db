package core

import (
	"errors"
	"time"
)

type (
	// Money is an amount in US cents. Positive values are spend.
	Money struct {
		Cents int64
	}

	// Transaction is a recorded spend. It is never mutated once recorded.
	Transaction struct {
		ID       string
		Merchant string
		Amount   Money
		Date     time.Time
	}

	// BudgetConfig holds the weekly targets for the 50/30/20 buckets.
	BudgetConfig struct {
		Needs   Money
		Wants   Money
		Savings Money
	}

	// Goal tracks savings progress. It does not feed into the budgeting math.
	Goal struct {
		ID      string
		Name    string
		Current Money
		Target  Money
	}

	// Preferences is UI state owned by the state container. The engine only
	// reads it.
	Preferences struct {
		NeedsAlertDismissed WeekKey
		DarkMode            bool
		LargeText           bool
	}

	// Snapshot is the immutable input of a single engine run.
	Snapshot struct {
		Transactions []Transaction
		Goals        []Goal
		Budgets      BudgetConfig
		Preferences  Preferences
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidBudget = errors.New("invalid budget")
)

// Add returns m+o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m-o. The result may be negative.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Validate rejects negative amounts. Zero is allowed for budgets and goals.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b BudgetConfig) Validate() error {
	for _, m := range []Money{b.Needs, b.Wants, b.Savings} {
		if err := m.Validate(); err != nil {
			return ErrInvalidBudget
		}
	}
	return nil
}

// Progress returns how full the goal is, in [0,100].
func (g Goal) Progress() float64 {
	return PercentFull(g.Current, g.Target)
}

// TotalSaved sums the current amount of every goal.
func TotalSaved(goals []Goal) Money {
	var total Money
	for _, g := range goals {
		total = total.Add(g.Current)
	}
	return total
}

// HasData reports whether there is anything to show on the dashboard.
func (s Snapshot) HasData() bool {
	return len(s.Transactions) > 0 || len(s.Goals) > 0
}
