package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"finmate/internal/core"
	"finmate/internal/store"
)

var defaults = core.BudgetConfig{
	Needs:   core.Money{Cents: 50000},
	Wants:   core.Money{Cents: 20000},
	Savings: core.Money{Cents: 30000},
}

func TestMemoryStoreSeedAndReset(t *testing.T) {
	ctx := context.Background()
	s := New(defaults)

	has, err := s.HasData(ctx)
	if err != nil || has {
		t.Fatalf("new store: has=%v err=%v", has, err)
	}

	demo := store.DemoDataset(time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC))
	demo.Budgets = core.BudgetConfig{Needs: core.Money{Cents: 100}}
	if err := s.Seed(ctx, demo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.SavePreferences(ctx, core.Preferences{NeedsAlertDismissed: "2025-W2", DarkMode: true}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	txs, _ := s.ListTransactions(ctx)
	goals, _ := s.ListGoals(ctx)
	budgets, _ := s.GetBudgets(ctx)
	if len(txs) != len(demo.Transactions) || len(goals) != len(demo.Goals) {
		t.Fatalf("unexpected seeded sizes: txs=%d goals=%d", len(txs), len(goals))
	}
	if txs[0].ID != demo.Transactions[0].ID {
		t.Fatalf("insertion order lost: %s != %s", txs[0].ID, demo.Transactions[0].ID)
	}
	if budgets != demo.Budgets {
		t.Fatalf("budgets = %+v, want %+v", budgets, demo.Budgets)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	has, _ = s.HasData(ctx)
	budgets, _ = s.GetBudgets(ctx)
	prefs, _ := s.GetPreferences(ctx)
	if has {
		t.Fatal("expected no data after reset")
	}
	if budgets != defaults {
		t.Fatalf("budgets after reset = %+v, want defaults", budgets)
	}
	if prefs != (core.Preferences{}) {
		t.Fatalf("preferences after reset = %+v", prefs)
	}
}

func TestMemoryStoreSeedKeepsBudgetsWhenUnset(t *testing.T) {
	ctx := context.Background()
	s := New(defaults)
	if err := s.Seed(ctx, store.Dataset{Goals: []core.Goal{{ID: "g"}}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	budgets, _ := s.GetBudgets(ctx)
	if budgets != defaults {
		t.Fatalf("seed without budgets changed them: %+v", budgets)
	}
	if has, _ := s.HasData(ctx); !has {
		t.Fatal("goals alone count as data")
	}
}

func TestMemoryStoreRejectsNegativeBudgets(t *testing.T) {
	s := New(defaults)
	err := s.SetBudgets(context.Background(), core.BudgetConfig{Needs: core.Money{Cents: -1}})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestMemoryStoreListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New(defaults)
	_ = s.Seed(ctx, store.Dataset{Transactions: []core.Transaction{{ID: "a", Amount: core.Money{Cents: 1}}}})

	txs, _ := s.ListTransactions(ctx)
	txs[0].Amount = core.Money{Cents: 999}

	again, _ := s.ListTransactions(ctx)
	if again[0].Amount.Cents != 1 {
		t.Fatalf("store state mutated through returned slice")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New(defaults)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SavePreferences(ctx, core.Preferences{DarkMode: true})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.GetPreferences(ctx)
			_, _ = s.ListTransactions(ctx)
		}()
	}
	wg.Wait()
}
