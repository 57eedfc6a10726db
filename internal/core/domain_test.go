package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("expected ok for zero, got %v", err)
	}
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestBudgetConfigValidate(t *testing.T) {
	good := BudgetConfig{Needs: Money{Cents: 10000}, Wants: Money{Cents: 5000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []BudgetConfig{
		{Needs: Money{Cents: -1}},
		{Wants: Money{Cents: -1}},
		{Savings: Money{Cents: -1}},
	}
	for i, b := range bads {
		if err := b.Validate(); err != ErrInvalidBudget {
			t.Fatalf("case %d expected ErrInvalidBudget, got %v", i, err)
		}
	}
}

func TestGoalsTotalAndProgress(t *testing.T) {
	goals := []Goal{
		{ID: "a", Current: Money{Cents: 2500}, Target: Money{Cents: 10000}},
		{ID: "b", Current: Money{Cents: 500}, Target: Money{}},
	}
	if got := TotalSaved(goals); got.Cents != 3000 {
		t.Fatalf("TotalSaved = %d, want 3000", got.Cents)
	}
	if got := goals[0].Progress(); got != 25 {
		t.Fatalf("Progress = %v, want 25", got)
	}
	if got := goals[1].Progress(); got != 0 {
		t.Fatalf("Progress with zero target = %v, want 0", got)
	}
}

func TestSnapshotHasData(t *testing.T) {
	if (Snapshot{}).HasData() {
		t.Fatalf("empty snapshot should have no data")
	}
	if !(Snapshot{Goals: []Goal{{ID: "g"}}}).HasData() {
		t.Fatalf("goals alone count as data")
	}
	if !(Snapshot{Transactions: []Transaction{{ID: "t", Date: time.Now()}}}).HasData() {
		t.Fatalf("transactions count as data")
	}
}
