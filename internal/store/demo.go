package store

import (
	"time"

	"github.com/google/uuid"

	"finmate/internal/core"
)

type demoSpend struct {
	merchant string
	dollars  int64
	daysAgo  int
}

var demoSpends = []demoSpend{
	{"Whole Foods", 86, 0},
	{"Netflix", 15, 0},
	{"Uber", 24, 1},
	{"Chipotle", 13, 1},
	{"ConEd", 72, 2},
	{"AMC Theatres", 32, 3},
	{"CVS Pharmacy", 18, 4},
	{"Trader Joe's", 54, 6},
	{"Steam", 40, 8},
	{"Planet Fitness", 25, 10},
	{"Corner Bakery", 9, 12},
}

// DemoDataset returns sample spending dated relative to now, so part of it
// always falls in the current week, plus two savings goals.
func DemoDataset(now time.Time) Dataset {
	txs := make([]core.Transaction, 0, len(demoSpends))
	for _, s := range demoSpends {
		txs = append(txs, core.Transaction{
			ID:       uuid.NewString(),
			Merchant: s.merchant,
			Amount:   core.Money{Cents: s.dollars * 100},
			Date:     now.AddDate(0, 0, -s.daysAgo),
		})
	}
	return Dataset{
		Transactions: txs,
		Goals: []core.Goal{
			{ID: uuid.NewString(), Name: "Emergency fund", Current: core.Money{Cents: 120000}, Target: core.Money{Cents: 300000}},
			{ID: uuid.NewString(), Name: "Summer trip", Current: core.Money{Cents: 35000}, Target: core.Money{Cents: 150000}},
		},
		Budgets: core.BudgetConfig{
			Needs:   core.Money{Cents: 50000},
			Wants:   core.Money{Cents: 20000},
			Savings: core.Money{Cents: 30000},
		},
	}
}
