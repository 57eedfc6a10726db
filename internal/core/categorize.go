package core

import "sort"

// CategoryOther is assigned to merchants missing from the category map.
const CategoryOther = "other"

type (
	// CategoryMap maps a merchant name to a budget category.
	CategoryMap map[string]string

	// CategoryTotals maps a category name to its accumulated spend. It is
	// derived data: recompute it whenever the transaction set changes.
	CategoryTotals map[string]Money

	// CategoryAmount represents an amount aggregated by category name.
	CategoryAmount struct {
		Name   string
		Amount Money
	}
)

// Lookup resolves the category for merchant, falling back to CategoryOther.
func (m CategoryMap) Lookup(merchant string) string {
	if cat, ok := m[merchant]; ok {
		return cat
	}
	return CategoryOther
}

// Categorize sums every transaction into its merchant's category.
func Categorize(transactions []Transaction, categories CategoryMap) CategoryTotals {
	totals := make(CategoryTotals)
	for _, tx := range transactions {
		cat := categories.Lookup(tx.Merchant)
		totals[cat] = totals[cat].Add(tx.Amount)
	}
	return totals
}

// Total sums all category totals.
func (t CategoryTotals) Total() Money {
	var total Money
	for _, m := range t {
		total = total.Add(m)
	}
	return total
}

// Sorted returns the totals as rows, largest first and by name on ties.
func (t CategoryTotals) Sorted() []CategoryAmount {
	rows := make([]CategoryAmount, 0, len(t))
	for name, amount := range t {
		rows = append(rows, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount.Cents != rows[j].Amount.Cents {
			return rows[i].Amount.Cents > rows[j].Amount.Cents
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
