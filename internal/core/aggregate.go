package core

import "time"

// WeekTransactions returns the transactions dated inside the week of ref,
// in input order.
func WeekTransactions(transactions []Transaction, ref time.Time) []Transaction {
	week := CurrentWeek(ref)
	out := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if week.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// WeeklySpent sums the transactions of the week containing ref.
func WeeklySpent(transactions []Transaction, ref time.Time) Money {
	var total Money
	for _, tx := range WeekTransactions(transactions, ref) {
		total = total.Add(tx.Amount)
	}
	return total
}
