package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Remaining is budget minus spent, floored at zero. Overspend only shows up
// through PercentFull.
func Remaining(spent, budget Money) Money {
	if budget.Cents <= spent.Cents {
		return Money{}
	}
	return budget.Sub(spent)
}

// PercentFull returns 100*spent/budget clamped to [0,100]. A zero or negative
// budget reads as 0%, not as infinitely over.
func PercentFull(spent, budget Money) float64 {
	if budget.Cents <= 0 || spent.Cents <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(spent.Cents).Mul(hundred).Div(decimal.NewFromInt(budget.Cents))
	if pct.GreaterThan(hundred) {
		return 100
	}
	return pct.InexactFloat64()
}

// SafePerDay spreads what is left this week across the remaining days,
// rounded half-up to the cent. Zero or negative days yield zero.
func SafePerDay(leftThisWeek Money, daysRemaining int) Money {
	if daysRemaining <= 0 || leftThisWeek.Cents <= 0 {
		return Money{}
	}
	per := decimal.NewFromInt(leftThisWeek.Cents).Div(decimal.NewFromInt(int64(daysRemaining)))
	return Money{Cents: per.Round(0).IntPart()}
}

// PlannedWeek is the plannable spend of a week. Savings is not discretionary
// spend and is left out.
func PlannedWeek(cfg BudgetConfig) Money {
	return cfg.Needs.Add(cfg.Wants)
}

// LeftThisWeek is planned minus spent, floored at zero.
func LeftThisWeek(plannedWeek, weeklySpent Money) Money {
	return Remaining(weeklySpent, plannedWeek)
}

// GroupPercents holds PercentFull per bucket.
type GroupPercents struct {
	Needs   float64
	Wants   float64
	Savings float64
}

// EvaluateGroups returns percent-full and remaining per bucket.
func EvaluateGroups(spent GroupTotals, budgets BudgetConfig) (GroupPercents, GroupTotals) {
	pct := GroupPercents{
		Needs:   PercentFull(spent.Needs, budgets.Needs),
		Wants:   PercentFull(spent.Wants, budgets.Wants),
		Savings: PercentFull(spent.Savings, budgets.Savings),
	}
	left := GroupTotals{
		Needs:   Remaining(spent.Needs, budgets.Needs),
		Wants:   Remaining(spent.Wants, budgets.Wants),
		Savings: Remaining(spent.Savings, budgets.Savings),
	}
	return pct, left
}
