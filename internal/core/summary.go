package core

import "time"

// Engine turns a Snapshot into a Summary. It holds only read-only
// configuration and is safe to share.
type Engine struct {
	Categories CategoryMap
	Policy     GroupPolicy
}

// NewEngine returns an engine over the given category map and group policy.
func NewEngine(categories CategoryMap, policy GroupPolicy) Engine {
	return Engine{Categories: categories, Policy: policy}
}

// Summary is the display-ready result of one engine run.
type Summary struct {
	GeneratedAt time.Time
	Week        WeekWindow
	WeekKey     WeekKey // store this on dismissal

	CategoryTotals CategoryTotals
	Categories     []CategoryAmount

	Budgets   BudgetConfig
	Groups    GroupTotals
	Percent   GroupPercents
	Remaining GroupTotals

	WeeklySpent   Money
	PlannedWeek   Money
	LeftThisWeek  Money
	DaysRemaining int
	SafePerDay    Money
	ResetDay      string

	NeedsAlert     AlertState
	ShowNeedsAlert bool

	TotalSaved  Money
	HasData     bool
	Preferences Preferences
}

// Summarize runs the whole pipeline over s as of now. Nothing is cached:
// call it again whenever the snapshot changes.
func (e Engine) Summarize(s Snapshot, now time.Time) Summary {
	totals := Categorize(s.Transactions, e.Categories)
	groups := GroupSpent(totals, e.Policy)
	pct, left := EvaluateGroups(groups, s.Budgets)

	weekly := WeeklySpent(s.Transactions, now)
	planned := PlannedWeek(s.Budgets)
	leftWeek := LeftThisWeek(planned, weekly)
	days := DaysRemainingInWeek(now)
	key := CurrentWeekKey(now)
	alert := EvaluateAlert(pct.Needs, s.Preferences.NeedsAlertDismissed, key)

	return Summary{
		GeneratedAt:    now,
		Week:           CurrentWeek(now),
		WeekKey:        key,
		CategoryTotals: totals,
		Categories:     totals.Sorted(),
		Budgets:        s.Budgets,
		Groups:         groups,
		Percent:        pct,
		Remaining:      left,
		WeeklySpent:    weekly,
		PlannedWeek:    planned,
		LeftThisWeek:   leftWeek,
		DaysRemaining:  days,
		SafePerDay:     SafePerDay(leftWeek, days),
		ResetDay:       ResetDayName(now),
		NeedsAlert:     alert,
		ShowNeedsAlert: alert == AlertShowing,
		TotalSaved:     TotalSaved(s.Goals),
		HasData:        s.HasData(),
		Preferences:    s.Preferences,
	}
}
