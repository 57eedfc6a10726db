package http

import (
	"time"

	"finmate/internal/core"
)

// Money is rendered with both the exact cents and a display string.
type moneyView struct {
	Cents   int64  `json:"cents"`
	Display string `json:"display"`
}

func money(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Display: core.FormatUSD(m)}
}

type weekView struct {
	Key           string    `json:"key"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DaysRemaining int       `json:"days_remaining"`
	ResetDay      string    `json:"reset_day"`
}

type categoryView struct {
	Name   string    `json:"name"`
	Group  string    `json:"group"`
	Amount moneyView `json:"amount"`
}

type groupView struct {
	Budget      moneyView `json:"budget"`
	Spent       moneyView `json:"spent"`
	Remaining   moneyView `json:"remaining"`
	PercentFull float64   `json:"percent_full"`
}

type groupsView struct {
	Needs   groupView `json:"needs"`
	Wants   groupView `json:"wants"`
	Savings groupView `json:"savings"`
}

type weeklyView struct {
	Spent      moneyView `json:"spent"`
	Planned    moneyView `json:"planned"`
	Left       moneyView `json:"left"`
	SafePerDay moneyView `json:"safe_per_day"`
}

type alertView struct {
	State      string `json:"state"`
	Show       bool   `json:"show"`
	// DismissKey is the week key the dismiss action stores.
	DismissKey string `json:"dismiss_key"`
}

type preferencesView struct {
	DarkMode            bool   `json:"dark_mode"`
	LargeText           bool   `json:"large_text"`
	NeedsAlertDismissed string `json:"needs_alert_dismissed,omitempty"`
}

type summaryView struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Week        weekView        `json:"week"`
	Categories  []categoryView  `json:"categories"`
	Groups      groupsView      `json:"groups"`
	Weekly      weeklyView      `json:"weekly"`
	NeedsAlert  alertView       `json:"needs_alert"`
	TotalSaved  moneyView       `json:"total_saved"`
	HasData     bool            `json:"has_data"`
	Preferences preferencesView `json:"preferences"`
}

func newSummaryView(s core.Summary, policy core.GroupPolicy) summaryView {
	cats := make([]categoryView, 0, len(s.Categories))
	for _, c := range s.Categories {
		cats = append(cats, categoryView{Name: c.Name, Group: string(policy.Classify(c.Name)), Amount: money(c.Amount)})
	}
	group := func(g core.Group, budget core.Money, pct float64) groupView {
		return groupView{
			Budget:      money(budget),
			Spent:       money(s.Groups.Get(g)),
			Remaining:   money(s.Remaining.Get(g)),
			PercentFull: pct,
		}
	}
	return summaryView{
		GeneratedAt: s.GeneratedAt,
		Week: weekView{
			Key:           string(s.WeekKey),
			Start:         s.Week.Start,
			End:           s.Week.End,
			DaysRemaining: s.DaysRemaining,
			ResetDay:      s.ResetDay,
		},
		Categories: cats,
		Groups: groupsView{
			Needs:   group(core.GroupNeeds, s.Budgets.Needs, s.Percent.Needs),
			Wants:   group(core.GroupWants, s.Budgets.Wants, s.Percent.Wants),
			Savings: group(core.GroupSavings, s.Budgets.Savings, s.Percent.Savings),
		},
		Weekly: weeklyView{
			Spent:      money(s.WeeklySpent),
			Planned:    money(s.PlannedWeek),
			Left:       money(s.LeftThisWeek),
			SafePerDay: money(s.SafePerDay),
		},
		NeedsAlert: alertView{
			State:      s.NeedsAlert.String(),
			Show:       s.ShowNeedsAlert,
			DismissKey: string(s.WeekKey),
		},
		TotalSaved:  money(s.TotalSaved),
		HasData:     s.HasData,
		Preferences: newPreferencesView(s.Preferences),
	}
}

func newPreferencesView(p core.Preferences) preferencesView {
	return preferencesView{
		DarkMode:            p.DarkMode,
		LargeText:           p.LargeText,
		NeedsAlertDismissed: string(p.NeedsAlertDismissed),
	}
}

type goalView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Current  moneyView `json:"current"`
	Target   moneyView `json:"target"`
	Progress float64   `json:"progress"`
}

type goalsView struct {
	Goals      []goalView `json:"goals"`
	TotalSaved moneyView  `json:"total_saved"`
}

func newGoalsView(goals []core.Goal) goalsView {
	out := make([]goalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalView{
			ID:       g.ID,
			Name:     g.Name,
			Current:  money(g.Current),
			Target:   money(g.Target),
			Progress: g.Progress(),
		})
	}
	return goalsView{Goals: out, TotalSaved: money(core.TotalSaved(goals))}
}

type transactionView struct {
	ID       string    `json:"id"`
	Merchant string    `json:"merchant"`
	Category string    `json:"category"`
	Group    string    `json:"group"`
	Amount   moneyView `json:"amount"`
	Date     time.Time `json:"date"`
}

type transactionsView struct {
	Transactions []transactionView `json:"transactions"`
	Total        moneyView         `json:"total"`
}

func newTransactionsView(txs []core.Transaction, engine core.Engine) transactionsView {
	out := make([]transactionView, 0, len(txs))
	var total core.Money
	for _, tx := range txs {
		cat := engine.Categories.Lookup(tx.Merchant)
		out = append(out, transactionView{
			ID:       tx.ID,
			Merchant: tx.Merchant,
			Category: cat,
			Group:    string(engine.Policy.Classify(cat)),
			Amount:   money(tx.Amount),
			Date:     tx.Date,
		})
		total = total.Add(tx.Amount)
	}
	return transactionsView{Transactions: out, Total: money(total)}
}

type budgetsView struct {
	Needs   moneyView `json:"needs"`
	Wants   moneyView `json:"wants"`
	Savings moneyView `json:"savings"`
	Planned moneyView `json:"planned_week"`
}

func newBudgetsView(cfg core.BudgetConfig) budgetsView {
	return budgetsView{
		Needs:   money(cfg.Needs),
		Wants:   money(cfg.Wants),
		Savings: money(cfg.Savings),
		Planned: money(core.PlannedWeek(cfg)),
	}
}

// Request bodies. Amounts are dollar strings such as "500" or "$1,250.50".
type (
	budgetsRequest struct {
		Needs   string `json:"needs" validate:"required,max=32"`
		Wants   string `json:"wants" validate:"required,max=32"`
		Savings string `json:"savings" validate:"required,max=32"`
	}

	preferencesRequest struct {
		DarkMode  *bool `json:"dark_mode" validate:"required_without=LargeText"`
		LargeText *bool `json:"large_text" validate:"required_without=DarkMode"`
	}
)
