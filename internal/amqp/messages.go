package amqp

import (
	"encoding/json"
	"time"

	"finmate/internal/core"
)

// BudgetAlertMessage announces that the needs bucket filled up for a week.
// At most one is published per week key.
type BudgetAlertMessage struct {
	WeekKey          string    `json:"week_key"`
	NeedsPercent     float64   `json:"needs_percent"`
	NeedsSpentCents  int64     `json:"needs_spent_cents"`
	NeedsBudgetCents int64     `json:"needs_budget_cents"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage builds the message from an engine summary.
func NewBudgetAlertMessage(s core.Summary) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		WeekKey:          string(s.WeekKey),
		NeedsPercent:     s.Percent.Needs,
		NeedsSpentCents:  s.Groups.Needs.Cents,
		NeedsBudgetCents: s.Budgets.Needs.Cents,
		Timestamp:        time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
