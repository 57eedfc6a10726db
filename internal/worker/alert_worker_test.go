package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmate/internal/amqp"
	"finmate/internal/log"
)

func alert(week string) *amqp.BudgetAlertMessage {
	return &amqp.BudgetAlertMessage{
		WeekKey:          week,
		NeedsPercent:     100,
		NeedsSpentCents:  61250,
		NeedsBudgetCents: 50000,
		Timestamp:        time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestHandleBudgetAlert_Dedup(t *testing.T) {
	var got []string
	w := NewAlertWorker(log.Discard(), func(_ context.Context, msg *amqp.BudgetAlertMessage) error {
		got = append(got, msg.WeekKey)
		return nil
	})
	ctx := context.Background()

	require.NoError(t, w.HandleBudgetAlert(ctx, alert("2026-W2")))
	require.NoError(t, w.HandleBudgetAlert(ctx, alert("2026-W2")))
	require.NoError(t, w.HandleBudgetAlert(ctx, alert("2026-W3")))

	assert.Equal(t, []string{"2026-W2", "2026-W3"}, got)
}

func TestHandleBudgetAlert_NotifyFailureRetries(t *testing.T) {
	calls := 0
	w := NewAlertWorker(nil, func(context.Context, *amqp.BudgetAlertMessage) error {
		calls++
		if calls == 1 {
			return errors.New("downstream unavailable")
		}
		return nil
	})
	ctx := context.Background()

	assert.Error(t, w.HandleBudgetAlert(ctx, alert("2026-W2")))
	// The failed delivery is not remembered, so the redelivery goes through.
	assert.NoError(t, w.HandleBudgetAlert(ctx, alert("2026-W2")))
	assert.Equal(t, 2, calls)
}

func TestHandleBudgetAlert_DropsEmptyWeekKey(t *testing.T) {
	called := false
	w := NewAlertWorker(nil, func(context.Context, *amqp.BudgetAlertMessage) error {
		called = true
		return nil
	})

	assert.NoError(t, w.HandleBudgetAlert(context.Background(), alert("")))
	assert.False(t, called)
}

func TestHandleBudgetAlert_LogOnly(t *testing.T) {
	w := NewAlertWorker(log.Discard(), nil)
	assert.NoError(t, w.HandleBudgetAlert(context.Background(), alert("2026-W2")))
	assert.Equal(t, 0, w.Seen().CleanExpired())
}
