package worker

import (
	"context"
	"log/slog"
	"time"

	"finmate/internal/amqp"
	"finmate/internal/cache"
	"finmate/internal/core"
	"finmate/internal/log"
)

// Redeliveries of a week's alert are dropped while the week key is cached.
const (
	seenWeeks   = 64
	seenWeekTTL = 8 * 24 * time.Hour
)

// AlertWorker consumes needs-budget alerts and reports them.
type AlertWorker struct {
	logger *log.Logger
	seen   *cache.LRUCache[time.Time]
	notify func(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// NewAlertWorker creates a worker. notify may be nil, in which case alerts
// are only logged.
func NewAlertWorker(logger *log.Logger, notify func(ctx context.Context, msg *amqp.BudgetAlertMessage) error) *AlertWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &AlertWorker{
		logger: logger.WithComponent(log.ComponentNotifier),
		seen:   cache.NewLRUCache[time.Time](seenWeeks, seenWeekTTL),
		notify: notify,
	}
}

// Seen exposes the dedup cache for periodic cleanup.
func (w *AlertWorker) Seen() cache.Cleaner {
	return w.seen
}

// HandleBudgetAlert processes a single alert message from AMQP. A returned
// error requeues the message.
func (w *AlertWorker) HandleBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	if msg.WeekKey == "" {
		w.logger.WarnContext(ctx, "Dropping alert without week key")
		return nil
	}
	if _, dup := w.seen.Get(msg.WeekKey); dup {
		w.logger.DebugContext(ctx, "Duplicate alert ignored", log.FieldWeekKey, msg.WeekKey)
		return nil
	}

	spent := core.Money{Cents: msg.NeedsSpentCents}
	budget := core.Money{Cents: msg.NeedsBudgetCents}
	// Swapped arguments: the overspend, floored at zero.
	over := core.Remaining(budget, spent)
	w.logger.LogFields(ctx, slog.LevelWarn, "Needs budget exceeded", log.NewFields().
		WithOperation(log.OpConsume).
		WithAlert(msg.WeekKey, core.AlertShowing.String(), msg.NeedsPercent).
		With("spent", core.FormatUSD(spent)).
		With("budget", core.FormatUSD(budget)).
		With("over_by", core.FormatUSD(over)))

	if w.notify != nil {
		if err := w.notify(ctx, msg); err != nil {
			return err
		}
	}
	w.seen.Set(msg.WeekKey, msg.Timestamp)
	return nil
}
