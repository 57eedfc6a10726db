package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"finmate/internal/amqp"
	"finmate/internal/core"
	"finmate/internal/log"
	"finmate/internal/metrics"
	"finmate/internal/store"
)

// AlertPublisher hands a full needs bucket to the notifier.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// BudgetService loads a snapshot from the state container and runs the
// engine over it on every call. Nothing is cached between calls.
type BudgetService struct {
	engine    core.Engine
	state     store.State
	prefs     store.PreferenceStore
	publisher AlertPublisher
	metrics   *metrics.Metrics
	logger    *log.Logger
	now       func() time.Time

	mu sync.Mutex
	// Start of the last week an alert went out for. Week keys repeat across
	// months so they cannot be used here.
	lastNotified time.Time
}

type Option func(*BudgetService)

// WithPreferenceStore keeps preferences outside the state container.
func WithPreferenceStore(p store.PreferenceStore) Option {
	return func(s *BudgetService) { s.prefs = p }
}

func WithAlertPublisher(p AlertPublisher) Option {
	return func(s *BudgetService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BudgetService) { s.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(s *BudgetService) { s.logger = l.WithComponent(log.ComponentBudget) }
}

// WithClock replaces time.Now as the reference time.
func WithClock(now func() time.Time) Option {
	return func(s *BudgetService) { s.now = now }
}

func NewBudgetService(engine core.Engine, state store.State, opts ...Option) *BudgetService {
	s := &BudgetService{
		engine: engine,
		state:  state,
		prefs:  state,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentBudget),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the categorization and grouping rules in use.
func (s *BudgetService) Engine() core.Engine {
	return s.engine
}

// Now returns the service's reference time.
func (s *BudgetService) Now() time.Time {
	return s.now()
}

// Snapshot reads the whole engine input concurrently.
func (s *BudgetService) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.state.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		snap.Transactions = txs
		return nil
	})
	g.Go(func() error {
		goals, err := s.state.ListGoals(gctx)
		if err != nil {
			return fmt.Errorf("load goals: %w", err)
		}
		snap.Goals = goals
		return nil
	})
	g.Go(func() error {
		budgets, err := s.state.GetBudgets(gctx)
		if err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}
		snap.Budgets = budgets
		return nil
	})
	g.Go(func() error {
		prefs, err := s.prefs.GetPreferences(gctx)
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		snap.Preferences = prefs
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}
	return snap, nil
}

// Summary computes the dashboard as of now.
func (s *BudgetService) Summary(ctx context.Context) (core.Summary, error) {
	return s.SummaryAt(ctx, s.now())
}

// SummaryAt computes the dashboard as of at. The needs alert is published
// at most once per week, and only for the current week.
func (s *BudgetService) SummaryAt(ctx context.Context, at time.Time) (core.Summary, error) {
	start := time.Now()
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	sum := s.engine.Summarize(snap, at)
	s.metrics.ObserveSummary(time.Since(start), sum.Percent.Needs, sum.Percent.Wants, sum.Percent.Savings, sum.WeeklySpent.Cents)

	s.logger.LogFields(ctx, slog.LevelDebug, "Summary computed", log.NewFields().
		WithOperation(log.OpSummarize).
		WithAlert(string(sum.WeekKey), sum.NeedsAlert.String(), sum.Percent.Needs))

	if sum.NeedsAlert == core.AlertShowing && sum.Week.Start.Equal(core.WeekStart(s.now())) {
		s.notify(ctx, sum)
	}
	return sum, nil
}

func (s *BudgetService) notify(ctx context.Context, sum core.Summary) {
	if s.publisher == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastNotified.Equal(sum.Week.Start) {
		return
	}
	err := s.publisher.PublishBudgetAlert(ctx, amqp.NewBudgetAlertMessage(sum))
	s.metrics.AlertPublished(err)
	if err != nil {
		// The summary is still served; the next request retries.
		s.logger.WarnContext(ctx, "Failed to publish needs alert",
			log.FieldWeekKey, sum.WeekKey,
			log.FieldError, err)
		return
	}
	s.lastNotified = sum.Week.Start
}

// DismissNeedsAlert hides the needs alert until the week key changes and
// returns the stored key.
func (s *BudgetService) DismissNeedsAlert(ctx context.Context) (core.WeekKey, error) {
	key := core.CurrentWeekKey(s.now())
	prefs, err := s.prefs.GetPreferences(ctx)
	if err != nil {
		return "", fmt.Errorf("load preferences: %w", err)
	}
	if err := s.prefs.SavePreferences(ctx, prefs.Dismiss(key)); err != nil {
		return "", fmt.Errorf("save dismissal: %w", err)
	}
	s.metrics.AlertDismissed()
	s.logger.InfoContext(ctx, "Needs alert dismissed",
		log.FieldOperation, log.OpDismiss,
		log.FieldWeekKey, key)
	return key, nil
}

func (s *BudgetService) Preferences(ctx context.Context) (core.Preferences, error) {
	p, err := s.prefs.GetPreferences(ctx)
	if err != nil {
		return core.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

// DisplayUpdate changes the display flags. Nil fields are left as they are.
type DisplayUpdate struct {
	DarkMode  *bool
	LargeText *bool
}

// UpdateDisplay applies u and returns the stored preferences. The dismissal
// token is never touched here.
func (s *BudgetService) UpdateDisplay(ctx context.Context, u DisplayUpdate) (core.Preferences, error) {
	p, err := s.prefs.GetPreferences(ctx)
	if err != nil {
		return core.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	if u.DarkMode != nil {
		p.DarkMode = *u.DarkMode
	}
	if u.LargeText != nil {
		p.LargeText = *u.LargeText
	}
	if err := s.prefs.SavePreferences(ctx, p); err != nil {
		return core.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}

func (s *BudgetService) Budgets(ctx context.Context) (core.BudgetConfig, error) {
	cfg, err := s.state.GetBudgets(ctx)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("load budgets: %w", err)
	}
	return cfg, nil
}

// SetBudgets replaces the weekly budget. Negative amounts are rejected with
// core.ErrInvalidBudget.
func (s *BudgetService) SetBudgets(ctx context.Context, cfg core.BudgetConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.state.SetBudgets(ctx, cfg); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}
	s.logger.InfoContext(ctx, "Budgets updated",
		log.FieldOperation, log.OpUpdate,
		"needs_cents", cfg.Needs.Cents,
		"wants_cents", cfg.Wants.Cents,
		"savings_cents", cfg.Savings.Cents)
	return nil
}

func (s *BudgetService) Goals(ctx context.Context) ([]core.Goal, error) {
	goals, err := s.state.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	return goals, nil
}

// Transactions lists recorded transactions, optionally limited to the
// current week.
func (s *BudgetService) Transactions(ctx context.Context, currentWeekOnly bool) ([]core.Transaction, error) {
	txs, err := s.state.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if currentWeekOnly {
		txs = core.WeekTransactions(txs, s.now())
	}
	return txs, nil
}

func (s *BudgetService) HasData(ctx context.Context) (bool, error) {
	has, err := s.state.HasData(ctx)
	if err != nil {
		return false, fmt.Errorf("check data: %w", err)
	}
	return has, nil
}

// LoadDemo replaces the state with the demo dataset dated around now.
func (s *BudgetService) LoadDemo(ctx context.Context) error {
	d := store.DemoDataset(s.now())
	if err := s.state.Seed(ctx, d); err != nil {
		return fmt.Errorf("load demo data: %w", err)
	}
	s.logger.InfoContext(ctx, "Demo data loaded",
		log.FieldOperation, log.OpSeed,
		log.FieldCount, len(d.Transactions))
	return nil
}

// Reset drops all data, restores default budgets and clears preferences,
// including a separately stored dismissal token.
func (s *BudgetService) Reset(ctx context.Context) error {
	if err := s.state.Reset(ctx); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	if err := s.prefs.SavePreferences(ctx, core.Preferences{}); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	s.mu.Lock()
	s.lastNotified = time.Time{}
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "All data reset", log.FieldOperation, log.OpReset)
	return nil
}
