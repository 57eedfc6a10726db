package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finmate/internal/core"
	"finmate/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is a durable state container backed by a single sqlite file.
type SQLiteRepository struct {
	db       *sql.DB
	defaults core.BudgetConfig
}

var _ store.State = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies migrations. defaults is returned by GetBudgets until budgets are set.
func NewSQLiteRepository(dbPath string, defaults core.BudgetConfig) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, defaults: defaults}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListTransactions implements store.TransactionReader
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, merchant, amount_cents, occurred_at FROM transactions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx         core.Transaction
			occurredAt string
		)
		if err := rows.Scan(&tx.ID, &tx.Merchant, &tx.Amount.Cents, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date, err = time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse transaction %s date %q: %w", tx.ID, occurredAt, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// ListGoals implements store.GoalReader
func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, current_cents, target_cents FROM goals ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.Current.Cents, &g.Target.Cents); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

// GetBudgets implements store.BudgetStore
func (r *SQLiteRepository) GetBudgets(ctx context.Context) (core.BudgetConfig, error) {
	var cfg core.BudgetConfig
	err := r.db.QueryRowContext(ctx,
		`SELECT needs_cents, wants_cents, savings_cents FROM budgets WHERE id = 1`,
	).Scan(&cfg.Needs.Cents, &cfg.Wants.Cents, &cfg.Savings.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return r.defaults, nil
	}
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("get budgets: %w", err)
	}
	return cfg, nil
}

// SetBudgets implements store.BudgetStore
func (r *SQLiteRepository) SetBudgets(ctx context.Context, cfg core.BudgetConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := upsertBudgets(ctx, r.db, cfg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budgets saved to SQLite",
		"needs_cents", cfg.Needs.Cents,
		"wants_cents", cfg.Wants.Cents,
		"savings_cents", cfg.Savings.Cents)
	return nil
}

// GetPreferences implements store.PreferenceStore
func (r *SQLiteRepository) GetPreferences(ctx context.Context) (core.Preferences, error) {
	var (
		p         core.Preferences
		dismissed string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT needs_alert_dismissed, dark_mode, large_text FROM preferences WHERE id = 1`,
	).Scan(&dismissed, &p.DarkMode, &p.LargeText)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Preferences{}, nil
	}
	if err != nil {
		return core.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	p.NeedsAlertDismissed = core.WeekKey(dismissed)
	return p, nil
}

// SavePreferences implements store.PreferenceStore
func (r *SQLiteRepository) SavePreferences(ctx context.Context, p core.Preferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (id, needs_alert_dismissed, dark_mode, large_text, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			needs_alert_dismissed = excluded.needs_alert_dismissed,
			dark_mode = excluded.dark_mode,
			large_text = excluded.large_text,
			updated_at = CURRENT_TIMESTAMP`,
		string(p.NeedsAlertDismissed), p.DarkMode, p.LargeText)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Seed implements store.DataManager
func (r *SQLiteRepository) Seed(ctx context.Context, d store.Dataset) error {
	hasBudgets := d.Budgets != (core.BudgetConfig{})
	if hasBudgets {
		if err := d.Budgets.Validate(); err != nil {
			return err
		}
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := clearData(ctx, tx); err != nil {
			return err
		}
		for _, t := range d.Transactions {
			if err := t.Amount.Validate(); err != nil {
				return fmt.Errorf("transaction %s: %w", t.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (id, merchant, amount_cents, occurred_at) VALUES (?, ?, ?, ?)`,
				t.ID, t.Merchant, t.Amount.Cents, t.Date.Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("insert transaction %s: %w", t.ID, err)
			}
		}
		for _, g := range d.Goals {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO goals (id, name, current_cents, target_cents) VALUES (?, ?, ?, ?)`,
				g.ID, g.Name, g.Current.Cents, g.Target.Cents); err != nil {
				return fmt.Errorf("insert goal %s: %w", g.ID, err)
			}
		}
		if hasBudgets {
			return upsertBudgets(ctx, tx, d.Budgets)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	slog.InfoContext(ctx, "Dataset seeded into SQLite",
		"transactions", len(d.Transactions),
		"goals", len(d.Goals))
	return nil
}

// Reset implements store.DataManager
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := clearData(ctx, tx); err != nil {
			return err
		}
		for _, table := range []string{"budgets", "preferences"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	slog.InfoContext(ctx, "SQLite state reset")
	return nil
}

// HasData implements store.DataManager
func (r *SQLiteRepository) HasData(ctx context.Context) (bool, error) {
	var has bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions) OR EXISTS (SELECT 1 FROM goals)`,
	).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("has data: %w", err)
	}
	return has, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertBudgets(ctx context.Context, db execer, cfg core.BudgetConfig) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO budgets (id, needs_cents, wants_cents, savings_cents, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			needs_cents = excluded.needs_cents,
			wants_cents = excluded.wants_cents,
			savings_cents = excluded.savings_cents,
			updated_at = CURRENT_TIMESTAMP`,
		cfg.Needs.Cents, cfg.Wants.Cents, cfg.Savings.Cents)
	if err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}
	return nil
}

func clearData(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"transactions", "goals"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
