package backend

import (
	"context"
	"errors"
	"fmt"

	"finmate/internal/amqp"
	"finmate/internal/log"
	"finmate/internal/storage"
	"finmate/internal/store"
	"finmate/internal/store/memory"
	"finmate/internal/store/redis"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend. On error every resource
// opened so far is closed.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	res := &BackendResult{Checks: map[string]Check{}}
	var closers []func() error
	res.Cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.DefaultBudgets)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		closers = append(closers, repo.Close)
		res.State = repo
		res.Checks["sqlite"] = repo.Ping
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		res.State = memory.New(config.DefaultBudgets)
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	if config.RedisAddr != "" {
		prefs, err := redis.New(ctx, config.RedisAddr, redis.DefaultKey)
		if err != nil {
			_ = res.Cleanup()
			return nil, fmt.Errorf("failed to initialize redis preferences: %w", err)
		}
		closers = append(closers, prefs.Close)
		res.Prefs = prefs
		res.Checks["redis"] = prefs.Ping
		f.logger.Info("Initialized redis preference store", "addr", config.RedisAddr)
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			// Alerts are best effort; the API runs without them.
			f.logger.Warn("Failed to initialize AMQP client, continuing without alerts", log.FieldError, err)
		} else {
			closers = append(closers, client.Close)
			res.Publisher = client
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Backend ready",
		log.FieldBackend, config.Type.String(),
		"redis_prefs", res.Prefs != nil,
		"amqp_enabled", res.Publisher != nil)
	return res, nil
}

var _ store.State = (*storage.SQLiteRepository)(nil)
