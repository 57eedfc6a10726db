package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"finmate/internal/backend"
	"finmate/internal/cli"
	"finmate/internal/core"
	apphttp "finmate/internal/http"
	"finmate/internal/log"
	"finmate/internal/metrics"
	"finmate/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	cats, err := cfg.LoadCategories()
	if err != nil {
		logger.Error("Failed to load categories", log.FieldError, err, "file", cfg.CategoryMapFile)
		os.Exit(1)
	}
	engine := core.NewEngine(cats.Merchants, cats.Policy)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	bk, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	m := metrics.New()
	opts := []services.Option{
		services.WithLogger(logger),
		services.WithMetrics(m),
	}
	if bk.Prefs != nil {
		opts = append(opts, services.WithPreferenceStore(bk.Prefs))
	}
	if bk.Publisher != nil {
		opts = append(opts, services.WithAlertPublisher(bk.Publisher))
	}
	svc := services.NewBudgetService(engine, bk.State, opts...)

	if cfg.SeedOnStart {
		seedIfEmpty(logger, svc)
	}

	checks := make(map[string]apphttp.ReadinessCheck, len(bk.Checks))
	for name, check := range bk.Checks {
		checks[name] = apphttp.ReadinessCheck(check)
	}
	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		Logger:    logger,
		Metrics:   m,
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		RateBurst: cfg.RateLimitBurst,
		Checks:    checks,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := bk.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting finmate server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"prefs_backend", cfg.PrefsBackend,
		"merchants", len(cats.Merchants),
		"alerts_enabled", bk.Publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// seedIfEmpty loads the demo data on a first start only.
func seedIfEmpty(logger *log.Logger, svc *services.BudgetService) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	has, err := svc.HasData(ctx)
	if err != nil {
		logger.Error("Failed to check for existing data", log.FieldError, err)
		return
	}
	if has {
		logger.Info("Existing data found, skipping demo seed")
		return
	}
	if err := svc.LoadDemo(ctx); err != nil {
		logger.Error("Failed to seed demo data", log.FieldError, err)
	}
}
