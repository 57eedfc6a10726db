package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"finmate/internal/cache"
	"finmate/internal/core"
	"finmate/internal/log"
	"finmate/internal/metrics"
	"finmate/internal/middleware/ratelimit"
	"finmate/internal/middleware/security"
	"finmate/internal/services"
)

// Budgeter is the service surface the API needs.
type Budgeter interface {
	Now() time.Time
	Engine() core.Engine
	Summary(ctx context.Context) (core.Summary, error)
	SummaryAt(ctx context.Context, at time.Time) (core.Summary, error)
	DismissNeedsAlert(ctx context.Context) (core.WeekKey, error)
	Preferences(ctx context.Context) (core.Preferences, error)
	UpdateDisplay(ctx context.Context, u services.DisplayUpdate) (core.Preferences, error)
	Budgets(ctx context.Context) (core.BudgetConfig, error)
	SetBudgets(ctx context.Context, cfg core.BudgetConfig) error
	Goals(ctx context.Context) ([]core.Goal, error)
	Transactions(ctx context.Context, currentWeekOnly bool) ([]core.Transaction, error)
	LoadDemo(ctx context.Context) error
	Reset(ctx context.Context) error
}

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Options configures the API server. Zero rate limit values get the
// ratelimit package defaults.
type Options struct {
	Logger    *log.Logger
	Metrics   *metrics.Metrics
	RateLimit rate.Limit
	RateBurst int
	Checks    map[string]ReadinessCheck
}

type Server struct {
	http.Server
	svc      Budgeter
	logger   *log.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	checks   map[string]ReadinessCheck

	detector     *security.Detector
	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc Budgeter, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: opts.RateLimit,
		Burst:             opts.RateBurst,
	})

	s := &Server{
		svc:          svc,
		logger:       logger,
		metrics:      opts.Metrics,
		validate:     newValidator(),
		checks:       opts.Checks,
		detector:     security.NewDetector(),
		limiter:      limiter,
		cacheManager: cache.NewManager(logger),
	}
	s.cacheManager.Register(s.limiter.Clients())
	s.cacheManager.StartCleanup(5 * time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(logger, middleware.GetReqID))
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.screen)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Get("/summary", s.handleSummary)
		r.Get("/goals", s.handleGoals)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/preferences", s.handlePreferences)
		r.Get("/budgets", s.handleBudgets)

		r.Group(func(r chi.Router) {
			r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.rejectRateLimited))
			r.Post("/alerts/needs/dismiss", s.handleDismissNeedsAlert)
			r.Put("/preferences", s.handleUpdatePreferences)
			r.Put("/budgets", s.handleUpdateBudgets)
			r.Post("/demo", s.handleLoadDemo)
			r.Post("/reset", s.handleReset)
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "checks", failed)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
