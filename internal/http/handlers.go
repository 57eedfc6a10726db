package http

import (
	"fmt"
	"net/http"
	"time"

	"finmate/internal/core"
	"finmate/internal/services"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var (
		sum core.Summary
		err error
	)
	if raw := r.URL.Query().Get("at"); raw != "" {
		at, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			writeError(w, http.StatusUnprocessableEntity, "at must be an RFC3339 timestamp")
			return
		}
		sum, err = s.svc.SummaryAt(r.Context(), at)
	} else {
		sum, err = s.svc.Summary(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryView(sum, s.svc.Engine().Policy))
}

func (s *Server) handleDismissNeedsAlert(w http.ResponseWriter, r *http.Request) {
	key, err := s.svc.DismissNeedsAlert(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"needs_alert_dismissed": string(key)})
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.Goals(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGoalsView(goals))
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	currentOnly := false
	switch week := r.URL.Query().Get("week"); week {
	case "":
	case "current":
		currentOnly = true
	default:
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unsupported week filter %q", week))
		return
	}
	txs, err := s.svc.Transactions(r.Context(), currentOnly)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionsView(txs, s.svc.Engine()))
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Preferences(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPreferencesView(p))
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.UpdateDisplay(r.Context(), services.DisplayUpdate{
		DarkMode:  req.DarkMode,
		LargeText: req.LargeText,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPreferencesView(p))
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.Budgets(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBudgetsView(cfg))
}

func (s *Server) handleUpdateBudgets(w http.ResponseWriter, r *http.Request) {
	var req budgetsRequest
	if !s.decode(w, r, &req) {
		return
	}
	cfg, err := req.budgetConfig()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.SetBudgets(r.Context(), cfg); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBudgetsView(cfg))
}

func (req budgetsRequest) budgetConfig() (core.BudgetConfig, error) {
	var cfg core.BudgetConfig
	for _, f := range []struct {
		name string
		raw  string
		dst  *core.Money
	}{
		{"needs", req.Needs, &cfg.Needs},
		{"wants", req.Wants, &cfg.Wants},
		{"savings", req.Savings, &cfg.Savings},
	} {
		cents, err := core.ParseDollarsToCents(f.raw)
		if err != nil {
			return core.BudgetConfig{}, fmt.Errorf("%s %q: %w", f.name, f.raw, err)
		}
		f.dst.Cents = cents
	}
	return cfg, nil
}

func (s *Server) handleLoadDemo(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.LoadDemo(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleSummary(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
