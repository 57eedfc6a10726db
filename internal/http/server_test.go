package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finmate/internal/core"
	"finmate/internal/log"
	"finmate/internal/metrics"
	"finmate/internal/services"
	"finmate/internal/store/memory"
)

var testNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

var defaultBudgets = core.BudgetConfig{
	Needs:   core.Money{Cents: 50000},
	Wants:   core.Money{Cents: 20000},
	Savings: core.Money{Cents: 30000},
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	engine := core.NewEngine(core.CategoryMap{
		"Whole Foods": "food",
		"ConEd":       "utilities",
		"Netflix":     "entertainment",
	}, core.DefaultGroupPolicy())
	svc := services.NewBudgetService(engine, memory.New(defaultBudgets),
		services.WithLogger(log.Discard()),
		services.WithClock(func() time.Time { return testNow }))
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	srv := NewServer(":0", svc, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyReportsFailedChecks(t *testing.T) {
	srv := newTestServer(t, Options{Checks: map[string]ReadinessCheck{
		"storage": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("connection refused") },
	}})

	rr := do(t, srv, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", rr.Code)
	}
	body := decodeBody[struct {
		Failed map[string]string `json:"failed"`
	}](t, rr)
	if body.Failed["redis"] != "connection refused" {
		t.Errorf("failed checks = %v", body.Failed)
	}
	if _, ok := body.Failed["storage"]; ok {
		t.Errorf("healthy check reported as failed")
	}
}

func TestEmptySummary(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	sum := decodeBody[summaryView](t, rr)
	if sum.HasData {
		t.Error("empty state reported has_data")
	}
	if sum.Week.Key != string(core.CurrentWeekKey(testNow)) {
		t.Errorf("week key = %q", sum.Week.Key)
	}
	if sum.Groups.Needs.Budget.Display != "$500.00" {
		t.Errorf("needs budget display = %q", sum.Groups.Needs.Budget.Display)
	}
	if sum.NeedsAlert.Show || sum.NeedsAlert.State != "hidden" {
		t.Errorf("alert = %+v, want hidden", sum.NeedsAlert)
	}
}

func TestSummaryAtValidation(t *testing.T) {
	srv := newTestServer(t, Options{})

	if rr := do(t, srv, http.MethodGet, "/api/summary?at=yesterday", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rr.Code)
	}

	rr := do(t, srv, http.MethodGet, "/api/summary?at=2026-01-07T09:00:00Z", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	sum := decodeBody[summaryView](t, rr)
	at := time.Date(2026, time.January, 7, 9, 0, 0, 0, time.UTC)
	if sum.Week.Key != string(core.CurrentWeekKey(at)) {
		t.Errorf("week key = %q, want %q", sum.Week.Key, core.CurrentWeekKey(at))
	}
}

func TestNeedsAlertDismissLifecycle(t *testing.T) {
	srv := newTestServer(t, Options{})

	if rr := do(t, srv, http.MethodPost, "/api/demo", ""); rr.Code != http.StatusOK {
		t.Fatalf("demo status=%d body=%s", rr.Code, rr.Body)
	}
	rr := do(t, srv, http.MethodPut, "/api/budgets", `{"needs":"1","wants":"200","savings":"300"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("budgets status=%d body=%s", rr.Code, rr.Body)
	}

	sum := decodeBody[summaryView](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	if !sum.NeedsAlert.Show || sum.NeedsAlert.State != "showing" {
		t.Fatalf("alert = %+v, want showing", sum.NeedsAlert)
	}
	if sum.Groups.Needs.PercentFull != 100 {
		t.Errorf("needs percent = %v, want 100", sum.Groups.Needs.PercentFull)
	}

	rr = do(t, srv, http.MethodPost, "/api/alerts/needs/dismiss", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dismiss status=%d", rr.Code)
	}
	dismissed := decodeBody[map[string]string](t, rr)
	if dismissed["needs_alert_dismissed"] != sum.NeedsAlert.DismissKey {
		t.Errorf("dismissed key = %q, want %q", dismissed["needs_alert_dismissed"], sum.NeedsAlert.DismissKey)
	}

	sum = decodeBody[summaryView](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	if sum.NeedsAlert.Show || sum.NeedsAlert.State != "dismissed" {
		t.Errorf("alert = %+v, want dismissed", sum.NeedsAlert)
	}

	// A week later the same token no longer matches.
	sum = decodeBody[summaryView](t, do(t, srv, http.MethodGet,
		"/api/summary?at="+testNow.AddDate(0, 0, 7).Format(time.RFC3339), ""))
	if sum.NeedsAlert.State == "dismissed" {
		t.Errorf("dismissal carried into the next week")
	}
}

func TestUpdateBudgetsValidation(t *testing.T) {
	srv := newTestServer(t, Options{RateBurst: 100})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"needs":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"unknown field", `{"needs":"1","wants":"1","savings":"1","rent":"1"}`, http.StatusBadRequest},
		{"missing field", `{"needs":"1","wants":"1"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"needs":"-5","wants":"1","savings":"1"}`, http.StatusUnprocessableEntity},
		{"not a number", `{"needs":"lots","wants":"1","savings":"1"}`, http.StatusUnprocessableEntity},
		{"formatted dollars", `{"needs":"$1,250.50","wants":"0","savings":"300"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPut, "/api/budgets", tt.body)
			if rr.Code != tt.want {
				t.Fatalf("status=%d, want %d body=%s", rr.Code, tt.want, rr.Body)
			}
			if rr.Code != http.StatusOK {
				if e := decodeBody[errorResponse](t, rr); e.Error == "" {
					t.Error("error body missing message")
				}
			}
		})
	}

	b := decodeBody[budgetsView](t, do(t, srv, http.MethodGet, "/api/budgets", ""))
	if b.Needs.Cents != 125050 {
		t.Errorf("needs cents = %d, want 125050", b.Needs.Cents)
	}
	if b.Planned.Cents != 125050 {
		t.Errorf("planned cents = %d, want 125050", b.Planned.Cents)
	}
}

func TestPreferences(t *testing.T) {
	srv := newTestServer(t, Options{})

	if rr := do(t, srv, http.MethodPut, "/api/preferences", `{}`); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty update status=%d, want 422", rr.Code)
	}

	rr := do(t, srv, http.MethodPut, "/api/preferences", `{"dark_mode":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body)
	}
	p := decodeBody[preferencesView](t, do(t, srv, http.MethodGet, "/api/preferences", ""))
	if !p.DarkMode || p.LargeText {
		t.Errorf("preferences = %+v", p)
	}
}

func TestTransactionsAndGoals(t *testing.T) {
	srv := newTestServer(t, Options{})
	do(t, srv, http.MethodPost, "/api/demo", "")

	all := decodeBody[transactionsView](t, do(t, srv, http.MethodGet, "/api/transactions", ""))
	week := decodeBody[transactionsView](t, do(t, srv, http.MethodGet, "/api/transactions?week=current", ""))
	if len(all.Transactions) == 0 || len(week.Transactions) == 0 {
		t.Fatalf("all=%d week=%d", len(all.Transactions), len(week.Transactions))
	}
	if len(week.Transactions) >= len(all.Transactions) {
		t.Errorf("current week filter kept %d of %d", len(week.Transactions), len(all.Transactions))
	}
	for _, tx := range all.Transactions {
		if tx.Merchant == "Netflix" && (tx.Category != "entertainment" || tx.Group != "wants") {
			t.Errorf("Netflix categorized as %s/%s", tx.Category, tx.Group)
		}
	}

	if rr := do(t, srv, http.MethodGet, "/api/transactions?week=last", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown week filter status=%d, want 422", rr.Code)
	}

	goals := decodeBody[goalsView](t, do(t, srv, http.MethodGet, "/api/goals", ""))
	if len(goals.Goals) != 2 {
		t.Fatalf("goals = %d, want 2", len(goals.Goals))
	}
	if goals.TotalSaved.Cents != 155000 {
		t.Errorf("total saved = %d, want 155000", goals.TotalSaved.Cents)
	}
}

func TestReset(t *testing.T) {
	srv := newTestServer(t, Options{})
	do(t, srv, http.MethodPost, "/api/demo", "")
	do(t, srv, http.MethodPut, "/api/preferences", `{"large_text":true}`)

	if rr := do(t, srv, http.MethodPost, "/api/reset", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("reset status=%d", rr.Code)
	}
	sum := decodeBody[summaryView](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	if sum.HasData {
		t.Error("data survived reset")
	}
	if sum.Preferences.LargeText {
		t.Error("preferences survived reset")
	}
	if sum.Groups.Needs.Budget.Cents != defaultBudgets.Needs.Cents {
		t.Errorf("needs budget = %d, want default", sum.Groups.Needs.Budget.Cents)
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 2})

	for i := 0; i < 2; i++ {
		if rr := do(t, srv, http.MethodPost, "/api/alerts/needs/dismiss", ""); rr.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPost, "/api/alerts/needs/dismiss", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}

	// Reads are not limited.
	if rr := do(t, srv, http.MethodGet, "/api/summary", ""); rr.Code != http.StatusOK {
		t.Errorf("read status=%d", rr.Code)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/api/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if e := decodeBody[errorResponse](t, rr); e.Error != "not found" {
		t.Errorf("error = %q", e.Error)
	}

	if rr := do(t, srv, http.MethodDelete, "/api/summary", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status=%d, want 405", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := do(t, srv, http.MethodGet, "/api/summary", "")
	for k, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rr.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	srv := newTestServer(t, Options{Metrics: m})
	do(t, srv, http.MethodGet, "/api/summary", "")

	rr := do(t, srv, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `route="/api/summary"`) {
		t.Errorf("metrics missing summary route:\n%s", rr.Body)
	}
}
