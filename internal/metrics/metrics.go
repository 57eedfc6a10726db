// Package metrics exposes the prometheus collectors for the API and the
// budget engine. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	summaries        prometheus.Counter
	summaryDuration  prometheus.Histogram
	groupPercentFull *prometheus.GaugeVec
	weeklySpentCents prometheus.Gauge
	alertsPublished  *prometheus.CounterVec
	alertDismissals  prometheus.Counter
	rateLimited      prometheus.Counter
}

// New registers every collector on a fresh registry, so tests and multiple
// servers never collide on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finmate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finmate_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		summaries: f.NewCounter(
			prometheus.CounterOpts{
				Name: "finmate_summaries_total",
				Help: "Total number of budget summaries computed",
			},
		),
		summaryDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finmate_summary_duration_seconds",
				Help:    "Time to load the snapshot and compute a summary",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
		),
		groupPercentFull: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finmate_group_percent_full",
				Help: "Percent full of each budget group at the last summary",
			},
			[]string{"group"},
		),
		weeklySpentCents: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "finmate_weekly_spent_cents",
				Help: "Spend in the current week at the last summary, in cents",
			},
		),
		alertsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finmate_budget_alerts_published_total",
				Help: "Needs alerts handed to the notifier",
			},
			[]string{"status"},
		),
		alertDismissals: f.NewCounter(
			prometheus.CounterOpts{
				Name: "finmate_needs_alert_dismissals_total",
				Help: "Needs alert dismissals",
			},
		),
		rateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Name: "finmate_rate_limited_requests_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSummary records one engine run.
func (m *Metrics) ObserveSummary(d time.Duration, needs, wants, savings float64, weeklySpentCents int64) {
	if m == nil {
		return
	}
	m.summaries.Inc()
	m.summaryDuration.Observe(d.Seconds())
	m.groupPercentFull.WithLabelValues("needs").Set(needs)
	m.groupPercentFull.WithLabelValues("wants").Set(wants)
	m.groupPercentFull.WithLabelValues("savings").Set(savings)
	m.weeklySpentCents.Set(float64(weeklySpentCents))
}

func (m *Metrics) AlertPublished(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.alertsPublished.WithLabelValues(status).Inc()
}

func (m *Metrics) AlertDismissed() {
	if m == nil {
		return
	}
	m.alertDismissals.Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
