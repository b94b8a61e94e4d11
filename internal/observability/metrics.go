package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	planGenerations *prometheus.CounterVec
	aiLatency       prometheus.Histogram
	aiAttempts      *prometheus.CounterVec
	rateLimited     prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		planGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upskill_plan_generations_total",
			Help: "Plans returned, by source (ai, fallback, cache).",
		}, []string{"source"}),
		aiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upskill_ai_request_seconds",
			Help:    "Wall time of AI plan requests, including the repair attempt.",
			Buckets: []float64{0.5, 1, 2, 4, 6, 8, 10, 12, 20, 30},
		}),
		aiAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upskill_ai_attempts_total",
			Help: "AI generation attempts by outcome.",
		}, []string{"outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "upskill_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upskill_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upskill_http_request_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.planGenerations,
		m.aiLatency,
		m.aiAttempts,
		m.rateLimited,
		m.httpRequests,
		m.httpLatency,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObservePlan(source string) {
	if m == nil {
		return
	}
	m.planGenerations.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveAIRequest(d time.Duration) {
	if m == nil {
		return
	}
	m.aiLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveAIAttempt(outcome string) {
	if m == nil {
		return
	}
	m.aiAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}
