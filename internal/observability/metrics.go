package observability

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/recipebook-backend/internal/domain"
)

const namespace = "recipebook"

// Metrics owns a private registry so several instances (tests, tools) can
// coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests  *prometheus.CounterVec
	apiLatency   *prometheus.HistogramVec
	apiInflight  prometheus.Gauge
	apiErrors    *prometheus.CounterVec
	rateLimited  prometheus.Counter
	operations   *prometheus.CounterVec
	opLatency    *prometheus.HistogramVec
	refLookups   *prometheus.CounterVec
	refRequested *prometheus.CounterVec
	refMissing   *prometheus.CounterVec
	changeEvents *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "kind", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "kind"}),
		apiErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_error_responses_total",
			Help:      "HTTP error responses by catalog kind and error code",
		}, []string{"kind", "code"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejects_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_operations_total",
			Help:      "Catalog operations by kind, operation and outcome",
		}, []string{"kind", "op", "outcome"}),
		opLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_operation_duration_seconds",
			Help:      "Catalog operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "op"}),
		refLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_lookups_total",
			Help:      "Batched reference lookups issued by the resolver",
		}, []string{"kind"}),
		refRequested: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_ids_requested_total",
			Help:      "Domain ids requested by the resolver",
		}, []string{"kind"}),
		refMissing: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_ids_missing_total",
			Help:      "Domain ids the resolver could not find",
		}, []string{"kind"}),
		changeEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_events_total",
			Help:      "Change events by publish outcome",
		}, []string{"kind", "action", "outcome"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RegisterDBStats exports connection pool statistics of db.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) error {
	if m == nil || db == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// ObserveAPI records one HTTP request. kind is empty outside the catalog
// routes; code is the error envelope code, empty on success.
func (m *Metrics) ObserveAPI(method, route string, kind domain.Kind, status, code string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, string(kind), status).Inc()
	m.apiLatency.WithLabelValues(method, route, string(kind)).Observe(dur.Seconds())
	if code != "" {
		m.apiErrors.WithLabelValues(string(kind), code).Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// ObserveOperation records one façade call. outcome is "ok" or an error code.
func (m *Metrics) ObserveOperation(kind domain.Kind, op, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(string(kind), op, outcome).Inc()
	m.opLatency.WithLabelValues(string(kind), op).Observe(dur.Seconds())
}

// ObserveLookup implements resolve.Observer.
func (m *Metrics) ObserveLookup(kind domain.Kind, requested, found int) {
	if m == nil {
		return
	}
	m.refLookups.WithLabelValues(string(kind)).Inc()
	m.refRequested.WithLabelValues(string(kind)).Add(float64(requested))
	if missing := requested - found; missing > 0 {
		m.refMissing.WithLabelValues(string(kind)).Add(float64(missing))
	}
}

func (m *Metrics) ObserveChange(change domain.Change, err error) {
	if m == nil {
		return
	}
	outcome := "published"
	if err != nil {
		outcome = "failed"
	}
	m.changeEvents.WithLabelValues(string(change.Kind), string(change.Action), outcome).Inc()
}
