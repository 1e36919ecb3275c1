// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the analytics engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap/zapcore"
)

type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	summaryDuration prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	eventsIngested  *prometheus.CounterVec
	logEntries      *prometheus.CounterVec
}

// New builds a Metrics backed by its own registry so several routers can
// coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babylog_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		summaryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "babylog_summary_duration_seconds",
			Help:    "Histogram of analytics summary computation time.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "babylog_summary_cache_hits_total",
			Help: "Total summary cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "babylog_summary_cache_misses_total",
			Help: "Total summary cache misses observed.",
		}),
		eventsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babylog_events_ingested_total",
			Help: "Total events accepted by type.",
		}, []string{"type"}),
		logEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babylog_log_entries_total",
			Help: "Total warn-or-worse log entries by level.",
		}, []string{"level"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.summaryDuration,
		m.cacheHits,
		m.cacheMisses,
		m.eventsIngested,
		m.logEntries,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveSummary(d time.Duration) {
	if m == nil {
		return
	}
	m.summaryDuration.Observe(d.Seconds())
}

func (m *Metrics) EventIngested(eventType string) {
	if m == nil {
		return
	}
	m.eventsIngested.WithLabelValues(eventType).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// LogEntry is a zap hook; pass it with zap.Hooks when building the logger.
func (m *Metrics) LogEntry(e zapcore.Entry) error {
	if m == nil || e.Level < zapcore.WarnLevel {
		return nil
	}
	m.logEntries.WithLabelValues(e.Level.String()).Inc()
	return nil
}
