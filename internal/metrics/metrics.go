package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "affiliates"

// Metrics holds the collectors of one registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	ImportsTotal *prometheus.CounterVec
	ImportedRows *prometheus.CounterVec

	ComputeDuration      prometheus.Histogram
	CacheLookups         *prometheus.CounterVec
	SuspiciousAffiliates prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ImportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Import attempts by kind and result.",
		}, []string{"kind", "result"}),
		ImportedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_rows_total",
			Help:      "Rows persisted by import kind.",
		}, []string{"kind"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent in the analytics engine per computation.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome (hit, miss, error).",
		}, []string{"result"}),
		SuspiciousAffiliates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suspicious_affiliates",
			Help:      "Affiliates on the suspicious list at the last computation.",
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ImportsTotal,
		m.ImportedRows,
		m.ComputeDuration,
		m.CacheLookups,
		m.SuspiciousAffiliates,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveImport(kind, result string, rows int) {
	if m == nil {
		return
	}
	m.ImportsTotal.WithLabelValues(kind, result).Inc()
	if rows > 0 {
		m.ImportedRows.WithLabelValues(kind).Add(float64(rows))
	}
}

func (m *Metrics) ObserveCompute(seconds float64, suspicious int) {
	if m == nil {
		return
	}
	m.ComputeDuration.Observe(seconds)
	m.SuspiciousAffiliates.Set(float64(suspicious))
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}
