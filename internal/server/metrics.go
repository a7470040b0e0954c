package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each instance owns its
// registry so several servers (or tests) can coexist in one process.
type Metrics struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	activeRequests prometheus.Gauge
	calcDuration   *prometheus.HistogramVec
	handler        http.Handler
}

// NewMetrics creates and registers the server collectors plus the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibwasm_requests_total",
			Help: "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fibwasm_active_requests",
			Help: "Requests currently being served.",
		}),
		calcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fibwasm_calculation_duration_seconds",
			Help:    "Fibonacci calculation time by method (native or WASM).",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"method"}),
	}
	reg.MustRegister(
		m.requestsTotal,
		m.activeRequests,
		m.calcDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// IncrementActiveRequests increments the in-flight gauge.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests decrements the in-flight gauge.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// RecordRequest counts one completed request.
func (m *Metrics) RecordRequest(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// ObserveCalculation records the time spent computing one value.
func (m *Metrics) ObserveCalculation(method string, d time.Duration) {
	m.calcDuration.WithLabelValues(method).Observe(d.Seconds())
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
