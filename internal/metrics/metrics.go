// Package metrics exposes Prometheus collectors for the auth service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1.0, 2.5, 5.0, 7.5, 10.0}

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	registrations   prometheus.Counter
	logins          *prometheus.CounterVec
	tokensGenerated prometheus.Counter
}

// New registers all collectors. version is published on auth_service_info.
func New(version string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: durationBuckets,
		}, []string{"method", "endpoint"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "Total number of user registrations",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "user_logins_total",
			Help: "Total number of user logins",
		}, []string{"status"}),
		tokensGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokens_generated_total",
			Help: "Total number of tokens generated",
		}),
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "auth_service_info",
		Help:        "Authentication service information",
		ConstLabels: prometheus.Labels{"version": version},
	})
	info.Set(1)

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.registrations,
		m.logins,
		m.tokensGenerated,
		info,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records one finished request. endpoint is the route pattern.
func (m *Metrics) ObserveHTTPRequest(method, endpoint string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func (m *Metrics) UserRegistered() {
	m.registrations.Inc()
}

func (m *Metrics) LoginAttempt(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	m.logins.WithLabelValues(status).Inc()
}

func (m *Metrics) TokensIssued(n int) {
	m.tokensGenerated.Add(float64(n))
}
