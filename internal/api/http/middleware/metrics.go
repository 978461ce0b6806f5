package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	metricsPath    = "/metrics"
	unmatchedRoute = "unmatched"
)

// RequestObserver records finished HTTP requests.
type RequestObserver interface {
	ObserveHTTPRequest(method, endpoint string, status int, d time.Duration)
}

// Metrics reports request counts and latencies per route pattern.
type Metrics struct {
	observer RequestObserver
}

// NewMetrics creates a new Metrics middleware.
func NewMetrics(observer RequestObserver) *Metrics {
	return &Metrics{observer: observer}
}

// Handle observes every request except scrapes of the metrics endpoint.
// Must be mounted on the root router so the route pattern is resolved after next returns.
func (m *Metrics) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == metricsPath {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		endpoint := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}

		m.observer.ObserveHTTPRequest(r.Method, endpoint, status, time.Since(start))
	})
}
