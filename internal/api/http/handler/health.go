package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/auth-service/internal/api/http/render"
	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
)

const pingTimeout = 2 * time.Second

// Health serves the service index and the health check.
type Health struct {
	pinger  model.Pinger
	version string
	logger  *logger.Logger
}

// NewHealth creates a Health handler. A nil pinger reports the store as healthy.
func NewHealth(pinger model.Pinger, version string, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, version: version, logger: logger}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// IndexResponse is the body of GET /.
type IndexResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Index handles GET /.
func (h *Health) Index(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, h.logger, http.StatusOK, IndexResponse{
		Service: "auth-service",
		Version: h.version,
		Status:  "running",
	})
}

// Health handles GET /health.
func (h *Health) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Error("Health handler: database ping failed",
				"error", err.Error())
			render.JSON(w, h.logger, http.StatusServiceUnavailable, HealthResponse{
				Status: "unhealthy",
				Detail: "database unavailable",
			})
			return
		}
	}

	render.JSON(w, h.logger, http.StatusOK, HealthResponse{Status: "healthy"})
}
