package render

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/auth-service/internal/api/apierror"
	"github.com/dtroode/auth-service/internal/logger"
)

// ErrorResponse is the body of every failed HTTP request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// JSON writes v as a JSON body with the given status.
func JSON(w http.ResponseWriter, log *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// Error maps err to its client-facing status and writes it as an ErrorResponse.
func Error(w http.ResponseWriter, log *logger.Logger, err error) {
	apiErr := apierror.FromError(err)
	if apiErr.HTTPStatus == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	JSON(w, log, apiErr.HTTPStatus, ErrorResponse{
		Error:  http.StatusText(apiErr.HTTPStatus),
		Detail: apiErr.Message,
	})
}

// Status writes an ErrorResponse for status with the given detail.
func Status(w http.ResponseWriter, log *logger.Logger, status int, detail string) {
	JSON(w, log, status, ErrorResponse{
		Error:  http.StatusText(status),
		Detail: detail,
	})
}
