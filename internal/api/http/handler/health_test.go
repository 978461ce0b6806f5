package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/auth-service/internal/mocks"
	"github.com/dtroode/auth-service/internal/testutil"
)

func TestHealth_Health(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantBody: "healthy"},
		{name: "database down", pingErr: assert.AnError, wantStatus: http.StatusServiceUnavailable, wantBody: "unhealthy"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pinger := mocks.NewPinger(t)
			pinger.On("Ping", mock.Anything).Return(tt.pingErr).Once()
			h := NewHealth(pinger, "test", testutil.MakeNoopLogger())

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Status)
		})
	}
}

func TestHealth_NilPinger(t *testing.T) {
	h := NewHealth(nil, "test", testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_Index(t *testing.T) {
	h := NewHealth(nil, "1.2.3", testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body IndexResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "auth-service", body.Service)
	assert.Equal(t, "1.2.3", body.Version)
}
