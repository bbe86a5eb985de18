package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/api/handler"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name       string
		ping       error
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"ready", nil, http.StatusOK, "status", "ready"},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable, "detail", "database not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.ReadyCheck(pingerFunc(func(context.Context) error { return tt.ping }))

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantValue, body[tt.wantKey])
		})
	}
}
