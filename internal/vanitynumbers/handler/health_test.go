package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanity/pkg/logger"
)

func TestHealthHandler(t *testing.T) {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	healthy := Check{Name: "database", Fn: func(context.Context) error { return nil }}
	broken := Check{Name: "cache", Fn: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name       string
		checks     []Check
		path       string
		wantStatus int
		wantBody   HealthResponse
	}{
		{name: "liveness ignores checks", checks: []Check{broken}, path: "/health", wantStatus: http.StatusOK, wantBody: HealthResponse{Status: "ok"}},
		{name: "ready", checks: []Check{healthy}, path: "/ready", wantStatus: http.StatusOK,
			wantBody: HealthResponse{Status: "ready", Checks: map[string]string{"database": "ok"}}},
		{name: "not ready", checks: []Check{healthy, broken}, path: "/ready", wantStatus: http.StatusServiceUnavailable,
			wantBody: HealthResponse{Status: "unavailable", Checks: map[string]string{"database": "ok", "cache": "error"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(log, tt.checks...).RegisterRoutes(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var got HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
