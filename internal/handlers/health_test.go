package handlers_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userboard/internal/handlers"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		checks     map[string]handlers.HealthChecker
		wantStatus int
		wantBody   string
	}{
		{"no components", nil, http.StatusOK, `{"status":"healthy"}`},
		{
			"token store up",
			map[string]handlers.HealthChecker{"token_store": &handlers.MockHealthChecker{}},
			http.StatusOK,
			`{"status":"healthy","components":{"token_store":"up"}}`,
		},
		{
			"token store down",
			map[string]handlers.HealthChecker{"token_store": &handlers.MockHealthChecker{Err: errors.New("timeout")}},
			http.StatusServiceUnavailable,
			`{"status":"unhealthy","components":{"token_store":"down"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.checks, logger)
			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest("GET", "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
