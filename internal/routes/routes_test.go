package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userboard/internal/handlers"
	"github.com/BradenHooton/userboard/internal/middleware"
	"github.com/BradenHooton/userboard/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newRouter(store handlers.UserStore, perMinute int) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	RegisterRoutes(
		router,
		handlers.NewUserHandler(store, 10, logger, nil),
		handlers.NewHealthHandler(nil, logger),
		middleware.RateLimitConfig{RequestsPerMinute: perMinute},
	)
	return router
}

func TestRegisterRoutes(t *testing.T) {
	store := &handlers.MockUserStore{
		FetchAllUsersFunc: func(ctx context.Context) ([]models.UserRecord, error) {
			return handlers.NewTestUsers(3), nil
		},
	}
	router := newRouter(store, 10)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/users", http.StatusOK},
		{"GET", "/users/search?search=a", http.StatusOK},
		{"GET", "/users/state", http.StatusOK},
		{"POST", "/cache/clear", http.StatusNoContent},
		{"POST", "/cache/invalidate", http.StatusNoContent},
		{"GET", "/cache/clear", http.StatusMethodNotAllowed},
		{"DELETE", "/users", http.StatusMethodNotAllowed},
		{"GET", "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRegisterRoutes_CacheEndpointsRateLimited(t *testing.T) {
	router := newRouter(&handlers.MockUserStore{}, 2)

	codes := make([]int, 0, 3)
	for _, path := range []string{"/cache/clear", "/cache/invalidate", "/cache/clear"} {
		req := httptest.NewRequest("POST", path, nil)
		req.RemoteAddr = "198.51.100.20:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRegisterRoutes_ViewsNotRateLimited(t *testing.T) {
	router := newRouter(&handlers.MockUserStore{}, 1)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/users/state", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
