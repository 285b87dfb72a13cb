package routes

import (
	"github.com/BradenHooton/userboard/internal/handlers"
	"github.com/BradenHooton/userboard/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	cacheRateLimit middleware.RateLimitConfig,
) {
	router.Get("/health", healthHandler.Health)

	// Read-only views
	userHandler.RegisterRoutes(router)

	// Cache administration is rate limited per client IP
	router.Route("/cache", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(cacheRateLimit))
		r.Post("/clear", userHandler.ClearCache)
		r.Post("/invalidate", userHandler.InvalidateCache)
	})
}
