package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/userboard/internal/background"
	"github.com/BradenHooton/userboard/internal/config"
	"github.com/BradenHooton/userboard/internal/database"
	"github.com/BradenHooton/userboard/internal/handlers"
	middlewareCustom "github.com/BradenHooton/userboard/internal/middleware"
	"github.com/BradenHooton/userboard/internal/repositories"
	"github.com/BradenHooton/userboard/internal/routes"
	"github.com/BradenHooton/userboard/internal/services"
	"github.com/BradenHooton/userboard/internal/upstream"
	pkghttp "github.com/BradenHooton/userboard/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("upstream", cfg.Upstream.URL),
		slog.String("token_store", cfg.TokenStore.Backend),
	)

	// Revalidation token store
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	tokens, healthChecks, closeTokens, err := newTokenStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to initialize token store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeTokens()

	// Upstream client and user store
	fetcher := upstream.NewClient(cfg.Upstream.URL, &http.Client{Timeout: cfg.Upstream.Timeout})
	store := services.NewUserStore(fetcher, tokens, logger, services.UserStoreConfig{TTL: cfg.Cache.TTL})

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(store, logger, cfg.Cache.PruneInterval)

	// Initialize handlers
	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)
	userHandler := handlers.NewUserHandler(store, cfg.Cache.PageSize, logger, ipConfig)
	healthHandler := handlers.NewHealthHandler(healthChecks, logger)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	// Register routes
	routes.RegisterRoutes(router, userHandler, healthHandler, middlewareCustom.RateLimitConfig{
		RequestsPerMinute: cfg.Cache.AdminRateLimit,
		IPConfig:          ipConfig,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// newTokenStore opens the configured revalidation token backend and returns
// it with its health checks and a close function
func newTokenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.TokenStore, map[string]handlers.HealthChecker, func(), error) {
	switch cfg.TokenStore.Backend {
	case config.TokenStorePostgres:
		db, err := database.NewConnection(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repositories.NewClientStateRepository(db),
			map[string]handlers.HealthChecker{"database": db},
			db.Close,
			nil

	case config.TokenStoreRedis:
		pool := repositories.NewRedisPool(cfg.Redis.Addr)
		repo := repositories.NewRedisStateRepository(pool, cfg.Redis.KeyPrefix)
		if err := repo.HealthCheck(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		logger.Info("redis connection established", slog.String("addr", cfg.Redis.Addr))
		return repo,
			map[string]handlers.HealthChecker{"redis": repo},
			func() { _ = pool.Close() },
			nil

	default:
		return repositories.NewMemoryStateRepository(), nil, func() {}, nil
	}
}
