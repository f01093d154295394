// The backoffice server exposes platform-admin HTTP endpoints for managing
// organizations and browsing users. It serves the admin API on one port and
// health/metrics endpoints on another.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/oasishq/backoffice/pkg/auth"
	"github.com/oasishq/backoffice/pkg/backoffice"
	"github.com/oasishq/backoffice/pkg/config"
	"github.com/oasishq/backoffice/pkg/database"
	"github.com/oasishq/backoffice/pkg/httputil"
	"github.com/oasishq/backoffice/pkg/middleware"
	"github.com/oasishq/backoffice/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(parseLogLevel(cfg.Observability.LogLevel), os.Stdout)
	ctx := context.Background()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("backoffice server exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *observability.Logger) error {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connection established")

	if err := backoffice.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return err
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		logger.Info("redis rate limiting enabled")
	}

	var verifier auth.TokenVerifier
	if cfg.Auth.SkipVerify {
		logger.Warn("token signature verification is DISABLED, do not use in production")
		verifier = auth.InsecureVerifier{}
	} else {
		verifier, err = auth.NewOIDCVerifier(ctx, cfg.Auth)
		if err != nil {
			return err
		}
	}

	otelProviders, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Refresh connection pool gauges on a fixed schedule
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 15s", func() {
		metrics.UpdateDBStats(db.Stats())
	}); err != nil {
		return err
	}
	scheduler.Start()

	profiles := auth.NewProfileStore(db)
	store := backoffice.NewStore(db, metrics)
	handlers := backoffice.NewHandlers(store)

	apiServer := buildAPIServer(cfg, logger, metrics, verifier, profiles, redisClient, handlers)
	healthServer := buildHealthServer(cfg, db, redisClient, registry)

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	shutdown.RegisterShutdownFunc(func(shutdownCtx context.Context) error {
		stopCtx := scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-shutdownCtx.Done():
		}
		return nil
	})
	if otelProviders != nil {
		shutdown.RegisterShutdownFunc(func(shutdownCtx context.Context) error {
			return observability.ShutdownOTel(shutdownCtx, otelProviders, logger)
		})
	}

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("API server listening on %s", cfg.Server.Addr())
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Infof("health server listening on %s", cfg.Server.HealthAddr())
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return shutdown.WaitForShutdown()
	})

	return group.Wait()
}

func buildAPIServer(
	cfg *config.Config,
	logger *observability.Logger,
	metrics *observability.Metrics,
	verifier auth.TokenVerifier,
	profiles *auth.ProfileStore,
	redisClient *redis.Client,
	handlers *backoffice.Handlers,
) *http.Server {
	router := mux.NewRouter()

	adminRouter := router.PathPrefix("/api/v1/backoffice").Subrouter()
	adminRouter.Use(middleware.NewAuthMiddleware(verifier).Handler)
	if redisClient != nil {
		limiter := middleware.NewDistributedRateLimiter(redisClient, &middleware.RateLimitConfig{
			RequestsPerWindow: cfg.Redis.RateLimit,
			WindowDuration:    cfg.Redis.RateWindow,
		}, "backoffice:ratelimit")
		adminRouter.Use(limiter.Handler)
	}
	adminRouter.Use(middleware.NewPlatformAdminGuard(profiles, metrics).Handler)
	handlers.RegisterRoutes(adminRouter)

	var handler http.Handler = router
	handler = httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		metrics.HTTPMiddleware,
	)(handler)
	if cfg.Observability.OTelEnabled {
		handler = otelhttp.NewHandler(handler, cfg.Observability.ServiceName)
	}

	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func buildHealthServer(cfg *config.Config, db *sql.DB, redisClient *redis.Client, registry *prometheus.Registry) *http.Server {
	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, redisClient))
	healthMux.Handle("/metrics", observability.Handler(registry))

	return &http.Server{
		Addr:         cfg.Server.HealthAddr(),
		Handler:      healthMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}
