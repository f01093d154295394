// Package observability provides structured logging, Prometheus metrics,
// health checks, OpenTelemetry setup, and graceful shutdown for the
// backoffice service.
//
// # Logging
//
// Logger wraps slog with a JSON handler and context plumbing:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	observability.FromContext(ctx).WithError(err).Error("listing organizations failed")
//
// # Metrics
//
// Metrics are registered on a dedicated registry and exposed on the health
// port via observability.Handler. Database pool gauges are refreshed by a
// cron job in the server binary.
//
// # Health
//
// /health/live is a plain liveness probe; /health and /health/ready ping the
// database and, when configured, Redis. Redis failures report degraded, not
// unhealthy, since it only backs rate limiting.
package observability
