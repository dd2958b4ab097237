// Package observability provides structured logging, Prometheus
// metrics, OpenTelemetry export, health checks and graceful shutdown.
//
// # Logging
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("tenant_id", id).Info("tenant created")
//
// Request-scoped logging goes through the context:
//
//	observability.FromContext(ctx).Warn("profile lookup failed")
//
// # Metrics
//
// Prometheus metrics register against an explicit registry so tests can
// use isolated ones:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.AuthDenialsTotal.WithLabelValues("no_tenant").Inc()
//
// The OTel instruments in metrics_otel.go mirror the key series for
// OTLP collection; enable them with InitOTel.
//
// # Health
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	observability.RegisterHealthRoutes(mux, checker)
//
// Postgres failing makes readiness return 503; Redis failing only
// degrades, since rate limiting falls back to local limiters.
package observability
