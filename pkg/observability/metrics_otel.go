package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics holds the OpenTelemetry instruments. They mirror the key
// Prometheus metrics for deployments that collect over OTLP instead of
// scraping.
type OTelMetrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	dbQueriesTotal  metric.Int64Counter
	dbQueryDuration metric.Float64Histogram

	authDecisionsTotal  metric.Int64Counter
	tokenCacheHitsTotal metric.Int64Counter
	tokenCacheMissTotal metric.Int64Counter
}

// NewOTelMetrics creates the instrument set on the global meter.
func NewOTelMetrics() (*OTelMetrics, error) {
	meter := otel.Meter("github.com/TommyLangiano/app-tvn-sub004")

	m := &OTelMetrics{}
	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}

	m.dbQueriesTotal, err = meter.Int64Counter(
		"db.queries.total",
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db queries counter: %w", err)
	}

	m.dbQueryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db duration histogram: %w", err)
	}

	m.authDecisionsTotal, err = meter.Int64Counter(
		"auth.decisions.total",
		metric.WithDescription("Authorization decisions by outcome"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth decisions counter: %w", err)
	}

	m.tokenCacheHitsTotal, err = meter.Int64Counter(
		"token.cache.hits.total",
		metric.WithDescription("Token verification cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache hits counter: %w", err)
	}

	m.tokenCacheMissTotal, err = meter.Int64Counter(
		"token.cache.misses.total",
		metric.WithDescription("Token verification cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache misses counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records one served request.
func (m *OTelMetrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}
	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDBQuery records one database query.
func (m *OTelMetrics) RecordDBQuery(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.Bool("error", err != nil),
	}
	m.dbQueriesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dbQueryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAuthDecision records one authorization decision. outcome is
// "allowed" or the denial reason.
func (m *OTelMetrics) RecordAuthDecision(ctx context.Context, outcome string) {
	m.authDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordTokenCacheHit records a token verification served from cache.
func (m *OTelMetrics) RecordTokenCacheHit(ctx context.Context) {
	m.tokenCacheHitsTotal.Add(ctx, 1)
}

// RecordTokenCacheMiss records a token verification that went to the
// identity provider.
func (m *OTelMetrics) RecordTokenCacheMiss(ctx context.Context) {
	m.tokenCacheMissTotal.Add(ctx, 1)
}
