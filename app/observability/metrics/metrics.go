package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	TripPlansTotal          metric.Int64Counter
	TripPlanDurationSeconds metric.Float64Histogram
	UpstreamRequestsTotal   metric.Int64Counter
	UpstreamDurationSeconds metric.Float64Histogram
	PhotoLookupsTotal       metric.Int64Counter
	DbQueryErrorsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the instruments once, from the global
// MeterProvider. Call it after the provider is installed so the instruments
// export through it.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("trippy")
		var err error
		m := &AppMetrics{}

		m.TripPlansTotal, err = meter.Int64Counter(
			"trip_plans_total",
			metric.WithDescription("Trip plan requests by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_plans_total: %v", err)
		}

		m.TripPlanDurationSeconds, err = meter.Float64Histogram(
			"trip_plan_duration_seconds",
			metric.WithDescription("End to end trip plan duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_plan_duration_seconds: %v", err)
		}

		m.UpstreamRequestsTotal, err = meter.Int64Counter(
			"upstream_requests_total",
			metric.WithDescription("Outbound provider calls by provider and outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_requests_total: %v", err)
		}

		m.UpstreamDurationSeconds, err = meter.Float64Histogram(
			"upstream_duration_seconds",
			metric.WithDescription("Outbound provider call latency"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_duration_seconds: %v", err)
		}

		m.PhotoLookupsTotal, err = meter.Int64Counter(
			"photo_lookups_total",
			metric.WithDescription("Photo lookups by the source that answered"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create photo_lookups_total: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, initializing them against whatever provider is
// installed if InitAppMetrics was never called (tests).
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}

func (m *AppMetrics) RecordUpstream(ctx context.Context, provider, outcome string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	)
	m.UpstreamRequestsTotal.Add(ctx, 1, attrs)
	m.UpstreamDurationSeconds.Record(ctx, seconds, metric.WithAttributes(attribute.String("provider", provider)))
}

func (m *AppMetrics) RecordTripPlan(ctx context.Context, outcome string, seconds float64) {
	m.TripPlansTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.TripPlanDurationSeconds.Record(ctx, seconds)
}

func (m *AppMetrics) RecordPhotoLookup(ctx context.Context, source string) {
	m.PhotoLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (m *AppMetrics) RecordDBError(ctx context.Context, operation string) {
	m.DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
