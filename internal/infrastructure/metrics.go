package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// HTTPMetrics holds request instruments used by the HTTP middleware
type HTTPMetrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics creates HTTP instruments on meter
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
		ActiveRequests:  activeRequests,
	}, nil
}

// FetchMetrics holds instruments describing snapshot refreshes
type FetchMetrics struct {
	FetchesTotal  metric.Int64Counter
	FetchDuration metric.Float64Histogram
	RowsIngested  metric.Int64Counter
	RowsDropped   metric.Int64Counter
}

// NewFetchMetrics creates refresh instruments on meter
func NewFetchMetrics(meter metric.Meter) (*FetchMetrics, error) {
	fetchesTotal, err := meter.Int64Counter(
		"snapshot_fetches_total",
		metric.WithDescription("Snapshot fetch attempts by mode and outcome"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		"snapshot_fetch_duration_seconds",
		metric.WithDescription("Duration of a single fetch attempt"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsIngested, err := meter.Int64Counter(
		"snapshot_rows_ingested_total",
		metric.WithDescription("Normalized rows accepted from the source"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"snapshot_rows_dropped_total",
		metric.WithDescription("Physical rows dropped for lacking a usable identifier"),
	)
	if err != nil {
		return nil, err
	}

	return &FetchMetrics{
		FetchesTotal:  fetchesTotal,
		FetchDuration: fetchDuration,
		RowsIngested:  rowsIngested,
		RowsDropped:   rowsDropped,
	}, nil
}

// NoopFetchMetrics returns instruments that record nothing
func NoopFetchMetrics() *FetchMetrics {
	m, _ := NewFetchMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordFetch records one fetch attempt. outcome is "success" or the failure kind.
func (m *FetchMetrics) RecordFetch(ctx context.Context, mode, outcome string, duration time.Duration, accepted, dropped int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	)
	m.FetchesTotal.Add(ctx, 1, attrs)
	m.FetchDuration.Record(ctx, duration.Seconds(), attrs)

	if outcome == "success" {
		modeAttr := metric.WithAttributes(attribute.String("mode", mode))
		m.RowsIngested.Add(ctx, int64(accepted), modeAttr)
		m.RowsDropped.Add(ctx, int64(dropped), modeAttr)
	}
}
