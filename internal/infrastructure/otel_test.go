package infrastructure

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"safetypulse/internal/config"
)

func TestInitializeOTelDisabled(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: "test",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "none",
	}, NewLogger(&buf, "info"))
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelUnsupportedExporter(t *testing.T) {
	var buf bytes.Buffer
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger", MetricExporter: "none"}, NewLogger(&buf, "info"))
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "statsd"}, NewLogger(&buf, "info"))
	assert.Error(t, err)
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		Environment:    "production",
		TraceExporter:  "stdout",
		MetricExporter: "prometheus",
		SampleRatio:    0.5,
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 0.5, cfg.SampleRatio)
}

func TestFetchMetricsRecordFetch(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	m, err := NewFetchMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordFetch(ctx, "foreground", "success", 150*time.Millisecond, 40, 2)
	m.RecordFetch(ctx, "background", "TIMEOUT", 10*time.Second, 0, 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if data, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(2), sums["snapshot_fetches_total"])
	assert.Equal(t, int64(40), sums["snapshot_rows_ingested_total"])
	assert.Equal(t, int64(2), sums["snapshot_rows_dropped_total"])
}

func TestFetchMetricsNil(t *testing.T) {
	var m *FetchMetrics
	assert.NotPanics(t, func() {
		m.RecordFetch(context.Background(), "foreground", "success", time.Second, 1, 0)
	})
	assert.NotNil(t, NoopFetchMetrics())
}
