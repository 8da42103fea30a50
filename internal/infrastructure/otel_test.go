package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestOTelInitialization(t *testing.T) {
	var traces bytes.Buffer
	logger := NewLogger(&bytes.Buffer{}, "info")

	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceWriter = &traces

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)
	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Registry)

	_, span := providers.Tracer.Start(context.Background(), "single-use-filter")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(ctx))
	assert.Contains(t, traces.String(), "single-use-filter")
}

func TestOTelInitialization_Disabled(t *testing.T) {
	cfg := &OTelConfig{ServiceName: ServiceName, ServiceVersion: ServiceVersion}
	providers, err := InitializeOTel(cfg, NewLogger(&bytes.Buffer{}, "info"))
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.Error(t, providers.WriteMetrics(filepath.Join(t.TempDir(), "m.prom")))
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestPipelineMetrics_WriteMetrics(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), NewLogger(&bytes.Buffer{}, "info"))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("stage", "livability_filter"))
	metrics.StageRuns.Add(ctx, 1, attrs)
	metrics.RowsDropped.Add(ctx, 12, attrs)
	metrics.StageDuration.Record(ctx, 0.25, attrs)

	path := filepath.Join(t.TempDir(), "wrangle.prom")
	require.NoError(t, providers.WriteMetrics(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "wrangle_rows_dropped_total")
	assert.Contains(t, string(content), `stage="livability_filter"`)
}

func TestRecordErrorWithoutSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(context.Background(), errors.New("boom"))
		SetSpanAttributes(context.Background(), map[string]interface{}{"rows": 3})
	})
}
