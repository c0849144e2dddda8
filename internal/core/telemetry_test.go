// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/stockhub/internal/config"
)

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, defaultSampleRate, sampleRatio(0))
	assert.Equal(t, defaultSampleRate, sampleRatio(1.5))
	assert.Equal(t, 0.5, sampleRatio(0.5))
	assert.Equal(t, 1.0, sampleRatio(1))
}

func TestServiceAttributesAppendExtra(t *testing.T) {
	attrs := serviceAttributes(
		config.OtelConfig{ServiceName: "stockhub"},
		config.AppConfig{Version: "1.2.3", Environment: "test"},
		[]attribute.KeyValue{attribute.String("store.driver", "memory")},
	)

	got := map[attribute.Key]string{}
	for _, kv := range attrs {
		got[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "stockhub", got["service.name"])
	assert.Equal(t, "1.2.3", got["service.version"])
	assert.Equal(t, "memory", got["store.driver"])
}

func TestNewTelemetryDisabledIsNoop(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), config.OtelConfig{}, config.AppConfig{})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSpanHelpersRecordOnInstalledProvider(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := newTracerProvider(sdktrace.WithSyncer(exporter), resource.Empty(), 1)

	prev := otel.GetTracerProvider()
	install(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	ctx, span := StartSpan(context.Background(), "purchase.checkout",
		attribute.Int64("user_id", 4))
	assert.Len(t, TraceIDFromContext(ctx), 32)

	AddSpanEvent(ctx, "purchase.item", attribute.Int64("asset_id", 5))
	SetSpanError(ctx, ErrNotFound)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "purchase.checkout", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 2)
	assert.Equal(t, "purchase.item", spans[0].Events[0].Name)
}

func TestTraceIDFromContextWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
