package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/donaldgifford/retail-price-tracker/pkg/logger"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), Settings{}, logger.Discard())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	tp, err := NewProvider(context.Background(), Settings{
		Enabled:        true,
		Endpoint:       "127.0.0.1:4317",
		Insecure:       true,
		ServiceName:    "retail-price-tracker",
		ServiceVersion: "test",
		SampleRatio:    1,
	})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "probe")
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// No collector is listening; only the provider lifecycle matters here.
	_ = tp.Shutdown(ctx)
}

func TestNewProvider_ZeroRatioDropsSpans(t *testing.T) {
	t.Parallel()

	tp, err := NewProvider(context.Background(), Settings{
		Endpoint:    "127.0.0.1:4317",
		Insecure:    true,
		ServiceName: "retail-price-tracker",
		SampleRatio: 0,
	})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "probe")
	span.SetAttributes(attribute.String("k", "v"))
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
