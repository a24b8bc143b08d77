package telemetry

import (
	"context"
	"testing"

	"users-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestSetupWithEndpoint(t *testing.T) {
	// the gRPC exporter connects lazily, so no collector is needed here
	shutdown, err := Setup(context.Background(), config.TracingConfig{
		Endpoint:    "localhost:4317",
		ServiceName: "users-api-test",
		Insecure:    true,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
