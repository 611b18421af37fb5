package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/vehicle-equity-go/internal/logging"
)

func TestInitTracingWithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	tracer, shutdown, err := InitTracing(ctx, "", "vehicle-equity-test", logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(ctx, "settlement")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}
