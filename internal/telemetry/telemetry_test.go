package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_RecordsSpansWithoutExporter(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()

	shutdown, err := Setup(context.Background(), Config{ServiceName: "test"}, recorder)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "unit")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "unit", ended[0].Name())

	var name string
	for _, kv := range ended[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			name = kv.Value.AsString()
		}
	}
	assert.Equal(t, "test", name)

	require.NoError(t, shutdown(context.Background()))
}
