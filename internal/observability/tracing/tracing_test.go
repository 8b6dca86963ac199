package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := Init(context.Background(), nil, "rent-manager", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampleRatio(t *testing.T) {
	for raw, want := range map[string]float64{"": 1, "abc": 1, "0.25": 0.25, "-1": 0, "7": 1} {
		t.Setenv("TRACE_SAMPLE_RATIO", raw)
		assert.Equal(t, want, sampleRatio(), raw)
	}
}

func TestFailMarksSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	_, span := tp.Tracer("t").Start(context.Background(), "ok")
	Fail(span, nil)
	span.End()
	_, span = tp.Tracer("t").Start(context.Background(), "bad")
	Fail(span, errors.New("lock held"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "lock held", ended[1].Status().Description)
}
