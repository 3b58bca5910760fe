package tracing

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/protondb/proton/pkg/errors"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	for name, cfg := range map[string]Config{
		"exporter": {Exporter: "jaeger", SamplingRate: 1},
		"negative": {Exporter: "stdout", SamplingRate: -0.1},
		"above":    {Exporter: "none", SamplingRate: 1.5},
	} {
		err := cfg.Validate()
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), name)
	}
}

func TestStdoutProvider(t *testing.T) {
	var out bytes.Buffer
	tp, err := NewProvider(DefaultConfig(), &out, "1.2.3")
	require.NoError(t, err)

	_, span := Tracer(tp).Start(context.Background(), "unit")
	End(span, nil)
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, out.String(), `"Name": "unit"`)
	assert.Contains(t, out.String(), "1.2.3")
}

func TestNeverSample(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.SamplingRate = 0
	tp, err := NewProvider(cfg, &out, "dev")
	require.NoError(t, err)

	_, span := Tracer(tp).Start(context.Background(), "unit")
	assert.False(t, span.SpanContext().IsSampled())
	End(span, nil)
	require.NoError(t, tp.Shutdown(context.Background()))
	assert.Empty(t, out.String())
}

func TestEndRecordsError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	_, span := Tracer(tp).Start(context.Background(), "failing")
	End(span, stderrors.New("boom"))

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestInstall(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	shutdown := Install(tp)
	_, span := Tracer(nil).Start(context.Background(), "global")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, "global", sr.Ended()[0].Name())

	_, span = Tracer(nil).Start(context.Background(), "after")
	assert.False(t, span.SpanContext().IsValid())
}
