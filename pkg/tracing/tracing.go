// Package tracing sets up OpenTelemetry tracing for proton and offers the
// helpers the column layer uses to record spans.
//
// Spans are always created through the global tracer provider unless a
// caller passes its own. Without NewProvider the global provider is a no-op,
// so tracing costs nothing until it is enabled.
package tracing

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/protondb/proton/pkg/errors"
)

// InstrumentationName identifies proton spans.
const InstrumentationName = "github.com/protondb/proton"

// Config contains tracing configuration
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Exporter is "stdout" or "none". "none" samples spans but drops them.
	Exporter     string  `yaml:"exporter" mapstructure:"exporter"`
	SamplingRate float64 `yaml:"sampling_rate" mapstructure:"sampling_rate"`
	ServiceName  string  `yaml:"service_name" mapstructure:"service_name"`
}

// DefaultConfig returns tracing disabled, sampling every trace once enabled.
func DefaultConfig() Config {
	return Config{
		Exporter:     "stdout",
		SamplingRate: 1,
		ServiceName:  "proton",
	}
}

// Validate checks the exporter name and sampling rate.
func (c Config) Validate() error {
	switch c.Exporter {
	case "stdout", "none":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "tracing.exporter must be stdout or none, got %q", c.Exporter)
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "tracing.sampling_rate must be within [0, 1], got %g", c.SamplingRate)
	}
	return nil
}

// NewProvider builds a tracer provider for cfg. The stdout exporter writes
// pretty printed spans to w. The caller must Shutdown the provider to flush
// buffered spans.
func NewProvider(cfg Config, w io.Writer, version string) (*sdktrace.TracerProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", version),
	)

	var sampler sdktrace.Sampler
	switch {
	case cfg.SamplingRate <= 0:
		sampler = sdktrace.NeverSample()
	case cfg.SamplingRate >= 1:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	}
	if cfg.Exporter == "stdout" {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create stdout exporter")
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

// Install makes tp the global tracer provider and returns a function that
// flushes tp and turns tracing off again.
func Install(tp *sdktrace.TracerProvider) func(context.Context) error {
	otel.SetTracerProvider(tp)
	return func(ctx context.Context) error {
		otel.SetTracerProvider(noop.NewTracerProvider())
		if err := tp.Shutdown(ctx); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to flush traces")
		}
		return nil
	}
}

// Tracer returns the proton tracer of tp, or of the global provider when tp
// is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}

// End marks span as failed when err is set and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
