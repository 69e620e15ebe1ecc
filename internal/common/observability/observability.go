// internal/common/observability/observability.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Observability bundles the OTel meter and tracer used by the pipeline. Spans
// are recorded per pipeline step; counters mirror the Prometheus metrics at
// the OTel layer for exporters that want them.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         oteltrace.Tracer
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
}

func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	o.meterProvider = provider

	meter := provider.Meter(serviceName)
	o.runCounter, _ = meter.Int64Counter(
		"analysis.runs",
		otelmetric.WithDescription("Number of analysis runs processed"),
	)
	o.runDuration, _ = meter.Float64Histogram(
		"analysis.run.duration",
		otelmetric.WithDescription("Analysis run duration"),
		otelmetric.WithUnit("ms"),
	)

	if jaegerEndpoint != "" {
		traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
		} else {
			tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
			otel.SetTracerProvider(tp)
			o.tracerProvider = tp
		}
	}
	o.tracer = otel.Tracer(serviceName)

	return o
}

// StartSpan opens a span for one pipeline step.
func (o *Observability) StartSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	if o.tracer == nil {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name)
}

func (o *Observability) RecordRun(ctx context.Context, status string) {
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordRunDuration(ctx context.Context, duration time.Duration, status string) {
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		o.tracerProvider.Shutdown(ctx)
	}
}
