package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability records per-action OpenTelemetry metrics, exported through
// the Prometheus registry, and opens one span per action.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	actionCounter  otelmetric.Int64Counter
	actionDuration otelmetric.Float64Histogram
}

// New never fails: without an exporter the recorders are no-ops.
func New(serviceName string) *Observability {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())))
	otel.SetTracerProvider(tp)
	o := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}

	exporter, err := prometheus.New()
	if err != nil {
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	o.meterProvider = provider
	o.actionCounter, _ = meter.Int64Counter(
		"actions.processed",
		otelmetric.WithDescription("Number of API actions processed"),
	)
	o.actionDuration, _ = meter.Float64Histogram(
		"actions.duration",
		otelmetric.WithDescription("API action processing duration"),
		otelmetric.WithUnit("ms"),
	)
	return o
}

// NewNoop returns recorders that drop everything.
func NewNoop() *Observability {
	return &Observability{}
}

// StartAction opens the span covering one action. The returned end func
// marks the span failed when err is non-nil.
func (o *Observability) StartAction(ctx context.Context, action, userID string) (context.Context, func(err error)) {
	var tracer trace.Tracer = noop.NewTracerProvider().Tracer("")
	if o != nil && o.tracer != nil {
		tracer = o.tracer
	}
	ctx, span := tracer.Start(ctx, "action "+action,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("action", action),
			attribute.String("user.id", userID),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (o *Observability) RecordAction(ctx context.Context, action, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("action", action),
		attribute.String("status", status),
	)
	if o.actionCounter != nil {
		o.actionCounter.Add(ctx, 1, attrs)
	}
	if o.actionDuration != nil {
		o.actionDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
