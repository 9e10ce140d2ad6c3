package observability

import (
	"context"
	"time"

	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	tracerProvider     *sdktrace.TracerProvider
	meter              otelmetric.Meter
	tracer             trace.Tracer
	submissionCounter  otelmetric.Int64Counter
	submissionDuration otelmetric.Float64Histogram
}

// Option customizes New.
type Option func(*options)

type options struct {
	registerer promclient.Registerer
	spanExport sdktrace.SpanExporter
	log        logger.Logger
}

// WithRegisterer registers the exporter on reg instead of the default registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSpanExporter sends finished spans to exp.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) { o.spanExport = exp }
}

func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

func New(serviceName string, opts ...Option) *Observability {
	o := &options{log: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(o)
	}

	tpOpts := []sdktrace.TracerProviderOption{}
	if o.spanExport != nil {
		tpOpts = append(tpOpts, sdktrace.WithSyncer(o.spanExport))
	}
	tracerProvider := sdktrace.NewTracerProvider(tpOpts...)

	obs := &Observability{
		tracerProvider: tracerProvider,
		tracer:         tracerProvider.Tracer(serviceName),
		meter:          noop.NewMeterProvider().Meter(serviceName),
	}

	var expOpts []prometheus.Option
	if o.registerer != nil {
		expOpts = append(expOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(expOpts...)
	if err != nil {
		o.log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	otel.SetTracerProvider(tracerProvider)

	meter := provider.Meter(serviceName)

	submissionCounter, _ := meter.Int64Counter(
		"submissions.processed",
		otelmetric.WithDescription("Number of contract submissions processed"),
	)

	submissionDuration, _ := meter.Float64Histogram(
		"submissions.duration",
		otelmetric.WithDescription("Contract submission duration"),
		otelmetric.WithUnit("ms"),
	)

	obs.meterProvider = provider
	obs.meter = meter
	obs.submissionCounter = submissionCounter
	obs.submissionDuration = submissionDuration
	return obs
}

// StartSpan opens a span as a child of any span already in ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordSubmission(ctx context.Context, status, city string) {
	if o != nil && o.submissionCounter != nil {
		o.submissionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
			attribute.String("city", city),
		))
	}
}

func (o *Observability) RecordDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.submissionDuration != nil {
		o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
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
