// Package observability owns the OpenTelemetry meter and tracer providers.
package observability

import (
	"context"
	"errors"
	"time"

	"unit-converter-skill/internal/common/logger"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "unit-converter-skill"

type options struct {
	jaegerEndpoint string
	sampleRatio    float64
	registerer     promclient.Registerer
	spanProcessors []sdktrace.SpanProcessor
}

// Option configures New.
type Option func(*options)

// WithJaegerEndpoint exports spans to a Jaeger collector. Empty disables export.
func WithJaegerEndpoint(endpoint string) Option {
	return func(o *options) { o.jaegerEndpoint = endpoint }
}

// WithSampleRatio sets the parent-based trace sampling ratio.
func WithSampleRatio(ratio float64) Option {
	return func(o *options) { o.sampleRatio = ratio }
}

// WithRegisterer registers the OpenTelemetry collector somewhere other than
// the default Prometheus registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSpanProcessor adds a span processor, e.g. tracetest.SpanRecorder.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessors = append(o.spanProcessors, sp) }
}

type Observability struct {
	meterProvider   *metric.MeterProvider
	tracerProvider  *sdktrace.TracerProvider
	meter           otelmetric.Meter
	tracer          trace.Tracer
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
}

func New(serviceName string, log logger.Logger, opts ...Option) *Observability {
	o := options{sampleRatio: 1}
	for _, opt := range opts {
		opt(&o)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	obs := &Observability{}

	promOpts := []prometheus.Option{}
	if o.registerer != nil {
		promOpts = append(promOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(promOpts...)
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
	} else {
		obs.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
		otel.SetMeterProvider(obs.meterProvider)
		obs.meter = obs.meterProvider.Meter(instrumentationName)

		obs.requestCounter, _ = obs.meter.Int64Counter(
			"skill.dispatch.requests",
			otelmetric.WithDescription("Number of skill requests dispatched"),
		)
		obs.requestDuration, _ = obs.meter.Float64Histogram(
			"skill.dispatch.duration",
			otelmetric.WithDescription("Skill request dispatch duration"),
			otelmetric.WithUnit("ms"),
		)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.sampleRatio))),
	}
	if o.jaegerEndpoint != "" {
		jexp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(o.jaegerEndpoint)))
		if err != nil {
			log.Warn("failed to create jaeger exporter", map[string]interface{}{
				"endpoint": o.jaegerEndpoint,
				"error":    err.Error(),
			})
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(jexp))
		}
	}
	for _, sp := range o.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	obs.tracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(obs.tracerProvider)
	obs.tracer = obs.tracerProvider.Tracer(instrumentationName)

	return obs
}

// Tracer never returns nil; a nil Observability yields a no-op tracer.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return o.tracer
}

func (o *Observability) RecordRequest(ctx context.Context, category, localeClass, outcome string) {
	if o == nil || o.requestCounter == nil {
		return
	}
	o.requestCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("category", category),
		attribute.String("locale_class", localeClass),
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, duration time.Duration, category string) {
	if o == nil || o.requestDuration == nil {
		return
	}
	o.requestDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("category", category),
	))
}

// Shutdown flushes pending spans and stops both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
