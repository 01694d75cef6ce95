package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"tabviz/internal/config"
	"tabviz/pkg/contracts/domain"
)

// MeterName is the instrumentation scope for tracers and meters
const MeterName = "tabviz"

// Telemetry holds the OpenTelemetry providers and instruments of one run.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider // nil when tracing is off
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Registry       *prom.Registry
	Logger         *slog.Logger

	stage       string
	metricsFile string

	filesScanned  metric.Int64Counter
	itemsSkipped  metric.Int64Counter
	imagesWritten metric.Int64Counter
}

// TelemetryOption customizes InitializeTelemetry
type TelemetryOption func(*telemetryOptions)

type telemetryOptions struct {
	traceWriter io.Writer
}

// WithTraceWriter sends stdout-exported spans to w instead of stderr
func WithTraceWriter(w io.Writer) TelemetryOption {
	return func(o *telemetryOptions) {
		o.traceWriter = w
	}
}

// InitializeTelemetry sets up tracing and metrics for a pipeline stage.
func InitializeTelemetry(cfg config.TelemetryConfig, stage string, logger *slog.Logger, opts ...TelemetryOption) (*Telemetry, error) {
	options := telemetryOptions{traceWriter: os.Stderr}
	for _, opt := range opts {
		opt(&options)
	}
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.AppName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("tabviz.stage", stage),
	)

	t := &Telemetry{
		Logger:      logger,
		stage:       stage,
		metricsFile: cfg.MetricsFile,
	}

	if err := t.initializeTracing(cfg, res, options); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("stage", stage),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// initializeTracing sets up the tracer provider for the configured exporter
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, options telemetryOptions) error {
	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(options.traceWriter),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "", "none":
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

// initializeMetrics wires the Prometheus exporter to a private registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = prom.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.Registry),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	meter := t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	if t.filesScanned, err = meter.Int64Counter("tabviz.files.scanned",
		metric.WithDescription("Tabular files inspected by a stage")); err != nil {
		return err
	}
	if t.itemsSkipped, err = meter.Int64Counter("tabviz.items.skipped",
		metric.WithDescription("Files or entries skipped, by reason code")); err != nil {
		return err
	}
	if t.imagesWritten, err = meter.Int64Counter("tabviz.images.written",
		metric.WithDescription("Chart images written")); err != nil {
		return err
	}
	return nil
}

// StartSpan starts a span tagged with the stage name
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("tabviz.stage", t.stage))
	if runID := GetRunID(ctx); runID != "" {
		attrs = append(attrs, attribute.String("tabviz.run_id", runID))
	}
	return t.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// StartItemSpan starts a child of the span in ctx for one processed item.
// Without a recording parent the returned span is a no-op.
func StartItemSpan(ctx context.Context, name, item string) (context.Context, trace.Span) {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer(MeterName)
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("tabviz.item", item)))
}

// EndItemSpan marks span with the skip, if any, and ends it
func EndItemSpan(span trace.Span, skip *domain.Skip) {
	if skip != nil {
		span.SetAttributes(attribute.String("tabviz.skip_code", string(skip.Code)))
		span.SetStatus(codes.Error, skip.Reason)
	}
	span.End()
}

// RecordScanned counts inspected files
func (t *Telemetry) RecordScanned(ctx context.Context, n int) {
	t.filesScanned.Add(ctx, int64(n), metric.WithAttributes(attribute.String("stage", t.stage)))
}

// RecordSkips counts skipped items by reason code
func (t *Telemetry) RecordSkips(ctx context.Context, skips []domain.Skip) {
	for _, s := range skips {
		t.itemsSkipped.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", t.stage),
			attribute.String("code", string(s.Code)),
		))
	}
}

// RecordImages counts written images
func (t *Telemetry) RecordImages(ctx context.Context, n int) {
	t.imagesWritten.Add(ctx, int64(n), metric.WithAttributes(attribute.String("stage", t.stage)))
}

// Shutdown flushes spans and, when a metrics file is configured, writes the
// registry there in Prometheus text format.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var firstErr error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
	}

	if t.metricsFile != "" {
		if err := t.writeMetricsFile(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}

	return firstErr
}

func (t *Telemetry) writeMetricsFile() error {
	if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", t.metricsFile, err)
	}
	t.Logger.Debug("Metrics written", slog.String("path", t.metricsFile))
	return nil
}
