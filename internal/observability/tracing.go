package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps the turn task's and tool dispatcher's spans, grounded on
// haasonsaas-nexus's internal/observability/tracing.go, narrowed to the
// two operations this gateway actually instruments: a generation phase and
// a tool dispatch. No exporter is wired: NewTracer uses the global no-op
// provider when no endpoint is configured, and otherwise installs an SDK
// provider that samples every span but has no span processor or exporter,
// so spans are not sent anywhere in either case.
type Tracer struct {
	tracer trace.Tracer
}

// TraceConfig configures the tracer provider.
type TraceConfig struct {
	ServiceName string
	Environment string
	Endpoint    string // only tested for emptiness; its value is not used
}

// NewTracer builds a Tracer. With no endpoint, it records spans against the
// process-wide no-op provider (otel.Tracer's default). With an endpoint, it
// installs an SDK provider without an exporter. Returns a shutdown func,
// no-op if nothing was started.
func NewTracer(cfg TraceConfig) (*Tracer, func(context.Context) error) {
	if cfg.Endpoint == "" {
		return &Tracer{tracer: otel.Tracer(cfg.ServiceName)}, func(context.Context) error { return nil }
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		res = resource.Default()
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	return &Tracer{tracer: provider.Tracer(cfg.ServiceName)}, provider.Shutdown
}

// StartTurn opens a span covering one generation phase (spec.md §4.5.3).
func (t *Tracer) StartTurn(ctx context.Context, tenantID string, responseID int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "session.turn", trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tenant_id", tenantID),
			attribute.Int("response_id", responseID),
		))
}

// StartToolDispatch opens a span covering one tool execution.
func (t *Tracer) StartToolDispatch(ctx context.Context, toolName string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "tools.dispatch", trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("tool", toolName)))
}

// RecordError marks a span as failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
