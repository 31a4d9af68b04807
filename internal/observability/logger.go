package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// TracingHandler decorates an [slog.Handler] with OpenTelemetry correlation:
// records logged with a span in their context gain trace_id and span_id.
// Service identity (service, env, mode) is attached to the inner handler at
// construction, which keeps it top-level under later WithGroup calls.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler tags inner with the service identity and returns the
// correlating wrapper. env is omitted when empty.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	identity := []slog.Attr{
		slog.String("service", service),
		slog.String("mode", string(appMode)),
	}

	if env != "" {
		identity = append(identity, slog.String("env", env))
	}

	return &TracingHandler{inner: inner.WithAttrs(identity)}
}

// Handle stamps the record with trace and span IDs when the context carries
// a valid span, then delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	err := th.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("handle record: %w", err)
	}

	return nil
}

func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
