package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	instrumentationName = "trialscope"

	// Standard OpenTelemetry environment variables for sampler selection.
	envTracesSampler    = "OTEL_TRACES_SAMPLER"
	envTracesSamplerArg = "OTEL_TRACES_SAMPLER_ARG"
)

// Providers bundles the tracer, meter, and logger that Init wires up,
// plus the hook that flushes them.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// Shutdown flushes pending telemetry. Call it before process exit.
	Shutdown func(ctx context.Context) error
}

// Init builds the tracing, metrics, and logging stack from cfg and installs
// the OTel globals. With no OTLP endpoint and no Prometheus registry the
// returned Tracer and Meter are no-ops.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return Providers{}, err
	}

	tp, stopTraces, err := buildTracerProvider(ctx, cfg, res)
	if err != nil {
		return Providers{}, fmt.Errorf("build tracer provider: %w", err)
	}

	mp, stopMetrics, err := buildMeterProvider(ctx, cfg, res)
	if err != nil {
		return Providers{}, errors.Join(fmt.Errorf("build meter provider: %w", err), stopTraces(ctx))
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return Providers{
		Tracer:   tp.Tracer(instrumentationName),
		Meter:    mp.Meter(instrumentationName),
		Logger:   buildLogger(cfg),
		Shutdown: joinShutdown(cfg, stopTraces, stopMetrics),
	}, nil
}

func buildResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("app.mode", string(cfg.Mode)))
	}

	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

type shutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// joinShutdown folds the per-provider shutdown hooks into one, bounded by
// the configured shutdown timeout.
func joinShutdown(cfg Config, stops ...shutdownFunc) shutdownFunc {
	timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultShutdownTimeoutSec * time.Second
	}

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		errs := make([]error, 0, len(stops))
		for _, stop := range stops {
			errs = append(errs, stop(ctx))
		}

		return errors.Join(errs...)
	}
}

// otlpOptions assembles the endpoint options shared by the OTLP gRPC
// exporters. The trace and metric packages declare distinct option types
// for the same three knobs, hence the constructor parameters.
func otlpOptions[O any](
	cfg Config,
	endpoint func(string) O,
	insecure func() O,
	headers func(map[string]string) O,
) []O {
	opts := []O{endpoint(cfg.OTLPEndpoint)}

	if cfg.OTLPInsecure {
		opts = append(opts, insecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, headers(cfg.OTLPHeaders))
	}

	return opts
}

func buildTracerProvider(
	ctx context.Context, cfg Config, res *resource.Resource,
) (trace.TracerProvider, shutdownFunc, error) {
	if cfg.OTLPEndpoint == "" {
		return nooptrace.NewTracerProvider(), noopShutdown, nil
	}

	exporter, err := otlptracegrpc.New(ctx, otlpOptions(cfg,
		otlptracegrpc.WithEndpoint, otlptracegrpc.WithInsecure, otlptracegrpc.WithHeaders)...)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg)),
	)

	return tp, tp.Shutdown, nil
}

func buildMeterProvider(
	ctx context.Context, cfg Config, res *resource.Resource,
) (metric.MeterProvider, shutdownFunc, error) {
	var readers []sdkmetric.Option

	if cfg.OTLPEndpoint != "" {
		exporter, err := otlpmetricgrpc.New(ctx, otlpOptions(cfg,
			otlpmetricgrpc.WithEndpoint, otlpmetricgrpc.WithInsecure, otlpmetricgrpc.WithHeaders)...)
		if err != nil {
			return nil, nil, fmt.Errorf("create metric exporter: %w", err)
		}

		readers = append(readers, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	if cfg.PrometheusRegistry != nil {
		bridge, err := promexporter.New(promexporter.WithRegisterer(cfg.PrometheusRegistry))
		if err != nil {
			return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
		}

		readers = append(readers, sdkmetric.WithReader(bridge))
	}

	if len(readers) == 0 {
		return noopmetric.NewMeterProvider(), noopShutdown, nil
	}

	mp := sdkmetric.NewMeterProvider(append(readers, sdkmetric.WithResource(res))...)

	return mp, mp.Shutdown, nil
}

// sampler picks the trace sampler: the standard OTEL_TRACES_SAMPLER
// variable wins, then the configured ratio, then parent-based always-on.
func sampler(cfg Config) sdktrace.Sampler {
	if name := os.Getenv(envTracesSampler); name != "" {
		return samplerFromEnv(name, os.Getenv(envTracesSamplerArg))
	}

	if cfg.SampleRatio > 0 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

// samplerFromEnv maps the OTEL_TRACES_SAMPLER names onto SDK samplers.
// Unknown names fall back to parent-based always-on.
func samplerFromEnv(name, arg string) sdktrace.Sampler {
	base, parentBased := strings.CutPrefix(name, "parentbased_")

	var s sdktrace.Sampler

	switch base {
	case "always_on":
		s = sdktrace.AlwaysSample()
	case "always_off":
		s = sdktrace.NeverSample()
	case "traceidratio":
		s = sdktrace.TraceIDRatioBased(ratioOrDefault(arg))
	default:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}

	if parentBased {
		s = sdktrace.ParentBased(s)
	}

	return s
}

func ratioOrDefault(arg string) float64 {
	if ratio, err := strconv.ParseFloat(arg, 64); err == nil {
		return ratio
	}

	return 1
}

func buildLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(NewTracingHandler(inner, cfg.ServiceName, cfg.Environment, cfg.Mode))
}

// ParseOTLPHeaders splits a "key=value,key=value" header string as accepted
// by OTEL_EXPORTER_OTLP_HEADERS. Pairs without "=" are dropped; when no
// valid pair remains the result is nil.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for pair := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return headers
}
