package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// DiagnosticsServer serves the operational endpoints for the MCP mode:
// liveness at /healthz, readiness at /readyz, and Prometheus scrapes at
// /metrics.
type DiagnosticsServer struct {
	server *http.Server
	addr   string
}

// NewDiagnosticsServer binds addr and begins serving immediately. The
// registry must be the one handed to Init via Config.PrometheusRegistry so
// instrument values reach the scrape endpoint. A non-nil tracer records one
// span per served request.
func NewDiagnosticsServer(addr string, registry *prometheus.Registry, tracer trace.Tracer, checks ...ReadyCheck) (*DiagnosticsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", HealthHandler())
	mux.Handle("/readyz", ReadyHandler(checks...))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	if tracer != nil {
		handler = traceRequests(tracer, mux)
	}

	d := &DiagnosticsServer{
		server: &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second},
		addr:   ln.Addr().String(),
	}

	go func() {
		if err := d.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("diagnostics server stopped", "addr", d.addr, "error", err)
		}
	}()

	return d, nil
}

// Addr reports the bound listen address, useful with ":0" style addrs.
func (d *DiagnosticsServer) Addr() string { return d.addr }

// Close drains in-flight requests and stops the server.
func (d *DiagnosticsServer) Close() error {
	if err := d.server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown diagnostics server: %w", err)
	}

	return nil
}

// traceRequests records one server span per request. The route set is fixed
// and tiny, so the raw "METHOD /path" makes a fine span name.
func traceRequests(tracer trace.Tracer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		parent := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parent, hr.Method+" "+hr.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: rw}
		next.ServeHTTP(rec, hr.WithContext(ctx))

		span.SetAttributes(semconv.HTTPResponseStatusCode(rec.status()))

		if rec.status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status()))
		}
	})
}

// statusRecorder captures the response code written through it. Zero means
// nothing was written yet; a body written before any explicit WriteHeader
// counts as 200 the same way net/http treats it.
type statusRecorder struct {
	http.ResponseWriter

	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.code == 0 {
		r.code = code
	}

	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(buf []byte) (int, error) {
	if r.code == 0 {
		r.code = http.StatusOK
	}

	n, err := r.ResponseWriter.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

func (r *statusRecorder) status() int {
	if r.code == 0 {
		return http.StatusOK
	}

	return r.code
}
