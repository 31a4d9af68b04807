package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// durationBucketBoundaries covers 1ms to 60s. Restorations are I/O bound:
// local trials finish in milliseconds, remote or archive-heavy ones can
// take tens of seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// REDMetrics bundles the request, error, and duration instruments recorded
// per operation.
type REDMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

// NewREDMetrics creates the RED instrument set on the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	b := &metricBuilder{meter: mt}

	rm := &REDMetrics{
		requests: b.counter("trialscope.requests.total", "Total number of requests", "{request}"),
		duration: b.histogram("trialscope.request.duration.seconds", "Request duration in seconds", "s", durationBucketBoundaries...),
		errors:   b.counter("trialscope.errors.total", "Total number of errors", "{error}"),
		inflight: b.upDownCounter("trialscope.inflight.requests", "Number of in-flight requests", "{request}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// RecordRequest records one completed request. Errors are counted when
// status is "error".
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, elapsed time.Duration) {
	opAttr := attribute.String("op", op)
	labeled := metric.WithAttributes(opAttr, attribute.String("status", status))

	rm.requests.Add(ctx, 1, labeled)
	rm.duration.Record(ctx, elapsed.Seconds(), labeled)

	if status == "error" {
		rm.errors.Add(ctx, 1, metric.WithAttributes(opAttr))
	}
}

// TrackInflight increments the in-flight gauge and returns the matching
// decrement.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	set := metric.WithAttributes(attribute.String("op", op))
	rm.inflight.Add(ctx, 1, set)

	return func() { rm.inflight.Add(ctx, -1, set) }
}

// metricBuilder collects instrument creation errors so the whole set above
// can be constructed with a single error check at the end.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.keep(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.keep(name, err)

	return h
}

func (b *metricBuilder) upDownCounter(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.keep(name, err)

	return c
}

// keep records the first instrument creation error and drops the rest.
func (b *metricBuilder) keep(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}
