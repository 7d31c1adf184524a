package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records lifecycle events.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRetry records one completed retry cycle with its attempt count
	// and final outcome.
	RecordRetry(ctx context.Context, meta OpMeta, attempts int, duration time.Duration, err error)

	// RecordPublish records a staged publish with its transfer outcome.
	RecordPublish(ctx context.Context, meta OpMeta, outcome string, duration time.Duration, err error)

	// RecordMapping records a resource acquisition and the tier that
	// resolved it.
	RecordMapping(ctx context.Context, meta OpMeta, tier string, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	retryCycles   metric.Int64Counter
	retryAttempts metric.Int64Counter
	publishTotal  metric.Int64Counter
	publishDurMs  metric.Float64Histogram
	mappingTotal  metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	retryCycles, err := meter.Int64Counter(
		"lifecycle.retry.cycles",
		metric.WithDescription("Completed retry cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	retryAttempts, err := meter.Int64Counter(
		"lifecycle.retry.attempts",
		metric.WithDescription("Attempts consumed across retry cycles"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	publishTotal, err := meter.Int64Counter(
		"lifecycle.publish.total",
		metric.WithDescription("Staged output publishes"),
		metric.WithUnit("{publish}"),
	)
	if err != nil {
		return nil, err
	}

	publishDurMs, err := meter.Float64Histogram(
		"lifecycle.publish.duration_ms",
		metric.WithDescription("Staged publish duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	mappingTotal, err := meter.Int64Counter(
		"lifecycle.mapping.total",
		metric.WithDescription("Shared resource acquisitions"),
		metric.WithUnit("{acquisition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		retryCycles:   retryCycles,
		retryAttempts: retryAttempts,
		publishTotal:  publishTotal,
		publishDurMs:  publishDurMs,
		mappingTotal:  mappingTotal,
	}, nil
}

func (m *metricsImpl) RecordRetry(ctx context.Context, meta OpMeta, attempts int, duration time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("op.id", meta.OpID()),
		attribute.Bool("op.error", err != nil),
	)

	m.retryCycles.Add(ctx, 1, opt)
	m.retryAttempts.Add(ctx, int64(attempts), opt)
}

func (m *metricsImpl) RecordPublish(ctx context.Context, meta OpMeta, outcome string, duration time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("op.id", meta.OpID()),
		attribute.String("publish.outcome", outcome),
		attribute.Bool("op.error", err != nil),
	)

	m.publishTotal.Add(ctx, 1, opt)
	m.publishDurMs.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordMapping(ctx context.Context, meta OpMeta, tier string, err error) {
	m.mappingTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op.id", meta.OpID()),
		attribute.String("mapping.tier", tier),
		attribute.Bool("op.error", err != nil),
	))
}

// nopMetrics is a metrics implementation that does nothing.
type nopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

func (nopMetrics) RecordRetry(ctx context.Context, meta OpMeta, attempts int, duration time.Duration, err error) {
}

func (nopMetrics) RecordPublish(ctx context.Context, meta OpMeta, outcome string, duration time.Duration, err error) {
}

func (nopMetrics) RecordMapping(ctx context.Context, meta OpMeta, tier string, err error) {}
