package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution and cache metrics for tool calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording never blocks dispatch.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records a tool call with duration and error status.
	RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error)

	// RecordCacheLookup records a result-cache probe outcome.
	RecordCacheLookup(ctx context.Context, operation string, hit bool)

	// RecordCommandFailure records a classified talosctl failure.
	RecordCommandFailure(ctx context.Context, operation string, kind string)
}

type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheLookups metric.Int64Counter
	cmdFailures  metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"talos.tool.exec.total",
		metric.WithDescription("Total number of tool calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"talos.tool.exec.errors",
		metric.WithDescription("Total number of tool call errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"talos.tool.exec.duration_ms",
		metric.WithDescription("Tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"talos.cache.lookups",
		metric.WithDescription("Result cache probes, partitioned by hit/miss"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	cmdFailures, err := meter.Int64Counter(
		"talos.command.failures",
		metric.WithDescription("Classified talosctl failures by error kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheLookups: cacheLookups,
		cmdFailures:  cmdFailures,
	}, nil
}

// RecordExecution records metrics for a tool call.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("tool.name", meta.Name),
		attribute.Bool("tool.mutating", meta.Mutating),
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)

	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordCacheLookup records a cache probe outcome for an operation.
func (m *metricsImpl) RecordCacheLookup(ctx context.Context, operation string, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", operation),
		attribute.Bool("cache.hit", hit),
	))
}

// RecordCommandFailure records a classified failure for an operation.
func (m *metricsImpl) RecordCommandFailure(ctx context.Context, operation string, kind string) {
	m.cmdFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", operation),
		attribute.String("error.kind", kind),
	))
}

type noopMetrics struct{}

func (m *noopMetrics) RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordCacheLookup(ctx context.Context, operation string, hit bool)       {}
func (m *noopMetrics) RecordCommandFailure(ctx context.Context, operation string, kind string) {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
