package observe

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/talosops/fault"
)

// ExecuteFunc is the signature for tool dispatch functions.
// This is the standard function signature that Middleware wraps.
type ExecuteFunc func(ctx context.Context, tool ToolMeta, args map[string]any) (string, error)

// Middleware wraps tool dispatch with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ExecuteFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an ExecuteFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, tool ToolMeta, args map[string]any) (string, error) {
		ctx, span := m.tracer.StartSpan(ctx, tool)

		start := time.Now()
		result, err := fn(ctx, tool, args)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, tool, duration, err)

		toolLogger := m.logger.WithTool(tool)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			var cmdErr *fault.CommandError
			if errors.As(err, &cmdErr) {
				fields = append(fields,
					Field{Key: "code", Value: int(cmdErr.Kind)},
					Field{Key: "code_name", Value: cmdErr.Kind.String()},
				)
			}
			toolLogger.Error(ctx, "tool call failed", fields...)
		} else {
			toolLogger.Info(ctx, "tool call completed", fields...)
		}

		return result, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}

// MetricsFromObserver builds a Metrics recorder from an Observer's meter.
func MetricsFromObserver(obs Observer) (Metrics, error) {
	return newMetrics(obs.Meter())
}
