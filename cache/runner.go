package cache

import (
	"context"
	"strings"
	"time"

	"github.com/jonwraymond/talosops/observe"
)

// errorMarker prefixes tool payloads that carry a failure rendered as
// text. Such payloads are never cached: a transient blip must not be
// served for the rest of a TTL window.
const errorMarker = "Error"

// ProducerFunc computes a tool result on a cache miss.
type ProducerFunc func(ctx context.Context) (string, error)

// Recorder receives cache probe outcomes. Satisfied by observe.Metrics.
type Recorder interface {
	RecordCacheLookup(ctx context.Context, operation string, hit bool)
}

// Runner applies the caching and invalidation policy around tool
// producers. Read operations follow get / produce-on-miss / set;
// mutating operations produce and then wipe the entire cache, because a
// mutation on one subsystem (a reboot, say) invalidates cached facts
// about unrelated ones (process lists, uptime).
type Runner struct {
	cache    *ResultCache
	logger   observe.Logger
	recorder Recorder
}

// NewRunner creates a Runner. logger and recorder may be nil.
func NewRunner(c *ResultCache, logger observe.Logger, recorder Recorder) *Runner {
	if logger == nil {
		logger = observe.NoopLogger()
	}
	if recorder == nil {
		recorder = observe.NoopMetrics()
	}
	return &Runner{cache: c, logger: logger, recorder: recorder}
}

// Cache exposes the underlying ResultCache for stats and direct
// invalidation.
func (r *Runner) Cache() *ResultCache {
	return r.cache
}

// CachedRead serves (operation, args) from the cache when a live entry
// exists, and otherwise runs produce and stores its result. Producer
// errors propagate unstored; error-marker payloads are returned but
// skipped for storage.
func (r *Runner) CachedRead(ctx context.Context, operation string, args map[string]any, ttl time.Duration, produce ProducerFunc) (string, error) {
	if value, ok := r.cache.Get(operation, args, ttl); ok {
		r.recorder.RecordCacheLookup(ctx, operation, true)
		r.logger.Debug(ctx, "cache hit", observe.Field{Key: "tool.name", Value: operation})
		return value, nil
	}
	r.recorder.RecordCacheLookup(ctx, operation, false)

	result, err := produce(ctx)
	if err != nil {
		return result, err
	}

	if strings.HasPrefix(result, errorMarker) {
		r.logger.Debug(ctx, "not caching error result",
			observe.Field{Key: "tool.name", Value: operation})
		return result, nil
	}

	if err := r.cache.Set(operation, args, result); err != nil {
		// Uncacheable arguments degrade to a plain read.
		r.logger.Warn(ctx, "cache store skipped",
			observe.Field{Key: "tool.name", Value: operation},
			observe.Field{Key: "error", Value: err.Error()})
	}

	return result, nil
}

// Mutate runs produce and then invalidates the entire cache. The wipe
// happens whenever produce returns control without a Go error, even if
// the payload it returned is an error text: over-invalidating on a
// failed mutation attempt beats ever serving a stale read. An error
// return propagates without invalidation, since the external invocation
// never completed.
func (r *Runner) Mutate(ctx context.Context, operation string, produce ProducerFunc) (string, error) {
	result, err := produce(ctx)
	if err != nil {
		return result, err
	}

	count := r.cache.InvalidateAll()
	r.logger.Info(ctx, "cache invalidated after mutation",
		observe.Field{Key: "tool.name", Value: operation},
		observe.Field{Key: "entries", Value: count})

	return result, nil
}
