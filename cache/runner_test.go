package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type lookupRecorder struct {
	hits   int
	misses int
}

func (r *lookupRecorder) RecordCacheLookup(_ context.Context, _ string, hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func countingProducer(result string, err error) (ProducerFunc, *int) {
	calls := 0
	return func(context.Context) (string, error) {
		calls++
		return result, err
	}, &calls
}

func TestRunner_CachedReadMemoizes(t *testing.T) {
	r := NewRunner(New(), nil, nil)
	ctx := context.Background()
	args := map[string]any{"nodes": "10.0.0.1"}

	produce, calls := countingProducer("v1.8.0", nil)

	for i := 0; i < 3; i++ {
		result, err := r.CachedRead(ctx, "talos_version", args, time.Minute, produce)
		if err != nil {
			t.Fatalf("CachedRead failed: %v", err)
		}
		if result != "v1.8.0" {
			t.Errorf("CachedRead = %q, want v1.8.0", result)
		}
	}

	if *calls != 1 {
		t.Errorf("producer called %d times, want 1", *calls)
	}
}

func TestRunner_CachedReadRecordsLookups(t *testing.T) {
	rec := &lookupRecorder{}
	r := NewRunner(New(), nil, rec)
	ctx := context.Background()
	args := map[string]any{"nodes": "10.0.0.1"}

	produce, _ := countingProducer("v1.8.0", nil)

	r.CachedRead(ctx, "talos_version", args, time.Minute, produce)
	r.CachedRead(ctx, "talos_version", args, time.Minute, produce)

	if rec.misses != 1 {
		t.Errorf("misses = %d, want 1", rec.misses)
	}
	if rec.hits != 1 {
		t.Errorf("hits = %d, want 1", rec.hits)
	}
}

func TestRunner_CachedReadSkipsErrorResults(t *testing.T) {
	r := NewRunner(New(), nil, nil)
	ctx := context.Background()
	args := map[string]any{"nodes": "10.0.0.1"}

	produce, calls := countingProducer("Error executing talos_version:\nCannot connect to Talos node", nil)

	result, err := r.CachedRead(ctx, "talos_version", args, time.Minute, produce)
	if err != nil {
		t.Fatalf("CachedRead failed: %v", err)
	}
	if result == "" {
		t.Fatal("error text should still be returned to the caller")
	}

	// A second read must re-run the producer; failures are never served
	// from the cache.
	r.CachedRead(ctx, "talos_version", args, time.Minute, produce)
	if *calls != 2 {
		t.Errorf("producer called %d times, want 2", *calls)
	}
	if got := r.Cache().Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries = %d after error result, want 0", got)
	}
}

func TestRunner_CachedReadPropagatesProducerError(t *testing.T) {
	r := NewRunner(New(), nil, nil)
	ctx := context.Background()
	args := map[string]any{"nodes": "10.0.0.1"}

	wantErr := errors.New("talosctl binary vanished")
	produce, _ := countingProducer("", wantErr)

	_, err := r.CachedRead(ctx, "talos_version", args, time.Minute, produce)
	if !errors.Is(err, wantErr) {
		t.Fatalf("CachedRead error = %v, want %v", err, wantErr)
	}
	if got := r.Cache().Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries = %d after producer error, want 0", got)
	}
}

func TestRunner_MutateInvalidatesEverything(t *testing.T) {
	r := NewRunner(New(), nil, nil)
	ctx := context.Background()

	versionArgs := map[string]any{"nodes": "10.0.0.1"}
	diskArgs := map[string]any{"nodes": "10.0.0.2"}

	versionProduce, versionCalls := countingProducer("v1.8.0", nil)
	diskProduce, _ := countingProducer("sda 500GB", nil)

	if _, err := r.CachedRead(ctx, "talos_version", versionArgs, time.Minute, versionProduce); err != nil {
		t.Fatalf("CachedRead failed: %v", err)
	}
	if _, err := r.CachedRead(ctx, "talos_disks", diskArgs, time.Minute, diskProduce); err != nil {
		t.Fatalf("CachedRead failed: %v", err)
	}

	reboot, _ := countingProducer("Reboot initiated", nil)
	if _, err := r.Mutate(ctx, "talos_reboot", reboot); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	if got := r.Cache().Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries = %d after mutation, want 0", got)
	}

	// The next read re-runs the producer against post-mutation state.
	if _, err := r.CachedRead(ctx, "talos_version", versionArgs, time.Minute, versionProduce); err != nil {
		t.Fatalf("CachedRead failed: %v", err)
	}
	if *versionCalls != 2 {
		t.Errorf("version producer called %d times, want 2", *versionCalls)
	}
}

func TestRunner_MutateInvalidatesOnFailedCommand(t *testing.T) {
	r := NewRunner(New(), nil, nil)
	ctx := context.Background()
	args := map[string]any{"nodes": "10.0.0.1"}

	seed, _ := countingProducer("v1.8.0", nil)
	if _, err := r.CachedRead(ctx, "talos_version", args, time.Minute, seed); err != nil {
		t.Fatalf("CachedRead failed: %v", err)
	}

	// The command ran and failed. Its partial effects are unknown, so
	// the wipe still happens.
	failed, _ := countingProducer("Error executing talos_reboot:\nOperation timed out", nil)
	if _, err := r.Mutate(ctx, "talos_reboot", failed); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	if got := r.Cache().Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries = %d after failed mutation, want 0", got)
	}
}

func TestRunner_MutateSkipsInvalidationOnError(t *testing.T) {
	r := NewRunner(New(), nil, nil)
	ctx := context.Background()
	args := map[string]any{"nodes": "10.0.0.1"}

	seed, _ := countingProducer("v1.8.0", nil)
	if _, err := r.CachedRead(ctx, "talos_version", args, time.Minute, seed); err != nil {
		t.Fatalf("CachedRead failed: %v", err)
	}

	// The invocation itself never completed, so nothing changed and the
	// cache stays intact.
	wantErr := errors.New("launch failed")
	raised, _ := countingProducer("", wantErr)
	if _, err := r.Mutate(ctx, "talos_reboot", raised); !errors.Is(err, wantErr) {
		t.Fatalf("Mutate error = %v, want %v", err, wantErr)
	}

	if _, ok := r.Cache().Get("talos_version", args, time.Minute); !ok {
		t.Error("cache entry removed after an invocation that never completed")
	}
}
