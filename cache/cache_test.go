package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestResultCache_GetSet(t *testing.T) {
	c := New()
	args := map[string]any{"nodes": "10.0.0.1"}

	if _, ok := c.Get("talos_version", args, time.Minute); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set("talos_version", args, "v1.8.0"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok := c.Get("talos_version", args, time.Minute)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if value != "v1.8.0" {
		t.Errorf("Get = %q, want v1.8.0", value)
	}
}

func TestResultCache_DistinctArgumentsMissEachOther(t *testing.T) {
	c := New()

	if err := c.Set("talos_version", map[string]any{"nodes": "10.0.0.1"}, "node one"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok := c.Get("talos_version", map[string]any{"nodes": "10.0.0.2"}, time.Minute); ok {
		t.Error("expected miss for different argument values")
	}
}

func TestResultCache_TTLExpiry(t *testing.T) {
	c := New()
	args := map[string]any{"nodes": "10.0.0.1"}

	if err := c.Set("talos_disks", args, "sda 500GB"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(15 * time.Millisecond)

	if _, ok := c.Get("talos_disks", args, 10*time.Millisecond); ok {
		t.Error("expected miss for entry past its TTL")
	}

	// Lazy expiry removed the entry on probe, so stats no longer see it.
	if got := c.Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries = %d after expired probe, want 0", got)
	}
}

func TestResultCache_TTLSuppliedPerRead(t *testing.T) {
	c := New()
	args := map[string]any{"nodes": "10.0.0.1"}

	if err := c.Set("talos_disks", args, "sda 500GB"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(15 * time.Millisecond)

	// The same entry is live under a generous TTL.
	if _, ok := c.Get("talos_disks", args, time.Minute); !ok {
		t.Error("expected hit under a TTL longer than the entry age")
	}
}

func TestResultCache_SetResetsInsertionTime(t *testing.T) {
	c := New()
	args := map[string]any{"nodes": "10.0.0.1"}

	if err := c.Set("talos_version", args, "old"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(15 * time.Millisecond)
	if err := c.Set("talos_version", args, "new"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok := c.Get("talos_version", args, 10*time.Millisecond)
	if !ok {
		t.Fatal("expected hit, overwrite should reset the entry age")
	}
	if value != "new" {
		t.Errorf("Get = %q, want new", value)
	}
}

func TestResultCache_InvalidateOperation(t *testing.T) {
	c := New()

	for _, node := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		if err := c.Set("talos_version", map[string]any{"nodes": node}, "v"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := c.Set("talos_disks", map[string]any{"nodes": "10.0.0.1"}, "d"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := c.Invalidate("talos_version"); got != 3 {
		t.Errorf("Invalidate(talos_version) = %d, want 3", got)
	}

	// The other operation's entries survive.
	if _, ok := c.Get("talos_disks", map[string]any{"nodes": "10.0.0.1"}, time.Minute); !ok {
		t.Error("talos_disks entry removed by per-operation invalidation")
	}
	if _, ok := c.Get("talos_version", map[string]any{"nodes": "10.0.0.1"}, time.Minute); ok {
		t.Error("talos_version entry survived invalidation")
	}

	if got := c.Invalidate("talos_version"); got != 0 {
		t.Errorf("second Invalidate(talos_version) = %d, want 0", got)
	}
}

func TestResultCache_InvalidateAll(t *testing.T) {
	c := New()

	if err := c.Set("talos_version", map[string]any{"nodes": "10.0.0.1"}, "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set("talos_disks", map[string]any{"nodes": "10.0.0.1"}, "d"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := c.InvalidateAll(); got != 2 {
		t.Errorf("InvalidateAll = %d, want 2", got)
	}
	if got := c.InvalidateAll(); got != 0 {
		t.Errorf("InvalidateAll on empty cache = %d, want 0", got)
	}
	if got := c.Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries = %d after InvalidateAll, want 0", got)
	}
}

func TestResultCache_InvalidateDoesNotMatchNamePrefixes(t *testing.T) {
	c := New()

	if err := c.Set("talos_disk", map[string]any{}, "a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set("talos_disks", map[string]any{}, "b"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := c.Invalidate("talos_disk"); got != 1 {
		t.Errorf("Invalidate(talos_disk) = %d, want 1", got)
	}
	if _, ok := c.Get("talos_disks", map[string]any{}, time.Minute); !ok {
		t.Error("talos_disks entry removed by invalidation of talos_disk")
	}
}

func TestResultCache_Stats(t *testing.T) {
	c := New()

	for i := 0; i < 3; i++ {
		args := map[string]any{"nodes": fmt.Sprintf("10.0.0.%d", i)}
		if err := c.Set("talos_version", args, "v"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := c.Set("talos_disks", map[string]any{"nodes": "10.0.0.1"}, "d"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	stats := c.Stats()
	if stats.TotalEntries != 4 {
		t.Errorf("TotalEntries = %d, want 4", stats.TotalEntries)
	}
	if got := stats.PerOperation["talos_version"]; got != 3 {
		t.Errorf("PerOperation[talos_version] = %d, want 3", got)
	}
	if got := stats.PerOperation["talos_disks"]; got != 1 {
		t.Errorf("PerOperation[talos_disks] = %d, want 1", got)
	}
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			args := map[string]any{"nodes": fmt.Sprintf("10.0.0.%d", id)}
			for j := 0; j < 100; j++ {
				if err := c.Set("talos_version", args, "v"); err != nil {
					t.Errorf("Set failed: %v", err)
					return
				}
				c.Get("talos_version", args, time.Minute)
				if j%10 == 0 {
					c.Invalidate("talos_version")
				}
				c.Stats()
			}
		}(i)
	}

	wg.Wait()
}
