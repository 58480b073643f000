package cache

import (
	"strings"
	"testing"
)

func TestKey_ArgumentOrderInsensitive(t *testing.T) {
	a := map[string]any{"nodes": "10.0.0.1", "verbose": true}
	b := map[string]any{"verbose": true, "nodes": "10.0.0.1"}

	keyA, err := Key("talos_version", a)
	if err != nil {
		t.Fatalf("Key(a) failed: %v", err)
	}
	keyB, err := Key("talos_version", b)
	if err != nil {
		t.Fatalf("Key(b) failed: %v", err)
	}

	if keyA != keyB {
		t.Errorf("keys differ for same arguments in different order:\n%s\n%s", keyA, keyB)
	}
}

func TestKey_ValueDifferencesProduceDistinctKeys(t *testing.T) {
	tests := []struct {
		name  string
		argsA map[string]any
		argsB map[string]any
	}{
		{
			name:  "different string value",
			argsA: map[string]any{"nodes": "10.0.0.1"},
			argsB: map[string]any{"nodes": "10.0.0.2"},
		},
		{
			name:  "different bool value",
			argsA: map[string]any{"verbose": true},
			argsB: map[string]any{"verbose": false},
		},
		{
			name:  "extra argument",
			argsA: map[string]any{"nodes": "10.0.0.1"},
			argsB: map[string]any{"nodes": "10.0.0.1", "insecure": true},
		},
		{
			name:  "nil versus empty map",
			argsA: nil,
			argsB: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := Key("talos_disks", tt.argsA)
			if err != nil {
				t.Fatalf("Key(argsA) failed: %v", err)
			}
			keyB, err := Key("talos_disks", tt.argsB)
			if err != nil {
				t.Fatalf("Key(argsB) failed: %v", err)
			}
			if keyA == keyB {
				t.Errorf("expected distinct keys, both were %s", keyA)
			}
		})
	}
}

func TestKey_DifferentOperationsProduceDistinctKeys(t *testing.T) {
	args := map[string]any{"nodes": "10.0.0.1"}

	keyA, err := Key("talos_version", args)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	keyB, err := Key("talos_disks", args)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	if keyA == keyB {
		t.Errorf("expected distinct keys across operations, both were %s", keyA)
	}
}

func TestKey_NestedMapsCanonicalized(t *testing.T) {
	a := map[string]any{
		"filter": map[string]any{"zone": "a", "role": "worker"},
	}
	b := map[string]any{
		"filter": map[string]any{"role": "worker", "zone": "a"},
	}

	keyA, err := Key("talos_devices", a)
	if err != nil {
		t.Fatalf("Key(a) failed: %v", err)
	}
	keyB, err := Key("talos_devices", b)
	if err != nil {
		t.Fatalf("Key(b) failed: %v", err)
	}

	if keyA != keyB {
		t.Errorf("nested map order changed the key:\n%s\n%s", keyA, keyB)
	}
}

func TestKey_RejectsInvalidOperationNames(t *testing.T) {
	if _, err := Key("", map[string]any{"x": 1}); err == nil {
		t.Error("expected error for empty operation name")
	}
	if _, err := Key("talos:version", map[string]any{"x": 1}); err == nil {
		t.Error("expected error for operation name containing separator")
	}
}

func TestKey_PrefixedByOperation(t *testing.T) {
	key, err := Key("talos_version", map[string]any{"nodes": "10.0.0.1"})
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if !strings.HasPrefix(key, "talos_version:") {
		t.Errorf("key %q missing operation prefix", key)
	}
	if got := operationOf(key); got != "talos_version" {
		t.Errorf("operationOf(%q) = %q, want talos_version", key, got)
	}
}
