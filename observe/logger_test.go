package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_StructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "tool call completed",
		Field{Key: "tool.name", Value: "talos_version"},
		Field{Key: "duration_ms", Value: 12.0},
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["msg"] != "tool call completed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["tool.name"] != "talos_version" {
		t.Errorf("tool.name = %v", entry["tool.name"])
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp missing")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("levels = %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "tool call",
		Field{Key: "approval_token", Value: "eyJhbGciOi..."},
		Field{Key: "patch", Value: "[{\"op\": \"replace\"}]"},
		Field{Key: "tool.name", Value: "talos_patch"},
	)

	entries := decodeLines(t, &buf)
	entry := entries[0]
	if entry["approval_token"] != "[REDACTED]" {
		t.Errorf("approval_token = %v, want [REDACTED]", entry["approval_token"])
	}
	if entry["patch"] != "[REDACTED]" {
		t.Errorf("patch = %v, want [REDACTED]", entry["patch"])
	}
	if entry["tool.name"] != "talos_patch" {
		t.Errorf("tool.name = %v, should not be redacted", entry["tool.name"])
	}
}

func TestLogger_WithTool(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	toolLogger := logger.WithTool(ToolMeta{Name: "talos_reboot", Mutating: true})
	toolLogger.Info(context.Background(), "tool call completed")

	entries := decodeLines(t, &buf)
	entry := entries[0]
	if entry["tool.name"] != "talos_reboot" {
		t.Errorf("tool.name = %v", entry["tool.name"])
	}
	if entry["tool.mutating"] != true {
		t.Errorf("tool.mutating = %v", entry["tool.mutating"])
	}

	// The parent logger is unaffected.
	buf.Reset()
	logger.Info(context.Background(), "plain")
	entries = decodeLines(t, &buf)
	if _, ok := entries[0]["tool.name"]; ok {
		t.Error("parent logger leaked tool attributes")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
