package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Binary != "talosctl" {
		t.Errorf("Binary = %q, want talosctl", cfg.Binary)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxInFlight != 4 {
		t.Errorf("MaxInFlight = %d, want 4", cfg.MaxInFlight)
	}
	if cfg.Readonly {
		t.Error("Readonly should default to false")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
talosconfig_path: /etc/talos/config
readonly: true
nodes:
  - 10.0.0.1
  - 10.0.0.2
timeout: 45s
max_in_flight: 8
admin_addr: 127.0.0.1:9090
observability:
  metrics_enabled: true
  metrics_exporter: prometheus
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.TalosconfigPath != "/etc/talos/config" {
		t.Errorf("TalosconfigPath = %q", cfg.TalosconfigPath)
	}
	if !cfg.Readonly {
		t.Error("Readonly = false, want true")
	}
	if len(cfg.Nodes) != 2 || cfg.Nodes[0] != "10.0.0.1" {
		t.Errorf("Nodes = %v", cfg.Nodes)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.MaxInFlight != 8 {
		t.Errorf("MaxInFlight = %d, want 8", cfg.MaxInFlight)
	}
	if !cfg.Observability.MetricsEnabled || cfg.Observability.MetricsExporter != "prometheus" {
		t.Errorf("Observability = %+v", cfg.Observability)
	}
}

func TestLoad_ExpandsEnvInFile(t *testing.T) {
	t.Setenv("TALOS_TEST_SECRET", "hunter2")
	path := writeConfig(t, "approval_secret: ${TALOS_TEST_SECRET}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ApprovalSecret != "hunter2" {
		t.Errorf("ApprovalSecret = %q, want hunter2", cfg.ApprovalSecret)
	}
}

func TestLoad_MissingEnvVarFails(t *testing.T) {
	path := writeConfig(t, "approval_secret: ${TALOS_TEST_DEFINITELY_UNSET}\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unset environment variable")
	}
	if !strings.Contains(err.Error(), "TALOS_TEST_DEFINITELY_UNSET") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "log_level: info\nreadonly: false\n")

	t.Setenv("TALOS_MCP_LOG_LEVEL", "ERROR")
	t.Setenv("TALOS_MCP_READONLY", "true")
	t.Setenv("TALOS_MCP_NODES", "10.0.0.5, 10.0.0.6")
	t.Setenv("TALOS_MCP_TIMEOUT", "90s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
	if !cfg.Readonly {
		t.Error("Readonly = false, want true")
	}
	if len(cfg.Nodes) != 2 || cfg.Nodes[1] != "10.0.0.6" {
		t.Errorf("Nodes = %v", cfg.Nodes)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("TALOS_MCP_READONLY", "maybe")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unparseable TALOS_MCP_READONLY")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"empty binary", func(c *Config) { c.Binary = "" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero max in flight", func(c *Config) { c.MaxInFlight = 0 }},
		{"sample pct above one", func(c *Config) { c.Observability.SamplePct = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
