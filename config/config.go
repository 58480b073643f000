package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// envPrefix namespaces every environment override.
const envPrefix = "TALOS_MCP_"

// Config is the full server configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// AuditLogPath receives JSON log lines in addition to stderr.
	// Empty disables the audit file.
	AuditLogPath string `yaml:"audit_log_path"`

	// TalosconfigPath is passed to talosctl as --talosconfig when set.
	TalosconfigPath string `yaml:"talosconfig_path"`

	// Readonly blocks all mutating tools.
	Readonly bool `yaml:"readonly"`

	// Nodes is the default node list for tools that accept "all".
	Nodes []string `yaml:"nodes"`

	// Binary overrides the talosctl executable.
	Binary string `yaml:"binary"`

	// Timeout bounds each talosctl invocation.
	Timeout time.Duration `yaml:"timeout"`

	// MaxInFlight caps concurrent talosctl invocations.
	MaxInFlight int64 `yaml:"max_in_flight"`

	// ApprovalSecret, when set, requires mutating tool calls to carry
	// a valid approval token signed with this secret.
	ApprovalSecret string `yaml:"approval_secret"`

	// AdminAddr, when set, serves /healthz and /metrics on this
	// address.
	AdminAddr string `yaml:"admin_addr"`

	Observability Observability `yaml:"observability"`
}

// Observability configures tracing and metrics export.
type Observability struct {
	TracingEnabled  bool    `yaml:"tracing_enabled"`
	TracingExporter string  `yaml:"tracing_exporter"` // otlp|stdout|none
	SamplePct       float64 `yaml:"sample_pct"`
	MetricsEnabled  bool    `yaml:"metrics_enabled"`
	MetricsExporter string  `yaml:"metrics_exporter"` // otlp|prometheus|stdout|none
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() Config {
	return Config{
		LogLevel:     "info",
		AuditLogPath: filepath.Join(os.TempDir(), "talos_mcp_audit.log"),
		Binary:       "talosctl",
		Timeout:      30 * time.Second,
		MaxInFlight:  4,
		Observability: Observability{
			SamplePct: 1.0,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then TALOS_MCP_ environment overrides.
// File values go through strict ${VAR} expansion before parsing, so a
// referenced-but-unset variable fails loudly instead of silently
// becoming empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		expanded, err := expandEnvStrict(string(raw))
		if err != nil {
			return Config{}, fmt.Errorf("config: expand %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("AUDIT_LOG_PATH"); ok {
		cfg.AuditLogPath = v
	}
	if v, ok := lookup("TALOSCONFIG"); ok {
		cfg.TalosconfigPath = v
	}
	if v, ok := lookup("READONLY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sREADONLY: %w", envPrefix, err)
		}
		cfg.Readonly = b
	}
	if v, ok := lookup("NODES"); ok {
		cfg.Nodes = splitNodes(v)
	}
	if v, ok := lookup("BINARY"); ok {
		cfg.Binary = v
	}
	if v, ok := lookup("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sTIMEOUT: %w", envPrefix, err)
		}
		cfg.Timeout = d
	}
	if v, ok := lookup("MAX_IN_FLIGHT"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sMAX_IN_FLIGHT: %w", envPrefix, err)
		}
		cfg.MaxInFlight = n
	}
	if v, ok := lookup("APPROVAL_SECRET"); ok {
		cfg.ApprovalSecret = v
	}
	if v, ok := lookup("ADMIN_ADDR"); ok {
		cfg.AdminAddr = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func splitNodes(s string) []string {
	parts := strings.Split(s, ",")
	nodes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nodes = append(nodes, p)
		}
	}
	return nodes
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.Binary == "" {
		return fmt.Errorf("config: binary must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxInFlight <= 0 {
		return fmt.Errorf("config: max_in_flight must be positive, got %d", c.MaxInFlight)
	}
	if c.Observability.SamplePct < 0 || c.Observability.SamplePct > 1.0 {
		return fmt.Errorf("config: sample_pct must be in [0, 1], got %f", c.Observability.SamplePct)
	}
	return nil
}
