package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/talosops/auth"
	"github.com/jonwraymond/talosops/cache"
	"github.com/jonwraymond/talosops/config"
	"github.com/jonwraymond/talosops/health"
	"github.com/jonwraymond/talosops/observe"
	"github.com/jonwraymond/talosops/server"
	"github.com/jonwraymond/talosops/talosctl"
	"github.com/jonwraymond/talosops/tools"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		auditLog   string
		readonly   bool
	)

	cmd := &cobra.Command{
		Use:          "talosops",
		Short:        "MCP server for Talos Linux fleet operations",
		Long:         "talosops exposes talosctl operations as MCP tools over stdio, with result caching, read-only mode, and approval gating for mutations.",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Flags win over file and environment.
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("audit-log") {
				cfg.AuditLogPath = auditLog
			}
			if cmd.Flags().Changed("readonly") {
				cfg.Readonly = readonly
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&auditLog, "audit-log", "", "path to audit log file")
	cmd.Flags().BoolVar(&readonly, "readonly", false, "block all mutating tools")

	return cmd
}

func run(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "talosops",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   cfg.Observability.TracingEnabled,
			Exporter:  cfg.Observability.TracingExporter,
			SamplePct: cfg.Observability.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.Observability.MetricsEnabled,
			Exporter: cfg.Observability.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled:   true,
			Level:     cfg.LogLevel,
			AuditPath: cfg.AuditLogPath,
		},
	})
	if err != nil {
		return fmt.Errorf("setup observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	logger := obs.Logger()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return fmt.Errorf("setup middleware: %w", err)
	}
	metrics, err := observe.MetricsFromObserver(obs)
	if err != nil {
		return fmt.Errorf("setup metrics: %w", err)
	}

	runner := talosctl.NewRunner(talosctl.Config{
		Binary:      cfg.Binary,
		ConfigPath:  cfg.TalosconfigPath,
		Timeout:     cfg.Timeout,
		MaxInFlight: cfg.MaxInFlight,
	}, logger)

	var approver *auth.Approver
	if cfg.ApprovalSecret != "" {
		approver = auth.NewApprover(cfg.ApprovalSecret)
	}

	srv, err := server.New(server.Options{
		Version:  version,
		Registry: tools.DefaultRegistry(),
		Executor: runner,
		Cache:    cache.NewRunner(cache.New(), logger, metrics),
		Defaults: tools.Defaults{
			Nodes:           cfg.Nodes,
			TalosconfigPath: cfg.TalosconfigPath,
		},
		Readonly:   cfg.Readonly,
		Approver:   approver,
		Logger:     logger,
		Metrics:    metrics,
		Middleware: mw,
	})
	if err != nil {
		return fmt.Errorf("setup server: %w", err)
	}

	if cfg.AdminAddr != "" {
		agg := health.NewAggregator(
			health.NewBinaryChecker(cfg.Binary),
			health.NewTalosconfigChecker(cfg.TalosconfigPath),
		)
		admin := &http.Server{
			Addr:              cfg.AdminAddr,
			Handler:           health.AdminMux(agg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info(ctx, "admin listener started",
				observe.Field{Key: "addr", Value: cfg.AdminAddr})
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "admin listener failed",
					observe.Field{Key: "error", Value: err.Error()})
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = admin.Shutdown(shutdownCtx)
		}()
	}

	logger.Info(ctx, "server starting",
		observe.Field{Key: "version", Value: version},
		observe.Field{Key: "readonly", Value: cfg.Readonly},
		observe.Field{Key: "nodes", Value: len(cfg.Nodes)})

	if err := srv.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info(ctx, "server stopped")
	return nil
}
