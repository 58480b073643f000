package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	mcpserver "github.com/felixgeelhaar/mcp-go/server"

	"github.com/jonwraymond/talosops/auth"
	"github.com/jonwraymond/talosops/cache"
	"github.com/jonwraymond/talosops/fault"
	"github.com/jonwraymond/talosops/observe"
	"github.com/jonwraymond/talosops/talosctl"
	"github.com/jonwraymond/talosops/tools"
)

// Executor runs talosctl invocations. Satisfied by *talosctl.Runner.
type Executor interface {
	Execute(ctx context.Context, args []string) (talosctl.Result, error)
}

var _ Executor = (*talosctl.Runner)(nil)

// Options configures a Server.
type Options struct {
	// Version is advertised to MCP clients.
	Version string

	// Registry is the tool catalog. Required.
	Registry *tools.Registry

	// Executor runs talosctl. Required.
	Executor Executor

	// Cache coordinates result caching and invalidation. Required.
	Cache *cache.Runner

	// Defaults supplies the configured node list to argv builders.
	Defaults tools.Defaults

	// Readonly blocks every mutating tool.
	Readonly bool

	// Approver, when set, requires mutating calls to carry a valid
	// approval token in the approval_token argument.
	Approver *auth.Approver

	// Logger and Metrics may be nil.
	Logger  observe.Logger
	Metrics observe.Metrics

	// Middleware, when set, wraps dispatch with tracing, metrics, and
	// call logging.
	Middleware *observe.Middleware
}

// Server is the MCP-facing front of the tool catalog.
type Server struct {
	srv      *mcpgo.Server
	registry *tools.Registry
	executor Executor
	cache    *cache.Runner
	defaults tools.Defaults
	readonly bool
	approver *auth.Approver
	logger   observe.Logger
	metrics  observe.Metrics
	dispatch observe.ExecuteFunc
}

// New creates a Server and registers every catalog tool with the MCP
// layer.
func New(opts Options) (*Server, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("server: registry is required")
	}
	if opts.Executor == nil {
		return nil, fmt.Errorf("server: executor is required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("server: cache is required")
	}
	if opts.Logger == nil {
		opts.Logger = observe.NoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = observe.NoopMetrics()
	}

	s := &Server{
		registry: opts.Registry,
		executor: opts.Executor,
		cache:    opts.Cache,
		defaults: opts.Defaults,
		readonly: opts.Readonly,
		approver: opts.Approver,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}

	if err := s.registerBuiltins(); err != nil {
		return nil, err
	}

	s.dispatch = s.execute
	if opts.Middleware != nil {
		s.dispatch = opts.Middleware.Wrap(s.execute)
	}

	info := mcpgo.ServerInfo{
		Name:        "talosops",
		Version:     opts.Version,
		Description: "Talos Linux fleet operations over MCP",
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}
	s.srv = mcpgo.NewServer(info, mcpgo.WithInstructions(instructions))

	for _, t := range s.registry.List() {
		s.registerTool(t)
	}

	return s, nil
}

const instructions = "Tools mirror talosctl subcommands. Read tools may serve " +
	"cached results for a short TTL; mutating tools (reboot, upgrade, apply, ...) " +
	"clear the cache and may require an approval_token argument."

func (s *Server) registerTool(t tools.Tool) {
	meta := observe.ToolMeta{
		Name:     t.Name,
		Mutating: t.Mutating,
		CacheTTL: t.CacheTTL,
	}

	handler := func(ctx context.Context, input json.RawMessage) (string, error) {
		var args map[string]any
		if len(input) > 0 {
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
		}
		return s.dispatch(ctx, meta, args)
	}

	s.srv.Tool(t.Name).
		Description(t.Description).
		Handler(handler)
}

// registerBuiltins adds server-side tools that answer from internal
// state rather than talosctl.
func (s *Server) registerBuiltins() error {
	return s.registry.Register(tools.Tool{
		Name:        "talos_cache_stats",
		Description: "Show result cache occupancy per operation",
		Schema:      json.RawMessage(`{"type": "object", "properties": {}}`),
		Local: func(tools.Arguments, tools.Defaults) (string, error) {
			stats := s.cache.Cache().Stats()
			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	})
}

// execute is the policy core behind every tool call.
func (s *Server) execute(ctx context.Context, meta observe.ToolMeta, args map[string]any) (string, error) {
	t, ok := s.registry.Get(meta.Name)
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", meta.Name)
	}

	if t.Local != nil {
		return t.Local(args, s.defaults)
	}

	if t.Mutating {
		if s.readonly {
			// The command never runs, so the cache stays intact.
			cmdErr := fault.NewCommandError(nil, -1, "read-only mode enabled", fault.KindReadOnly)
			s.metrics.RecordCommandFailure(ctx, meta.Name, cmdErr.Kind.String())
			s.logger.Warn(ctx, "mutating tool blocked in read-only mode",
				observe.Field{Key: "tool.name", Value: meta.Name})
			return talosctl.ErrorText(meta.Name, cmdErr), nil
		}
		if s.approver != nil {
			token, _ := args["approval_token"].(string)
			if err := s.approver.Verify(token, meta.Name); err != nil {
				cmdErr := fault.NewCommandError(nil, -1, err.Error(), fault.KindAuthenticationFailed)
				s.metrics.RecordCommandFailure(ctx, meta.Name, cmdErr.Kind.String())
				s.logger.Warn(ctx, "approval rejected",
					observe.Field{Key: "tool.name", Value: meta.Name},
					observe.Field{Key: "error", Value: err.Error()})
				return talosctl.ErrorText(meta.Name, cmdErr), nil
			}
		}
	}

	argv, err := t.Build(args, s.defaults)
	if err != nil {
		// Nothing ran: return the validation failure as a result
		// without touching the cache.
		cmdErr := fault.NewCommandError(nil, -1, err.Error(), fault.KindInvalidArguments)
		return talosctl.ErrorText(meta.Name, cmdErr), nil
	}

	produce := s.producer(meta.Name, argv)

	switch {
	case t.Mutating:
		return s.cache.Mutate(ctx, meta.Name, produce)
	case t.CacheTTL > 0:
		return s.cache.CachedRead(ctx, meta.Name, args, t.CacheTTL, produce)
	default:
		return produce(ctx)
	}
}

// producer builds the closure that runs one talosctl invocation. A
// classified command failure becomes an error-text result with a nil
// Go error: the command DID run, which matters to the mutation
// invalidation path, and the text keeps the remediation message in
// front of the caller.
func (s *Server) producer(name string, argv []string) cache.ProducerFunc {
	return func(ctx context.Context) (string, error) {
		res, err := s.executor.Execute(ctx, argv)
		if err == nil {
			return talosctl.Format(res), nil
		}

		var cmdErr *fault.CommandError
		if errors.As(err, &cmdErr) {
			s.metrics.RecordCommandFailure(ctx, name, cmdErr.Kind.String())
			s.logger.Error(ctx, "command failed",
				observe.Field{Key: "tool.name", Value: name},
				observe.Field{Key: "code", Value: int(cmdErr.Kind)},
				observe.Field{Key: "code_name", Value: cmdErr.Kind.String()},
				observe.Field{Key: "returncode", Value: cmdErr.ExitCode},
				observe.Field{Key: "stderr", Value: cmdErr.Stderr})
			return talosctl.ErrorText(name, cmdErr), nil
		}

		return "", err
	}
}

// Use adds MCP middleware.
func (s *Server) Use(middlewares ...mcpserver.Middleware) {
	s.srv.Use(middlewares...)
}

// ServeStdio runs the server over stdin/stdout until ctx is done.
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcpgo.ServeStdio(ctx, s.srv,
		mcpgo.WithMiddleware(mcpgo.Recover(), mcpgo.RequestID()))
}
