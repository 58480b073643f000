package talosctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonwraymond/talosops/fault"
	"github.com/jonwraymond/talosops/observe"
)

// Result is the outcome of a talosctl invocation that ran to
// completion, successfully or not.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Config controls how the Runner invokes talosctl.
type Config struct {
	// Binary is the executable name or path. Defaults to "talosctl".
	Binary string

	// ConfigPath, when set, is passed as --talosconfig on every call.
	ConfigPath string

	// Timeout bounds each invocation. Defaults to 30s.
	Timeout time.Duration

	// MaxInFlight caps concurrent invocations. Defaults to 4.
	MaxInFlight int64
}

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = "talosctl"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = 4
	}
	return c
}

// Runner executes talosctl commands.
//
// Contract:
//   - Concurrency: safe for concurrent use; at most MaxInFlight
//     invocations run at once, the rest queue on the semaphore.
//   - Context: cancellation aborts both queued and running invocations.
//   - Errors: every failure is a *fault.CommandError with a classified
//     kind; Execute never returns a bare exec error.
type Runner struct {
	cfg    Config
	sem    *semaphore.Weighted
	logger observe.Logger
}

// NewRunner creates a Runner. logger may be nil.
func NewRunner(cfg Config, logger observe.Logger) *Runner {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = observe.NoopLogger()
	}
	return &Runner{
		cfg:    cfg,
		sem:    semaphore.NewWeighted(cfg.MaxInFlight),
		logger: logger,
	}
}

// Execute runs talosctl with the given arguments and returns the
// captured output. The configured talosconfig path is prepended when
// set. A non-zero exit, a timeout, or a launch failure all surface as
// *fault.CommandError.
func (r *Runner) Execute(ctx context.Context, args []string) (Result, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return Result{}, fault.NewCommandError(args, -1, err.Error(), fault.KindInternal)
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	full := args
	if r.cfg.ConfigPath != "" {
		full = append([]string{"--talosconfig", r.cfg.ConfigPath}, args...)
	}

	r.logger.Debug(ctx, "executing command",
		observe.Field{Key: "command", Value: r.cfg.Binary + " " + strings.Join(full, " ")})

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.cfg.Binary, full...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			msg := fmt.Sprintf("command timed out after %s", r.cfg.Timeout)
			return res, fault.NewCommandError(args, 124, msg, fault.KindTimeout)
		}

		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
			return res, fault.NewCommandError(args, res.ExitCode, res.Stderr, fault.KindCommandFailed)
		case errors.Is(err, exec.ErrNotFound):
			return res, fault.NewCommandError(args, 127, err.Error(), fault.KindCommandNotFound)
		default:
			return res, fault.NewCommandError(args, -1, err.Error(), fault.KindInternal)
		}
	}

	r.logger.Debug(ctx, "command completed",
		observe.Field{Key: "duration_ms", Value: float64(elapsed.Milliseconds())})

	return res, nil
}

// Format renders a successful result as a fenced code block, stderr
// appended after a blank line when the command wrote any.
func Format(res Result) string {
	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString(strings.TrimRight(res.Stdout, "\n"))
	if s := strings.TrimSpace(res.Stderr); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	b.WriteString("\n```")
	return b.String()
}

// ErrorText renders a failed invocation as the text payload returned to
// the caller in place of command output.
func ErrorText(toolName string, err *fault.CommandError) string {
	return fmt.Sprintf("Error executing %s:\n%s", toolName, err.UserMessage())
}
