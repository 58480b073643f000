package fault

import (
	"fmt"
	"strings"
)

// exitCodeKinds maps well-known shell exit codes to kinds. Checked
// before stderr inspection; first match wins.
var exitCodeKinds = []struct {
	code int
	kind Kind
}{
	{127, KindCommandNotFound},
	{126, KindPermissionDenied},
	{124, KindTimeout},
	{143, KindTimeout},
}

// stderrPatterns is the ordered substring heuristic applied to
// lower-cased stderr. Order is significant: the first pattern found
// wins, so more specific patterns must precede broader ones. The list
// is deliberately kept in its historical order; reordering changes
// classification of overlapping stderr text.
var stderrPatterns = []struct {
	substr string
	kind   Kind
}{
	{"connection refused", KindConnectionFailed},
	{"connection reset", KindConnectionFailed},
	{"no route to host", KindNodeUnreachable},
	{"unreachable", KindNodeUnreachable},
	{"timeout", KindTimeout},
	{"deadline exceeded", KindTimeout},
	{"context deadline", KindTimeout},
	{"not found", KindResourceNotFound},
	{"permission denied", KindPermissionDenied},
	{"unauthorized", KindAuthenticationFailed},
	{"authentication failed", KindAuthenticationFailed},
	{"certificate", KindAuthenticationFailed},
	{"tls", KindAuthenticationFailed},
	{"readonly", KindReadOnly},
	{"read-only", KindReadOnly},
}

// Classify maps a failed invocation to a Kind.
//
// An explicit kind other than KindCommandFailed is returned unchanged.
// Otherwise the exit code table is consulted, then the ordered stderr
// substring list, and finally KindCommandFailed as the catch-all.
// Classify never fails.
func Classify(exitCode int, stderr string, explicit Kind) Kind {
	if explicit != KindCommandFailed {
		return explicit
	}

	for _, e := range exitCodeKinds {
		if exitCode == e.code {
			return e.kind
		}
	}

	lower := strings.ToLower(stderr)
	for _, p := range stderrPatterns {
		if strings.Contains(lower, p.substr) {
			return p.kind
		}
	}

	return KindCommandFailed
}

// CommandError describes a failed talosctl invocation. It is
// constructed once at the failure site and immutable thereafter.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Kind     Kind
}

// NewCommandError builds a CommandError, inferring the kind from the
// exit code and stderr when the caller passes KindCommandFailed.
func NewCommandError(args []string, exitCode int, stderr string, kind Kind) *CommandError {
	return &CommandError{
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		Kind:     Classify(exitCode, stderr, kind),
	}
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed with code %d: %s", e.ExitCode, e.Stderr)
}

// userMessages maps kinds to remediation text: what happened plus one
// concrete next step. Kinds without an entry fall back to a generic
// message in UserMessage.
var userMessages = map[Kind]string{
	KindCommandNotFound: "talosctl not found in PATH. " +
		"Please install talosctl from https://talos.dev/install",
	KindConnectionFailed: "Cannot connect to Talos node. " +
		"Check if the node is online and network connectivity is available.",
	KindAuthenticationFailed: "Authentication failed. " +
		"Check your talosconfig file has valid certificates and the node trusts your client.",
	KindPermissionDenied: "Permission denied. " +
		"Your credentials may not have permission to perform this operation.",
	KindTimeout: "Request timed out. " +
		"The node may be overloaded or network latency is too high. Try again later.",
	KindResourceNotFound: "Requested resource not found. " +
		"Verify the resource name and that it exists on the target node.",
	KindReadOnly: "Operation blocked in read-only mode. " +
		"Set TALOS_MCP_READONLY=false or remove --readonly flag to enable write operations.",
	KindNodeUnreachable: "Node is unreachable. " +
		"Verify the node IP/hostname is correct and the node is running.",
}

// UserMessage returns remediation text followed by the raw stderr, so
// the original diagnostic detail survives even when classification is
// imprecise.
func (e *CommandError) UserMessage() string {
	if msg, ok := userMessages[e.Kind]; ok {
		return fmt.Sprintf("%s\n\nTechnical details: %s", msg, e.Stderr)
	}
	return fmt.Sprintf("Operation failed: %s", e.Stderr)
}

// LogFields returns the error as flat key/value pairs for structured
// logging.
func (e *CommandError) LogFields() map[string]any {
	return map[string]any{
		"error":      e.Error(),
		"code":       int(e.Kind),
		"code_name":  e.Kind.String(),
		"command":    strings.Join(e.Args, " "),
		"returncode": e.ExitCode,
		"stderr":     e.Stderr,
	}
}
