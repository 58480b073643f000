package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Arguments is the decoded argument map of a tool call.
type Arguments map[string]any

// Defaults carries context-level settings that argv builders may fall
// back on when a call omits an argument.
type Defaults struct {
	// Nodes is the configured node list, used when a call does not
	// name target nodes.
	Nodes []string

	// TalosconfigPath is the talosconfig in use, surfaced by
	// informational tools.
	TalosconfigPath string
}

// BuildFunc turns call arguments into a talosctl argv.
type BuildFunc func(args Arguments, defaults Defaults) ([]string, error)

// LocalFunc produces a result without invoking talosctl, for tools
// that answer from server-side state.
type LocalFunc func(args Arguments, defaults Defaults) (string, error)

// Tool describes one exposed operation. Exactly one of Build and Local
// is set.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage

	// Mutating marks tools that change cluster state. The dispatch
	// layer wipes the result cache after running one.
	Mutating bool

	// CacheTTL enables result caching for read tools when positive.
	CacheTTL time.Duration

	Build BuildFunc
	Local LocalFunc
}

// Registry holds the tool catalog in registration order.
type Registry struct {
	order  []string
	byName map[string]Tool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names and tools without exactly one
// of Build/Local are rejected.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tools: tool has no name")
	}
	if _, exists := r.byName[t.Name]; exists {
		return fmt.Errorf("tools: duplicate tool %q", t.Name)
	}
	if (t.Build == nil) == (t.Local == nil) {
		return fmt.Errorf("tools: tool %q must set exactly one of Build and Local", t.Name)
	}
	if t.Mutating && t.CacheTTL > 0 {
		return fmt.Errorf("tools: mutating tool %q must not cache", t.Name)
	}
	r.order = append(r.order, t.Name)
	r.byName[t.Name] = t
	return nil
}

// mustRegister panics on registration errors; used only for the static
// catalog, where a failure is a programming error.
func (r *Registry) mustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// stringArg returns the string value for key, or fallback when absent
// or empty.
func stringArg(args Arguments, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// boolArg returns the bool value for key, or fallback when absent.
func boolArg(args Arguments, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// requiredString returns the string value for key or an error when it
// is missing or empty.
func requiredString(args Arguments, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// nodesArg resolves the target node list. Absent, "all", and "cluster"
// all mean every configured node.
func nodesArg(args Arguments, defaults Defaults) (string, error) {
	nodes := stringArg(args, "nodes", "")
	if nodes != "" && !strings.EqualFold(nodes, "all") && !strings.EqualFold(nodes, "cluster") {
		return nodes, nil
	}
	if len(defaults.Nodes) == 0 {
		return "", fmt.Errorf("nodes is required: no default nodes configured")
	}
	return strings.Join(defaults.Nodes, ","), nil
}

// firstNode returns the first entry of a comma-separated node list.
func firstNode(nodes string) string {
	if i := strings.Index(nodes, ","); i >= 0 {
		return nodes[:i]
	}
	return nodes
}

// Shared argument schemas. Most tools take an optional or required
// comma-separated node list.
var (
	nodesOptionalSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"nodes": {
				"type": "string",
				"description": "Comma-separated list of node IPs/hostnames. Defaults to all configured nodes."
			}
		}
	}`)

	nodesRequiredSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"nodes": {
				"type": "string",
				"description": "Comma-separated list of node IPs/hostnames"
			}
		},
		"required": ["nodes"]
	}`)
)
