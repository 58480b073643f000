package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// registerConfig adds machine configuration tools. Applying or
// patching config changes node state; generation and validation are
// local operations.
func registerConfig(r *Registry) {
	r.mustRegister(Tool{
		Name:        "talos_config_info",
		Description: "Get information about the current Talos configuration context",
		Schema:      json.RawMessage(`{"type": "object", "properties": {}}`),
		Local: func(_ Arguments, defaults Defaults) (string, error) {
			info := map[string]any{
				"talosconfig": defaults.TalosconfigPath,
				"nodes":       defaults.Nodes,
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_kubeconfig",
		Description: "Retrieve kubeconfig from the cluster",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"force": {"type": "boolean", "default": false, "description": "Force overwrite"}
			},
			"required": ["nodes"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			cmd := []string{"kubeconfig", "-n", nodes}
			if boolArg(args, "force", false) {
				cmd = append(cmd, "--force")
			}
			return cmd, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_apply_config",
		Description: "Apply a new configuration to node(s). Deprecated in Talos 1.12, use talos_apply.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"file": {"type": "string", "description": "Path to config file"},
				"mode": {"type": "string", "enum": ["auto", "reboot", "no-reboot"], "default": "auto"}
			},
			"required": ["nodes", "file"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			file, err := requiredString(args, "file")
			if err != nil {
				return nil, err
			}
			return []string{"apply-config", "-f", file, "-n", nodes, "--mode", stringArg(args, "mode", "auto")}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_apply",
		Description: "Apply a manifest to node(s) (new in Talos 1.12)",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"file": {"type": "string", "description": "Path to manifest file"},
				"mode": {"type": "string", "enum": ["auto", "reboot", "no-reboot"], "default": "auto"}
			},
			"required": ["nodes", "file"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			file, err := requiredString(args, "file")
			if err != nil {
				return nil, err
			}
			return []string{"apply", "-f", file, "-n", nodes, "--mode", stringArg(args, "mode", "auto")}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_validate_config",
		Description: "Validate a Talos configuration file",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string", "description": "Path to config file"},
				"mode": {"type": "string", "enum": ["metal", "cloud", "container"], "default": "metal"}
			},
			"required": ["file"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			file, err := requiredString(args, "file")
			if err != nil {
				return nil, err
			}
			mode := stringArg(args, "mode", "metal")
			switch mode {
			case "metal", "cloud", "container":
			default:
				return nil, fmt.Errorf("invalid mode %q: must be metal, cloud, or container", mode)
			}
			return []string{"validate", "-c", file, "--mode", mode}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_patch",
		Description: "Patch a machine config resource on node(s) with an RFC 6902 JSON patch",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"patch": {"type": "string", "description": "JSON patch document"},
				"mode": {"type": "string", "enum": ["auto", "reboot", "no-reboot"], "default": "auto"}
			},
			"required": ["nodes", "patch"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			patch, err := requiredString(args, "patch")
			if err != nil {
				return nil, err
			}
			return []string{"patch", "machineconfig", "--patch", patch, "-n", nodes, "--mode", stringArg(args, "mode", "auto")}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_machine_config_patch",
		Description: "Patch a machine config file locally without applying it",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string", "description": "Path to config file"},
				"patch": {"type": "string", "description": "JSON patch document"},
				"output": {"type": "string", "description": "Output path; defaults to stdout"}
			},
			"required": ["file", "patch"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			file, err := requiredString(args, "file")
			if err != nil {
				return nil, err
			}
			patch, err := requiredString(args, "patch")
			if err != nil {
				return nil, err
			}
			cmd := []string{"machineconfig", "patch", file, "--patch", patch}
			if output := stringArg(args, "output", ""); output != "" {
				cmd = append(cmd, "-o", output)
			}
			return cmd, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_gen_config",
		Description: "Generate a new cluster configuration locally",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"cluster_name": {"type": "string", "description": "Name for the new cluster"},
				"endpoint": {"type": "string", "description": "Cluster endpoint URL, e.g. https://10.0.0.1:6443"},
				"output_dir": {"type": "string", "description": "Directory to write config files to"}
			},
			"required": ["cluster_name", "endpoint"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			name, err := requiredString(args, "cluster_name")
			if err != nil {
				return nil, err
			}
			endpoint, err := requiredString(args, "endpoint")
			if err != nil {
				return nil, err
			}
			if !strings.HasPrefix(endpoint, "https://") {
				return nil, fmt.Errorf("endpoint must be an https:// URL")
			}
			cmd := []string{"gen", "config", name, endpoint}
			if dir := stringArg(args, "output_dir", ""); dir != "" {
				cmd = append(cmd, "--output-dir", dir)
			}
			return cmd, nil
		},
	})
}
