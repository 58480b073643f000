package tools

import (
	"encoding/json"
	"fmt"
)

// registerCluster adds node lifecycle and cluster management tools.
// All of these except talos_cluster_show change cluster state.
func registerCluster(r *Registry) {
	r.mustRegister(Tool{
		Name: "talos_reboot",
		Description: "Reboot Talos node(s). Disrupts workloads; use with caution. " +
			"Modes: default, powercycle, force. " +
			"Warning: Ensure pod disruption budgets are set to maintain availability.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"mode": {"type": "string", "enum": ["default", "powercycle", "force"], "default": "default"}
			},
			"required": ["nodes"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			cmd := []string{"reboot", "-n", nodes}
			if mode := stringArg(args, "mode", "default"); mode != "default" {
				cmd = append(cmd, "--mode", mode)
			}
			return cmd, nil
		},
	})

	r.mustRegister(Tool{
		Name: "talos_shutdown",
		Description: "Shutdown Talos node(s). EXTREME CAUTION: node will not auto-restart. " +
			"Requires physical access or IPMI to power back on. " +
			"Use force=true for unresponsive nodes.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"force": {"type": "boolean", "default": false, "description": "Force shutdown"}
			},
			"required": ["nodes"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			cmd := []string{"shutdown", "-n", nodes}
			if boolArg(args, "force", false) {
				cmd = append(cmd, "--force")
			}
			return cmd, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_reset",
		Description: "Reset node(s) to maintenance mode or factory",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"reboot": {"type": "boolean", "default": false, "description": "Reboot after reset"},
				"system_labels_to_wipe": {"type": "string", "description": "System labels to wipe"},
				"graceful": {"type": "boolean", "default": true, "description": "Graceful reset"}
			},
			"required": ["nodes"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			cmd := []string{"reset", "-n", nodes}
			if boolArg(args, "reboot", false) {
				cmd = append(cmd, "--reboot")
			}
			if labels := stringArg(args, "system_labels_to_wipe", ""); labels != "" {
				cmd = append(cmd, "--system-labels-to-wipe", labels)
			}
			if !boolArg(args, "graceful", true) {
				cmd = append(cmd, "--graceful=false")
			}
			return cmd, nil
		},
	})

	r.mustRegister(Tool{
		Name: "talos_upgrade",
		Description: "Upgrade Talos OS on node(s). DISRUPTIVE: node will reboot. " +
			"Image format: ghcr.io/siderolabs/installer:v<VERSION>. " +
			"Warning: Test in staging first. Use preserve=true (default) to keep data.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"image": {"type": "string", "description": "Installer image to use"},
				"preserve": {"type": "boolean", "default": true, "description": "Preserve data"}
			},
			"required": ["nodes", "image"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			image, err := requiredString(args, "image")
			if err != nil {
				return nil, err
			}
			cmd := []string{"upgrade", "-n", nodes, "--image", image}
			if boolArg(args, "preserve", true) {
				cmd = append(cmd, "--preserve")
			}
			return cmd, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_image",
		Description: "Manage container images on Talos nodes. Commands: list, pull, default, cache-create, cache-serve.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"cmd": {"type": "string", "enum": ["list", "pull", "default", "cache-create", "cache-serve"], "default": "list"},
				"image": {"type": "string", "description": "Image name (for pull/cache-create)"},
				"layout": {"type": "string", "description": "Layout for cache commands (oci, flat)"},
				"platform": {"type": "string", "description": "Platform for cache-create"}
			},
			"required": ["nodes"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}

			cmd := []string{"image"}
			switch sub := stringArg(args, "cmd", "list"); sub {
			case "pull", "cache-create":
				image, err := requiredString(args, "image")
				if err != nil {
					return nil, fmt.Errorf("image name required for %s", sub)
				}
				cmd = append(cmd, sub, image)
				if sub == "cache-create" {
					if layout := stringArg(args, "layout", ""); layout != "" {
						cmd = append(cmd, "--layout", layout)
					}
					if platform := stringArg(args, "platform", ""); platform != "" {
						cmd = append(cmd, "--platform", platform)
					}
				}
			case "default":
				cmd = append(cmd, "default")
			case "cache-serve":
				cmd = append(cmd, "cache-serve")
				if layout := stringArg(args, "layout", ""); layout != "" {
					cmd = append(cmd, "--layout", layout)
				}
			default:
				cmd = append(cmd, "list")
			}

			return append(cmd, "-n", nodes), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_bootstrap",
		Description: "Bootstrap the etcd cluster on the specified node",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Node IP/hostname (usually just one)"}
			},
			"required": ["nodes"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"bootstrap", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_cluster_show",
		Description: "High-level view of cluster members and their status",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			cmd := []string{"cluster", "show"}
			// cluster show resolves members from the context; nodes are
			// only a filter.
			if nodes := stringArg(args, "nodes", ""); nodes != "" {
				cmd = append(cmd, "-n", nodes)
			}
			return cmd, nil
		},
	})
}
