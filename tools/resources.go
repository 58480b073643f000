package tools

import (
	"encoding/json"
	"fmt"
)

// registerResources adds COSI resource inspection tools plus the
// volume and cgroup tools layered on them.
func registerResources(r *Registry) {
	r.mustRegister(Tool{
		Name:        "talos_get_resource",
		Description: "Get an arbitrary resource by type and optional ID, e.g. type=members or type=nodename",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"type": {"type": "string", "description": "Resource type, e.g. members, nodename, mounts"},
				"id": {"type": "string", "description": "Resource ID (optional)"},
				"namespace": {"type": "string", "description": "Resource namespace (optional)"}
			},
			"required": ["nodes", "type"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			resourceType, err := requiredString(args, "type")
			if err != nil {
				return nil, err
			}
			cmd := []string{"get", resourceType}
			if id := stringArg(args, "id", ""); id != "" {
				cmd = append(cmd, id)
			}
			if ns := stringArg(args, "namespace", ""); ns != "" {
				cmd = append(cmd, "--namespace", ns)
			}
			return append(cmd, "-n", nodes), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_list_definitions",
		Description: "List all resource definitions known to the node",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"get", "resourcedefinitions", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_volume_status",
		Description: "Show volume provisioning status",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"get", "volumestatus", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_kernel_param_status",
		Description: "Show kernel parameter status",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"get", "kernelparamstatuses", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_volumes",
		Description: "Manage user volumes (Talos 1.12+). Actions: list, status, unmount.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"action": {"type": "string", "enum": ["list", "status", "unmount"], "default": "list"},
				"volume": {"type": "string", "description": "Volume name (required for unmount)"}
			},
			"required": ["nodes"]
		}`),
		// unmount detaches a volume from the node.
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			action := stringArg(args, "action", "list")
			switch action {
			case "list", "status", "unmount":
			default:
				return nil, fmt.Errorf("invalid action %q: must be list, status, or unmount", action)
			}

			cmd := []string{"volumes", action}
			volume := stringArg(args, "volume", "")
			if action == "unmount" && volume == "" {
				return nil, fmt.Errorf("volume is required for unmount")
			}
			if volume != "" {
				cmd = append(cmd, volume)
			}
			return append(cmd, "--nodes", nodes), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_cgroups",
		Description: "Show the cgroup hierarchy and resource usage (Talos 1.9+)",
		Schema:      nodesRequiredSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"cgroups", "--nodes", nodes}, nil
		},
	})
}
