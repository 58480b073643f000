package tools

import (
	"encoding/json"
	"fmt"
)

var serviceActions = map[string]bool{
	"status":  true,
	"start":   true,
	"stop":    true,
	"restart": true,
}

// registerServices adds service, log, and event tools.
func registerServices(r *Registry) {
	r.mustRegister(Tool{
		Name: "talos_service",
		Description: "Inspect or control a system service. " +
			"Actions: status (default), start, stop, restart. " +
			"Omit the service name to list all services.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"service": {"type": "string", "description": "Service name, e.g. kubelet, etcd"},
				"action": {"type": "string", "enum": ["status", "start", "stop", "restart"], "default": "status"}
			},
			"required": ["nodes"]
		}`),
		// start/stop/restart change node state.
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			action := stringArg(args, "action", "status")
			if !serviceActions[action] {
				return nil, fmt.Errorf("invalid action %q: must be status, start, stop, or restart", action)
			}

			service := stringArg(args, "service", "")
			cmd := []string{"service"}
			if service != "" {
				cmd = append(cmd, service)
				if action != "status" {
					cmd = append(cmd, action)
				}
			}
			return append(cmd, "-n", nodes), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_logs",
		Description: "Get logs for a system service",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"service": {"type": "string", "description": "Service name, e.g. kubelet, etcd"},
				"tail": {"type": "integer", "description": "Number of log lines from the end", "default": 100}
			},
			"required": ["nodes", "service"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			service, err := requiredString(args, "service")
			if err != nil {
				return nil, err
			}
			cmd := []string{"logs", service, "-n", nodes}
			if v, ok := args["tail"].(float64); ok && v > 0 {
				cmd = append(cmd, "--tail", fmt.Sprintf("%d", int(v)))
			}
			return cmd, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_dmesg",
		Description: "Get kernel logs",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"dmesg", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_events",
		Description: "Show runtime events from nodes",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"events", "-n", nodes}, nil
		},
	})
}
