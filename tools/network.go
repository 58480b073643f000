package tools

import (
	"encoding/json"
	"strconv"
)

// registerNetwork adds network inspection tools.
func registerNetwork(r *Registry) {
	r.mustRegister(Tool{
		Name:        "talos_interfaces",
		Description: "List network interfaces and their link state",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"get", "links", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_routes",
		Description: "List network routes",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"get", "routes", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_netstat",
		Description: "Show network connection statistics",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"netstat", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name: "talos_pcap",
		Description: "Capture network packets on an interface for a bounded duration. " +
			"Output is a packet summary, not a pcap file.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"interface": {"type": "string", "description": "Interface to capture on", "default": "eth0"},
				"duration_seconds": {"type": "integer", "description": "Capture duration in seconds", "default": 5}
			},
			"required": ["nodes"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			cmd := []string{"pcap", "-i", stringArg(args, "interface", "eth0"), "-n", nodes}
			// JSON numbers decode as float64.
			if v, ok := args["duration_seconds"].(float64); ok && v > 0 {
				cmd = append(cmd, "--duration", strconv.Itoa(int(v))+"s")
			}
			return cmd, nil
		},
	})
}
