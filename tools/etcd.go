package tools

import (
	"encoding/json"
	"fmt"
)

// registerEtcd adds etcd management tools. Alarm disarm and defrag
// change etcd state, so those tools are classified as mutating even
// though the underlying commands look read-adjacent.
func registerEtcd(r *Registry) {
	r.mustRegister(Tool{
		Name: "talos_etcd_members",
		Description: "List etcd cluster members with ID, status, and peer URLs. " +
			"Use to verify cluster membership and identify the leader. Use a control plane node.",
		Schema: nodesRequiredSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			return []string{"etcd", "members", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name: "talos_etcd_snapshot",
		Description: "Create etcd backup snapshot for disaster recovery. " +
			"Saves point-in-time backup to the specified local path. Use a control plane node.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"path": {"type": "string", "description": "Path to save snapshot locally", "default": "/tmp/etcd.snapshot"}
			},
			"required": ["nodes"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			return []string{"etcd", "snapshot", stringArg(args, "path", "/tmp/etcd.snapshot"), "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_etcd_alarm",
		Description: "List or disarm etcd alarms",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"action": {"type": "string", "enum": ["list", "disarm"], "default": "list"}
			},
			"required": ["nodes"]
		}`),
		Mutating: true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			action := stringArg(args, "action", "list")
			if action != "list" && action != "disarm" {
				return nil, fmt.Errorf("invalid action %q: must be list or disarm", action)
			}
			return []string{"etcd", "alarm", action, "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_etcd_defrag",
		Description: "Defragment etcd member",
		Schema:      nodesRequiredSchema,
		Mutating:    true,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := requiredString(args, "nodes")
			if err != nil {
				return nil, err
			}
			return []string{"etcd", "defrag", "-n", nodes}, nil
		},
	})
}
