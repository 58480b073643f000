package tools

import (
	"encoding/json"
	"fmt"
)

// registerFiles adds filesystem inspection and transfer tools.
func registerFiles(r *Registry) {
	r.mustRegister(Tool{
		Name:        "talos_ls",
		Description: "List files and directories",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"path": {"type": "string", "description": "Directory path", "default": "/"}
			},
			"required": ["nodes"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"ls", stringArg(args, "path", "/"), "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_cat",
		Description: "Read file content",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"path": {"type": "string", "description": "File path to read"}
			},
			"required": ["nodes", "path"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			path, err := requiredString(args, "path")
			if err != nil {
				return nil, err
			}
			return []string{"read", path, "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_cp",
		Description: "Copy files to/from node",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"src": {"type": "string", "description": "Source path"},
				"dst": {"type": "string", "description": "Destination path"},
				"direction": {"type": "string", "enum": ["upload", "download"], "default": "download", "description": "upload (local to node) or download (node to local)"}
			},
			"required": ["nodes", "src", "dst"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			src, err := requiredString(args, "src")
			if err != nil {
				return nil, err
			}
			dst, err := requiredString(args, "dst")
			if err != nil {
				return nil, err
			}
			if stringArg(args, "direction", "download") == "upload" {
				return []string{"cp", src, fmt.Sprintf("%s:%s", nodes, dst)}, nil
			}
			return []string{"cp", fmt.Sprintf("%s:%s", nodes, src), dst}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_du",
		Description: "Check disk usage",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"nodes": {"type": "string", "description": "Comma-separated list of node IPs/hostnames"},
				"path": {"type": "string", "description": "Path to check", "default": "/"}
			},
			"required": ["nodes"]
		}`),
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"usage", stringArg(args, "path", "/"), "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_mounts",
		Description: "List mount points",
		Schema:      nodesRequiredSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"mounts", "-n", nodes}, nil
		},
	})
}
