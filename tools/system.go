package tools

import (
	"time"
)

const dashboardText = "The Talos dashboard is an interactive TUI and cannot be rendered here.\n\n" +
	"Alternative tools for monitoring:\n" +
	"- talos_stats: Container CPU/Memory usage\n" +
	"- talos_memory: System memory details\n" +
	"- talos_processes: Running processes\n" +
	"- talos_dmesg: Kernel logs"

// registerSystem adds node and system inspection tools.
func registerSystem(r *Registry) {
	r.mustRegister(Tool{
		Name: "talos_version",
		Description: "Get Talos Linux version information from nodes. " +
			"Returns Talos OS version, Kubernetes version, and containerd version. " +
			"Use to verify cluster version consistency after upgrades or for auditing.",
		Schema:   nodesOptionalSchema,
		CacheTTL: 5 * time.Minute,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"version", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name: "talos_health",
		Description: "Check health status of Talos cluster. " +
			"Verifies API server, etcd, Kubernetes components, and node readiness. " +
			"Uses the first available node as endpoint (cluster-wide check).",
		Schema: nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			// health is a cluster-wide check; it takes one endpoint.
			return []string{"health", "-n", firstNode(nodes)}, nil
		},
	})

	r.mustRegister(Tool{
		Name: "talos_stats",
		Description: "Get container stats (CPU/Memory usage) from nodes. " +
			"Shows resource consumption of running containers.",
		Schema: nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"stats", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_containers",
		Description: "List containers running on the node",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"containers", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_processes",
		Description: "List processes running on the node",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"processes", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name: "talos_dashboard",
		Description: "Note: Dashboard is an interactive TUI and cannot be rendered here. " +
			"Use talos_stats, talos_memory, or talos_processes instead for resource information.",
		Schema: nodesOptionalSchema,
		Local: func(Arguments, Defaults) (string, error) {
			return dashboardText, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_memory",
		Description: "Get memory usage details",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"memory", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_time",
		Description: "Get system time",
		Schema:      nodesOptionalSchema,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"time", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_disks",
		Description: "List disk drives and their properties",
		Schema:      nodesOptionalSchema,
		CacheTTL:    time.Minute,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"get", "disks", "-n", nodes}, nil
		},
	})

	r.mustRegister(Tool{
		Name:        "talos_devices",
		Description: "List hardware devices (PCI, USB, System) via resource definitions",
		Schema:      nodesOptionalSchema,
		CacheTTL:    time.Minute,
		Build: func(args Arguments, defaults Defaults) ([]string, error) {
			nodes, err := nodesArg(args, defaults)
			if err != nil {
				return nil, err
			}
			return []string{"get", "devices", "-n", nodes}, nil
		},
	})
}
