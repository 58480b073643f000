// Package health reports server readiness: whether the talosctl
// binary is resolvable and the talosconfig readable. Results are
// served on an optional admin HTTP listener alongside Prometheus
// metrics.
package health
