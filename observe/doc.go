// Package observe provides observability for talosctl-backed tool calls:
// OpenTelemetry tracing and metrics, a structured JSON logger with an
// optional audit file, and a middleware that instruments dispatch.
//
// It is a pure instrumentation layer: no execution, no transport, no I/O
// beyond exporter setup and log writes.
package observe
