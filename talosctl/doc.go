// Package talosctl invokes the talosctl binary and shapes its output.
//
// The Runner serializes access behind a weighted semaphore, applies a
// per-invocation timeout, and converts process failures into
// fault.CommandError values carrying the classified failure kind.
package talosctl
