// Package cache memoizes talosctl tool results in memory.
//
// Results are keyed by operation name plus a canonical rendering of the
// call arguments, expire lazily against a caller-supplied TTL, and are
// wiped wholesale after any mutating operation so reads never observe
// pre-mutation state.
package cache
