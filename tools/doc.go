// Package tools defines the talosctl tool catalog: one declarative
// Tool per exposed operation, with its input schema, caching policy,
// mutation classification, and the argv builder that turns validated
// arguments into a talosctl invocation.
package tools
