// Package fault classifies failed talosctl invocations into a stable
// error taxonomy and attaches operator-facing remediation messages.
//
// Classification is a pure function of exit code and stderr text; it
// never fails and degrades to KindCommandFailed when nothing matches.
package fault
