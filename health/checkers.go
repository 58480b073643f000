package health

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// BinaryChecker verifies the talosctl executable resolves on PATH (or
// at its configured absolute path).
type BinaryChecker struct {
	binary string
}

// NewBinaryChecker creates a BinaryChecker for the given executable.
func NewBinaryChecker(binary string) *BinaryChecker {
	return &BinaryChecker{binary: binary}
}

func (c *BinaryChecker) Name() string { return "talosctl-binary" }

func (c *BinaryChecker) Check(_ context.Context) Result {
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return Unhealthy(fmt.Sprintf("%s not found in PATH", c.binary), err)
	}
	return Healthy(path)
}

// TalosconfigChecker verifies the talosconfig file is present and
// readable. An empty configured path is degraded, not unhealthy:
// talosctl falls back to its own default locations.
type TalosconfigChecker struct {
	path string
}

// NewTalosconfigChecker creates a TalosconfigChecker for the given
// path.
func NewTalosconfigChecker(path string) *TalosconfigChecker {
	return &TalosconfigChecker{path: path}
}

func (c *TalosconfigChecker) Name() string { return "talosconfig" }

func (c *TalosconfigChecker) Check(_ context.Context) Result {
	if c.path == "" {
		return Degraded("no talosconfig path configured, talosctl will use its defaults")
	}

	info, err := os.Stat(c.path)
	if err != nil {
		return Unhealthy(fmt.Sprintf("talosconfig %s not readable", c.path), err)
	}
	if info.IsDir() {
		return Unhealthy(fmt.Sprintf("talosconfig %s is a directory", c.path), nil)
	}
	return Healthy(c.path)
}

var (
	_ Checker = (*BinaryChecker)(nil)
	_ Checker = (*TalosconfigChecker)(nil)
)
