// Package config loads server configuration from a YAML file and
// TALOS_MCP_ environment variables, with strict ${VAR} expansion of
// file values.
package config
