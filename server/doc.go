// Package server exposes the tool catalog over the Model Context
// Protocol and enforces the execution policy around each call:
// read-only mode, approval tokens for mutations, result caching, and
// cache invalidation after mutating operations.
package server
