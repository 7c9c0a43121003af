// Package tests holds cross-package integration tests for kv-server.
package tests
