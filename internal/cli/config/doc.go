// Package config holds kv-cli's own settings, read from ~/.kvcli.yaml.
//
// Command-line flags override file values; the file overrides defaults.
package config
