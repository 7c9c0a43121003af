// Package config holds the server configuration.
//
// Two views of the same settings live here:
//
//   - table.go: Table, the string map behind CONFIG GET and CONFIG SET
//   - spec.go: ServerConfig, the typed view the server boots from
//   - default.go: Default configuration values
//   - verify.go: Validation of the typed view
//   - sanitize.go: Log sanitization (hide sensitive values)
//
// Values are loaded via internal/infra/confloader from redis.conf style
// files, YAML files, stdin, environment variables and --key value flags.
package config
