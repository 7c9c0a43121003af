// Package command defines the kv-cli application.
//
// With arguments, kv-cli sends one command and prints the reply. Without
// arguments it starts an interactive prompt. Settings come from
// ~/.kvcli.yaml, KV_CLI_* environment variables and flags, in increasing
// order of precedence.
package command
