// Package connection is the RESP client used by kv-cli.
//
// Client sends one command at a time and reads exactly one reply.
// Manager owns the current Client and redials on demand, so the REPL
// recovers after the server closes the connection (QUIT, restart).
package connection
