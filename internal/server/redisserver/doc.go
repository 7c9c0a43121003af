// Package redisserver serves the key-value store over RESP2.
//
// The Dispatcher classifies each decoded request into a closed set of
// commands. Administrative commands are answered here:
//   - PING, ECHO, COMMAND DOCS
//   - CONFIG GET, CONFIG SET
//   - QUIT
//
// Data commands (GET, SET, MGET, MSET, DEL, INCR) are forwarded with
// their full token list to an Executor, normally memory.Store.
//
// The Server owns the TCP listener and runs one goroutine per client.
// Each connection frames pipelined or split input with resp.Framer,
// replies to every command in order, and flushes once per read. A
// command error becomes an "-ERR" reply and the connection stays open;
// a malformed stream gets "-ERR Protocol error" and is closed.
package redisserver
