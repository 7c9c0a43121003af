// Package output renders RESP replies for kv-cli.
//
// The raw format mimics redis-cli:
//
//	"hello"          bulk string
//	OK               simple string
//	(integer) 42
//	(nil)
//	(error) ERR ...
//	1) "a"           arrays, numbered and nested
//	2) (nil)
//
// The json and yaml formats encode the same reply as plain data so it
// can be piped into other tools.
package output
