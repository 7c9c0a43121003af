// Package memory provides the in-memory key-value table.
//
// A Store holds every key in one map guarded by one mutex. Every command,
// including pure reads such as GET and MGET, takes the same lock and runs
// to completion before the next caller proceeds, so concurrent commands
// are linearized and no caller observes a partially applied MSET.
//
// Supported commands:
//
//   - GET key
//   - SET key value
//   - MGET key [key ...]
//   - MSET key value [key value ...]
//   - DEL key [key ...]
//   - INCR key
package memory
