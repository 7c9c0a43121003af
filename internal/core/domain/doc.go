// Package domain defines the core types shared by the command dispatcher
// and the storage engine.
//
// Domain types are plain values without IO dependencies. This package contains:
//
//   - Value: the stored value, either text or a 64-bit number
//   - Errors: command-level error definitions
//
// Wire-format errors are not part of this package; they belong to the
// protocol codec in pkg/resp.
package domain
