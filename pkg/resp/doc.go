// Package resp implements the RESP2 wire codec used by kv.
//
// The codec is a pure function of a byte buffer and a cursor:
//
//	pos := 0
//	v, err := resp.Decode(buf, &pos)
//	out := resp.Encode(v)
//
// Supported values:
//   - Array:         *<n>\r\n followed by n values (nesting allowed)
//   - Bulk string:   $<len>\r\n<bytes>\r\n ($-1\r\n is Null)
//   - Simple string: +<text>\r\n
//   - Error:         -<text>\r\n (replies only)
//   - Integer:       :<n>\r\n
//
// A buffer that does not start with a type prefix is parsed as a legacy
// inline command ("PING\r\n", "SET a b\r\n") and returned as an Array of
// bulk strings, so plain-text clients work without framing.
//
// Decode handles exactly one message. Framer sits on top of it for
// network streams: it keeps the unconsumed tail between reads, splits
// pipelined messages and enforces size limits.
package resp
