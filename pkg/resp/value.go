package resp

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindSimpleString
	KindError
	KindInteger
	KindBulkString
	KindArray
)

// String returns the RESP name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindSimpleString:
		return "simple-string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded RESP value. Only the field matching Kind is meaningful:
// Str for simple strings, errors and bulk strings, Int for integers and
// Array for arrays.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Array []Value
}

// Null returns the null bulk string.
func Null() Value {
	return Value{Kind: KindNull}
}

// SimpleString returns a simple string value. s must not contain CR or LF.
func SimpleString(s string) Value {
	return Value{Kind: KindSimpleString, Str: s}
}

// Error returns an error reply value.
func Error(msg string) Value {
	return Value{Kind: KindError, Str: msg}
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{Kind: KindInteger, Int: n}
}

// BulkString returns a bulk string value.
func BulkString(s string) Value {
	return Value{Kind: KindBulkString, Str: s}
}

// Array returns an array value holding vs.
// A nil vs still encodes as an empty array.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{Kind: KindArray, Array: vs}
}

// Command builds the array-of-bulk-strings form clients use for requests.
func Command(args ...string) Value {
	vs := make([]Value, len(args))
	for i, a := range args {
		vs[i] = BulkString(a)
	}
	return Array(vs...)
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInteger:
		return v.Int == o.Int
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	default:
		return v.Str == o.Str
	}
}

// Strings returns the elements of an array of bulk strings.
// ok is false if v is not an array or any element is not a bulk string.
func (v Value) Strings() (out []string, ok bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	out = make([]string, 0, len(v.Array))
	for _, e := range v.Array {
		if e.Kind != KindBulkString {
			return nil, false
		}
		out = append(out, e.Str)
	}
	return out, true
}

// String renders v for logs and test failures.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "(nil)"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindSimpleString:
		return "+" + v.Str
	case KindError:
		return "-" + v.Str
	case KindBulkString:
		return strconv.Quote(v.Str)
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return v.Kind.String()
	}
}
