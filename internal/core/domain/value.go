package domain

import (
	"math"
	"strconv"

	"github.com/kylediaz/kv/pkg/resp"
)

// ValueKind identifies the variant held by a stored Value.
type ValueKind uint8

const (
	// KindText is a value written by SET or MSET.
	KindText ValueKind = iota + 1
	// KindNumber is a value created by INCR on an absent key.
	KindNumber
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Value is a stored value: either text or a signed 64-bit number.
// The zero Value is invalid.
type Value struct {
	kind ValueKind
	text string
	num  int64
}

// TextValue returns a text value.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// NumberValue returns a number value.
func NumberValue(n int64) Value {
	return Value{kind: KindNumber, num: n}
}

// Kind returns the variant of v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Text returns the text of a text value.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Number returns the number of a number value.
func (v Value) Number() (int64, bool) {
	return v.num, v.kind == KindNumber
}

// Wire re-expresses v as its reply type: text as a bulk string,
// numbers as an integer.
func (v Value) Wire() resp.Value {
	if v.kind == KindNumber {
		return resp.Integer(v.num)
	}
	return resp.BulkString(v.text)
}

// String renders v for logs.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatInt(v.num, 10)
	}
	return v.text
}

// Incr returns the value stored after an increment by one, and the new
// integer. A number stays a number; text that parses as a base-10 integer
// stays text holding the incremented digits.
func (v Value) Incr() (Value, int64, error) {
	var n int64
	switch v.kind {
	case KindNumber:
		n = v.num
	case KindText:
		parsed, err := strconv.ParseInt(v.text, 10, 64)
		if err != nil {
			return v, 0, ErrValueNotInteger
		}
		n = parsed
	default:
		return v, 0, ErrValueNotInteger
	}

	if n == math.MaxInt64 {
		return v, 0, ErrIncrOverflow
	}
	n++

	if v.kind == KindNumber {
		return NumberValue(n), n, nil
	}
	return TextValue(strconv.FormatInt(n, 10)), n, nil
}
