package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Decode error kinds. Every error returned by Decode wraps exactly one of these.
var (
	ErrWrongType     = errors.New("resp: wrong type prefix")
	ErrInvalidLength = errors.New("resp: invalid length")
	ErrOutOfBounds   = errors.New("resp: out of bounds")
	ErrInvalidUTF8   = errors.New("resp: invalid utf-8")
	ErrParseInt      = errors.New("resp: invalid integer")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// ParseError describes where decoding failed.
type ParseError struct {
	// Err is one of the package sentinel errors.
	Err error
	// Offset is the buffer position at which the problem was detected.
	Offset int
	// Detail is an optional human-readable explanation.
	Detail string
	// Incomplete is set when decoding ran off the end of the buffer,
	// i.e. more bytes could turn this into a valid message.
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsIncomplete reports whether err means the buffer ended mid-message.
func IsIncomplete(err error) bool {
	var e *ParseError
	return errors.As(err, &e) && e.Incomplete
}

// Limits bounds what a decoder accepts. Zero fields mean unbounded.
type Limits struct {
	// MaxArrayLen caps the declared element count of one array.
	MaxArrayLen int
	// MaxBulkLen caps the declared length of one bulk string.
	MaxBulkLen int
	// MaxInlineLen caps the length of an inline command line.
	MaxInlineLen int
	// MaxDepth caps array nesting.
	MaxDepth int
}

// maxHeaderLen bounds "*<n>" / "$<n>" / ":<n>" lines when limits are active.
const maxHeaderLen = 32

var crlf = []byte("\r\n")

// Decode parses exactly one value starting at *pos and advances *pos past it.
// On failure *pos is left at the point where decoding stopped.
func Decode(buf []byte, pos *int) (Value, error) {
	return DecodeWithLimits(buf, pos, Limits{})
}

// DecodeWithLimits is Decode with size limits applied.
func DecodeWithLimits(buf []byte, pos *int, limits Limits) (Value, error) {
	d := decoder{buf: buf, pos: *pos, limits: limits}
	defer func() { *pos = d.pos }()

	if d.pos >= len(d.buf) {
		return Value{}, d.incomplete()
	}
	if !isTypePrefix(d.buf[d.pos]) {
		return d.inline()
	}
	return d.value(0)
}

func isTypePrefix(b byte) bool {
	switch b {
	case '*', '$', '+', '-', ':':
		return true
	}
	return false
}

type decoder struct {
	buf    []byte
	pos    int
	limits Limits
}

func (d *decoder) fail(kind error, offset int, format string, args ...any) error {
	return &ParseError{Err: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func (d *decoder) incomplete() error {
	return &ParseError{Err: ErrOutOfBounds, Offset: len(d.buf), Incomplete: true}
}

func (d *decoder) value(depth int) (Value, error) {
	if d.pos >= len(d.buf) {
		return Value{}, d.incomplete()
	}
	if d.limits.MaxDepth > 0 && depth > d.limits.MaxDepth {
		return Value{}, d.fail(ErrLimitExceeded, d.pos, "nesting deeper than %d", d.limits.MaxDepth)
	}

	switch d.buf[d.pos] {
	case '*':
		return d.array(depth)
	case '$':
		return d.bulk()
	case '+':
		d.pos++
		s, err := d.text()
		if err != nil {
			return Value{}, err
		}
		return SimpleString(s), nil
	case '-':
		d.pos++
		s, err := d.text()
		if err != nil {
			return Value{}, err
		}
		return Error(s), nil
	case ':':
		d.pos++
		n, err := d.integer()
		if err != nil {
			return Value{}, err
		}
		return Integer(n), nil
	default:
		return Value{}, d.fail(ErrWrongType, d.pos, "unexpected byte %q", d.buf[d.pos])
	}
}

// arrayHeader reads "*<n>\r\n" and returns n.
func (d *decoder) arrayHeader() (int64, error) {
	d.pos++ // '*'
	start := d.pos
	n, err := d.integer()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, d.fail(ErrInvalidLength, start, "array length %d", n)
	}
	if d.limits.MaxArrayLen > 0 && n > int64(d.limits.MaxArrayLen) {
		return 0, d.fail(ErrLimitExceeded, start, "array length %d exceeds %d", n, d.limits.MaxArrayLen)
	}
	return n, nil
}

func (d *decoder) array(depth int) (Value, error) {
	n, err := d.arrayHeader()
	if err != nil {
		return Value{}, err
	}

	// Every element needs at least 3 bytes, so don't let a hostile header size the slice.
	hint := n
	if rest := int64(len(d.buf)-d.pos) / 3; hint > rest {
		hint = rest
	}
	elems := make([]Value, 0, hint)
	for i := int64(0); i < n; i++ {
		v, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return Value{Kind: KindArray, Array: elems}, nil
}

func (d *decoder) bulk() (Value, error) {
	d.pos++ // '$'
	start := d.pos
	n, err := d.integer()
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		return Null(), nil
	}
	if n < -1 {
		return Value{}, d.fail(ErrInvalidLength, start, "bulk length %d", n)
	}
	if d.limits.MaxBulkLen > 0 && n > int64(d.limits.MaxBulkLen) {
		return Value{}, d.fail(ErrLimitExceeded, start, "bulk length %d exceeds %d", n, d.limits.MaxBulkLen)
	}

	avail := int64(len(d.buf) - d.pos)
	if n > avail-2 {
		return Value{}, d.incomplete()
	}
	end := d.pos + int(n)
	if d.buf[end] != '\r' || d.buf[end+1] != '\n' {
		return Value{}, d.fail(ErrOutOfBounds, end, "bulk string not terminated by CRLF")
	}
	data := d.buf[d.pos:end]
	if !utf8.Valid(data) {
		return Value{}, d.fail(ErrInvalidUTF8, d.pos, "bulk string")
	}
	d.pos = end + 2
	return BulkString(string(data)), nil
}

func (d *decoder) text() (string, error) {
	start := d.pos
	line, err := d.line(0)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(line) {
		return "", d.fail(ErrInvalidUTF8, start, "line")
	}
	return string(line), nil
}

func (d *decoder) integer() (int64, error) {
	start := d.pos
	limit := 0
	if d.limits != (Limits{}) {
		limit = maxHeaderLen
	}
	line, err := d.line(limit)
	if err != nil {
		return 0, err
	}
	if len(line) == 0 {
		return 0, d.fail(ErrParseInt, start, "empty number")
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, d.fail(ErrParseInt, start, "%q", line)
	}
	// Only the canonical form is accepted: no '+', no "-0", no leading zeros.
	if !isCanonical(line, n) {
		return 0, d.fail(ErrParseInt, start, "non-canonical number %q", line)
	}
	return n, nil
}

func isCanonical(line []byte, n int64) bool {
	var tmp [20]byte
	return bytes.Equal(line, strconv.AppendInt(tmp[:0], n, 10))
}

// line returns the bytes up to the next CRLF and moves past it.
func (d *decoder) line(limit int) ([]byte, error) {
	rest := d.buf[d.pos:]
	i := bytes.Index(rest, crlf)
	if i < 0 {
		if limit > 0 && len(rest) > limit {
			return nil, d.fail(ErrLimitExceeded, d.pos, "line longer than %d bytes", limit)
		}
		return nil, d.incomplete()
	}
	if limit > 0 && i > limit {
		return nil, d.fail(ErrLimitExceeded, d.pos, "line longer than %d bytes", limit)
	}
	line := rest[:i]
	d.pos += i + 2
	return line, nil
}

// inline parses a legacy unframed request: one line of space separated words.
func (d *decoder) inline() (Value, error) {
	start := d.pos
	if c := d.buf[start]; !isLetter(c) {
		return Value{}, d.fail(ErrWrongType, start, "inline command must start with a letter, got %q", c)
	}
	line, err := d.line(d.limits.MaxInlineLen)
	if err != nil {
		return Value{}, err
	}
	if !utf8.Valid(line) {
		return Value{}, d.fail(ErrInvalidUTF8, start, "inline command")
	}

	var elems []Value
	for _, tok := range bytes.Split(line, []byte{' '}) {
		if len(tok) == 0 {
			continue
		}
		elems = append(elems, BulkString(string(tok)))
	}
	return Array(elems...), nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
