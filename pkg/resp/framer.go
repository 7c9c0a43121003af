package resp

import "fmt"

// Protocol bounds applied by DefaultLimits, matching the Redis defaults.
const (
	DefaultMaxArrayLen  = 1024 * 1024
	DefaultMaxBulkLen   = 512 * 1024 * 1024
	DefaultMaxInlineLen = 64 * 1024
	DefaultMaxDepth     = 64

	// DefaultMaxBuffered bounds the unconsumed bytes a Framer holds (1GB).
	DefaultMaxBuffered = 1024 * 1024 * 1024
)

// DefaultLimits returns the limits used for client connections.
func DefaultLimits() Limits {
	return Limits{
		MaxArrayLen:  DefaultMaxArrayLen,
		MaxBulkLen:   DefaultMaxBulkLen,
		MaxInlineLen: DefaultMaxInlineLen,
		MaxDepth:     DefaultMaxDepth,
	}
}

// initialArrayCap bounds the capacity reserved from an array header
// before its elements arrive.
const initialArrayCap = 1024

// Framer turns a byte stream into complete messages. Bytes arrive through
// Feed in whatever chunks the transport produced; Next hands out one
// message at a time regardless of how they were split or pipelined.
//
// Arrays are decoded element by element. Elements already decoded are
// kept across calls, so a large request arriving over many reads is
// scanned once.
//
// A Framer is not safe for concurrent use.
type Framer struct {
	buf         []byte
	start       int
	limits      Limits
	maxBuffered int

	// stack holds the open arrays of a partly decoded message, outermost first.
	stack []partialArray
	// consumed counts the bytes of the current message already in stack.
	consumed int
}

type partialArray struct {
	elems []Value
	want  int
}

// NewFramer creates a Framer. maxBuffered <= 0 disables the buffer bound.
func NewFramer(limits Limits, maxBuffered int) *Framer {
	return &Framer{
		limits:      limits,
		maxBuffered: maxBuffered,
	}
}

// Feed appends p to the pending bytes.
func (f *Framer) Feed(p []byte) error {
	f.compact()
	f.buf = append(f.buf, p...)
	if f.maxBuffered > 0 && f.Buffered() > f.maxBuffered {
		return &ParseError{
			Err:    ErrLimitExceeded,
			Offset: len(f.buf),
			Detail: fmt.Sprintf("query buffer exceeds %d bytes", f.maxBuffered),
		}
	}
	return nil
}

// Next returns the next complete message. ok is false when the pending
// bytes do not yet hold a whole message; feed more and call again.
// A non-nil error means the stream is malformed and cannot be resumed.
func (f *Framer) Next() (v Value, ok bool, err error) {
	if len(f.stack) == 0 {
		// Bare CRLFs between requests are ignored, as redis-server does.
		for {
			rest := f.buf[f.start:]
			if len(rest) >= 2 && rest[0] == '\r' && rest[1] == '\n' {
				f.start += 2
				continue
			}
			if len(rest) == 0 || (len(rest) == 1 && rest[0] == '\r') {
				return Value{}, false, nil
			}
			break
		}

		if f.buf[f.start] != '*' {
			pos := f.start
			v, err = DecodeWithLimits(f.buf, &pos, f.limits)
			if err != nil {
				return Value{}, false, pending(err)
			}
			f.start = pos
			return v, true, nil
		}
	}

	for {
		if n := len(f.stack); n > 0 && len(f.stack[n-1].elems) == f.stack[n-1].want {
			done := Value{Kind: KindArray, Array: f.stack[n-1].elems}
			f.stack = f.stack[:n-1]
			if len(f.stack) == 0 {
				f.consumed = 0
				return done, true, nil
			}
			top := &f.stack[len(f.stack)-1]
			top.elems = append(top.elems, done)
			continue
		}

		if f.start >= len(f.buf) {
			return Value{}, false, nil
		}

		depth := len(f.stack)
		d := decoder{buf: f.buf, pos: f.start, limits: f.limits}
		if f.buf[f.start] == '*' {
			if f.limits.MaxDepth > 0 && depth > f.limits.MaxDepth {
				return Value{}, false, d.fail(ErrLimitExceeded, d.pos, "nesting deeper than %d", f.limits.MaxDepth)
			}
			n, err := d.arrayHeader()
			if err != nil {
				return Value{}, false, pending(err)
			}
			f.advance(d.pos)
			f.stack = append(f.stack, partialArray{
				elems: make([]Value, 0, min(n, initialArrayCap)),
				want:  int(n),
			})
			continue
		}

		elem, err := d.value(depth)
		if err != nil {
			return Value{}, false, pending(err)
		}
		f.advance(d.pos)
		top := &f.stack[len(f.stack)-1]
		top.elems = append(top.elems, elem)
	}
}

// pending maps an incomplete-input error to nil: the caller waits for more bytes.
func pending(err error) error {
	if IsIncomplete(err) {
		return nil
	}
	return err
}

func (f *Framer) advance(pos int) {
	f.consumed += pos - f.start
	f.start = pos
}

// Buffered returns the number of bytes fed but not yet returned as part
// of a message, including those of a partly decoded array.
func (f *Framer) Buffered() int {
	return len(f.buf) - f.start + f.consumed
}

// Reset drops all pending bytes and any partly decoded message.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
	f.start = 0
	f.stack = nil
	f.consumed = 0
}

func (f *Framer) compact() {
	switch {
	case f.start == 0:
	case f.start == len(f.buf):
		f.buf = f.buf[:0]
		f.start = 0
	case f.start >= len(f.buf)/2:
		n := copy(f.buf, f.buf[f.start:])
		f.buf = f.buf[:n]
		f.start = 0
	}
}
