package resp

import (
	"bufio"
	"strconv"
	"strings"
)

// lineSanitizer keeps simple strings and errors on a single line.
var lineSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// Encode returns the wire form of v.
func Encode(v Value) []byte {
	return v.AppendTo(nil)
}

// AppendTo appends the wire form of v to dst and returns the extended slice.
func (v Value) AppendTo(dst []byte) []byte {
	switch v.Kind {
	case KindNull:
		return append(dst, "$-1\r\n"...)
	case KindSimpleString:
		dst = append(dst, '+')
		dst = append(dst, lineSanitizer.Replace(v.Str)...)
		return append(dst, '\r', '\n')
	case KindError:
		dst = append(dst, '-')
		dst = append(dst, lineSanitizer.Replace(v.Str)...)
		return append(dst, '\r', '\n')
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Int, 10)
		return append(dst, '\r', '\n')
	case KindBulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Str)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, v.Str...)
		return append(dst, '\r', '\n')
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Array)), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range v.Array {
			dst = e.AppendTo(dst)
		}
		return dst
	default:
		return dst
	}
}

// Write encodes v into w. The caller flushes.
func Write(w *bufio.Writer, v Value) error {
	_, err := w.Write(v.AppendTo(w.AvailableBuffer()))
	return err
}
