package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kylediaz/kv/pkg/resp"
)

// RawFormatter prints replies the way redis-cli does on a terminal.
type RawFormatter struct{}

// Format writes v followed by a newline.
func (f *RawFormatter) Format(w io.Writer, v resp.Value) error {
	_, err := io.WriteString(w, strings.Join(render(v), "\n")+"\n")
	return err
}

func render(v resp.Value) []string {
	switch v.Kind {
	case resp.KindNull:
		return []string{"(nil)"}
	case resp.KindInteger:
		return []string{"(integer) " + strconv.FormatInt(v.Int, 10)}
	case resp.KindError:
		return []string{"(error) " + v.Str}
	case resp.KindSimpleString:
		return []string{v.Str}
	case resp.KindBulkString:
		return []string{Quote(v.Str)}
	case resp.KindArray:
		if len(v.Array) == 0 {
			return []string{"(empty array)"}
		}
		width := len(strconv.Itoa(len(v.Array)))
		var lines []string
		for i, e := range v.Array {
			label := fmt.Sprintf("%*d) ", width, i+1)
			pad := strings.Repeat(" ", len(label))
			for j, line := range render(e) {
				if j == 0 {
					lines = append(lines, label+line)
				} else {
					lines = append(lines, pad+line)
				}
			}
		}
		return lines
	default:
		return []string{v.String()}
	}
}

// Quote renders s in double quotes, escaping control and non-ASCII
// bytes as redis-cli does.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
