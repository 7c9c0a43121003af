package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kylediaz/kv/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string means raw.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatRaw:
		return FormatRaw, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want raw, json or yaml)", s)
	}
}

// Formatter writes one reply.
type Formatter interface {
	Format(w io.Writer, v resp.Value) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}

// Plain converts a reply to plain Go data: nil, string, int64, []any,
// or map[string]any{"error": msg} for error replies.
func Plain(v resp.Value) any {
	switch v.Kind {
	case resp.KindNull:
		return nil
	case resp.KindInteger:
		return v.Int
	case resp.KindError:
		return map[string]any{"error": v.Str}
	case resp.KindArray:
		out := make([]any, len(v.Array))
		for i, e := range v.Array {
			out[i] = Plain(e)
		}
		return out
	default:
		return v.Str
	}
}
