package output

import (
	"bytes"
	"testing"

	"github.com/kylediaz/kv/pkg/resp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatRaw, false},
		{"raw", FormatRaw, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"table", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json: wrong formatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml: wrong formatter")
	}
	if _, ok := NewFormatter("other").(*RawFormatter); !ok {
		t.Error("default: wrong formatter")
	}
}

func TestRawFormatter(t *testing.T) {
	many := make([]resp.Value, 10)
	for i := range many {
		many[i] = resp.Integer(int64(i))
	}

	tests := []struct {
		name string
		in   resp.Value
		want string
	}{
		{"simple", resp.SimpleString("OK"), "OK\n"},
		{"bulk", resp.BulkString("hello"), "\"hello\"\n"},
		{"bulk escapes", resp.BulkString("a\"b\n\x01"), "\"a\\\"b\\n\\x01\"\n"},
		{"integer", resp.Integer(-3), "(integer) -3\n"},
		{"nil", resp.Null(), "(nil)\n"},
		{"error", resp.Error("ERR syntax error"), "(error) ERR syntax error\n"},
		{"empty array", resp.Array(), "(empty array)\n"},
		{
			"array",
			resp.Array(resp.BulkString("a"), resp.Null(), resp.Integer(2)),
			"1) \"a\"\n2) (nil)\n3) (integer) 2\n",
		},
		{
			"nested",
			resp.Array(resp.Array(resp.BulkString("x"), resp.BulkString("y")), resp.BulkString("z")),
			"1) 1) \"x\"\n   2) \"y\"\n2) \"z\"\n",
		},
		{
			"aligned indices",
			resp.Array(many...),
			" 1) (integer) 0\n 2) (integer) 1\n 3) (integer) 2\n 4) (integer) 3\n 5) (integer) 4\n" +
				" 6) (integer) 5\n 7) (integer) 6\n 8) (integer) 7\n 9) (integer) 8\n10) (integer) 9\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&RawFormatter{}).Format(&buf, tt.in); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	v := resp.Array(resp.BulkString("a"), resp.Null(), resp.Integer(5), resp.Error("ERR x"))
	if err := (&JSONFormatter{}).Format(&buf, v); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[\n  \"a\",\n  null,\n  5,\n  {\n    \"error\": \"ERR x\"\n  }\n]\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestYAMLFormatter(t *testing.T) {
	tests := []struct {
		name string
		in   resp.Value
		want string
	}{
		{"scalar", resp.BulkString("hello"), "hello\n"},
		{"integer", resp.Integer(7), "7\n"},
		{"null", resp.Null(), "null\n"},
		{"array", resp.Array(resp.BulkString("a"), resp.Integer(1)), "- a\n- 1\n"},
		{"error", resp.Error("ERR x"), "error: ERR x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&YAMLFormatter{}).Format(&buf, tt.in); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
