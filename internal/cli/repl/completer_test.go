package repl

import (
	"strings"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"CONFIG", []string{"CONFIG GET", "CONFIG SET"}},
		{"m", []string{"MGET", "MSET"}},
		{"inc", []string{"INCR"}},
		{"zz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := c.Complete(tt.prefix)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}

	if len(c.Complete("")) != len(c.commands) {
		t.Error("empty prefix should match every command")
	}
}
