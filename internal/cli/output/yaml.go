package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kylediaz/kv/pkg/resp"
)

// YAMLFormatter formats replies as YAML.
type YAMLFormatter struct{}

// Format writes v as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, v resp.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Plain(v)); err != nil {
		return err
	}
	return enc.Close()
}
