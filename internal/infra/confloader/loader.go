package confloader

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "KV_"

// Loader loads configuration from multiple sources.
// A Loader is not safe for concurrent use.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	stdin     io.Reader
	defaults  map[string]string
	overrides map[string]string
	loaded    bool

	// stdinValues keeps what stdin held so reloads can reapply it.
	stdinValues map[string]string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithStdin reads extra redis.conf lines from r after the file.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithDefaults sets the lowest-precedence values.
func WithDefaults(values map[string]string) Option {
	return func(l *Loader) {
		l.defaults = values
	}
}

// WithOverrides sets the highest-precedence values (--key value flags).
func WithOverrides(values map[string]string) Option {
	return func(l *Loader) {
		l.overrides = values
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources and unmarshals into target.
// Loading order (later sources override earlier):
//  1. Defaults
//  2. Configuration file (redis.conf style, or YAML by extension)
//  3. Stdin lines (redis.conf style)
//  4. Environment variables
//  5. Overrides
//
// Load may be called again to reload; stdin is read on the first call
// only and its values are reused afterwards.
func (l *Loader) Load(target any) (err error) {
	prev := l.k
	l.k = koanf.New(".")
	defer func() {
		if err != nil {
			l.k = prev
		}
	}()

	if err := l.LoadMap(l.defaults); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}

	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if l.stdin != nil {
		values, err := readConf(l.stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		l.stdinValues = values
		l.stdin = nil
	}
	if err := l.LoadMap(l.stdinValues); err != nil {
		return fmt.Errorf("load stdin: %w", err)
	}

	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.LoadMap(l.overrides); err != nil {
		return fmt.Errorf("load overrides: %w", err)
	}

	if target != nil {
		if err := l.Unmarshal(target); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
	}

	l.loaded = true
	return nil
}

// LoadFile loads configuration from a file. Files ending in .yaml or
// .yml are parsed as YAML; anything else as redis.conf lines.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), parserFor(path)); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// LoadEnv loads configuration from environment variables.
// Environment variables use the format: KV_<KEY> with dashes as underscores.
// Example: KV_PROTO_MAX_BULK_LEN=1mb sets proto-max-bulk-len.
func (l *Loader) LoadEnv() error {
	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "_", "-")
		return s
	}

	provider := env.Provider(l.envPrefix, ".", envTransformer)
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

// LoadMap loads configuration from a map of string values.
func (l *Loader) LoadMap(data map[string]string) error {
	if len(data) == 0 {
		return nil
	}
	m := make(mapProvider, len(data))
	for k, v := range data {
		m[strings.ToLower(k)] = v
	}
	if err := l.k.Load(m, nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the loaded configuration into the target struct.
// Uses koanf tags for struct field mapping.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// IsLoaded returns true if configuration has been loaded.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}

// FilePath returns the configuration file path, if any.
func (l *Loader) FilePath() string {
	return l.filePath
}

// Values returns every loaded key with its value rendered as a string,
// the form the configuration table stores.
func (l *Loader) Values() map[string]string {
	all := l.k.All()
	out := make(map[string]string, len(all))
	for k, v := range all {
		out[k] = stringify(v)
	}
	return out
}

// Keys returns all configuration keys in sorted order.
func (l *Loader) Keys() []string {
	keys := l.k.Keys()
	sort.Strings(keys)
	return keys
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return RedisConf()
	}
}

// stringify renders YAML scalars and lists the way redis.conf writes them.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, " ")
	case bool:
		if t {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(t)
	}
}
