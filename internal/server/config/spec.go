package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ServerConfig is the typed configuration for kv-server.
// Field tags are the redis.conf key names.
type ServerConfig struct {
	// Bind is the listen address of the RESP server.
	Bind string `koanf:"bind"`
	// Port is the listen port of the RESP server.
	Port int `koanf:"port"`

	// LogLevel is one of debug, verbose, notice, warning (Redis names)
	// or debug, info, warn, error.
	LogLevel string `koanf:"loglevel"`
	// LogFormat is text or json.
	LogFormat string `koanf:"logformat"`

	// MetricsAddr is the listen address of the observability endpoint.
	// Empty disables it.
	MetricsAddr string `koanf:"metrics-addr"`

	// MaxClientsRate caps commands per second per connection. 0 = unlimited.
	MaxClientsRate int `koanf:"maxclients-rate"`
	// Timeout closes a connection after this many idle seconds. 0 = never.
	Timeout int `koanf:"timeout"`

	ProtoMaxBulkLen        Size `koanf:"proto-max-bulk-len"`
	ClientQueryBufferLimit Size `koanf:"client-query-buffer-limit"`
	ReadChunkSize          Size `koanf:"read-chunk-size"`
}

// Addr returns the RESP listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// IdleTimeout returns Timeout as a duration.
func (c *ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Size is a byte count that accepts Redis memory units
// (1k = 1000, 1kb = 1024, likewise m/mb and g/gb).
type Size int64

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Size) UnmarshalText(text []byte) error {
	n, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = n
	return nil
}

// String renders s in bytes.
func (s Size) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// ParseSize parses a byte count with an optional Redis memory unit.
func ParseSize(v string) (Size, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return 0, fmt.Errorf("invalid size %q", v)
	}

	mult := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(v, u.suffix) {
			mult = u.mult
			v = strings.TrimSuffix(v, u.suffix)
			break
		}
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", v)
	}
	if mult > 1 && n > (1<<63-1)/mult {
		return 0, fmt.Errorf("size %q overflows", v)
	}
	return Size(n * mult), nil
}

// Longer suffixes first so "kb" is not read as "k" + "b".
var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"kb", 1 << 10},
	{"mb", 1 << 20},
	{"gb", 1 << 30},
	{"k", 1000},
	{"m", 1000 * 1000},
	{"g", 1000 * 1000 * 1000},
	{"b", 1},
}
