package config

import "strconv"

// Default configuration values.
const (
	DefaultBind = "127.0.0.1"
	DefaultPort = 6379

	DefaultLogLevel  = "notice"
	DefaultLogFormat = "text"

	DefaultMaxClientsRate = 0
	DefaultTimeout        = 0

	DefaultProtoMaxBulkLen        = 512 << 20
	DefaultClientQueryBufferLimit = 1 << 30
	DefaultReadChunkSize          = 16 << 10
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Bind:                   DefaultBind,
		Port:                   DefaultPort,
		LogLevel:               DefaultLogLevel,
		LogFormat:              DefaultLogFormat,
		MaxClientsRate:         DefaultMaxClientsRate,
		Timeout:                DefaultTimeout,
		ProtoMaxBulkLen:        DefaultProtoMaxBulkLen,
		ClientQueryBufferLimit: DefaultClientQueryBufferLimit,
		ReadChunkSize:          DefaultReadChunkSize,
	}
}

// Defaults returns the default configuration as table entries, the
// lowest-precedence source of the loader.
func Defaults() map[string]string {
	d := Default()
	return map[string]string{
		"bind":                      d.Bind,
		"port":                      strconv.Itoa(d.Port),
		"loglevel":                  d.LogLevel,
		"logformat":                 d.LogFormat,
		"metrics-addr":              d.MetricsAddr,
		"maxclients-rate":           strconv.Itoa(d.MaxClientsRate),
		"timeout":                   strconv.Itoa(d.Timeout),
		"proto-max-bulk-len":        d.ProtoMaxBulkLen.String(),
		"client-query-buffer-limit": d.ClientQueryBufferLimit.String(),
		"read-chunk-size":           d.ReadChunkSize.String(),
	}
}
