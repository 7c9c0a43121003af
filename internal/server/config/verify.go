package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyListener(cfg); err != nil {
		return err
	}
	if err := verifyLimits(cfg); err != nil {
		return err
	}
	return verifyLog(cfg)
}

func verifyListener(cfg *ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", cfg.Port)
	}
	if cfg.Bind == "" {
		return errors.New("bind is required")
	}
	if cfg.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddr); err != nil {
			return fmt.Errorf("metrics-addr: %w", err)
		}
	}
	return nil
}

func verifyLimits(cfg *ServerConfig) error {
	if cfg.MaxClientsRate < 0 {
		return errors.New("maxclients-rate must not be negative")
	}
	if cfg.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if cfg.ProtoMaxBulkLen < 1024*1024 {
		return errors.New("proto-max-bulk-len must be at least 1mb")
	}
	if cfg.ClientQueryBufferLimit < 1024*1024 {
		return errors.New("client-query-buffer-limit must be at least 1mb")
	}
	if cfg.ReadChunkSize < 512 {
		return errors.New("read-chunk-size must be at least 512 bytes")
	}
	return nil
}

func verifyLog(cfg *ServerConfig) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "verbose", "notice", "warning", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid loglevel %q", cfg.LogLevel)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json", "console":
	default:
		return fmt.Errorf("invalid logformat %q", cfg.LogFormat)
	}
	return nil
}
