package config

import "time"

// CLIConfig is the configuration for kv-cli.
type CLIConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Format  string        `yaml:"format"` // raw, json, yaml
	Timeout time.Duration `yaml:"timeout"`
	// HistoryFile is where the REPL keeps its history. "-" disables it.
	HistoryFile string `yaml:"history_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Host:    "127.0.0.1",
		Port:    6379,
		Format:  "raw",
		Timeout: 5 * time.Second,
	}
}
