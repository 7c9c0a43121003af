package command

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kylediaz/kv/internal/cli/config"
	"github.com/kylediaz/kv/internal/cli/output"
	"github.com/kylediaz/kv/internal/infra/buildinfo"
)

// ErrReply is returned in one-shot mode when the server answered with an
// error reply. The reply has already been printed.
var ErrReply = errors.New("server replied with an error")

// App creates the CLI application.
func App() *cli.App {
	// -h selects the host, as in redis-cli.
	cli.HelpFlag = &cli.BoolFlag{
		Name:  "help",
		Usage: "show help",
	}

	return &cli.App{
		Name:            "kv-cli",
		Usage:           "command-line client for kv-server",
		UsageText:       "kv-cli [options] [command [arg...]]",
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		Action:          run,
		HideHelpCommand: true,
	}
}

// globalFlags returns the CLI flags. None carry a Value so that unset
// flags fall back to the config file.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Aliases:     []string{"h"},
			Usage:       "server hostname",
			EnvVars:     []string{"KV_CLI_HOST"},
			DefaultText: "127.0.0.1",
		},
		&cli.IntFlag{
			Name:        "port",
			Aliases:     []string{"p"},
			Usage:       "server port",
			EnvVars:     []string{"KV_CLI_PORT"},
			DefaultText: "6379",
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"o"},
			Usage:       "reply format: raw, json, yaml",
			EnvVars:     []string{"KV_CLI_FORMAT"},
			DefaultText: "raw",
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Aliases:     []string{"t"},
			Usage:       "dial and reply timeout",
			DefaultText: "5s",
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "CLI config file",
			EnvVars:     []string{"KV_CLI_CONFIG"},
			DefaultText: "~/.kvcli.yaml",
		},
		&cli.StringFlag{
			Name:        "history",
			Usage:       "REPL history file, - to disable",
			DefaultText: "~/.kvcli_history",
		},
	}
}

// Options are the resolved connection and display settings.
type Options struct {
	Host        string
	Port        int
	Format      output.Format
	Timeout     time.Duration
	HistoryFile string
}

// Addr returns host:port.
func (o *Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// ParseOptions loads the config file and applies the flags that were set.
func ParseOptions(c *cli.Context) (*Options, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("history") {
		cfg.HistoryFile = c.String("history")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.Default().Timeout
	}

	return &Options{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Format:      format,
		Timeout:     cfg.Timeout,
		HistoryFile: cfg.HistoryFile,
	}, nil
}
