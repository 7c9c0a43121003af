package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kylediaz/kv/internal/infra/buildinfo"
	"github.com/kylediaz/kv/internal/infra/confloader"
	"github.com/kylediaz/kv/internal/infra/shutdown"
	"github.com/kylediaz/kv/internal/server/config"
	"github.com/kylediaz/kv/internal/server/httpserver"
	"github.com/kylediaz/kv/internal/server/redisserver"
	"github.com/kylediaz/kv/internal/storage/memory"
	"github.com/kylediaz/kv/internal/telemetry/logger"
	"github.com/kylediaz/kv/internal/telemetry/metric"
	"github.com/kylediaz/kv/pkg/resp"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	if len(argv) == 1 && (argv[0] == "--version" || argv[0] == "-v") {
		fmt.Println("kv-server " + buildinfo.String())
		return nil
	}

	// Malformed pairs are skipped; the rest of the command line still applies.
	args, err := confloader.ParseArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	loader := newLoader(args)
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = log.With("run_id", uuid.NewString())
	logger.SetDefault(log)

	log.Info(buildinfo.Banner("kv-server"))
	logger.Verbose(log, "configuration loaded", "file", args.ConfigFile, "values", config.Sanitize(loader.Values()))

	table := config.NewTable(loader.Values())
	store := memory.New()
	metrics := metric.Global()
	metrics.MustRegister(metric.NewCollector(store, table))

	srv := redisserver.New(serverConfig(cfg), redisserver.NewDispatcher(store, table),
		redisserver.WithLogger(log),
		redisserver.WithMetrics(metrics),
	)
	applyChanges(table, srv, log)

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}
	log.Info("ready to accept connections", "addr", srv.Addr().String())

	sh := shutdown.NewHandler(shutdownTimeout, log)
	sh.OnShutdown("resp server", srv.Shutdown)

	if cfg.MetricsAddr != "" {
		h := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics,
			Stats:   stats{srv: srv, store: store},
			Ready: func() error {
				if srv.Addr() == nil {
					return errors.New("resp listener not started")
				}
				return nil
			},
			Version: buildinfo.Get().Version,
			Logger:  log,
		})
		hs := httpserver.New(cfg.MetricsAddr, h, log)
		if err := hs.Start(); err != nil {
			_ = srv.Shutdown(ctx)
			return fmt.Errorf("listen %s: %w", cfg.MetricsAddr, err)
		}
		log.Info("metrics endpoint listening", "addr", hs.Addr().String())
		sh.OnShutdown("http server", hs.Shutdown)
	}

	if args.ConfigFile != "" {
		w, err := watchConfig(args.ConfigFile, loader, table, metrics, log)
		if err != nil {
			log.Warn("config file not watched", "file", args.ConfigFile, "error", err)
		} else {
			sh.OnShutdown("config watcher", func(context.Context) error { return w.Stop() })
		}
	}

	if err := sh.Wait(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func newLoader(args confloader.Args) *confloader.Loader {
	opts := []confloader.Option{
		confloader.WithDefaults(config.Defaults()),
		confloader.WithOverrides(args.Overrides),
	}
	if args.ConfigFile != "" {
		opts = append(opts, confloader.WithConfigFile(args.ConfigFile))
	}
	if args.Stdin {
		opts = append(opts, confloader.WithStdin(os.Stdin))
	}
	return confloader.NewLoader(opts...)
}

func serverConfig(cfg *config.ServerConfig) *redisserver.Config {
	sc := redisserver.DefaultConfig()
	sc.Addr = cfg.Addr()
	sc.IdleTimeout = cfg.IdleTimeout()
	sc.RateLimit = cfg.MaxClientsRate

	limits := resp.DefaultLimits()
	limits.MaxBulkLen = int(cfg.ProtoMaxBulkLen)
	sc.Limits = limits
	sc.MaxQueryBuffer = int(cfg.ClientQueryBufferLimit)
	sc.ReadChunkSize = int(cfg.ReadChunkSize)
	return sc
}

// applyChanges makes runtime-tunable entries take effect when they change
// through CONFIG SET or a reload.
func applyChanges(table *config.Table, srv *redisserver.Server, log logger.Logger) {
	table.OnChange(func(key, value string) {
		var err error
		switch key {
		case "loglevel":
			err = logger.SetLevel(value)
		case "timeout":
			var secs int
			if secs, err = strconv.Atoi(value); err == nil {
				srv.SetIdleTimeout(time.Duration(max(secs, 0)) * time.Second)
			}
		case "maxclients-rate":
			var n int
			if n, err = strconv.Atoi(value); err == nil {
				srv.SetRateLimit(n)
			}
		default:
			return
		}
		if err != nil {
			log.Warn("config value not applied", "key", key, "error", err)
			return
		}
		log.Info("config value applied", "key", key, "value", value)
	})
}

func watchConfig(path string, loader *confloader.Loader, table *config.Table, m *metric.Registry, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		if err := reload(loader, table); err != nil {
			m.ConfigReloads.WithLabelValues(metric.StatusError).Inc()
			log.Error("config reload failed", "file", path, "error", err)
			return
		}
		m.ConfigReloads.WithLabelValues(metric.StatusOK).Inc()
	})
	w.StartAsync()
	return w, nil
}

// reload re-reads every source and merges the entries that changed into
// table, provided the full configuration still verifies.
func reload(loader *confloader.Loader, table *config.Table) error {
	cfg := config.Default()
	changed, err := loader.Reload(nil, cfg)
	if err != nil {
		return err
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}
	if len(changed) > 0 {
		table.Merge(changed)
	}
	logger.Info("config reloaded", "changed", len(changed))
	return nil
}

type stats struct {
	srv   *redisserver.Server
	store *memory.Store
}

func (s stats) ClientCount() int { return s.srv.ClientCount() }
func (s stats) KeyCount() int    { return s.store.Len() }
