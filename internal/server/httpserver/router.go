package httpserver

import (
	"net/http"

	"github.com/kylediaz/kv/internal/server/httpserver/handler"
	"github.com/kylediaz/kv/internal/telemetry/logger"
	"github.com/kylediaz/kv/internal/telemetry/metric"
)

// RouterConfig holds the dependencies of the observability routes.
type RouterConfig struct {
	// Metrics is the registry served on /metrics. Nil uses metric.Global().
	Metrics *metric.Registry
	// Stats feeds the health payload. May be nil.
	Stats handler.Stats
	// Ready reports readiness. Nil means always ready.
	Ready func() error
	// Version is reported by /health.
	Version string
	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter builds the observability mux.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = metric.Global()
	}

	h := handler.New(cfg.Stats, cfg.Ready, cfg.Version, log)
	common := []Middleware{Recover(log), RequestID(), Audit(log)}

	mux := http.NewServeMux()
	mux.Handle("GET /health", Chain(h, common...))
	mux.Handle("GET /ready", Chain(h, common...))
	mux.Handle("GET /metrics", Chain(metrics.Handler(), common...))
	return mux
}
