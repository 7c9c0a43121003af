package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kv"

// Command outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Registry holds all server metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	ProtocolErrors  prometheus.Counter
	RateLimited     prometheus.Counter

	// Configuration metrics
	ConfigReloads *prometheus.CounterVec
}

// NewRegistry creates a registry with the server metrics and the Go
// runtime and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Number of open client connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_received_total",
			Help:      "Total client connections accepted.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total commands processed by name and outcome.",
		}, []string{"command", "status"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution latency.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"command"}),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Connections closed because of malformed input.",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Commands delayed by the per-connection rate limit.",
		}),
		ConfigReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_reloads_total",
			Help:      "Configuration file reloads by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.CommandsTotal,
		r.CommandDuration,
		r.ProtocolErrors,
		r.RateLimited,
		r.ConfigReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveCommand records one executed command.
func (r *Registry) ObserveCommand(command string, err error, elapsed time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.CommandsTotal.WithLabelValues(command, status).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry in Prometheus format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the /metrics endpoint of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
