// Package metric provides Prometheus metrics for kv.
//
//   - prometheus.go: Registry of server metrics and the /metrics handler
//   - collector.go: Collector sampling store and config table sizes
//
// Metrics include connection counts, per-command counters and latency
// histograms, protocol errors, rate-limited commands and config reloads.
package metric
