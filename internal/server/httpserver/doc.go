// Package httpserver serves the observability endpoint of kv-server.
//
// Routes:
//   - GET /metrics  Prometheus exposition of the metric registry
//   - GET /health   liveness, always 200 while the process runs
//   - GET /ready    readiness, 503 until the RESP listener is up
//
// Every route runs behind Recover and RequestID; Audit logs each request
// at verbose level.
package httpserver
