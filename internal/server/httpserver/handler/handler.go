package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kylediaz/kv/internal/telemetry/logger"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Stats reports live server figures for the health payload.
type Stats interface {
	ClientCount() int
	KeyCount() int
}

// Handler serves /health and /ready.
type Handler struct {
	stats   Stats
	ready   func() error
	version string
	logger  logger.Logger
	mux     *http.ServeMux
}

// New creates a Handler. ready reports whether the server can take
// traffic; nil means always ready. stats may be nil.
func New(stats Stats, ready func() error, version string, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		stats:   stats,
		ready:   ready,
		version: version,
		logger:  log,
		mux:     http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

func requestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}
