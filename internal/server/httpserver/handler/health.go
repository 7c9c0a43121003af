package handler

import (
	"net/http"
	"time"
)

func (h *Handler) status(name string) HealthStatus {
	st := HealthStatus{
		Status:  name,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
	}
	if h.stats != nil {
		st.Clients = h.stats.ClientCount()
		st.Keys = h.stats.KeyCount()
	}
	return st
}

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, NewResponse(requestID(r), h.status("healthy")))
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			h.writeJSON(w, r, http.StatusServiceUnavailable,
				NewErrorResponse(requestID(r), "KV-SYS-5030", err.Error()))
			return
		}
	}
	h.writeJSON(w, r, http.StatusOK, NewResponse(requestID(r), h.status("ready")))
}
