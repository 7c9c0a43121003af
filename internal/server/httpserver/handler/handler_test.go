package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kylediaz/kv/internal/telemetry/logger"
)

type fakeStats struct{ clients, keys int }

func (f fakeStats) ClientCount() int { return f.clients }
func (f fakeStats) KeyCount() int    { return f.keys }

func decode(t *testing.T, rec *httptest.ResponseRecorder) (Response, HealthStatus) {
	t.Helper()
	var env struct {
		Response
		Data HealthStatus `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return env.Response, env.Data
}

func TestHandleHealth(t *testing.T) {
	h := New(fakeStats{clients: 2, keys: 10}, nil, "1.0.0", logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	env, st := decode(t, rec)
	if env.Code != "OK" || env.RequestID != "req-1" {
		t.Errorf("envelope = %+v", env)
	}
	if st.Status != "healthy" || st.Clients != 2 || st.Keys != 10 || st.Version != "1.0.0" {
		t.Errorf("status = %+v", st)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      func() error
		wantStatus int
		wantCode   string
	}{
		{"nil probe", nil, http.StatusOK, "OK"},
		{"ready", func() error { return nil }, http.StatusOK, "OK"},
		{"not ready", func() error { return errors.New("listener not started") }, http.StatusServiceUnavailable, "KV-SYS-5030"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(nil, tt.ready, "", logger.Discard())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env, _ := decode(t, rec)
			if env.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Code, tt.wantCode)
			}
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New(nil, nil, "", logger.Discard())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
