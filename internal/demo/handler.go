package demo

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pan93412/Stats/internal/logger"
)

// Handler serves the generated dataset.
type Handler struct {
	now     func() time.Time
	failing atomic.Bool
}

// NewHandler creates a handler that generates data for the time now returns.
// A nil now uses time.Now.
func NewHandler(now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{now: now}
}

// SetFailing makes every data endpoint answer 503 until reset.
func (h *Handler) SetFailing(failing bool) {
	h.failing.Store(failing)
}

// GetHourly serves the hourly series.
func (h *Handler) GetHourly(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(ds *Dataset) any { return ds.Hourly })
}

// GetURLs serves the top paths.
func (h *Handler) GetURLs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(ds *Dataset) any { return ds.URLs })
}

// GetSessions serves the live sessions.
func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(ds *Dataset) any { return ds.Sessions })
}

// GetSummary serves the headline counters.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(ds *Dataset) any { return ds.Summary })
}

// Health reports whether the demo backend is failing.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.failing.Load() {
		http.Error(w, "failing", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ToggleFailure flips the failure mode; ?on=true or ?on=false sets it.
func (h *Handler) ToggleFailure(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("on") {
	case "true", "1":
		h.SetFailing(true)
	case "false", "0":
		h.SetFailing(false)
	default:
		h.SetFailing(!h.failing.Load())
	}
	logger.Info("demo failure mode changed", "failing", h.failing.Load())
	writeJSON(w, map[string]bool{"failing": h.failing.Load()})
}

func (h *Handler) serve(w http.ResponseWriter, pick func(*Dataset) any) {
	if h.failing.Load() {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, pick(Generate(h.now())))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
