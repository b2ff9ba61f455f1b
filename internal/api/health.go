package api

import (
	"net/http"
	"time"

	"github.com/snarg/atc-engine/internal/database"
	"github.com/snarg/atc-engine/internal/ingest"
	"github.com/snarg/atc-engine/internal/process"
)

// WatcherSource exposes the ingest watcher state to the health endpoint.
type WatcherSource interface {
	CurrentStatus() ingest.Status
}

type HealthResponse struct {
	Status        string             `json:"status"`
	Version       string             `json:"version"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	Checks        map[string]string  `json:"checks"`
	Watcher       *ingest.Status     `json:"watcher,omitempty"`
	Queue         *process.QueueStats `json:"queue,omitempty"`
}

type HealthHandler struct {
	db        *database.DB
	pool      *process.Pool
	watcher   WatcherSource
	version   string
	startTime time.Time
}

func NewHealthHandler(db *database.DB, pool *process.Pool, watcher WatcherSource, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		db:        db,
		pool:      pool,
		watcher:   watcher,
		version:   version,
		startTime: startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "healthy"
	httpStatus := http.StatusOK

	if h.db != nil {
		if err := h.db.HealthCheck(r.Context()); err != nil {
			checks["database"] = "error"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not_configured"
	}

	resp := HealthResponse{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        checks,
	}

	if h.watcher != nil {
		ws := h.watcher.CurrentStatus()
		checks["watcher"] = ws.Status
		resp.Watcher = &ws
	}
	if h.pool != nil {
		qs := h.pool.Stats()
		checks["worker_pool"] = "ok"
		resp.Queue = &qs
	}

	WriteJSON(w, httpStatus, resp)
}
