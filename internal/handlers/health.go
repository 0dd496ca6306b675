package handlers

import (
	"net/http"
	"runtime"
	"time"

	"banner-cache/internal/bannercache"
	"banner-cache/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Ready    bool   `json:"ready"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Scanning bool   `json:"scanning"`
	LastScan string `json:"lastScan,omitempty"`

	IndexedBanners  int `json:"indexedBanners"`
	ResidentBanners int `json:"residentBanners"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports ready once the first scan has finished.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	last := h.scanner.LastResult()
	ready := !last.StartedAt.IsZero()

	var stats bannercache.Stats
	h.withCache(func(c BannerCache) { stats = c.Stats() })

	response := HealthResponse{
		Status:          statusStarting,
		Ready:           ready,
		Version:         startup.Version,
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
		Scanning:        h.scanner.IsScanning(),
		IndexedBanners:  stats.IndexedBanners,
		ResidentBanners: stats.ResidentBanners,
		GoVersion:       runtime.Version(),
		NumCPU:          runtime.NumCPU(),
		NumGoroutine:    runtime.NumGoroutine(),
	}
	if ready {
		response.Status = statusHealthy
		response.LastScan = last.StartedAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if r.Method != http.MethodHead {
		writeJSON(w, response)
	}
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}
