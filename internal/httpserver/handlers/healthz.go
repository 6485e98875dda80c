package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/version"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	Backend       string  `json:"backend"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	version.Info
}

// Healthz is the liveness probe. It reports the last known backend
// availability without probing it.
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Backend:       string(d.Orchestrator.Availability()),
			UptimeSeconds: time.Since(d.StartTime).Seconds(),
			Info:          d.Build,
		})
	}
}
