package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/search"
)

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type statusResponse struct {
	Search     search.Status              `json:"search"`
	History    int                        `json:"history_entries"`
	Components map[string]componentStatus `json:"components"`
}

func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := d.Orchestrator.Status()

		components := map[string]componentStatus{
			"backend": {
				OK:   st.Availability != search.AvailabilityOffline,
				Mode: string(st.Availability),
			},
			"history": checkStore(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, statusResponse{
			Search:     st,
			History:    len(d.Ledger.Entries(r.Context())),
			Components: components,
		})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.HistoryStore == nil {
		return componentStatus{OK: false, Error: "store not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.HistoryStore.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.HistoryStore.Name(), Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.HistoryStore.Name()}
}

// Reconnect asks the backend probe to check the backend right away.
func Reconnect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReconnectTrigger <- struct{}{}:
			d.Logger.Info("manual backend reconnect triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "reconnect triggered"})
		default:
			d.Logger.Warn("backend reconnect already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, http.StatusTooManyRequests, "reconnect already in progress, please wait")
		}
	}
}
