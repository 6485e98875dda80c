package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/nexus/internal/history"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, historyResponse{Entries: d.Ledger.Entries(r.Context())})
	}
}

func ClearHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Ledger.Clear(r.Context()); err != nil {
			d.Logger.Error("failed to clear history", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to clear history")
			return
		}
		if d.Metrics != nil {
			d.Metrics.HistoryEntries.Set(0)
		}
		d.Logger.Info("search history cleared", logger.String("remote_ip", r.RemoteAddr))
		w.WriteHeader(http.StatusNoContent)
	}
}

// RerunHistory repeats the recorded search named by the term query parameter
// through the regular search path.
func RerunHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("term"))
		if term == "" {
			writeError(w, http.StatusBadRequest, "missing term")
			return
		}

		entry, ok := d.Ledger.Find(r.Context(), term)
		if !ok {
			writeError(w, http.StatusNotFound, "no history entry for "+term)
			return
		}

		runSearch(d, w, r, entry.Term, entry.Platforms)
	}
}
