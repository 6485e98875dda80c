package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Backend string `json:"backend"`
	Store   string `json:"store,omitempty"`
}

// Readyz reports ready when the history store answers. The lookup backend
// being offline does not make the service unready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := checkStore(r.Context(), d)
		resp := readyzResponse{
			Ready:   store.OK,
			Backend: string(d.Orchestrator.Availability()),
			Store:   store.Error,
		}
		if !store.OK {
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
