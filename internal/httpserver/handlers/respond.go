package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/nexus/internal/backend"
	"github.com/MrSnakeDoc/nexus/internal/search"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps a search error onto an HTTP status.
func statusFor(err error) int {
	var rf *backend.RequestFailedError
	switch {
	case errors.Is(err, search.ErrEmptyQuery), errors.Is(err, search.ErrNoPlatforms):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrSearchInProgress):
		return http.StatusConflict
	case errors.Is(err, backend.ErrBackendUnreachable):
		return http.StatusServiceUnavailable
	case errors.As(err, &rf):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
