package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/nexus/internal/domain"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
)

type platformsResponse struct {
	Platforms []domain.Platform `json:"platforms"`
}

func Platforms(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, platformsResponse{
			Platforms: d.Orchestrator.Registry().List(),
		})
	}
}
