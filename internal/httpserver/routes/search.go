package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/handlers"
)

func init() { Register("search", registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.Get("/api/platforms", handlers.Platforms(d))
	r.Get("/api/search", handlers.Search(d))
	r.Get("/api/search/{username}", handlers.Search(d))
	r.Get("/api/results", handlers.Results(d))
	r.Get("/api/network", handlers.Network(d))
	r.Get("/api/status", handlers.Status(d))
}
