package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/handlers"
)

func init() { Register("history", registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	r.Get("/api/history", handlers.History(d))

	guarded := r.With(mutating(d)...)
	guarded.Delete("/api/history", handlers.ClearHistory(d))
	guarded.Post("/api/history/rerun", handlers.RerunHistory(d))
}
