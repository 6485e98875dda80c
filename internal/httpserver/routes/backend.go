package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/handlers"
)

func init() { Register("backend", registerBackend) }

func registerBackend(r chi.Router, d deps.Deps) {
	r.With(mutating(d)...).Post("/api/backend/reconnect", handlers.Reconnect(d))
}
