package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/mw"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type group struct {
	name string
	reg  Registrar
}

var groups []group

// Register adds a named route group. Each routes file calls it from init.
func Register(name string, reg Registrar) {
	groups = append(groups, group{name: name, reg: reg})
}

// RegisterAll mounts every group on r, in registration order.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		g.reg(r, d)
		d.Logger.Debug("routes registered", logger.String("group", g.name))
	}
}

// internal limits a route to the configured operator CIDRs.
func internal(d deps.Deps) []Middleware {
	return []Middleware{mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)}
}

// mutating guards routes that change server state: operator CIDRs plus the
// Host allow list.
func mutating(d deps.Deps) []Middleware {
	return append(internal(d), mw.EnforceHost(d.AllowedHosts, d.Logger))
}
