package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nexus/internal/backend"
	"github.com/MrSnakeDoc/nexus/internal/domain"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/search"
)

type resultView struct {
	domain.SearchResult
	ProfileURL string                  `json:"profile_url"`
	Analysis   *domain.ProfileAnalysis `json:"analysis,omitempty"`
}

type resultsResponse struct {
	Username string        `json:"username,omitempty"`
	Results  []resultView  `json:"results"`
	Reach    domain.Reach  `json:"reach"`
	Status   search.Status `json:"status"`
}

func newResultsResponse(d deps.Deps, username string, results []domain.SearchResult) resultsResponse {
	views := make([]resultView, 0, len(results))
	for _, res := range results {
		v := resultView{SearchResult: res, ProfileURL: res.ProfileURL()}
		if res.Exists {
			a := domain.Analyze(res)
			v.Analysis = &a
		}
		views = append(views, v)
	}
	return resultsResponse{
		Username: username,
		Results:  views,
		Reach:    domain.AggregateReach(results, d.Orchestrator.Registry().Len()),
		Status:   d.Orchestrator.Status(),
	}
}

// Search runs a lookup for the username path parameter. The optional
// platforms query parameter is a comma separated list of platform names.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(chi.URLParam(r, "username"))
		selected := splitList(r.URL.Query().Get("platforms"))
		runSearch(d, w, r, username, selected)
	}
}

// runSearch is shared by fresh searches and history reruns.
func runSearch(d deps.Deps, w http.ResponseWriter, r *http.Request, username string, selected []string) {
	if d.Orchestrator.Availability() == search.AvailabilityOffline {
		writeError(w, http.StatusServiceUnavailable, backend.ErrBackendUnreachable.Error())
		return
	}

	results, err := d.Orchestrator.Search(r.Context(), username, selected)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			d.Logger.Error("search failed", logger.String("username", username), logger.Error(err))
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newResultsResponse(d, username, results))
}

// Results returns the results of the last successful search.
func Results(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := d.Orchestrator.Results()
		username := ""
		if len(results) > 0 {
			username = results[0].QueryUsername
		}
		writeJSON(w, http.StatusOK, newResultsResponse(d, username, results))
	}
}

// Network returns the cross-platform overview of the last search.
func Network(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Orchestrator.Overview())
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
