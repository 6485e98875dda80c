package deps

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/nexus/internal/history"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/metrics"
	"github.com/MrSnakeDoc/nexus/internal/search"
	"github.com/MrSnakeDoc/nexus/internal/version"
)

// HistoryStore is the key-value backend behind the history ledger, as seen
// by the status endpoints.
type HistoryStore interface {
	Ping(ctx context.Context) error
	Name() string
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Build            version.Info
	AllowedHosts     []string             // Host headers allowed on mutating routes
	AllowedCIDRS     []string             // IPs allowed on mutating routes and readyz
	TrustProxy       bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins      []string             // browser origins allowed to call the API
	RateBurst        int                  // per-client burst
	RatePerMin       int                  // per-client sustained rate
	Orchestrator     *search.Orchestrator // runs searches, holds the current results
	Ledger           *history.Ledger      // search history
	HistoryStore     HistoryStore         // backend of the ledger
	Metrics          *metrics.Metrics     // nil disables instrumentation
	Gatherer         prometheus.Gatherer  // served on /metrics, nil disables it
	ReconnectTrigger chan struct{}        // wakes the backend probe
}
