package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/httpserver"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/scheduler"
	"github.com/MrSnakeDoc/nexus/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	core   *Core
	server *httpserver.Server
	probe  *scheduler.BackendProbe
}

// New wires the core, the availability probe and the HTTP server.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	core, err := NewCore(ctx, cfg, loggerClient, reg)
	if err != nil {
		return nil, err
	}

	reconnectTrigger := make(chan struct{}, 1)
	probe := scheduler.NewBackendProbe(core.Orchestrator, loggerClient, cfg.HealthInterval, reconnectTrigger)

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Build:            version.Get(),
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		CORSOrigins:      cfg.CORSOrigins,
		RateBurst:        cfg.RateBurst,
		RatePerMin:       cfg.RatePerMin,
		Orchestrator:     core.Orchestrator,
		Ledger:           core.Ledger,
		HistoryStore:     core.Store,
		Metrics:          core.Metrics,
		Gatherer:         reg,
		ReconnectTrigger: reconnectTrigger,
	}

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		core:   core,
		server: httpserver.New(cfg, loggerClient, d),
		probe:  probe,
	}, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting Nexus %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.Get().String())

	a.probe.Start(ctx)
	a.logger.Info("backend probe started",
		logger.String("backend", a.cfg.BackendURL),
		logger.Duration("interval", a.cfg.HealthInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.probe.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.core.Close(); err != nil {
		a.logger.Warnf("failed to close %s store: %v", a.core.Store.Name(), err)
	} else {
		a.logger.Infof("✅ %s store closed cleanly", a.core.Store.Name())
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ Nexus stopped cleanly")
	return nil
}
