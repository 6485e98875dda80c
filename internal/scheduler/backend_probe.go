package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/search"
)

// HealthChecker probes the lookup backend and records its availability.
type HealthChecker interface {
	CheckHealth(ctx context.Context) (search.Availability, error)
}

// BackendProbe checks the backend at start, then on every tick and on every
// manual reconnect request.
type BackendProbe struct {
	checker       HealthChecker
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

const defaultInterval = 30 * time.Second

func NewBackendProbe(
	checker HealthChecker,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *BackendProbe {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &BackendProbe{
		checker:       checker,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start probes once synchronously and then keeps probing in the background.
// An offline backend at start is not an error.
func (p *BackendProbe) Start(ctx context.Context) {
	p.Probe(ctx)

	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Probe(ctx)
			case <-p.manualTrigger:
				p.logger.Info("manual backend reconnect triggered")
				p.Probe(ctx)
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (p *BackendProbe) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// Probe runs one health check.
func (p *BackendProbe) Probe(ctx context.Context) search.Availability {
	avail, err := p.checker.CheckHealth(ctx)
	if err != nil {
		p.logger.Warn("backend health check failed", logger.Error(err))
	}
	return avail
}
