package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/nexus/internal/backend"
	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/domain"
	"github.com/MrSnakeDoc/nexus/internal/history"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/metrics"
	"github.com/MrSnakeDoc/nexus/internal/redis"
	"github.com/MrSnakeDoc/nexus/internal/search"
	"github.com/MrSnakeDoc/nexus/internal/sources/platforms"
	"github.com/MrSnakeDoc/nexus/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/nexus/internal/store/redis"
	"github.com/MrSnakeDoc/nexus/internal/store/sqlite"
)

// Store is a history backend.
type Store interface {
	history.KV
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

// Core is the search stack without any outer surface. The HTTP server and
// the CLI commands both run on top of it.
type Core struct {
	Logger       logger.Logger
	Registry     *domain.Registry
	Store        Store
	Ledger       *history.Ledger
	Backend      *backend.Client
	Orchestrator *search.Orchestrator
	Metrics      *metrics.Metrics
}

// NewCore opens the history store, restores the ledger and wires the
// orchestrator. reg may be nil when metrics are not exported.
func NewCore(ctx context.Context, cfg *config.Config, log logger.Logger, reg prometheus.Registerer) (*Core, error) {
	registry, err := platforms.LoadRegistry(cfg.PlatformFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load platforms: %w", err)
	}
	if cfg.PlatformFile != "" {
		log.Info("platform overrides loaded", logger.String("file", cfg.PlatformFile))
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	ledger := history.NewLedger(store, cfg.HistoryKey, log)
	entries, err := ledger.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	m := metrics.New(reg)
	m.HistoryEntries.Set(float64(len(entries)))

	client := backend.New(cfg.BackendURL, cfg.BackendTimeout, log)
	orch := search.New(registry, client, ledger, log, search.Options{
		Timeout: cfg.BackendTimeout,
		Metrics: m,
	})

	log.Info("search core ready",
		logger.String("store", store.Name()),
		logger.Int("history_entries", len(entries)),
		logger.String("backend", cfg.BackendURL),
	)

	return &Core{
		Logger:       log,
		Registry:     registry,
		Store:        store,
		Ledger:       ledger,
		Backend:      client,
		Orchestrator: orch,
		Metrics:      m,
	}, nil
}

func (c *Core) Close() error {
	return c.Store.Close()
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, error) {
	switch cfg.HistoryStore {
	case config.StoreMemory:
		log.Warn("history kept in memory only, it will not survive a restart")
		return memory.NewStore(), nil

	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewStore(client), nil

	case config.StoreSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("history stored in sqlite", logger.String("path", cfg.SQLitePath))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown history store %q", cfg.HistoryStore)
	}
}
