package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// History store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per HTTP request, must exceed BackendTimeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Lookup backend
	BackendURL     string        // ex: "http://localhost:5000/api"
	BackendTimeout time.Duration // bounds one search
	HealthInterval time.Duration // period of the availability probe

	// Search history
	HistoryStore string // "sqlite" | "redis" | "memory"
	HistoryKey   string // storage key of the ledger
	SQLitePath   string // database file when HistoryStore is sqlite

	PlatformFile string // optional YAML overrides for platform colors and URLs

	// Redis, only read when HistoryStore is redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict mutating routes to specific Host headers
	AllowedCIDRS []string // optional, restrict mutating routes to specific IPs or ranges
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // optional, origins allowed to call the API from a browser
	RateBurst    int      // requests allowed in a burst per client
	RatePerMin   int      // sustained requests per minute per client
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NEXUS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustPositiveDuration("NEXUS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustPositiveDuration("NEXUS_REQUEST_TIMEOUT", 20*time.Second),

		// Logging
		LogLevel:  getenv("NEXUS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEXUS_PRETTY_LOG", true),

		// Backend
		BackendURL:     strings.TrimRight(getenv("NEXUS_BACKEND_URL", "http://localhost:5000/api"), "/"),
		BackendTimeout: mustPositiveDuration("NEXUS_BACKEND_TIMEOUT", 15*time.Second),
		HealthInterval: mustPositiveDuration("NEXUS_HEALTH_INTERVAL", 30*time.Second),

		// History
		HistoryStore: strings.ToLower(getenv("NEXUS_HISTORY_STORE", StoreSQLite)),
		HistoryKey:   getenv("NEXUS_HISTORY_KEY", "searchHistory"),
		SQLitePath:   getenv("NEXUS_SQLITE_PATH", "nexus.db"),

		PlatformFile: getenv("NEXUS_PLATFORM_FILE", ""),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("NEXUS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("NEXUS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NEXUS_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("NEXUS_CORS_ORIGINS", "")),
		RateBurst:    getenvInt("NEXUS_RATE_BURST", 20),
		RatePerMin:   getenvInt("NEXUS_RATE_PER_MIN", 120),
	}

	switch cfg.HistoryStore {
	case StoreSQLite, StoreMemory:
	case StoreRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: NEXUS_HISTORY_STORE must be one of sqlite, redis, memory (got %q)", cfg.HistoryStore))
	}

	if cfg.RequestTimeout <= cfg.BackendTimeout {
		log.Printf("[WARN] NEXUS_REQUEST_TIMEOUT (%s) should exceed NEXUS_BACKEND_TIMEOUT (%s)", cfg.RequestTimeout, cfg.BackendTimeout)
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("NEXUS_REDIS_ADDR")
	cfg.RedisUser = getenv("NEXUS_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("NEXUS_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("NEXUS_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("NEXUS_REDIS_DB")
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustPositiveDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustPositiveDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustPositiveDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: NEXUS_REDIS_PASSWORD is required when NEXUS_REDIS_PASSWORD_REQUIRED=true")
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustPositiveDuration is mustDuration for values that drive tickers and
// timeouts, where zero or negative would break the service.
func mustPositiveDuration(key string, def time.Duration) time.Duration {
	d := mustDuration(key, def)
	if d <= 0 {
		panic(fmt.Sprintf("❌ FATAL: %s must be a positive duration (got %s)", key, d))
	}
	return d
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
