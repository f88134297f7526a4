package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Inventory sources understood by the server and dbtool.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Match cache backends. An empty CACHE_BACKEND picks redis when REDIS_URL
// is set and none otherwise.
const (
	CacheNone  = "none"
	CacheRedis = "redis"
	CacheSQL   = "sql"
)

type Config struct {
	Port             string
	InventorySource  string
	ListingsPath     string
	ListingsURL      string
	ListingsAPIKey   string
	DBPath           string
	DatabaseURL      string
	RedisURL         string
	CacheBackend     string
	CacheTTL         time.Duration
	MaxTotalQuantity int
	RateLimitRPS     float64
	RateLimitBurst   int
	LogLevel         string
}

// Load reads the service configuration from the environment.
func Load() *Config {
	return &Config{
		Port:             strings.TrimSpace(Get("PORT", "8080")),
		InventorySource:  strings.ToLower(strings.TrimSpace(Get("INVENTORY_SOURCE", SourceFile))),
		ListingsPath:     strings.TrimSpace(Get("LISTINGS_PATH", "data/listings.json")),
		ListingsURL:      strings.TrimSpace(os.Getenv("LISTINGS_URL")),
		ListingsAPIKey:   strings.TrimSpace(os.Getenv("LISTINGS_API_KEY")),
		DBPath:           strings.TrimSpace(Get("DB_PATH", "data/app.db")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		CacheBackend:     strings.ToLower(strings.TrimSpace(os.Getenv("CACHE_BACKEND"))),
		CacheTTL:         getEnvDuration("CACHE_TTL", 5*time.Minute),
		MaxTotalQuantity: getEnvInt("MAX_TOTAL_QUANTITY", 5),
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 10),
		LogLevel:         strings.ToLower(strings.TrimSpace(Get("LOG_LEVEL", "info"))),
	}
}

// Validate reports configuration that would prevent startup.
func (c *Config) Validate() error {
	switch c.InventorySource {
	case SourceFile:
		if c.ListingsPath == "" {
			return errors.New("config: LISTINGS_PATH is required for the file inventory source")
		}
	case SourceHTTP:
		if c.ListingsURL == "" {
			return errors.New("config: LISTINGS_URL is required for the http inventory source")
		}
	case SourceSQLite:
		if c.DBPath == "" {
			return errors.New("config: DB_PATH is required for the sqlite inventory source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres inventory source")
		}
	default:
		return fmt.Errorf("config: unknown INVENTORY_SOURCE %q (want file, http, sqlite or postgres)", c.InventorySource)
	}

	switch c.MatchCache() {
	case CacheNone:
	case CacheRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for the redis match cache")
		}
	case CacheSQL:
		if c.InventorySource != SourceSQLite && c.InventorySource != SourcePostgres {
			return errors.New("config: the sql match cache needs INVENTORY_SOURCE sqlite or postgres")
		}
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q (want redis, sql or none)", c.CacheBackend)
	}

	if c.MaxTotalQuantity < 1 {
		return fmt.Errorf("config: MAX_TOTAL_QUANTITY must be at least 1, got %d", c.MaxTotalQuantity)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("config: RATE_LIMIT_BURST must be at least 1 when rate limiting, got %d", c.RateLimitBurst)
	}
	return nil
}

// MatchCache returns the effective match cache backend.
func (c *Config) MatchCache() string {
	if c.CacheBackend != "" {
		return c.CacheBackend
	}
	if c.RedisURL != "" {
		return CacheRedis
	}
	return CacheNone
}

func (c *Config) HTTPAddr() string {
	return net.JoinHostPort("", c.Port)
}

// Redacted returns a view safe for logging
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"port":              c.Port,
		"inventorySource":   c.InventorySource,
		"listingsPath":      c.ListingsPath,
		"listingsURLSet":    c.ListingsURL != "",
		"listingsAPIKeySet": c.ListingsAPIKey != "",
		"dbPath":            c.DBPath,
		"databaseURLSet":    c.DatabaseURL != "",
		"redisURLSet":       c.RedisURL != "",
		"matchCache":        c.MatchCache(),
		"cacheTTL":          c.CacheTTL.String(),
		"maxTotalQuantity":  c.MaxTotalQuantity,
		"rateLimitRPS":      c.RateLimitRPS,
		"rateLimitBurst":    c.RateLimitBurst,
		"logLevel":          c.LogLevel,
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		iv, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return iv
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid int in environment; using default")
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		fv, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return fv
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid float in environment; using default")
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration in environment; using default")
	}
	return def
}
