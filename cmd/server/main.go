package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"storage-match-service/internal/adapters/cache"
	"storage-match-service/internal/adapters/repositories"
	"storage-match-service/internal/api"
	"storage-match-service/internal/config"
	"storage-match-service/internal/platform/db"
	"storage-match-service/internal/platform/metrics"
	"storage-match-service/internal/ports"
	"storage-match-service/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// main is the application composition root.
// It loads the inventory once, wires the optional result cache, and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	cfg := config.Load()
	setLogger(cfg.LogLevel)
	log.Info().Interface("config", cfg.Redacted()).Msg("config loaded")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqlDB, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	index, err := loadInventory(ctx, cfg, sqlDB)
	if err != nil {
		log.Fatal().Err(err).Msg("inventory load failed")
	}
	metrics.RegisterDefault()
	metrics.InventoryListings.Set(float64(index.ListingCount()))
	metrics.InventoryLocations.Set(float64(index.Len()))
	log.Info().
		Str("source", cfg.InventorySource).
		Int("locations", index.Len()).
		Int("listings", index.ListingCount()).
		Str("fingerprint", index.Fingerprint()).
		Msg("inventory loaded")

	var matchCache ports.MatchCache
	switch cfg.MatchCache() {
	case config.CacheRedis:
		rc, err := cache.NewRedisMatchCacheFromURL(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			// Searches still work without the cache.
			log.Warn().Err(err).Msg("redis unavailable, match cache disabled")
			break
		}
		defer rc.Close()
		matchCache = rc
	case config.CacheSQL:
		if cfg.InventorySource == config.SourcePostgres {
			matchCache = cache.NewPostgresMatchCache(sqlDB, cfg.CacheTTL)
		} else {
			matchCache = cache.NewSqliteMatchCache(sqlDB, cfg.CacheTTL)
		}
	}
	if matchCache != nil {
		log.Info().Str("backend", cfg.MatchCache()).Dur("ttl", cfg.CacheTTL).Msg("match cache enabled")
	}

	router := api.NewRouter(index, matchCache, api.Options{
		MaxTotalQuantity: cfg.MaxTotalQuantity,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// openDatabase opens the configured SQL database and ensures the schema
// exists. It returns nil for the file and http inventory sources.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch cfg.InventorySource {
	case config.SourceSQLite:
		conn, err = db.OpenSQLite(cfg.DBPath)
	case config.SourcePostgres:
		conn, err = db.Open(cfg.DatabaseURL)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := repositories.InitSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// loadInventory reads every listing from the configured source and builds
// the shared index.
func loadInventory(ctx context.Context, cfg *config.Config, conn *sql.DB) (*services.InventoryIndex, error) {
	var repo ports.ListingRepository
	switch {
	case conn != nil:
		repo = repositories.NewSQLListingRepository(conn)
	case cfg.InventorySource == config.SourceHTTP:
		r, err := repositories.NewHTTPListingRepository(cfg.ListingsURL, cfg.ListingsAPIKey)
		if err != nil {
			return nil, err
		}
		repo = r
	default:
		repo = repositories.NewFileListingRepository(cfg.ListingsPath)
	}

	listings, err := repo.ListListings(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewInventoryIndex(listings), nil
}
