package main

import (
	"context"
	"database/sql"
	"fmt"
	"storage-match-service/internal/adapters/repositories"
	"storage-match-service/internal/config"
	"storage-match-service/internal/platform/db"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// dbtool creates the listings table and loads SEED_PATH into the database
// selected by INVENTORY_SOURCE (sqlite or postgres).
func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	cfg := config.Load()
	seedPath := config.Get("SEED_PATH", "data/listings.json")

	listings, err := repositories.ReadListingsFile(seedPath)
	if err != nil {
		log.Fatal().Err(err).Msg("reading seed file failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch cfg.InventorySource {
	case config.SourcePostgres:
		if cfg.DatabaseURL == "" {
			log.Fatal().Msg("DATABASE_URL is required")
		}
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres failed")
		}
		defer conn.Close()
		err = initAndSeed(ctx, conn, func() error {
			return repositories.SeedListingsPostgres(ctx, conn, listings)
		})
		if err != nil {
			log.Fatal().Err(err).Msg("seeding postgres failed")
		}
	case config.SourceSQLite:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open sqlite failed")
		}
		defer conn.Close()
		err = initAndSeed(ctx, conn, func() error {
			return repositories.SeedListings(ctx, conn, listings)
		})
		if err != nil {
			log.Fatal().Err(err).Msg("seeding sqlite failed")
		}
	default:
		log.Fatal().Str("source", cfg.InventorySource).Msg("INVENTORY_SOURCE must be sqlite or postgres")
	}

	log.Info().Int("listings", len(listings)).Str("source", cfg.InventorySource).Str("seed", seedPath).Msg("seeding complete")
}

func initAndSeed(ctx context.Context, conn *sql.DB, seed func() error) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	log.Info().Msg("seeding database")
	if err := seed(); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}
