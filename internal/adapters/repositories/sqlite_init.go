package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storage-match-service/internal/domain"
)

const createListingsQuery = `
	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		length INTEGER NOT NULL CHECK (length > 0),
		width INTEGER NOT NULL CHECK (width > 0),
		price_in_cents INTEGER NOT NULL CHECK (price_in_cents >= 0),
		seq INTEGER NOT NULL
	);
	`

const createListingsIndexQuery = `
	CREATE INDEX IF NOT EXISTS idx_listings_location_seq
	ON listings(location_id, seq);
	`

const createMatchCacheQuery = `
	CREATE TABLE IF NOT EXISTS match_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at BIGINT NOT NULL DEFAULT 0
	);
	`

// Initialize the listings and match cache schema. The DDL is portable between SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		createListingsQuery,
		createListingsIndexQuery,
		createMatchCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the inventory in a SQLite database with listings. Rows not in
// listings are removed; seq records the seed order.
func SeedListings(ctx context.Context, db *sql.DB, listings []domain.Listing) error {
	query := `
	INSERT OR REPLACE INTO listings (
		id,
		location_id,
		length,
		width,
		price_in_cents,
		seq
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	return seed(ctx, db, query, listings)
}

func seed(ctx context.Context, db *sql.DB, query string, listings []domain.Listing) error {
	if db == nil {
		return errors.New("seed listings: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed listings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// A seed is the whole inventory, not a patch.
	if _, err := tx.ExecContext(ctx, `DELETE FROM listings;`); err != nil {
		return fmt.Errorf("seed listings: clear listings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed listings: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range listings {
		if _, err := stmt.ExecContext(ctx, l.ID, l.LocationID, l.Length, l.Width, l.PriceInCents, i); err != nil {
			return fmt.Errorf("seed listings: insert id=%q: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed listings: commit tx: %w", err)
	}

	return nil
}
