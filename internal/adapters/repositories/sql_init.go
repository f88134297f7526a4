package repositories

import (
	"context"
	"database/sql"
	"storage-match-service/internal/domain"
)

// Replace the inventory in a Postgres database with listings.
func SeedListingsPostgres(ctx context.Context, db *sql.DB, listings []domain.Listing) error {
	query := `
	INSERT INTO listings (id, location_id, length, width, price_in_cents, seq)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE
	SET location_id = EXCLUDED.location_id,
		length = EXCLUDED.length,
		width = EXCLUDED.width,
		price_in_cents = EXCLUDED.price_in_cents,
		seq = EXCLUDED.seq;
	`
	return seed(ctx, db, query, listings)
}
