package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storage-match-service/internal/domain"
	"storage-match-service/internal/platform/obs"
)

// SQL-backed implementation of the ListingRepository port.
// The query is plain SQL and runs unchanged on SQLite and Postgres.
type SQLListingRepository struct{ DB *sql.DB }

func NewSQLListingRepository(db *sql.DB) *SQLListingRepository {
	return &SQLListingRepository{DB: db}
}

// Return all listings in seed order.
func (s *SQLListingRepository) ListListings(ctx context.Context) (_ []domain.Listing, err error) {
	defer obs.Time(ctx, "listings.sql.ListListings")(&err)

	if s.DB == nil {
		return nil, errors.New("sql listing repository: DB is nil")
	}

	query := `
	SELECT
		id,
		location_id,
		length,
		width,
		price_in_cents
	FROM listings
	ORDER BY seq, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list listings: query listings table: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0, 64)
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.ID, &l.LocationID, &l.Length, &l.Width, &l.PriceInCents); err != nil {
			return nil, fmt.Errorf("list listings: scan row: %w", err)
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("list listings: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: row iteration: %w", err)
	}

	return listings, nil
}
