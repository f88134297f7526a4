package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storage-match-service/internal/domain"
	"storage-match-service/internal/platform/obs"
	"strings"
	"time"
)

// SQL-backed cache of ranked search results, stored in the match_cache table
// next to the inventory. Works with SQLite and Postgres; only the
// placeholder and upsert syntax differ.
type SQLMatchCache struct {
	DB  *sql.DB
	TTL time.Duration

	getQuery string
	putQuery string
	now      func() time.Time
}

func NewSqliteMatchCache(db *sql.DB, ttl time.Duration) *SQLMatchCache {
	return &SQLMatchCache{
		DB:  db,
		TTL: ttl,
		getQuery: `
	SELECT payload, expires_at
	FROM match_cache
	WHERE cache_key = ?;
	`,
		putQuery: `
	INSERT OR REPLACE INTO match_cache (cache_key, payload, expires_at)
	VALUES (?, ?, ?);
	`,
		now: time.Now,
	}
}

func NewPostgresMatchCache(db *sql.DB, ttl time.Duration) *SQLMatchCache {
	return &SQLMatchCache{
		DB:  db,
		TTL: ttl,
		getQuery: `
	SELECT payload, expires_at
	FROM match_cache
	WHERE cache_key = $1;
	`,
		putQuery: `
	INSERT INTO match_cache (cache_key, payload, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`,
		now: time.Now,
	}
}

// Fetch cached results for key. Expired rows read as a miss.
func (s *SQLMatchCache) Get(ctx context.Context, key string) (_ []domain.LocationResult, _ bool, err error) {
	defer obs.Time(ctx, "match.sqlcache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("match cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get match cache: key must not be empty")
	}

	var payload string
	var expiresAt int64
	err = s.DB.QueryRowContext(ctx, s.getQuery, key).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get match cache: query match_cache table: %w", err)
	}

	if expiresAt != 0 && s.now().UnixMilli() >= expiresAt {
		return nil, false, nil
	}

	out, err := decodeResults([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("get match cache: decode %q: %w", key, err)
	}
	return out, true, nil
}

// Store results under key, replacing any previous entry.
func (s *SQLMatchCache) Put(ctx context.Context, key string, results []domain.LocationResult) error {
	if s.DB == nil {
		return errors.New("match cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("put match cache: key must not be empty")
	}

	payload, err := encodeResults(results)
	if err != nil {
		return fmt.Errorf("put match cache: encode: %w", err)
	}

	var expiresAt int64
	if s.TTL > 0 {
		expiresAt = s.now().Add(s.TTL).UnixMilli()
	}

	if _, err := s.DB.ExecContext(ctx, s.putQuery, key, string(payload), expiresAt); err != nil {
		return fmt.Errorf("put match cache %q: %w", key, err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLMatchCache) Ping(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("match cache: db is nil")
	}
	return s.DB.PingContext(ctx)
}
