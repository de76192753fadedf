package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"driver-log-service/internal/ports"
)

// SQLite backed cache for origin->destination leg distances. Keys are
// expected to be consistent (e.g., already normalized) by the caller.
type SqliteDistanceCache struct {
	DB *sql.DB
}

func NewSqliteDistanceCache(db *sql.DB) *SqliteDistanceCache {
	return &SqliteDistanceCache{DB: db}
}

// Fetch the cached distance for one leg. The second return is false on a
// cache miss.
func (s *SqliteDistanceCache) Get(ctx context.Context, origin, destination string) (ports.DistanceResult, bool, error) {
	if s.DB == nil {
		return ports.DistanceResult{}, false, errors.New("distance cache: db is nil")
	}
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return ports.DistanceResult{}, false, errors.New("get distance cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds
    FROM distance_cache
    WHERE origin = ? AND destination = ?;
	`

	var meters, seconds int
	err := s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&meters, &seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, true, nil
}

// Store the distance for one leg, replacing any previous value.
func (s *SqliteDistanceCache) Put(ctx context.Context, origin, destination string, r ports.DistanceResult) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert distance cache: origin and destination must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO distance_cache (
        origin,
        destination,
        distance_meters,
        duration_seconds
    )
    VALUES (?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, origin, destination, r.DistanceMeters, r.DurationSeconds); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
