package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"driver-log-service/internal/platform/obs"
	"driver-log-service/internal/ports"
)

// SQLDistanceCache is a Postgres-backed cache for leg distances, shared by
// every service instance pointed at the same database.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

// Fetch the cached distance for one leg.
func (s *SQLDistanceCache) Get(ctx context.Context, origin, destination string) (_ ports.DistanceResult, _ bool, err error) {
	defer obs.Time(ctx, "distance.cache.Get")(&err)

	if s.DB == nil {
		return ports.DistanceResult{}, false, errors.New("distance cache: db is nil")
	}
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return ports.DistanceResult{}, false, errors.New("get distance cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds
    FROM distance_cache
    WHERE origin = $1 AND destination = $2;
	`

	var meters, seconds int
	err = s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&meters, &seconds)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, true, nil
}

// Store the distance for one leg.
func (s *SQLDistanceCache) Put(ctx context.Context, origin, destination string, r ports.DistanceResult) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert distance cache: origin and destination must not be empty")
	}

	q := `
	INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`
	if _, err := s.DB.ExecContext(ctx, q, origin, destination, r.DistanceMeters, r.DurationSeconds); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
