package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"driver-log-service/internal/domain"
)

// SQLite backed cache mapping address strings to geographic coordinates.
// Address keys are expected to be consistent (e.g., normalized) by the
// caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch cached coordinates for one address. The second return is false on
// a cache miss.
func (s *SqliteGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return domain.Coordinates{}, false, errors.New("get geocode cache: address must not be empty")
	}

	q := `
	SELECT lon, lat
    FROM geocode_cache
    WHERE address = ?;
	`

	var c domain.Coordinates
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, true, nil
}

// Store coordinates for one address, replacing any previous value.
func (s *SqliteGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (address, lon, lat)
    VALUES (?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, address, c.Lon, c.Lat); err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", address, err)
	}

	return nil
}
