package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"driver-log-service/internal/domain"
	"driver-log-service/internal/platform/obs"
)

// SQLGeocodeCache is a Postgres-backed cache mapping address strings to
// geographic coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch cached coordinates for one address.
func (s *SQLGeocodeCache) Get(ctx context.Context, address string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return domain.Coordinates{}, false, errors.New("get geocode cache: address must not be empty")
	}

	q := `
	SELECT lon, lat
    FROM geocode_cache
    WHERE address = $1;
	`

	var c domain.Coordinates
	err = s.DB.QueryRowContext(ctx, q, address).Scan(&c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, true, nil
}

// Store coordinates for one address.
func (s *SQLGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	q := `
	INSERT INTO geocode_cache (address, lon, lat)
    VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`
	if _, err := s.DB.ExecContext(ctx, q, address, c.Lon, c.Lat); err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", address, err)
	}

	return nil
}
