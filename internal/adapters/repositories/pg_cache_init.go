package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the shared routing-cache schema on Postgres. Trips stay in
// each instance's local SQLite database; only the distance and geocode
// caches are shared fleet-wide.
func InitCacheSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init cache schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init cache schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );`,
		`CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );`,
		`CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init cache schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init cache schema: commit tx: %w", err)
	}

	return nil
}

// Populate the shared Postgres distance cache from a JSON fixture.
func SeedCacheDistances(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed cache distances: read %q: %w", jsonPath, err)
	}

	var data []DistanceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed cache distances: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed cache distances: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed cache distances: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range data {
		origin := strings.TrimSpace(r.Origin)
		dest := strings.TrimSpace(r.Destination)
		if origin == "" || dest == "" {
			return fmt.Errorf("seed cache distances: item at index %d: origin and destination are required", i+1)
		}
		if _, err := stmt.Exec(origin, dest, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("seed cache distances: insert %q -> %q: %w", origin, dest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed cache distances: commit tx: %w", err)
	}

	return nil
}
