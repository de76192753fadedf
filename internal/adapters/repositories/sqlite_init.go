package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		trip_id TEXT PRIMARY KEY,
		start_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		cycle_hours REAL NOT NULL DEFAULT 0,
		property_carry INTEGER NOT NULL DEFAULT 0,
		fuel_interval_mi INTEGER NOT NULL,
		service_minutes INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		distance_miles REAL,
		duration_hours REAL,
		fuel_stops INTEGER,
		arrival_at TEXT,
		estimated INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	`

	createLogEntriesQuery := `
	CREATE TABLE IF NOT EXISTS log_entries (
		entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
		trip_id TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
		sheet_date TEXT NOT NULL,
		status TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		start_location TEXT NOT NULL DEFAULT '',
		end_location TEXT NOT NULL DEFAULT '',
		miles_driven REAL NOT NULL DEFAULT 0,
		remarks TEXT NOT NULL DEFAULT ''
	);
	`

	createProgressQuery := `
	CREATE TABLE IF NOT EXISTS daily_progress (
		trip_id TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
		progress_date TEXT NOT NULL,
		start_location TEXT NOT NULL DEFAULT '',
		end_location TEXT NOT NULL DEFAULT '',
		daily_miles REAL NOT NULL DEFAULT 0,
		cumulative_miles REAL NOT NULL DEFAULT 0,
		driving_hours REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (trip_id, progress_date)
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`

	createEntriesIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_log_entries_trip_sheet
    ON log_entries(trip_id, sheet_date, start_at);
	`

	createDistanceIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`

	statements := []string{
		createTripsQuery,
		createLogEntriesQuery,
		createProgressQuery,
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
		createEntriesIndexQuery,
		createDistanceIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DistanceSeed struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Populate the distance cache from a JSON fixture so trips can be planned
// without calling the routing API.
func SeedDistancesFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed distances: read %q: %w", jsonPath, err)
	}

	var data []DistanceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed distances: parse json: %w", err)
	}

	rows := make([]DistanceSeed, 0, len(data))
	for i, item := range data {
		origin := strings.TrimSpace(item.Origin)
		dest := strings.TrimSpace(item.Destination)
		if origin == "" || dest == "" {
			return fmt.Errorf("seed distances: item at index %d: origin and destination are required", i+1)
		}
		if item.DistanceMeters <= 0 {
			return fmt.Errorf("seed distances: item at index %d: invalid distance %d", i+1, item.DistanceMeters)
		}
		rows = append(rows, DistanceSeed{
			Origin:          origin,
			Destination:     dest,
			DistanceMeters:  item.DistanceMeters,
			DurationSeconds: item.DurationSeconds,
		})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed distances: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO distance_cache (
		origin,
		destination,
		distance_meters,
		duration_seconds
	)
	VALUES (?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed distances: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.Origin, r.Destination, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("seed distances: insert %q -> %q: %w", r.Origin, r.Destination, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed distances: commit tx: %w", err)
	}

	return nil
}
